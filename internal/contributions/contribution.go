// Package contributions implements the contribution domain for Shoreline.
// It stores submitted plastic-waste reports and performs the one-way
// review transition from pending to classified or rejected.
package contributions

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contribution status values. A contribution leaves StatusPending exactly once.
const (
	StatusPending    = "pending"
	StatusClassified = "classified"
	StatusRejected   = "rejected"
)

// Contribution is a submitted report. The confirmed Brand, Manufacturer and
// PlasticType stay nil until a reviewer classifies it.
type Contribution struct {
	ID                     uuid.UUID  `json:"id"`
	ProductImageURL        string     `json:"product_image_url"`
	BackImageURL           *string    `json:"back_image_url"`
	RecyclingImageURL      *string    `json:"recycling_image_url"`
	ManufacturerImageURL   *string    `json:"manufacturer_image_url"`
	Latitude               float64    `json:"latitude"`
	Longitude              float64    `json:"longitude"`
	LocationAccuracy       *float64   `json:"location_accuracy"`
	BeachName              *string    `json:"beach_name"`
	BrandSuggestion        *string    `json:"brand_suggestion"`
	ManufacturerSuggestion *string    `json:"manufacturer_suggestion"`
	PlasticTypeSuggestion  *string    `json:"plastic_type_suggestion"`
	Brand                  *string    `json:"brand"`
	Manufacturer           *string    `json:"manufacturer"`
	PlasticType            *string    `json:"plastic_type"`
	Notes                  *string    `json:"notes"`
	ContributorID          *string    `json:"contributor_id"`
	Status                 string     `json:"status"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
	ClassifiedAt           *time.Time `json:"classified_at"`
	ReviewedBy             *string    `json:"reviewed_by"`
	ReviewNotes            *string    `json:"review_notes"`
}

// CreateCommand carries a new contribution. ID is chosen by the caller so
// blob keys can be derived before the row exists; a zero ID is generated.
// The status is always pending regardless of input.
type CreateCommand struct {
	ID                     uuid.UUID
	ProductImageURL        string
	BackImageURL           *string
	RecyclingImageURL      *string
	ManufacturerImageURL   *string
	Latitude               float64
	Longitude              float64
	LocationAccuracy       *float64
	BeachName              *string
	BrandSuggestion        *string
	ManufacturerSuggestion *string
	PlasticTypeSuggestion  *string
	Notes                  *string
	ContributorID          *string
}

func (c CreateCommand) validate() error {
	if strings.TrimSpace(c.ProductImageURL) == "" {
		return fmt.Errorf("%w: product image required", ErrInvalidContribution)
	}
	if !finite(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrInvalidContribution)
	}
	if !finite(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrInvalidContribution)
	}
	return nil
}

// Decision is the reviewer's verdict.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status returns the contribution status a decision transitions to.
func (d Decision) Status() (string, bool) {
	switch d {
	case DecisionApprove:
		return StatusClassified, true
	case DecisionReject:
		return StatusRejected, true
	default:
		return "", false
	}
}

// ClassifyCommand carries a review. Brand, Manufacturer and PlasticType are
// the confirmed values; empty strings are stored as NULL. BeachName and
// Notes replace the contributor's values only when non-nil.
type ClassifyCommand struct {
	Decision     Decision `json:"decision"`
	Brand        string   `json:"brand"`
	Manufacturer string   `json:"manufacturer"`
	PlasticType  string   `json:"plastic_type"`
	BeachName    *string  `json:"beach_name,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	ReviewNotes  string   `json:"review_notes"`
	ReviewedBy   string   `json:"reviewed_by"`
}

// Validate checks the command before any data access.
// Approval requires brand and manufacturer; rejection accepts empty fields.
func (c ClassifyCommand) Validate() error {
	if _, ok := c.Decision.Status(); !ok {
		return fmt.Errorf("%w: unknown decision %q", ErrInvalidReview, c.Decision)
	}
	if c.Decision == DecisionApprove {
		if strings.TrimSpace(c.Brand) == "" {
			return fmt.Errorf("%w: brand required", ErrInvalidReview)
		}
		if strings.TrimSpace(c.Manufacturer) == "" {
			return fmt.Errorf("%w: manufacturer required", ErrInvalidReview)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
