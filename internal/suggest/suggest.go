// Package suggest asks a vision model for brand, manufacturer, and plastic type
// suggestions from contribution photos. Every attempt is gated by the runtime
// AI flag and raced against a fixed timeout; there are no retries.
package suggest

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/internal/geolocation"
)

// FlagSource reports whether AI suggestions are currently enabled.
// It is consulted before every attempt.
type FlagSource interface {
	AIEnabled(ctx context.Context) (bool, error)
}

// Classifier produces a suggestion for a request. Implementations should
// return promptly once ctx is cancelled.
type Classifier interface {
	Suggest(ctx context.Context, req Request) (Suggestion, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, req Request) (Suggestion, error)

func (f ClassifierFunc) Suggest(ctx context.Context, req Request) (Suggestion, error) {
	return f(ctx, req)
}

// Request carries the photos and optional location sent to the classifier.
// ID tags the attempt; a zero ID is replaced with a fresh one.
type Request struct {
	ID       uuid.UUID
	Images   capture.Images
	Location *geolocation.Location
}

// Suggestion is a partial metadata guess. Nil fields were not suggested.
type Suggestion struct {
	Brand        *string `json:"brand,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	PlasticType  *string `json:"plastic_type,omitempty"`
}

// Result is a settled suggestion tagged with the request that produced it.
type Result struct {
	RequestID  uuid.UUID  `json:"request_id"`
	Suggestion Suggestion `json:"suggestion"`
}

// Fields is the user-editable text the suggestion is merged into.
type Fields struct {
	Brand        string
	Manufacturer string
	PlasticType  string
}

// MergeInto fills empty fields with suggested values. Text the user already
// typed is never overwritten, and blank suggestions are ignored.
func (s Suggestion) MergeInto(f Fields) Fields {
	f.Brand = fill(f.Brand, s.Brand)
	f.Manufacturer = fill(f.Manufacturer, s.Manufacturer)
	f.PlasticType = fill(f.PlasticType, s.PlasticType)
	return f
}

// Empty reports whether the suggestion carries no usable value.
func (s Suggestion) Empty() bool {
	return blank(s.Brand) && blank(s.Manufacturer) && blank(s.PlasticType)
}

func fill(current string, suggested *string) string {
	if strings.TrimSpace(current) != "" || blank(suggested) {
		return current
	}
	return strings.TrimSpace(*suggested)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
