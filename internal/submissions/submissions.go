// Package submissions turns a completed draft into a stored contribution:
// photos are uploaded to blob storage concurrently, then exactly one
// contribution row is inserted with status pending.
package submissions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/internal/geolocation"
)

// Domain errors for submissions.
var (
	ErrMissingProduct = errors.New("product image required")
	ErrUploadFailed   = errors.New("image upload failed")
	ErrPersistFailed  = errors.New("failed to save contribution")
)

// MapHTTPStatus maps submission errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingProduct) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrUploadFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Submission is everything collected by the wizard. Brand, Manufacturer and
// PlasticType are stored as suggestions; only review confirms them.
type Submission struct {
	Images        capture.Images
	Location      geolocation.Location
	BeachName     string
	Brand         string
	Manufacturer  string
	PlasticType   string
	Notes         string
	ContributorID string
}
