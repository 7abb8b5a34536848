package contributions

import (
	"errors"
	"net/http"
)

// Domain errors for contribution operations.
var (
	ErrNotFound            = errors.New("contribution not found")
	ErrDuplicate           = errors.New("contribution already exists")
	ErrAlreadyReviewed     = errors.New("contribution already reviewed")
	ErrInvalidReview       = errors.New("invalid review")
	ErrInvalidContribution = errors.New("invalid contribution")
	ErrPersistFailed       = errors.New("failed to persist contribution")
)

// MapHTTPStatus maps contribution domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrAlreadyReviewed) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidReview) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrInvalidContribution) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
