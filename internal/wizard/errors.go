package wizard

import (
	"errors"
	"net/http"
)

// Domain errors for the contribution wizard.
var (
	ErrNotFound             = errors.New("draft not found")
	ErrInvalidStep          = errors.New("operation not allowed at this step")
	ErrInvalidRequest       = errors.New("invalid draft request")
	ErrLocationRequired     = errors.New("location required")
	ErrProductRequired      = errors.New("product image required")
	ErrBrandRequired        = errors.New("brand required")
	ErrManufacturerRequired = errors.New("manufacturer required")
)

// MapHTTPStatus maps wizard errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidStep) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrLocationRequired) ||
		errors.Is(err, ErrProductRequired) ||
		errors.Is(err, ErrBrandRequired) ||
		errors.Is(err, ErrManufacturerRequired) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
