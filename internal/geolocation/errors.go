package geolocation

import (
	"errors"
	"net/http"
)

// MapHTTPStatus maps geolocation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidLocation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrPermissionDenied) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrTimeout) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
