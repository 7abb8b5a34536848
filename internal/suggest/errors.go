package suggest

import (
	"errors"
	"net/http"
)

// Domain errors for suggestion attempts.
var (
	ErrDisabled        = errors.New("ai suggestions are disabled")
	ErrFlagUnavailable = errors.New("ai suggestion setting unavailable")
	ErrMissingProduct  = errors.New("product image required for suggestions")
	ErrTimeout         = errors.New("suggestion timed out")
	ErrService         = errors.New("suggestion service failed")
	ErrInvalidResponse = errors.New("invalid suggestion response")
)

// MapHTTPStatus maps suggestion errors to HTTP status codes.
// ErrDisabled is informational and callers usually report it in a 200 body.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrDisabled) {
		return http.StatusOK
	}
	if errors.Is(err, ErrMissingProduct) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFlagUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrTimeout) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, ErrService) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
