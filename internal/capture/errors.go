package capture

import (
	"errors"
	"net/http"
)

// Domain errors for photo capture.
var (
	ErrEmpty       = errors.New("image is empty")
	ErrNotImage    = errors.New("file is not an image")
	ErrUnknownSlot = errors.New("unknown image slot")
)

// MapHTTPStatus maps capture errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmpty) || errors.Is(err, ErrNotImage) || errors.Is(err, ErrUnknownSlot) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
