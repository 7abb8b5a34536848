// Package settings persists service-wide runtime switches that staff can
// change without a redeploy. Today that is the AI suggestion flag.
package settings

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Settings is the single persisted settings row.
type Settings struct {
	AIEnabled bool      `json:"ai_enabled"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy *string   `json:"updated_by"`
}

// Domain errors for settings operations.
var (
	ErrNotFound       = errors.New("settings not initialized")
	ErrInvalidRequest = errors.New("invalid settings request")
)

// MapHTTPStatus maps settings errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// System defines the public contract for settings operations.
// It satisfies suggest.FlagSource.
type System interface {
	Handler() *Handler

	AIEnabled(ctx context.Context) (bool, error)
	Find(ctx context.Context) (*Settings, error)
	SetAIEnabled(ctx context.Context, enabled bool, updatedBy string) (*Settings, error)
}
