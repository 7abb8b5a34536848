package geolocation

import (
	"context"
	"fmt"
	"sync"
)

// Device error codes reported by clients in place of a reading.
const (
	CodePermissionDenied = "permission_denied"
	CodeUnavailable      = "unavailable"
	CodeTimeout          = "timeout"
)

// Sample is one client-side position attempt: either a reading or the
// device error code it failed with.
type Sample struct {
	Reading *Reading `json:"reading,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Readings is a Provider over samples the client already collected.
// Each Position call consumes the next sample; once exhausted it reports
// ErrUnavailable.
type Readings struct {
	mu      sync.Mutex
	samples []Sample
}

// NewReadings creates a provider that replays the given samples in order.
func NewReadings(samples []Sample) *Readings {
	return &Readings{samples: samples}
}

// Len returns the number of samples not yet consumed.
func (r *Readings) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func (r *Readings) Position(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}

	r.mu.Lock()
	if len(r.samples) == 0 {
		r.mu.Unlock()
		return Reading{}, ErrUnavailable
	}
	s := r.samples[0]
	r.samples = r.samples[1:]
	r.mu.Unlock()

	if s.Reading != nil {
		return *s.Reading, nil
	}
	return Reading{}, SampleError(s.Error)
}

// SampleError maps a device error code to its domain error.
func SampleError(code string) error {
	switch code {
	case CodePermissionDenied:
		return ErrPermissionDenied
	case CodeTimeout:
		return ErrTimeout
	case CodeUnavailable, "":
		return ErrUnavailable
	default:
		return fmt.Errorf("%w: device error %q", ErrUnavailable, code)
	}
}
