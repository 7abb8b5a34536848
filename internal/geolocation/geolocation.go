// Package geolocation acquires a contribution's location from a position
// provider, either as a single reading or as the most accurate of several
// concurrent readings.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Domain errors for location acquisition.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
	ErrTimeout          = errors.New("location request timed out")
	ErrInvalidLocation  = errors.New("invalid location")
)

// Reading is a single position report from a device.
// Accuracy is the reported radius of uncertainty in metres.
type Reading struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// Location is an acquired contribution location. Accuracy is nil for
// locations entered manually.
type Location struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// Provider issues one position request.
type Provider interface {
	Position(ctx context.Context) (Reading, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Reading, error)

// Position calls f(ctx).
func (f ProviderFunc) Position(ctx context.Context) (Reading, error) {
	return f(ctx)
}

// Location converts the reading to a Location carrying its accuracy.
func (r Reading) Location() Location {
	acc := r.Accuracy
	return Location{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Accuracy:  &acc,
	}
}

// Validate reports ErrInvalidLocation for coordinates outside WGS84 bounds.
func (l Location) Validate() error {
	if !finite(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidLocation, l.Latitude)
	}
	if !finite(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidLocation, l.Longitude)
	}
	if l.Accuracy != nil && (!finite(*l.Accuracy) || *l.Accuracy < 0) {
		return fmt.Errorf("%w: accuracy %v", ErrInvalidLocation, *l.Accuracy)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
