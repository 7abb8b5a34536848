package geolocation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/shoreline/internal/geolocation"
)

func TestReadingsReplayInOrder(t *testing.T) {
	p := geolocation.NewReadings([]geolocation.Sample{
		{Reading: reading(1)},
		{Error: geolocation.CodePermissionDenied},
	})
	ctx := context.Background()

	if r, err := p.Position(ctx); err != nil || r.Accuracy != 1 {
		t.Errorf("first = %v, %v", r, err)
	}
	if _, err := p.Position(ctx); !errors.Is(err, geolocation.ErrPermissionDenied) {
		t.Errorf("second err = %v, want ErrPermissionDenied", err)
	}
	if _, err := p.Position(ctx); !errors.Is(err, geolocation.ErrUnavailable) {
		t.Errorf("exhausted err = %v, want ErrUnavailable", err)
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
}

func TestSampleError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{geolocation.CodePermissionDenied, geolocation.ErrPermissionDenied},
		{geolocation.CodeTimeout, geolocation.ErrTimeout},
		{geolocation.CodeUnavailable, geolocation.ErrUnavailable},
		{"", geolocation.ErrUnavailable},
		{"weird", geolocation.ErrUnavailable},
	}

	for _, tt := range tests {
		if err := geolocation.SampleError(tt.code); !errors.Is(err, tt.want) {
			t.Errorf("SampleError(%q) = %v, want %v", tt.code, err, tt.want)
		}
	}
}
