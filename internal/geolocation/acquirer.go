package geolocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Acquirer requests positions from a Provider with bounded waits.
// It holds no state between calls.
type Acquirer struct {
	provider      Provider
	timeout       time.Duration
	sampleTimeout time.Duration
	logger        *slog.Logger
}

// NewAcquirer creates an Acquirer. timeout bounds a single-reading request;
// sampleTimeout bounds each request in best-of-N mode.
func NewAcquirer(provider Provider, timeout, sampleTimeout time.Duration, logger *slog.Logger) *Acquirer {
	return &Acquirer{
		provider:      provider,
		timeout:       timeout,
		sampleTimeout: sampleTimeout,
		logger:        logger.With("system", "geolocation"),
	}
}

// Acquire issues one position request.
func (a *Acquirer) Acquire(ctx context.Context) (Location, error) {
	r, err := a.request(ctx, a.timeout)
	if err != nil {
		return Location{}, err
	}

	loc := r.Location()
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// AcquireBest issues n concurrent position requests and returns the reading
// with the smallest accuracy radius. Failed or timed-out requests are
// dropped. With zero usable readings it returns ErrPermissionDenied when
// every request was denied and ErrUnavailable otherwise.
func (a *Acquirer) AcquireBest(ctx context.Context, n int) (Location, error) {
	if n < 1 {
		n = 1
	}

	var (
		mu       sync.Mutex
		readings = make([]Reading, 0, n)
		denied   int
	)

	var g errgroup.Group
	for range n {
		g.Go(func() error {
			r, err := a.request(ctx, a.sampleTimeout)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				if r.Location().Validate() == nil {
					readings = append(readings, r)
				}
			case errors.Is(err, ErrPermissionDenied):
				denied++
			}
			return nil
		})
	}
	g.Wait()

	best, ok := Best(readings)
	if !ok {
		if denied == n {
			return Location{}, ErrPermissionDenied
		}
		return Location{}, ErrUnavailable
	}

	a.logger.Info(
		"location acquired",
		"samples", n,
		"readings", len(readings),
		"accuracy", best.Accuracy,
	)
	return best.Location(), nil
}

// Best returns the reading with the smallest accuracy radius.
func Best(readings []Reading) (Reading, bool) {
	if len(readings) == 0 {
		return Reading{}, false
	}

	best := readings[0]
	for _, r := range readings[1:] {
		if r.Accuracy < best.Accuracy {
			best = r
		}
	}
	return best, true
}

func (a *Acquirer) request(ctx context.Context, timeout time.Duration) (Reading, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		reading Reading
		err     error
	}

	// buffered so a provider that ignores ctx can still finish and exit
	done := make(chan outcome, 1)
	go func() {
		r, err := a.provider.Position(ctx)
		done <- outcome{r, err}
	}()

	select {
	case o := <-done:
		return classify(o.reading, o.err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Reading{}, ErrTimeout
		}
		return Reading{}, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

func classify(r Reading, err error) (Reading, error) {
	switch {
	case err == nil:
		return r, nil
	case errors.Is(err, context.DeadlineExceeded):
		return Reading{}, ErrTimeout
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrUnavailable), errors.Is(err, ErrTimeout):
		return Reading{}, err
	default:
		return Reading{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
