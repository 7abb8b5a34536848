package geolocation

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Subscription is a running position watch. Readings are delivered on the
// channel returned by Readings until Stop is called or the parent context
// ends; the channel is then closed.
type Subscription struct {
	readings chan Reading
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

// Watch polls the provider every interval and delivers successful readings.
// Failed requests are skipped. Slow consumers drop readings rather than
// stall the poll loop. The interval must be positive.
func (a *Acquirer) Watch(ctx context.Context, interval time.Duration) (*Subscription, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("watch interval must be positive, got %v", interval)
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		readings: make(chan Reading, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go sub.run(ctx, a, interval)
	return sub, nil
}

// Readings returns the delivery channel.
func (s *Subscription) Readings() <-chan Reading {
	return s.readings
}

// Stop ends the watch and waits for the poll loop to exit. It is safe to
// call more than once.
func (s *Subscription) Stop() {
	s.once.Do(s.cancel)
	<-s.done
}

func (s *Subscription) run(ctx context.Context, a *Acquirer, interval time.Duration) {
	defer close(s.done)
	defer close(s.readings)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if r, err := a.request(ctx, a.timeout); err == nil {
			select {
			case s.readings <- r:
			case <-ctx.Done():
				return
			default:
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
