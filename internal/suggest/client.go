package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/internal/metrics"
)

// Client runs flag-gated, time-bounded suggestion attempts.
type Client struct {
	flags      FlagSource
	classifier Classifier
	timeout    time.Duration
	logger     *slog.Logger
	recorder   metrics.Recorder
}

// NewClient creates a suggestion client. A nil recorder disables metrics.
func NewClient(
	flags FlagSource,
	classifier Classifier,
	timeout time.Duration,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *Client {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Client{
		flags:      flags,
		classifier: classifier,
		timeout:    timeout,
		logger:     logger.With("system", "suggest"),
		recorder:   recorder,
	}
}

// Timeout is the bound applied to each classifier call.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

type outcome struct {
	suggestion Suggestion
	err        error
}

// Suggest runs one attempt. Whichever settles first, the classifier or the
// timeout, decides the outcome; a classifier result arriving later is dropped.
func (c *Client) Suggest(ctx context.Context, req Request) (Result, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	result := Result{RequestID: req.ID}

	if !req.Images.Has(capture.SlotProduct) {
		return result, ErrMissingProduct
	}

	enabled, err := c.flags.AIEnabled(ctx)
	if err != nil {
		c.recorder.RecordOperation(metrics.OpSuggestion, "flag_error")
		return result, fmt.Errorf("%w: %w", ErrFlagUnavailable, err)
	}
	if !enabled {
		c.recorder.RecordOperation(metrics.OpSuggestion, "disabled")
		return result, ErrDisabled
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		s, err := c.classifier.Suggest(callCtx, req)
		done <- outcome{s, err}
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case o := <-done:
		c.recorder.RecordDuration(metrics.OpSuggestion, time.Since(start).Seconds())
		if o.err != nil {
			c.recorder.RecordOperation(metrics.OpSuggestion, "error")
			c.logger.Warn("suggestion failed", "request_id", req.ID, "error", o.err)
			return result, fmt.Errorf("%w: %w", ErrService, o.err)
		}
		c.recorder.RecordOperation(metrics.OpSuggestion, "success")
		result.Suggestion = o.suggestion
		c.logger.Info("suggestion settled", "request_id", req.ID, "empty", o.suggestion.Empty())
		return result, nil
	case <-timer.C:
		c.recorder.RecordOperation(metrics.OpSuggestion, "timeout")
		c.logger.Warn("suggestion timed out", "request_id", req.ID, "timeout", c.timeout)
		return result, ErrTimeout
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.recorder.RecordOperation(metrics.OpSuggestion, "timeout")
			return result, ErrTimeout
		}
		return result, ctx.Err()
	}
}
