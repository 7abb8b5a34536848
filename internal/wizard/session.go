package wizard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/internal/geolocation"
	"github.com/JaimeStill/shoreline/internal/metrics"
	"github.com/JaimeStill/shoreline/internal/submissions"
	"github.com/JaimeStill/shoreline/internal/suggest"
)

// Suggester runs one suggestion attempt. *suggest.Client satisfies it.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (suggest.Result, error)
}

// Submitter records a finished draft. *submissions.Submitter satisfies it.
type Submitter interface {
	Submit(ctx context.Context, sub submissions.Submission) (uuid.UUID, error)
}

// LocationConfig bounds location acquisition.
type LocationConfig struct {
	Samples        int
	SampleTimeout  time.Duration
	RequestTimeout time.Duration
}

// Deps are the collaborators shared by every session.
type Deps struct {
	Suggester Suggester
	Submitter Submitter
	Location  LocationConfig
	Logger    *slog.Logger
	Recorder  metrics.Recorder
}

// Session owns one draft. Its methods are safe for concurrent use; the
// draft only changes under the session lock.
type Session struct {
	mu    sync.Mutex
	draft Draft
	deps  *Deps
	base  context.Context
	bg    sync.WaitGroup
}

// NewSession wraps draft. base scopes background work such as automatic
// suggestions and is normally the service lifecycle context.
func NewSession(base context.Context, draft Draft, deps *Deps) *Session {
	return &Session{
		draft: draft,
		deps:  deps,
		base:  base,
	}
}

// Draft returns the current draft value.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Wait blocks until background suggestions started by this session finish.
func (s *Session) Wait() {
	s.bg.Wait()
}

func (s *Session) recorder() metrics.Recorder {
	if s.deps.Recorder == nil {
		return metrics.Nop{}
	}
	return s.deps.Recorder
}

func (s *Session) update(fn func(Draft) (Draft, error)) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.draft)
	if err != nil {
		return s.draft, err
	}
	s.draft = next
	return next, nil
}

// sampleCounter is a provider that knows how many readings it holds,
// such as *geolocation.Readings.
type sampleCounter interface {
	Len() int
}

// Locate acquires a location from provider and records it. With best set it
// takes the most accurate of the configured number of samples, or of every
// held sample when the provider holds more.
func (s *Session) Locate(ctx context.Context, provider geolocation.Provider, best bool) (Draft, error) {
	cfg := s.deps.Location
	acq := geolocation.NewAcquirer(provider, cfg.RequestTimeout, cfg.SampleTimeout, s.deps.Logger)

	var (
		loc geolocation.Location
		err error
	)
	if best {
		n := cfg.Samples
		if sc, ok := provider.(sampleCounter); ok {
			n = max(n, sc.Len())
		}
		loc, err = acq.AcquireBest(ctx, n)
	} else {
		loc, err = acq.Acquire(ctx)
	}
	if err != nil {
		s.recorder().RecordOperation(metrics.OpGeolocation, geolocationStatus(err))
		return s.Draft(), err
	}

	s.recorder().RecordOperation(metrics.OpGeolocation, "success")
	return s.SetLocation(loc)
}

// SetLocation records a location entered or confirmed by the contributor.
func (s *Session) SetLocation(loc geolocation.Location) (Draft, error) {
	return s.update(func(d Draft) (Draft, error) {
		return d.WithLocation(loc)
	})
}

// SetImage places a captured photo in slot.
func (s *Session) SetImage(slot capture.Slot, img capture.Image) (Draft, error) {
	return s.update(func(d Draft) (Draft, error) {
		return d.WithImage(slot, img)
	})
}

// ClearImage empties slot.
func (s *Session) ClearImage(slot capture.Slot) (Draft, error) {
	return s.update(func(d Draft) (Draft, error) {
		return d.WithoutImage(slot)
	})
}

// EditFields applies a detail patch.
func (s *Session) EditFields(p FieldsPatch) (Draft, error) {
	return s.update(func(d Draft) (Draft, error) {
		return d.WithFields(p)
	})
}

// Next advances the draft. Entering details with a product photo and an
// empty brand starts one background suggestion on the session's base
// context; its result is merged only if the draft is still waiting for it.
func (s *Session) Next() (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.draft.Next()
	if err != nil {
		return s.draft, err
	}

	if next.WantsSuggestion() && s.deps.Suggester != nil {
		reqID := uuid.New()
		if awaiting, err := next.AwaitSuggestion(reqID); err == nil {
			next = awaiting
			s.startSuggestion(s.request(next, reqID))
		}
	}

	s.draft = next
	return next, nil
}

// Back returns to the previous step, keeping collected data.
func (s *Session) Back() (Draft, error) {
	return s.update(func(d Draft) (Draft, error) {
		return d.Back()
	})
}

// Suggest runs a suggestion now and waits for it. The returned draft
// includes the merged result when it was applied.
func (s *Session) Suggest(ctx context.Context) (Draft, suggest.Result, error) {
	if s.deps.Suggester == nil {
		return s.Draft(), suggest.Result{}, suggest.ErrDisabled
	}

	reqID := uuid.New()
	d, err := s.update(func(d Draft) (Draft, error) {
		return d.AwaitSuggestion(reqID)
	})
	if err != nil {
		return d, suggest.Result{}, err
	}

	result, err := s.deps.Suggester.Suggest(ctx, s.request(d, reqID))
	if err != nil {
		d, _ = s.update(func(d Draft) (Draft, error) {
			return d.ClearSuggestion(reqID), nil
		})
		return d, result, err
	}

	d, _ = s.apply(result)
	return d, result, nil
}

// Submit validates the draft for mode and records it. The session lock is
// held for the whole submission so a draft is never submitted twice.
// On failure the draft is left as it was and can be retried.
func (s *Session) Submit(ctx context.Context, mode Mode) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draft
	if err := d.Validate(mode); err != nil {
		return d, err
	}

	loc, _ := d.Location()
	f := d.Fields()
	sub := submissions.Submission{
		Images:        d.Images(),
		Location:      loc,
		BeachName:     f.BeachName,
		Brand:         f.Brand,
		Manufacturer:  f.Manufacturer,
		PlasticType:   f.PlasticType,
		Notes:         f.Notes,
		ContributorID: d.ContributorID(),
	}

	id, err := s.deps.Submitter.Submit(ctx, sub)
	if err != nil {
		return d, err
	}

	s.draft = d.Submitted(id)
	s.deps.Logger.Info("draft submitted", "draft_id", d.ID(), "contribution_id", id, "mode", mode)
	return s.draft, nil
}

func (s *Session) request(d Draft, reqID uuid.UUID) suggest.Request {
	req := suggest.Request{ID: reqID, Images: d.Images()}
	if loc, ok := d.Location(); ok {
		req.Location = &loc
	}
	return req
}

func (s *Session) startSuggestion(req suggest.Request) {
	s.bg.Go(func() {
		result, err := s.deps.Suggester.Suggest(s.base, req)
		if err != nil {
			if !errors.Is(err, suggest.ErrDisabled) {
				s.deps.Logger.Warn("automatic suggestion failed", "request_id", req.ID, "error", err)
			}
			s.update(func(d Draft) (Draft, error) {
				return d.ClearSuggestion(req.ID), nil
			})
			return
		}

		if _, applied := s.apply(result); !applied {
			s.deps.Logger.Info("stale suggestion discarded", "request_id", req.ID)
		}
	})
}

func (s *Session) apply(r suggest.Result) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.draft.ApplySuggestion(r)
	if ok {
		s.draft = next
	}
	return s.draft, ok
}

func geolocationStatus(err error) string {
	switch {
	case errors.Is(err, geolocation.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, geolocation.ErrTimeout):
		return "timeout"
	case errors.Is(err, geolocation.ErrInvalidLocation):
		return "invalid"
	default:
		return "unavailable"
	}
}
