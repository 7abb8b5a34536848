package suggest_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/internal/geolocation"
	"github.com/JaimeStill/shoreline/internal/suggest"
)

type staticFlag struct {
	enabled bool
	err     error
}

func (f staticFlag) AIEnabled(context.Context) (bool, error) {
	return f.enabled, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func productRequest(t *testing.T) suggest.Request {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := capture.NewImage(buf.Bytes(), "p.png")
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return suggest.Request{Images: capture.Images{}.With(capture.SlotProduct, img)}
}

func newClient(flag suggest.FlagSource, c suggest.Classifier, timeout time.Duration) *suggest.Client {
	return suggest.NewClient(flag, c, timeout, discardLogger(), nil)
}

func TestSuggestSuccess(t *testing.T) {
	c := suggest.ClassifierFunc(func(context.Context, suggest.Request) (suggest.Suggestion, error) {
		return suggest.Suggestion{Brand: ptr("Acme")}, nil
	})

	req := productRequest(t)
	req.ID = uuid.New()

	res, err := newClient(staticFlag{enabled: true}, c, time.Second).Suggest(context.Background(), req)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if res.RequestID != req.ID {
		t.Errorf("request id = %s, want %s", res.RequestID, req.ID)
	}
	if res.Suggestion.Brand == nil || *res.Suggestion.Brand != "Acme" {
		t.Errorf("brand = %v", res.Suggestion.Brand)
	}
}

func TestSuggestAssignsRequestID(t *testing.T) {
	c := suggest.ClassifierFunc(func(context.Context, suggest.Request) (suggest.Suggestion, error) {
		return suggest.Suggestion{}, nil
	})

	res, err := newClient(staticFlag{enabled: true}, c, time.Second).Suggest(context.Background(), productRequest(t))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if res.RequestID == uuid.Nil {
		t.Error("expected a generated request id")
	}
}

func TestSuggestDisabledSkipsClassifier(t *testing.T) {
	called := false
	c := suggest.ClassifierFunc(func(context.Context, suggest.Request) (suggest.Suggestion, error) {
		called = true
		return suggest.Suggestion{}, nil
	})

	_, err := newClient(staticFlag{enabled: false}, c, time.Second).Suggest(context.Background(), productRequest(t))
	if !errors.Is(err, suggest.ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
	if called {
		t.Error("classifier must not be called when disabled")
	}
}

func TestSuggestFlagFailure(t *testing.T) {
	c := suggest.ClassifierFunc(func(context.Context, suggest.Request) (suggest.Suggestion, error) {
		t.Error("classifier must not be called when the flag is unknown")
		return suggest.Suggestion{}, nil
	})

	_, err := newClient(staticFlag{err: errors.New("db down")}, c, time.Second).Suggest(context.Background(), productRequest(t))
	if !errors.Is(err, suggest.ErrFlagUnavailable) {
		t.Errorf("err = %v, want ErrFlagUnavailable", err)
	}
}

func TestSuggestMissingProduct(t *testing.T) {
	c := suggest.ClassifierFunc(func(context.Context, suggest.Request) (suggest.Suggestion, error) {
		return suggest.Suggestion{}, nil
	})

	_, err := newClient(staticFlag{enabled: true}, c, time.Second).Suggest(context.Background(), suggest.Request{})
	if !errors.Is(err, suggest.ErrMissingProduct) {
		t.Errorf("err = %v, want ErrMissingProduct", err)
	}
}

func TestSuggestTimeoutWins(t *testing.T) {
	c := suggest.ClassifierFunc(func(ctx context.Context, _ suggest.Request) (suggest.Suggestion, error) {
		<-ctx.Done()
		return suggest.Suggestion{Brand: ptr("too late")}, nil
	})

	start := time.Now()
	res, err := newClient(staticFlag{enabled: true}, c, 30*time.Millisecond).Suggest(context.Background(), productRequest(t))
	if !errors.Is(err, suggest.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if res.Suggestion.Brand != nil {
		t.Error("a late classifier result must not be returned")
	}
	if time.Since(start) > time.Second {
		t.Error("timeout did not bound the call")
	}
}

func TestSuggestLateResultAfterTimeoutIsDropped(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	c := suggest.ClassifierFunc(func(context.Context, suggest.Request) (suggest.Suggestion, error) {
		defer close(finished)
		<-release
		return suggest.Suggestion{Brand: ptr("late")}, nil
	})

	_, err := newClient(staticFlag{enabled: true}, c, 20*time.Millisecond).Suggest(context.Background(), productRequest(t))
	if !errors.Is(err, suggest.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}

	close(release)
	<-finished
}

func TestSuggestServiceError(t *testing.T) {
	c := suggest.ClassifierFunc(func(context.Context, suggest.Request) (suggest.Suggestion, error) {
		return suggest.Suggestion{}, errors.New("model overloaded")
	})

	_, err := newClient(staticFlag{enabled: true}, c, time.Second).Suggest(context.Background(), productRequest(t))
	if !errors.Is(err, suggest.ErrService) {
		t.Errorf("err = %v, want ErrService", err)
	}
}

func TestMergeIntoIsNonDestructive(t *testing.T) {
	s := suggest.Suggestion{
		Brand:        ptr("Suggested"),
		Manufacturer: ptr("  Maker  "),
		PlasticType:  ptr(""),
	}

	got := s.MergeInto(suggest.Fields{Brand: "Typed", PlasticType: "HDPE (2)"})

	if got.Brand != "Typed" {
		t.Errorf("brand = %q, typed text must win", got.Brand)
	}
	if got.Manufacturer != "Maker" {
		t.Errorf("manufacturer = %q, want Maker", got.Manufacturer)
	}
	if got.PlasticType != "HDPE (2)" {
		t.Errorf("plastic type = %q, must be kept", got.PlasticType)
	}
}

func TestMergeIntoIgnoresBlankSuggestions(t *testing.T) {
	got := suggest.Suggestion{Brand: ptr("  ")}.MergeInto(suggest.Fields{})
	if got.Brand != "" {
		t.Errorf("brand = %q, blank suggestion must be ignored", got.Brand)
	}
	if !(suggest.Suggestion{Brand: ptr(" ")}).Empty() {
		t.Error("blank suggestion should be empty")
	}
}

func TestPromptLocation(t *testing.T) {
	req := productRequest(t)
	slots := []capture.Slot{capture.SlotProduct}

	if p := suggest.Prompt(req, slots); strings.Contains(p, "latitude") {
		t.Error("prompt without location must not mention coordinates")
	}

	req.Location = &geolocation.Location{Latitude: 51.5, Longitude: -0.12}
	if p := suggest.Prompt(req, slots); !strings.Contains(p, "latitude 51.50000") {
		t.Errorf("prompt missing coordinates:\n%s", p)
	}
}
