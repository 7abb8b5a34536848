package lifecycle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/shoreline/pkg/lifecycle"
)

func TestReadyAfterStartupHooks(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() { count.Add(1) })
	}
	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}
}

func TestShutdownRunsHooksAfterCancel(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
	if lc.Context().Err() == nil {
		t.Error("context should be cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("expected timeout error, got nil")
	}
}

func TestCheck(t *testing.T) {
	lc := lifecycle.New()
	down := errors.New("connection refused")

	lc.OnReady("database", func(context.Context) error { return nil })
	lc.OnReady("storage", func(context.Context) error { return down })

	failures := lc.Check(context.Background())
	if len(failures) != 1 {
		t.Fatalf("failures: got %v, want only storage", failures)
	}
	if !errors.Is(failures["storage"], down) {
		t.Errorf("storage failure: got %v", failures["storage"])
	}

	lc.OnReady("storage", func(context.Context) error { return nil })
	if failures := lc.Check(context.Background()); len(failures) != 0 {
		t.Errorf("replaced check should pass, got %v", failures)
	}
}

func TestCheckWithoutChecks(t *testing.T) {
	if failures := lifecycle.New().Check(context.Background()); len(failures) != 0 {
		t.Errorf("got %v, want none", failures)
	}
}
