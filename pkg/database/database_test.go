package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/shoreline/pkg/database"
)

func newSystem(t *testing.T, port int) database.System {
	t.Helper()
	cfg := database.Config{
		Host:            "127.0.0.1",
		Port:            port,
		Name:            "shoreline",
		User:            "shoreline",
		SSLMode:         "disable",
		MaxOpenConns:    42,
		MaxIdleConns:    7,
		ConnMaxLifetime: "10m",
		ConnTimeout:     "500ms",
	}

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { sys.Connection().Close() })
	return sys
}

func TestNewSetsPoolParams(t *testing.T) {
	sys := newSystem(t, 5432)

	if stats := sys.Connection().Stats(); stats.MaxOpenConnections != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", stats.MaxOpenConnections)
	}
}

func TestPingUnreachable(t *testing.T) {
	// port 1 is reserved and refuses connections
	sys := newSystem(t, 1)

	err := sys.Ping(context.Background())
	if !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping() = %v, want ErrNotReady", err)
	}
}
