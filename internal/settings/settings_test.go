package settings_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/JaimeStill/shoreline/internal/settings"
	"github.com/JaimeStill/shoreline/pkg/auth"
	"github.com/JaimeStill/shoreline/pkg/routes"
)

const schema = `
CREATE TABLE public.settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	ai_enabled BOOLEAN NOT NULL DEFAULT 1,
	updated_at TIMESTAMP NOT NULL,
	updated_by TEXT
)`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openDB(t *testing.T, seed bool) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_time_format=sqlite")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("ATTACH DATABASE ':memory:' AS public"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if seed {
		if _, err := db.Exec("INSERT INTO public.settings (id, ai_enabled, updated_at) VALUES (1, 1, '2026-01-01 00:00:00')"); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func TestAIEnabledDefault(t *testing.T) {
	sys := settings.New(openDB(t, true), discardLogger())

	enabled, err := sys.AIEnabled(context.Background())
	if err != nil {
		t.Fatalf("AIEnabled: %v", err)
	}
	if !enabled {
		t.Error("expected AI enabled by default")
	}
}

func TestSetAIEnabled(t *testing.T) {
	sys := settings.New(openDB(t, true), discardLogger())
	ctx := context.Background()

	s, err := sys.SetAIEnabled(ctx, false, "reviewer-1")
	if err != nil {
		t.Fatalf("SetAIEnabled: %v", err)
	}
	if s.AIEnabled {
		t.Error("expected AI disabled")
	}
	if s.UpdatedBy == nil || *s.UpdatedBy != "reviewer-1" {
		t.Errorf("updated_by = %v, want reviewer-1", s.UpdatedBy)
	}

	enabled, err := sys.AIEnabled(ctx)
	if err != nil {
		t.Fatalf("AIEnabled: %v", err)
	}
	if enabled {
		t.Error("flag change not persisted")
	}
}

func TestFindMissingRow(t *testing.T) {
	sys := settings.New(openDB(t, false), discardLogger())

	_, err := sys.Find(context.Background())
	if !errors.Is(err, settings.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

type mockSystem struct {
	findFn func(ctx context.Context) (*settings.Settings, error)
	setFn  func(ctx context.Context, enabled bool, by string) (*settings.Settings, error)
}

func (m *mockSystem) Handler() *settings.Handler { return nil }

func (m *mockSystem) AIEnabled(ctx context.Context) (bool, error) {
	s, err := m.findFn(ctx)
	if err != nil {
		return false, err
	}
	return s.AIEnabled, nil
}

func (m *mockSystem) Find(ctx context.Context) (*settings.Settings, error) {
	return m.findFn(ctx)
}

func (m *mockSystem) SetAIEnabled(ctx context.Context, enabled bool, by string) (*settings.Settings, error) {
	return m.setFn(ctx, enabled, by)
}

func setupMux(sys settings.System, mw ...func(http.Handler) http.Handler) *http.ServeMux {
	h := settings.NewHandler(sys, discardLogger())
	group := h.Routes()
	group.Middleware = mw
	mux := http.NewServeMux()
	routes.Register(mux, group)
	return mux
}

type staticVerifier struct{ id *auth.Identity }

func (v staticVerifier) Verify(context.Context, string) (*auth.Identity, error) {
	return v.id, nil
}

func TestHandlerSetAIUsesIdentity(t *testing.T) {
	var gotBy string
	sys := &mockSystem{
		setFn: func(_ context.Context, enabled bool, by string) (*settings.Settings, error) {
			gotBy = by
			return &settings.Settings{AIEnabled: enabled}, nil
		},
	}

	mw := auth.Middleware(staticVerifier{&auth.Identity{Subject: "staff-7"}}, discardLogger())
	mux := setupMux(sys, mw)

	body, _ := json.Marshal(map[string]any{"enabled": false, "updated_by": "spoofed"})
	req := httptest.NewRequest("PUT", "/settings/ai", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if gotBy != "staff-7" {
		t.Errorf("updated_by = %q, want staff-7", gotBy)
	}
}

func TestHandlerSetAIRequiresEnabled(t *testing.T) {
	mux := setupMux(&mockSystem{})

	req := httptest.NewRequest("PUT", "/settings/ai", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerRequiresToken(t *testing.T) {
	mw := auth.Middleware(staticVerifier{&auth.Identity{Subject: "x"}}, discardLogger())
	mux := setupMux(&mockSystem{}, mw)

	req := httptest.NewRequest("GET", "/settings", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
