package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/JaimeStill/shoreline/pkg/middleware"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestApplyOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mw := middleware.New()
	mw.Use(tag("first"))
	mw.Use(tag("second"))

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if want := []string{"first", "second", "handler"}; !slices.Equal(order, want) {
		t.Errorf("order: got %v, want %v", order, want)
	}
}

func corsConfig() *middleware.CORSConfig {
	cfg := &middleware.CORSConfig{
		Enabled: true,
		Origins: []string{"https://shoreline.example.org"},
	}
	if err := cfg.Finalize(nil); err != nil {
		panic(err)
	}
	return cfg
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *middleware.CORSConfig
		method      string
		origin      string
		preflight   bool
		wantOrigin  string
		wantStatus  int
		wantHandled bool
	}{
		{
			name:        "disabled",
			cfg:         &middleware.CORSConfig{Enabled: false},
			method:      "GET",
			origin:      "https://shoreline.example.org",
			wantStatus:  http.StatusOK,
			wantHandled: true,
		},
		{
			name:        "allowed origin",
			cfg:         corsConfig(),
			method:      "PATCH",
			origin:      "https://shoreline.example.org",
			wantOrigin:  "https://shoreline.example.org",
			wantStatus:  http.StatusOK,
			wantHandled: true,
		},
		{
			name:        "disallowed origin",
			cfg:         corsConfig(),
			method:      "GET",
			origin:      "https://evil.example.com",
			wantStatus:  http.StatusOK,
			wantHandled: true,
		},
		{
			name:       "preflight",
			cfg:        corsConfig(),
			method:     "OPTIONS",
			origin:     "https://shoreline.example.org",
			preflight:  true,
			wantOrigin: "https://shoreline.example.org",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handled := false
			handler := middleware.CORS(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/api/drafts", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "PATCH")
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin: got %q, want %q", got, tt.wantOrigin)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if handled != tt.wantHandled {
				t.Errorf("handler called: got %v, want %v", handled, tt.wantHandled)
			}
		})
	}
}

func TestCORSAllowsPatch(t *testing.T) {
	cfg := corsConfig()
	handler := middleware.CORS(cfg)(http.HandlerFunc(ok))

	req := httptest.NewRequest("OPTIONS", "/api/drafts/1/fields", nil)
	req.Header.Set("Origin", "https://shoreline.example.org")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if methods := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "PATCH") {
		t.Errorf("allow-methods %q missing PATCH", methods)
	}
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"implicit ok", 0, "level=INFO"},
		{"not found", http.StatusNotFound, "level=INFO"},
		{"bad gateway", http.StatusBadGateway, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				io.WriteString(w, "body")
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/contributions", nil))

			out := logs.String()
			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			if !strings.Contains(out, tt.level) {
				t.Errorf("log %q missing %s", out, tt.level)
			}
			if !strings.Contains(out, "status="+strconv.Itoa(want)) {
				t.Errorf("log %q missing status %d", out, want)
			}
			if !strings.Contains(out, "bytes=4") {
				t.Errorf("log %q missing bytes=4", out)
			}
		})
	}
}

func TestCORSConfigFinalize(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.com, http://b.com")

	cfg := middleware.CORSConfig{}
	err := cfg.Finalize(&middleware.CORSEnv{
		Enabled: "TEST_CORS_ENABLED",
		Origins: "TEST_CORS_ORIGINS",
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled should be true")
	}
	if !slices.Equal(cfg.Origins, []string{"http://a.com", "http://b.com"}) {
		t.Errorf("origins: got %v", cfg.Origins)
	}
	if !slices.Contains(cfg.AllowedMethods, "PATCH") {
		t.Errorf("default methods %v missing PATCH", cfg.AllowedMethods)
	}
	if !slices.Contains(cfg.AllowedHeaders, "Authorization") {
		t.Errorf("default headers %v missing Authorization", cfg.AllowedHeaders)
	}
}

func TestCORSConfigMerge(t *testing.T) {
	base := middleware.CORSConfig{Origins: []string{"http://base.com"}, AllowedMethods: []string{"GET"}, MaxAge: 3600}
	base.Merge(&middleware.CORSConfig{Enabled: true, Origins: []string{"http://overlay.com"}})

	if !base.Enabled {
		t.Error("enabled should be true after merge")
	}
	if !slices.Equal(base.Origins, []string{"http://overlay.com"}) {
		t.Errorf("origins: got %v", base.Origins)
	}
	if base.MaxAge != 3600 || !slices.Equal(base.AllowedMethods, []string{"GET"}) {
		t.Errorf("zero overlay fields must not overwrite: %+v", base)
	}
}
