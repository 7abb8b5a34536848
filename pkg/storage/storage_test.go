package storage_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/shoreline/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := storage.Config{ConnectionString: azuriteConnString}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.ContainerName != "contributions" {
			t.Errorf("container_name: got %s, want contributions", cfg.ContainerName)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("PHOTO_CONTAINER", "photos")
		t.Setenv("PHOTO_CONN", "conn")
		t.Setenv("PHOTO_PUBLIC", "https://cdn.example.org")

		var cfg storage.Config
		err := cfg.Finalize(&storage.Env{
			ContainerName:    "PHOTO_CONTAINER",
			ConnectionString: "PHOTO_CONN",
			PublicURL:        "PHOTO_PUBLIC",
		})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.ContainerName != "photos" || cfg.ConnectionString != "conn" || cfg.PublicURL != "https://cdn.example.org" {
			t.Errorf("got %+v", cfg)
		}
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{"missing connection string", storage.Config{}, "connection_string required"},
		{"relative public url", storage.Config{ConnectionString: "c", PublicURL: "/blobs"}, "invalid public_url"},
		{"public url without host", storage.Config{ConnectionString: "c", PublicURL: "https://"}, "invalid public_url"},
		{"valid public url", storage.Config{ConnectionString: "c", PublicURL: "https://cdn.example.org"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %v does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := storage.Config{ContainerName: "contributions", ConnectionString: "base"}
	base.Merge(&storage.Config{ConnectionString: "overlay", PublicURL: "https://cdn.example.org"})

	if base.ContainerName != "contributions" {
		t.Errorf("container_name changed: %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay" || base.PublicURL != "https://cdn.example.org" {
		t.Errorf("got %+v", base)
	}
}

func TestNew(t *testing.T) {
	sys, err := storage.New(&storage.Config{
		ContainerName:    "contributions",
		ConnectionString: azuriteConnString,
	}, discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := "http://127.0.0.1:10000/devstoreaccount1/contributions/c/1/product.png"
	if got := sys.URL("c/1/product.png"); got != want {
		t.Errorf("URL: got %s, want %s", got, want)
	}

	if _, err := storage.New(&storage.Config{ConnectionString: "not-a-connection-string"}, discardLogger()); err == nil {
		t.Error("expected error for invalid connection string")
	}
}

func TestNewPublicURL(t *testing.T) {
	sys, err := storage.New(&storage.Config{
		ContainerName:    "contributions",
		ConnectionString: azuriteConnString,
		PublicURL:        "https://cdn.example.org/",
	}, discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := "https://cdn.example.org/contributions/c/1/back.jpg"
	if got := sys.URL("c/1/back.jpg"); got != want {
		t.Errorf("URL: got %s, want %s", got, want)
	}
}

func TestPublicURLEscapesSegments(t *testing.T) {
	got := storage.PublicURL("https://blob.example/", "my photos", "beach day/bottle #1.png")
	want := "https://blob.example/my%20photos/beach%20day/bottle%20%231.png"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{"contributions/abc/product.png", nil},
		{"contributions/a..b/product.png", nil},
		{"", storage.ErrEmptyKey},
		{"../etc/passwd", storage.ErrInvalidKey},
		{"contributions/../secret", storage.ErrInvalidKey},
		{"/contributions/abc", storage.ErrInvalidKey},
		{"contributions//abc", storage.ErrInvalidKey},
		{"contributions/./abc", storage.ErrInvalidKey},
		{`contributions\abc`, storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := storage.ValidateKey(tt.key); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", storage.ErrInvalidKey), http.StatusBadRequest},
		{storage.ErrNotReady, http.StatusServiceUnavailable},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
