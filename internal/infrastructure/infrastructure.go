// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, metrics, auth)
// that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/shoreline/internal/config"
	"github.com/JaimeStill/shoreline/internal/metrics"
	"github.com/JaimeStill/shoreline/pkg/auth"
	"github.com/JaimeStill/shoreline/pkg/database"
	"github.com/JaimeStill/shoreline/pkg/lifecycle"
	"github.com/JaimeStill/shoreline/pkg/storage"
)

const discoveryTimeout = 15 * time.Second

// Infrastructure holds the core systems required by all domain modules.
// Verifier is nil when auth is disabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Metrics   *metrics.Metrics
	Verifier  auth.Verifier
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// With auth enabled, New performs OIDC discovery against the issuer.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("metrics init failed: %w", err)
	}

	var verifier auth.Verifier
	if cfg.Auth.Enabled {
		ctx, cancel := context.WithTimeout(lc.Context(), discoveryTimeout)
		defer cancel()

		verifier, err = auth.NewVerifier(ctx, &cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
		logger.Info("auth enabled", "issuer", cfg.Auth.Issuer)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Metrics:   m,
		Verifier:  verifier,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
