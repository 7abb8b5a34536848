package api

import (
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/shoreline/internal/config"
	"github.com/JaimeStill/shoreline/internal/infrastructure"
	"github.com/JaimeStill/shoreline/internal/wizard"
	"github.com/JaimeStill/shoreline/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent      gaconfig.AgentConfig
	Pagination pagination.Config
	Suggest    config.SuggestConfig
	Location   wizard.LocationConfig
	Drafts     config.DraftsConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Metrics:   infra.Metrics,
			Verifier:  infra.Verifier,
		},
		Agent:      cfg.Agent,
		Pagination: cfg.API.Pagination,
		Suggest:    cfg.Suggest,
		Location: wizard.LocationConfig{
			Samples:        cfg.Geolocation.Samples,
			SampleTimeout:  cfg.Geolocation.SampleTimeoutDuration(),
			RequestTimeout: cfg.Geolocation.RequestTimeoutDuration(),
		},
		Drafts: cfg.Drafts,
	}
}
