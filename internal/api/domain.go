package api

import (
	"github.com/JaimeStill/shoreline/internal/contributions"
	"github.com/JaimeStill/shoreline/internal/settings"
	"github.com/JaimeStill/shoreline/internal/submissions"
	"github.com/JaimeStill/shoreline/internal/suggest"
	"github.com/JaimeStill/shoreline/internal/wizard"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Contributions contributions.System
	Settings      settings.System
	Suggest       *suggest.Client
	Submissions   *submissions.Submitter
	Drafts        *wizard.Store
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	contributionsSystem := contributions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
		runtime.Metrics,
	)

	settingsSystem := settings.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	suggestClient := suggest.NewClient(
		settingsSystem,
		suggest.NewAgentClassifier(runtime.Agent, runtime.Logger),
		runtime.Suggest.TimeoutDuration(),
		runtime.Logger,
		runtime.Metrics,
	)

	submitter := submissions.New(
		runtime.Storage,
		contributionsSystem,
		runtime.Logger,
		runtime.Metrics,
	)

	drafts := wizard.NewStore(
		runtime.Lifecycle.Context(),
		&wizard.Deps{
			Suggester: suggestClient,
			Submitter: submitter,
			Location:  runtime.Location,
			Logger:    runtime.Logger,
			Recorder:  runtime.Metrics,
		},
		runtime.Drafts.TTLDuration(),
		runtime.Drafts.CleanupDuration(),
		runtime.Metrics,
	)

	runtime.Lifecycle.OnShutdown(func() {
		<-runtime.Lifecycle.Context().Done()
		if n := drafts.Len(); n > 0 {
			runtime.Logger.Warn("discarding unsubmitted drafts", "count", n)
		}
	})

	return &Domain{
		Contributions: contributionsSystem,
		Settings:      settingsSystem,
		Suggest:       suggestClient,
		Submissions:   submitter,
		Drafts:        drafts,
	}
}
