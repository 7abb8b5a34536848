package api

import (
	"net/http"

	"github.com/JaimeStill/shoreline/internal/config"
	"github.com/JaimeStill/shoreline/internal/contributions"
	"github.com/JaimeStill/shoreline/internal/settings"
	"github.com/JaimeStill/shoreline/internal/wizard"
	"github.com/JaimeStill/shoreline/pkg/auth"
	"github.com/JaimeStill/shoreline/pkg/openapi"
	"github.com/JaimeStill/shoreline/pkg/routes"
)

// registerRoutes mounts the public contribution flow, the staff routes, and
// the OpenAPI document describing both. Staff routes require a bearer token
// when auth is enabled.
func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	staff := auth.Middleware(runtime.Verifier, runtime.Logger)

	groups := []routes.Group{
		wizard.NewHandler(domain.Drafts, runtime.Logger, cfg.API.MaxUploadSizeBytes()).Routes(),
		{
			Middleware: []func(http.Handler) http.Handler{staff},
			Children: []routes.Group{
				domain.Contributions.Handler().Routes(),
				domain.Settings.Handler().Routes(),
				newStorageHandler(runtime.Storage, runtime.Logger).routes(),
			},
		},
	}

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(wizard.Schemas())
	spec.Components.AddSchemas(contributions.Schemas())
	spec.Components.AddSchemas(settings.Schemas())
	routes.Describe(spec, groups...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return err
	}

	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))
	return nil
}
