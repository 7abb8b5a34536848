package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/shoreline/pkg/auth"
	"github.com/JaimeStill/shoreline/pkg/handlers"
	"github.com/JaimeStill/shoreline/pkg/routes"
)

// Handler provides HTTP endpoints for settings.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// AIRequest toggles AI suggestions. UpdatedBy is used only when the request
// carries no verified identity.
type AIRequest struct {
	Enabled   *bool  `json:"enabled"`
	UpdatedBy string `json:"updated_by,omitempty"`
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "settings"),
	}
}

// Routes returns the route group definition for settings endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/settings",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Find, OpenAPI: settingsSpec.Find},
			{Method: "PUT", Pattern: "/ai", Handler: h.SetAI, OpenAPI: settingsSpec.SetAI},
		},
	}
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Find(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s)
}

func (h *Handler) SetAI(w http.ResponseWriter, r *http.Request) {
	var req AIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	by := req.UpdatedBy
	if id, ok := auth.FromContext(r.Context()); ok {
		by = id.Subject
	}

	s, err := h.sys.SetAIEnabled(r.Context(), *req.Enabled, by)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s)
}
