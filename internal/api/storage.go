package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/shoreline/pkg/handlers"
	"github.com/JaimeStill/shoreline/pkg/openapi"
	"github.com/JaimeStill/shoreline/pkg/routes"
	"github.com/JaimeStill/shoreline/pkg/storage"
)

// storageHandler streams contribution photos for reviewers whose network
// cannot reach the blob endpoint directly.
type storageHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newStorageHandler(store storage.System, logger *slog.Logger) *storageHandler {
	return &storageHandler{
		store:  store,
		logger: logger.With("handler", "storage"),
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.download, OpenAPI: downloadSpec},
		},
	}
}

var downloadSpec = &openapi.Operation{
	Summary: "Download a contribution photo",
	Tags:    []string{"Storage"},
	Parameters: []*openapi.Parameter{{
		Name:     "key",
		In:       "path",
		Required: true,
		Schema:   &openapi.Schema{Type: "string", Example: "contributions/{id}/product.jpg"},
	}},
	Responses: map[int]*openapi.Response{
		200: {Description: "Photo bytes with the stored content type"},
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		404: openapi.ResponseRef("NotFound"),
	},
}

func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer result.Body.Close()

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if result.ContentLength > 0 {
		w.Header().Set(
			"Content-Length",
			strconv.FormatInt(result.ContentLength, 10),
		)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}
