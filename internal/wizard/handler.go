package wizard

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/internal/geolocation"
	"github.com/JaimeStill/shoreline/internal/submissions"
	"github.com/JaimeStill/shoreline/internal/suggest"
	"github.com/JaimeStill/shoreline/pkg/formatting"
	"github.com/JaimeStill/shoreline/pkg/handlers"
	"github.com/JaimeStill/shoreline/pkg/routes"
)

// Handler provides the HTTP surface for contribution drafts.
type Handler struct {
	store         *Store
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler over store with the given photo size limit.
func NewHandler(store *Store, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		store:         store,
		logger:        logger.With("handler", "drafts"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for draft endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/drafts",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: draftSpec.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: draftSpec.Find},
			{Method: "POST", Pattern: "/{id}/location", Handler: h.Location, OpenAPI: draftSpec.Location},
			{Method: "PUT", Pattern: "/{id}/images/{slot}", Handler: h.SetImage, OpenAPI: draftSpec.SetImage},
			{Method: "DELETE", Pattern: "/{id}/images/{slot}", Handler: h.ClearImage, OpenAPI: draftSpec.ClearImage},
			{Method: "GET", Pattern: "/{id}/images/{slot}", Handler: h.Preview, OpenAPI: draftSpec.Preview},
			{Method: "PATCH", Pattern: "/{id}/fields", Handler: h.EditFields, OpenAPI: draftSpec.EditFields},
			{Method: "POST", Pattern: "/{id}/next", Handler: h.Next, OpenAPI: draftSpec.Next},
			{Method: "POST", Pattern: "/{id}/back", Handler: h.Back, OpenAPI: draftSpec.Back},
			{Method: "POST", Pattern: "/{id}/suggest", Handler: h.Suggest, OpenAPI: draftSpec.Suggest},
			{Method: "POST", Pattern: "/{id}/submit", Handler: h.Submit, OpenAPI: draftSpec.Submit},
		},
	}
}

// CreateRequest starts a draft. ContributorID is optional.
type CreateRequest struct {
	ContributorID string `json:"contributor_id"`
}

// LocationRequest carries either device samples or a manual location.
// Samples are reduced to the most accurate reading when Best is set.
type LocationRequest struct {
	Samples []geolocation.Sample  `json:"samples,omitempty"`
	Best    bool                  `json:"best"`
	Manual  *geolocation.Location `json:"manual,omitempty"`
}

// SuggestResponse reports a manual suggestion attempt.
type SuggestResponse struct {
	Draft      View            `json:"draft"`
	Suggestion *suggest.Result `json:"suggestion,omitempty"`
	Disabled   bool            `json:"disabled,omitempty"`
}

// SubmitResponse reports a recorded contribution.
type SubmitResponse struct {
	DraftID        uuid.UUID `json:"draft_id"`
	ContributionID uuid.UUID `json:"contribution_id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.fail(w, ErrInvalidRequest)
			return
		}
	}

	sess := h.store.Create(req.ContributorID)
	handlers.RespondJSON(w, http.StatusCreated, NewView(sess.Draft()))
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, NewView(sess.Draft()))
}

func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, ErrInvalidRequest)
		return
	}

	var (
		d   Draft
		err error
	)
	switch {
	case req.Manual != nil:
		d, err = sess.SetLocation(*req.Manual)
	case len(req.Samples) > 0:
		d, err = sess.Locate(r.Context(), geolocation.NewReadings(req.Samples), req.Best)
	default:
		err = ErrInvalidRequest
	}
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewView(d))
}

func (h *Handler) SetImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	slot, err := capture.ParseSlot(r.PathValue("slot"))
	if err != nil {
		h.fail(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, ErrInvalidRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, ErrInvalidRequest)
		return
	}

	img, err := capture.NewImage(data, header.Filename)
	if err != nil {
		h.fail(w, err)
		return
	}

	d, err := sess.SetImage(slot, img)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewView(d))
}

func (h *Handler) ClearImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	slot, err := capture.ParseSlot(r.PathValue("slot"))
	if err != nil {
		h.fail(w, err)
		return
	}

	d, err := sess.ClearImage(slot)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewView(d))
}

// Preview returns the data URI of a slot; an empty slot yields an empty preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	slot, err := capture.ParseSlot(r.PathValue("slot"))
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"slot":    string(slot),
		"preview": sess.Draft().Images().Preview(slot),
	})
}

func (h *Handler) EditFields(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var patch FieldsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.fail(w, ErrInvalidRequest)
		return
	}

	d, err := sess.EditFields(patch)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewView(d))
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	d, err := sess.Next()
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewView(d))
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	d, err := sess.Back()
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewView(d))
}

// Suggest runs a manual suggestion. A disabled flag is not an error for the
// client; it is reported in a 200 body.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	d, result, err := sess.Suggest(r.Context())
	if errors.Is(err, suggest.ErrDisabled) {
		handlers.RespondJSON(w, http.StatusOK, SuggestResponse{Draft: NewView(d), Disabled: true})
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SuggestResponse{Draft: NewView(d), Suggestion: &result})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	mode, err := ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.fail(w, err)
		return
	}

	d, err := sess.Submit(r.Context(), mode)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.store.Remove(d.ID())
	handlers.RespondJSON(w, http.StatusCreated, SubmitResponse{
		DraftID:        d.ID(),
		ContributionID: d.ContributionID(),
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, ErrInvalidRequest)
		return nil, false
	}

	sess, err := h.store.Get(id)
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, StatusFor(err), err)
}

// StatusFor maps any error a draft operation can return to an HTTP status.
func StatusFor(err error) int {
	mappers := []func(error) int{
		MapHTTPStatus,
		geolocation.MapHTTPStatus,
		capture.MapHTTPStatus,
		suggest.MapHTTPStatus,
		submissions.MapHTTPStatus,
	}
	for _, m := range mappers {
		if status := m(err); status != http.StatusInternalServerError {
			return status
		}
	}
	return http.StatusInternalServerError
}

// View is the JSON representation of a draft.
type View struct {
	ID                uuid.UUID                  `json:"id"`
	Revision          int                        `json:"revision"`
	Step              Step                       `json:"step"`
	Location          *geolocation.Location      `json:"location"`
	Images            map[capture.Slot]ImageView `json:"images"`
	Fields            Fields                     `json:"fields"`
	SuggestionPending bool                       `json:"suggestion_pending"`
	ContributionID    *uuid.UUID                 `json:"contribution_id,omitempty"`
}

// ImageView describes a captured photo without its bytes.
type ImageView struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	SizeLabel   string `json:"size_label"`
}

// NewView renders d.
func NewView(d Draft) View {
	v := View{
		ID:                d.ID(),
		Revision:          d.Revision(),
		Step:              d.Step(),
		Images:            make(map[capture.Slot]ImageView),
		Fields:            d.Fields(),
		SuggestionPending: d.PendingSuggestion() != uuid.Nil,
	}

	if loc, ok := d.Location(); ok {
		v.Location = &loc
	}

	images := d.Images()
	for _, slot := range images.Present() {
		img, _ := images.Get(slot)
		v.Images[slot] = ImageView{
			Filename:    img.Filename(),
			ContentType: img.ContentType(),
			Size:        img.Size(),
			SizeLabel:   formatting.FormatBytes(int64(img.Size()), 1),
		}
	}

	if id := d.ContributionID(); id != uuid.Nil {
		v.ContributionID = &id
	}
	return v
}
