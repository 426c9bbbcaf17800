// Package composer exposes the post-creation dialog to the UI layer. Every
// response carries the dialog snapshot so the UI can render state, flags and
// error messages from a single shape.
package composer

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Glimpse/internal/api"
	"Glimpse/internal/api/handlers"
	corecomposer "Glimpse/internal/core/composer"
)

// Handler serves the creation-dialog endpoints.
type Handler struct {
	registry *api.Registry
}

// NewHandler creates a composer handler backed by the store registry.
func NewHandler(registry *api.Registry) *Handler {
	return &Handler{registry: registry}
}

// HandleState returns the dialog snapshot.
// GET /api/composer
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, s.Composer.Snapshot())
}

// HandleOpen opens the creation dialog with a fresh draft.
// POST /api/composer/open
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}
	s.Composer.Open()
	handlers.WriteJSON(w, http.StatusOK, s.Composer.Snapshot())
}

// HandleCancel discards the draft and closes the dialog.
// POST /api/composer/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}
	s.Composer.Cancel()
	handlers.WriteJSON(w, http.StatusOK, s.Composer.Snapshot())
}

// HandleSetText replaces the draft text.
// PUT /api/composer/text
func (h *Handler) HandleSetText(w http.ResponseWriter, r *http.Request) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	s.Composer.SetText(body.Text)
	handlers.WriteJSON(w, http.StatusOK, s.Composer.Snapshot())
}

// HandleAddImages attaches a batch of image previews to the draft. An
// over-capacity batch is rejected wholesale; the snapshot's limit_exceeded
// flag reports the transient signal.
// POST /api/composer/images
func (h *Handler) HandleAddImages(w http.ResponseWriter, r *http.Request) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}

	var body struct {
		Previews []string `json:"previews"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if len(body.Previews) == 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "previews is required")
		return
	}

	accepted := s.Composer.AddImages(body.Previews)
	handlers.WriteJSON(w, http.StatusOK, addImagesResponse{
		Accepted: accepted,
		View:     s.Composer.Snapshot(),
	})
}

type addImagesResponse struct {
	Accepted bool              `json:"accepted"`
	View     corecomposer.View `json:"view"`
}

// HandleRemoveImage drops the pending preview at the given index.
// DELETE /api/composer/images/{index}
func (h *Handler) HandleRemoveImage(w http.ResponseWriter, r *http.Request) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "index must be a non-negative integer")
		return
	}

	s.Composer.RemoveImage(index)
	handlers.WriteJSON(w, http.StatusOK, s.Composer.Snapshot())
}

// HandleSubmit runs the creation pipeline. Pipeline failures are not HTTP
// errors: they surface in the snapshot's error field with the draft intact.
// POST /api/composer/submit
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}

	created := s.Composer.Submit(r.Context())
	handlers.WriteJSON(w, http.StatusOK, submitResponse{
		Created: created,
		View:    s.Composer.Snapshot(),
	})
}

type submitResponse struct {
	Created bool              `json:"created"`
	View    corecomposer.View `json:"view"`
}
