// Package feed exposes the feed repository to the UI layer.
package feed

import (
	"net/http"

	"Glimpse/internal/api"
	"Glimpse/internal/api/handlers"
	feedcore "Glimpse/internal/core/feed"
	"Glimpse/internal/core/store"
)

// Handler serves the feed endpoints.
type Handler struct {
	registry *api.Registry
}

// NewHandler creates a feed handler backed by the store registry.
func NewHandler(registry *api.Registry) *Handler {
	return &Handler{registry: registry}
}

type feedResponse struct {
	Posts []feedcore.Post `json:"posts"`
	Error string          `json:"error,omitempty"`
}

// HandleGet returns the current local feed without touching the network.
// GET /api/feed
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, feedResponse{
		Posts: store.Feed.Posts(),
		Error: store.Feed.FetchError(),
	})
}

// HandleRefresh re-fetches the feed from the record service and returns the
// replaced list. A fetch failure keeps the prior list and reports the error
// field, mirroring the store's own semantics.
// POST /api/feed/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	// The error also lands in the store's fetch-error field; the response
	// carries both the surviving list and the message.
	_ = store.Feed.FetchFeed(r.Context())

	handlers.WriteJSON(w, http.StatusOK, feedResponse{
		Posts: store.Feed.Posts(),
		Error: store.Feed.FetchError(),
	})
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	return handlers.StoreFor(h.registry, w, r)
}
