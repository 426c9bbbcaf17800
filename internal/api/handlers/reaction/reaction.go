// Package reaction exposes like/save operations and the like counters to the
// UI layer.
package reaction

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Glimpse/internal/api"
	"Glimpse/internal/api/handlers"
	"Glimpse/internal/core/store"
	"Glimpse/internal/identity"
	"Glimpse/internal/records"
)

// Handler serves the reaction endpoints.
type Handler struct {
	registry *api.Registry
}

// NewHandler creates a reaction handler backed by the store registry.
func NewHandler(registry *api.Registry) *Handler {
	return &Handler{registry: registry}
}

type countResponse struct {
	PostID    int64  `json:"post_id"`
	Count     int    `json:"count"`
	Formatted string `json:"formatted"`
}

// HandleLike records a like for the acting user and bumps the local counter.
// POST /api/posts/{postID}/like
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(s *store.Store, postID int64) error {
		return s.Reactions.Like(r.Context(), postID)
	})
}

// HandleUnlike removes the acting user's like and decrements the counter.
// DELETE /api/posts/{postID}/like
func (h *Handler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(s *store.Store, postID int64) error {
		return s.Reactions.Unlike(r.Context(), postID)
	})
}

// HandleSave records a save for the acting user.
// POST /api/posts/{postID}/save
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(s *store.Store, postID int64) error {
		return s.Reactions.Save(r.Context(), postID)
	})
}

// HandleUnsave removes the acting user's save.
// DELETE /api/posts/{postID}/save
func (h *Handler) HandleUnsave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(s *store.Store, postID int64) error {
		return s.Reactions.Unsave(r.Context(), postID)
	})
}

// HandleCount resynchronizes the counter against the record service's exact
// count and returns both the number and its display form.
// GET /api/posts/{postID}/likes/count
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}
	postID, ok := postIDParam(w, r)
	if !ok {
		return
	}

	count, err := s.Reactions.CountLikes(r.Context(), postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, countResponse{
		PostID:    postID,
		Count:     count,
		Formatted: s.Reactions.FormattedLikeCount(postID),
	})
}

// mutate runs a reaction write and answers with the refreshed local counter.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op func(s *store.Store, postID int64) error) {
	s, ok := handlers.StoreFor(h.registry, w, r)
	if !ok {
		return
	}
	postID, ok := postIDParam(w, r)
	if !ok {
		return
	}

	if err := op(s, postID); err != nil {
		writeServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, countResponse{
		PostID:    postID,
		Count:     s.Reactions.LikeCount(postID),
		Formatted: s.Reactions.FormattedLikeCount(postID),
	})
}

func postIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postID must be an integer")
		return 0, false
	}
	return postID, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrNoSession):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case records.IsAuthError(err):
		handlers.WriteError(w, http.StatusForbidden, "NotAuthorized", "Not authorized")
	case errors.Is(err, records.ErrConflict):
		handlers.WriteError(w, http.StatusConflict, "AlreadyExists", "Reaction already recorded")
	default:
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "Record service request failed")
	}
}
