package routes

import (
	"github.com/go-chi/chi/v5"

	"Glimpse/internal/api"
	"Glimpse/internal/api/handlers/reaction"
	"Glimpse/internal/api/middleware"
)

// RegisterReactionRoutes registers the like/save endpoints on the router.
func RegisterReactionRoutes(r chi.Router, registry *api.Registry, auth *middleware.SessionAuth, limit *middleware.RateLimiter) {
	h := reaction.NewHandler(registry)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(limit.Middleware)

		r.Post("/api/posts/{postID}/like", h.HandleLike)
		r.Delete("/api/posts/{postID}/like", h.HandleUnlike)
		r.Post("/api/posts/{postID}/save", h.HandleSave)
		r.Delete("/api/posts/{postID}/save", h.HandleUnsave)
		r.Get("/api/posts/{postID}/likes/count", h.HandleCount)
	})
}
