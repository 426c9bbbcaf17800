package routes

import (
	"github.com/go-chi/chi/v5"

	"Glimpse/internal/api"
	"Glimpse/internal/api/handlers/feed"
	"Glimpse/internal/api/middleware"
)

// RegisterFeedRoutes registers the feed endpoints on the router. The rate
// limiter sits behind auth so requests are budgeted per user.
func RegisterFeedRoutes(r chi.Router, registry *api.Registry, auth *middleware.SessionAuth, limit *middleware.RateLimiter) {
	h := feed.NewHandler(registry)

	r.With(auth.RequireAuth, limit.Middleware).Get("/api/feed", h.HandleGet)
	r.With(auth.RequireAuth, limit.Middleware).Post("/api/feed/refresh", h.HandleRefresh)
}
