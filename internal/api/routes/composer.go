package routes

import (
	"github.com/go-chi/chi/v5"

	"Glimpse/internal/api"
	"Glimpse/internal/api/handlers/composer"
	"Glimpse/internal/api/middleware"
)

// RegisterComposerRoutes registers the creation-dialog endpoints on the router.
func RegisterComposerRoutes(r chi.Router, registry *api.Registry, auth *middleware.SessionAuth, limit *middleware.RateLimiter) {
	h := composer.NewHandler(registry)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(limit.Middleware)

		r.Get("/api/composer", h.HandleState)
		r.Post("/api/composer/open", h.HandleOpen)
		r.Post("/api/composer/cancel", h.HandleCancel)
		r.Put("/api/composer/text", h.HandleSetText)
		r.Post("/api/composer/images", h.HandleAddImages)
		r.Delete("/api/composer/images/{index}", h.HandleRemoveImage)
		r.Post("/api/composer/submit", h.HandleSubmit)
	})
}
