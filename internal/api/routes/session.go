package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"Glimpse/internal/api"
	sessionhandler "Glimpse/internal/api/handlers/session"
	"Glimpse/internal/api/middleware"
	"Glimpse/internal/identity"
)

// RegisterSessionRoutes registers session establish/teardown on the router.
// These endpoints run without the auth middleware, so the rate limiter keys
// them by client IP: establishing a session is how a request becomes
// authenticated in the first place.
func RegisterSessionRoutes(r chi.Router, store sessions.Store, verifier *identity.Verifier, registry *api.Registry, limit *middleware.RateLimiter, logger *slog.Logger) {
	h := sessionhandler.NewHandler(store, verifier, registry, logger)

	r.With(limit.Middleware).Post("/api/session", h.HandleCreate)
	r.With(limit.Middleware).Delete("/api/session", h.HandleDelete)
}
