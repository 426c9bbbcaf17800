// Package handlers holds the response helpers shared by the HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"Glimpse/internal/api"
	"Glimpse/internal/core/store"
	"Glimpse/internal/identity"
)

// WriteJSON writes body as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a standardized JSON error envelope.
func WriteError(w http.ResponseWriter, status int, errorType, message string) {
	WriteJSON(w, status, map[string]any{
		"error":   errorType,
		"message": message,
	})
}

// StoreFor resolves the acting user's store from the request context. On
// failure the error response has already been written and ok is false.
func StoreFor(registry *api.Registry, w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	userID, err := identity.UserIDFromContext(r.Context())
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return nil, false
	}
	s, err := registry.For(userID)
	if err != nil {
		slog.Error("store initialization failed", "user", userID, "error", err)
		WriteError(w, http.StatusInternalServerError, "InternalError", "Could not initialize store")
		return nil, false
	}
	return s, true
}
