// Package session accepts an access token issued by the identity collaborator
// and binds it to a cookie session. Token issuance (sign-up, login forms,
// validation) happens outside this service.
package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"Glimpse/internal/api"
	"Glimpse/internal/api/handlers"
	"Glimpse/internal/api/middleware"
	"Glimpse/internal/identity"
)

// Handler serves session establish/teardown.
type Handler struct {
	sessions sessions.Store
	verifier *identity.Verifier
	registry *api.Registry
	logger   *slog.Logger
}

// NewHandler creates a session handler.
func NewHandler(store sessions.Store, verifier *identity.Verifier, registry *api.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessions: store,
		verifier: verifier,
		registry: registry,
		logger:   logger,
	}
}

// HandleCreate verifies the presented access token and stores it in the
// cookie session.
// POST /api/session
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if body.AccessToken == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "access_token is required")
		return
	}

	userID, err := h.verifier.UserID(body.AccessToken)
	if err != nil {
		h.logger.Info("session rejected", "error", err)
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Invalid or expired token")
		return
	}

	session, _ := h.sessions.Get(r, middleware.SessionName)
	session.Values[middleware.SessionTokenKey] = body.AccessToken
	if err := session.Save(r, w); err != nil {
		h.logger.Error("session save failed", "user", userID, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Could not save session")
		return
	}

	h.logger.Info("session established", "user", userID)
	handlers.WriteJSON(w, http.StatusCreated, map[string]any{"user_id": userID})
}

// HandleDelete tears down the session and drops the user's store.
// DELETE /api/session
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, middleware.SessionName)

	if token, _ := session.Values[middleware.SessionTokenKey].(string); token != "" {
		if userID, err := h.verifier.UserID(token); err == nil {
			h.registry.Drop(userID)
		}
	}

	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		h.logger.Error("session teardown failed", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Could not clear session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
