package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"Glimpse/internal/identity"
)

const (
	// SessionName is the cookie session carrying the user's access token.
	SessionName = "glimpse_session"

	// SessionTokenKey is the session value holding the access token.
	SessionTokenKey = "access_token"
)

// SessionAuth enforces an authenticated session for protected routes. The
// access token rides in a cookie session; the verifier turns it into the
// acting user's id, which is injected into the request context together with
// the raw token for outbound record-service calls.
type SessionAuth struct {
	sessions sessions.Store
	verifier *identity.Verifier
	logger   *slog.Logger
}

// NewSessionAuth creates the session auth middleware.
func NewSessionAuth(store sessions.Store, verifier *identity.Verifier, logger *slog.Logger) *SessionAuth {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionAuth{
		sessions: store,
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth rejects requests without a valid session and otherwise injects
// the user id and access token into the request context.
func (m *SessionAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.sessions.Get(r, SessionName)
		if err != nil {
			m.logger.Debug("session decode failed", "path", r.URL.Path, "error", err)
			writeAuthError(w, "Invalid session")
			return
		}

		token, _ := session.Values[SessionTokenKey].(string)
		if token == "" {
			writeAuthError(w, "Authentication required")
			return
		}

		userID, err := m.verifier.UserID(token)
		if err != nil {
			m.logger.Info("access token rejected", "path", r.URL.Path, "error", err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		ctx := identity.WithUserID(r.Context(), userID)
		ctx = identity.WithAccessToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeAuthError writes a 401 with a JSON error envelope.
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   "AuthRequired",
		"message": message,
	})
}
