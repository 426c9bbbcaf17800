// Package identity supplies the current authenticated user's id to the core
// services. Authentication itself happens elsewhere; this package only reads
// the result of it (an access token or a resolved session).
package identity

import (
	"context"
	"errors"
)

// ErrNoSession indicates no authenticated user is present for the operation.
var ErrNoSession = errors.New("no authenticated session")

// Provider resolves the acting user for an operation.
type Provider interface {
	// CurrentUserID returns the authenticated user's id.
	// Returns ErrNoSession when the operation has no authenticated user.
	CurrentUserID(ctx context.Context) (string, error)
}

type contextKey string

// userIDKey is where the API middleware stashes the resolved user id.
const userIDKey contextKey = "identity_user_id"

// accessTokenKey is where the API middleware stashes the raw access token so
// outbound record-service calls can forward the user's credentials.
const accessTokenKey contextKey = "identity_access_token"

// WithAccessToken returns a context carrying the session's access token.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// AccessTokenFromContext returns the session's access token, or "" when the
// context carries none. The signature matches records.TokenSource.
func AccessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

// WithUserID returns a context carrying the resolved user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// contextProvider reads the user id previously resolved by middleware.
type contextProvider struct{}

// NewContextProvider returns a Provider backed by the request context.
func NewContextProvider() Provider {
	return contextProvider{}
}

func (contextProvider) CurrentUserID(ctx context.Context) (string, error) {
	return UserIDFromContext(ctx)
}

// UserIDFromContext returns the user id stashed by the API middleware.
func UserIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

// Static returns a Provider that always reports the given user id.
// Useful for tests and single-user tooling.
func Static(userID string) Provider {
	return staticProvider(userID)
}

type staticProvider string

func (p staticProvider) CurrentUserID(context.Context) (string, error) {
	if p == "" {
		return "", ErrNoSession
	}
	return string(p), nil
}
