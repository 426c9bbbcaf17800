package records

import (
	"errors"
	"fmt"
)

// Typed errors for record-service operations.
// These allow services to use errors.Is() for reliable error detection
// instead of fragile string matching.
var (
	// ErrUnauthorized indicates the request failed due to invalid or expired credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the request was rejected due to insufficient permissions (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrBadRequest indicates the request was malformed or invalid (HTTP 400).
	ErrBadRequest = errors.New("bad request")

	// ErrConflict indicates the write violated a uniqueness constraint (HTTP 409).
	ErrConflict = errors.New("conflict")
)

// IsAuthError returns true if the error is an authentication/authorization error.
// This is a convenience function for checking if re-authentication might help.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// wrapStatusError converts an HTTP status from the data service into one of the
// typed errors above, keeping the operation name and response detail.
func wrapStatusError(operation string, status int, detail string) error {
	var sentinel error
	switch status {
	case 400:
		sentinel = ErrBadRequest
	case 401:
		sentinel = ErrUnauthorized
	case 403:
		sentinel = ErrForbidden
	case 404:
		sentinel = ErrNotFound
	case 409:
		sentinel = ErrConflict
	default:
		return fmt.Errorf("%s: unexpected status %d: %s", operation, status, detail)
	}
	return fmt.Errorf("%s: %w: %s", operation, sentinel, detail)
}
