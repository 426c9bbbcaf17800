package middleware

import (
	"net/http"
	"sync"
	"time"

	"Glimpse/internal/identity"
)

// RateLimiter is a fixed-window in-memory rate limiter. Requests that carry
// an authenticated user are keyed by user id, so clients behind a shared NAT
// don't consume each other's budget; anonymous requests (session establish)
// fall back to the client IP. Good enough for a single instance; a shared
// deployment would want the windows in an external store.
type RateLimiter struct {
	windows  map[string]*window
	requests int
	period   time.Duration
	mu       sync.Mutex
}

type window struct {
	resetAt time.Time
	count   int
}

// NewRateLimiter allows up to requests per period for each key.
func NewRateLimiter(requests int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows:  make(map[string]*window),
		requests: requests,
		period:   period,
	}
	go rl.cleanup()
	return rl
}

// Middleware rejects requests over the limit with 429. Mount it after the
// auth middleware on protected routes so the user id is available as the key.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(requestKey(r)) {
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestKey buckets the request by acting user when one is resolved, by
// client IP otherwise. The prefixes keep a user id from colliding with an
// address.
func requestKey(r *http.Request) string {
	if userID, err := identity.UserIDFromContext(r.Context()); err == nil {
		return "user:" + userID
	}
	return "ip:" + clientIP(r)
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UTC()
	win, ok := rl.windows[key]
	if !ok || now.After(win.resetAt) {
		rl.windows[key] = &window{count: 1, resetAt: now.Add(rl.period)}
		return true
	}
	if win.count < rl.requests {
		win.count++
		return true
	}
	return false
}

// cleanup drops expired windows so idle clients don't accumulate.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.period)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now().UTC()
		for key, win := range rl.windows {
			if now.After(win.resetAt) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
