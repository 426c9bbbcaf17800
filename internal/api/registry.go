// Package api exposes the content store to the UI layer over HTTP.
package api

import (
	"sync"

	"Glimpse/internal/core/store"
)

// StoreFactory builds a fresh store for a session. Collaborator clients are
// shared; the mutable store state (draft, feed copy, counters) is not.
type StoreFactory func() (*store.Store, error)

// Registry hands out one store per authenticated user, created lazily on
// first use and dropped on logout.
type Registry struct {
	factory StoreFactory

	mu     sync.RWMutex
	stores map[string]*store.Store
}

// NewRegistry creates a registry around the given factory.
func NewRegistry(factory StoreFactory) *Registry {
	return &Registry{
		factory: factory,
		stores:  make(map[string]*store.Store),
	}
}

// For returns the store for userID, creating it on first use.
func (r *Registry) For(userID string) (*store.Store, error) {
	r.mu.RLock()
	s, ok := r.stores[userID]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[userID]; ok {
		return s, nil
	}
	s, err := r.factory()
	if err != nil {
		return nil, err
	}
	r.stores[userID] = s
	return s, nil
}

// Drop discards the store for userID, if any.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, userID)
}
