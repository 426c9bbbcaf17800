// Package feed owns the local post list: a cached projection of the remote
// posts table, refreshed wholesale and ordered newest first.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"Glimpse/internal/records"
)

// fetchErrorMessage is the user-visible message set when a feed refresh fails.
const fetchErrorMessage = "failed to load feed"

// Service fetches the feed from the record service and holds the local copy.
// The post list is owned exclusively by this service; callers read snapshots.
type Service struct {
	records records.Client
	logger  *slog.Logger

	mu       sync.RWMutex
	posts    []Post
	fetchErr string
}

// NewService creates a feed service backed by the record service client.
func NewService(rc records.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		records: rc,
		logger:  logger,
	}
}

// FetchFeed retrieves every post ordered by creation time descending and
// replaces the local list with the result. Ties keep the order the record
// service returned. On failure the prior list is preserved and the error
// surfaces both as the returned error and the FetchError field.
func (s *Service) FetchFeed(ctx context.Context) error {
	recs, err := s.records.Select(ctx, postsTable, records.SelectOptions{
		Order: &records.Order{Column: "created_at", Descending: true},
	})
	if err != nil {
		s.logger.Error("feed fetch failed", "error", err)
		s.mu.Lock()
		s.fetchErr = fetchErrorMessage
		s.mu.Unlock()
		return fmt.Errorf("fetch feed: %w", err)
	}

	posts := make([]Post, 0, len(recs))
	if err := records.DecodeInto(recs, &posts); err != nil {
		s.logger.Error("feed decode failed", "error", err)
		s.mu.Lock()
		s.fetchErr = fetchErrorMessage
		s.mu.Unlock()
		return fmt.Errorf("fetch feed: %w", err)
	}

	s.mu.Lock()
	s.posts = posts
	s.fetchErr = ""
	s.mu.Unlock()

	s.logger.Info("feed refreshed", "post_count", len(posts))
	return nil
}

// Posts returns a snapshot of the current feed, newest first.
func (s *Service) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// FetchError returns the message from the most recent failed refresh, or ""
// after a successful one.
func (s *Service) FetchError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchErr
}
