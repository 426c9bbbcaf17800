// Package reactions manages like and save relations and the locally cached
// like counters. Counters are an optimistic projection of the authoritative
// counts held by the record service.
package reactions

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"Glimpse/internal/identity"
	"Glimpse/internal/records"
)

const (
	likesTable = "likes"
	savesTable = "saves"
)

// Service performs like/save operations for the current user and keeps the
// per-post like counters. Uniqueness of relations (one like per user per
// post) is the record service's constraint, not enforced here.
type Service struct {
	records  records.Client
	identity identity.Provider
	logger   *slog.Logger

	mu         sync.RWMutex
	likeCounts map[int64]int
}

// NewService creates a reaction service. A nil logger defaults to
// slog.Default().
func NewService(rc records.Client, ident identity.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		records:    rc,
		identity:   ident,
		logger:     logger,
		likeCounts: make(map[int64]int),
	}
}

// Like records a like relation for the current user, then bumps the cached
// counter. The optimistic delta applies only after the remote write succeeds,
// so a failed write leaves the counter untouched.
func (s *Service) Like(ctx context.Context, postID int64) error {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	_, err = s.records.Insert(ctx, likesTable, records.Record{
		"user_id": userID,
		"post_id": postID,
	})
	if err != nil {
		s.logger.Error("like insert failed", "post", postID, "user", userID, "error", err)
		return fmt.Errorf("like post %d: %w", postID, err)
	}

	s.adjustCount(postID, +1)
	s.logger.Debug("post liked", "post", postID, "user", userID)
	return nil
}

// Unlike deletes the current user's like relation, then decrements the cached
// counter. The counter is not floor-clamped at zero; CountLikes resynchronizes
// any drift against the authoritative count.
func (s *Service) Unlike(ctx context.Context, postID int64) error {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	err = s.records.Delete(ctx, likesTable,
		records.Filter{Column: "user_id", Value: userID},
		records.Filter{Column: "post_id", Value: postID},
	)
	if err != nil {
		s.logger.Error("like delete failed", "post", postID, "user", userID, "error", err)
		return fmt.Errorf("unlike post %d: %w", postID, err)
	}

	s.adjustCount(postID, -1)
	s.logger.Debug("post unliked", "post", postID, "user", userID)
	return nil
}

// CountLikes queries the exact like count for the post and overwrites the
// cached counter with the authoritative value, discarding optimistic drift.
func (s *Service) CountLikes(ctx context.Context, postID int64) (int, error) {
	count, err := s.records.Count(ctx, likesTable,
		records.Filter{Column: "post_id", Value: postID},
	)
	if err != nil {
		return 0, fmt.Errorf("count likes for post %d: %w", postID, err)
	}

	s.mu.Lock()
	s.likeCounts[postID] = count
	s.mu.Unlock()

	return count, nil
}

// Save records a save relation for the current user. No counter is kept for
// saves.
func (s *Service) Save(ctx context.Context, postID int64) error {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	_, err = s.records.Insert(ctx, savesTable, records.Record{
		"user_id": userID,
		"post_id": postID,
	})
	if err != nil {
		s.logger.Error("save insert failed", "post", postID, "user", userID, "error", err)
		return fmt.Errorf("save post %d: %w", postID, err)
	}

	s.logger.Debug("post saved", "post", postID, "user", userID)
	return nil
}

// Unsave deletes the current user's save relation.
func (s *Service) Unsave(ctx context.Context, postID int64) error {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	err = s.records.Delete(ctx, savesTable,
		records.Filter{Column: "user_id", Value: userID},
		records.Filter{Column: "post_id", Value: postID},
	)
	if err != nil {
		s.logger.Error("save delete failed", "post", postID, "user", userID, "error", err)
		return fmt.Errorf("unsave post %d: %w", postID, err)
	}

	s.logger.Debug("post unsaved", "post", postID, "user", userID)
	return nil
}

// LikeCount returns the cached counter for the post. Posts never counted or
// liked this session read as zero.
func (s *Service) LikeCount(postID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.likeCounts[postID]
}

// FormattedLikeCount renders the cached counter for display.
func (s *Service) FormattedLikeCount(postID int64) string {
	return FormatLikeCount(s.LikeCount(postID))
}

// adjustCount applies an optimistic delta to the cached counter, creating the
// entry lazily on first use.
func (s *Service) adjustCount(postID int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likeCounts[postID] += delta
}
