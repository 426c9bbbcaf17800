// Package store assembles the feed, composer and reaction services around a
// shared set of collaborators. The source application reached these through an
// ambient singleton; here every dependency is passed explicitly.
package store

import (
	"errors"
	"log/slog"
	"time"

	"Glimpse/internal/blobstore"
	"Glimpse/internal/core/composer"
	"Glimpse/internal/core/feed"
	"Glimpse/internal/core/reactions"
	"Glimpse/internal/core/uploads"
	"Glimpse/internal/identity"
	"Glimpse/internal/records"
)

// Collaborators are the external services the store depends on.
type Collaborators struct {
	Records  records.Client
	Blobs    blobstore.Client
	Identity identity.Provider
	Logger   *slog.Logger
}

// Store bundles the post/social content services for one session.
type Store struct {
	Feed      *feed.Service
	Composer  *composer.Composer
	Reactions *reactions.Service
}

// Option forwards configuration to the composer.
type Option = composer.Option

// WithCapacity overrides the draft's image capacity.
func WithCapacity(n int) Option { return composer.WithCapacity(n) }

// WithLimitSignalDuration overrides the over-capacity signal duration.
func WithLimitSignalDuration(d time.Duration) Option {
	return composer.WithLimitSignalDuration(d)
}

// New builds a store from its collaborators.
func New(c Collaborators, opts ...Option) (*Store, error) {
	if c.Records == nil {
		return nil, errors.New("store requires a record service client")
	}
	if c.Blobs == nil {
		return nil, errors.New("store requires a blob storage client")
	}
	if c.Identity == nil {
		return nil, errors.New("store requires an identity provider")
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	feedSvc := feed.NewService(c.Records, logger)
	uploader := uploads.NewCoordinator(c.Blobs, nil, logger)
	comp := composer.New(uploader, feedSvc, c.Records, c.Identity, logger, opts...)
	react := reactions.NewService(c.Records, c.Identity, logger)

	return &Store{
		Feed:      feedSvc,
		Composer:  comp,
		Reactions: react,
	}, nil
}
