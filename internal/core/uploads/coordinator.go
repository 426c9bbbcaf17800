// Package uploads sequences the per-image encode and upload steps of post
// creation and aggregates the resulting storage references.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"Glimpse/internal/blobstore"
	"Glimpse/internal/core/images"

	"github.com/google/uuid"
)

// ErrUploadFailed wraps any failure inside the upload sequence. The pipeline
// aborts on the first one; blobs uploaded before the failure stay unreferenced
// on the storage service (no compensating delete).
var ErrUploadFailed = errors.New("upload failed")

// Namer produces a unique identifier for each uploaded image.
type Namer func() string

// UUIDNamer names blobs with a random UUID. Uniqueness prevents one user's
// upload from overwriting another's.
func UUIDNamer() string {
	return uuid.NewString()
}

// Coordinator uploads image previews one at a time, in order.
type Coordinator struct {
	blobs  blobstore.Client
	namer  Namer
	logger *slog.Logger
}

// NewCoordinator creates an upload coordinator. A nil namer defaults to
// UUID-based names; a nil logger defaults to slog.Default().
func NewCoordinator(blobs blobstore.Client, namer Namer, logger *slog.Logger) *Coordinator {
	if namer == nil {
		namer = UUIDNamer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		blobs:  blobs,
		namer:  namer,
		logger: logger,
	}
}

// UploadAll decodes and uploads every preview sequentially. Each upload begins
// only after the previous completed, trading throughput for a deterministic
// failure point. On success the returned paths correspond to the previews in
// input order, one per preview.
func (c *Coordinator) UploadAll(ctx context.Context, previews []string) ([]string, error) {
	paths := make([]string, 0, len(previews))

	for i, preview := range previews {
		payload, err := images.DecodeDataURL(preview)
		if err != nil {
			c.logger.Error("image decode failed", "index", i, "error", err)
			return nil, fmt.Errorf("%w: image %d: %v", ErrUploadFailed, i, err)
		}

		name := c.namer()
		path, err := c.blobs.Upload(ctx, name, payload.Bytes(), payload.MimeType)
		if err != nil {
			c.logger.Error("image upload failed",
				"index", i,
				"name", name,
				"uploaded_so_far", len(paths),
				"error", err)
			return nil, fmt.Errorf("%w: image %d: %v", ErrUploadFailed, i, err)
		}

		c.logger.Debug("image uploaded",
			"index", i,
			"name", name,
			"path", path,
			"size", payload.Size())
		paths = append(paths, path)
	}

	return paths, nil
}
