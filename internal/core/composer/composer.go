// Package composer owns the draft post and drives the creation pipeline:
// image-limit enforcement, the upload sequence, record insertion, and the
// post-submit refresh and reset.
package composer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"Glimpse/internal/core/feed"
	"Glimpse/internal/core/uploads"
	"Glimpse/internal/identity"
	"Glimpse/internal/records"
)

// State names a position in the creation-dialog state machine.
type State string

const (
	// StateIdle means the creation dialog is closed with no draft.
	StateIdle State = "idle"
	// StateComposing means a draft is open for editing.
	StateComposing State = "composing"
	// StateUploading means a submit is in flight, uploading images.
	StateUploading State = "uploading"
	// StateInserting means uploads finished and the post record is being written.
	StateInserting State = "inserting"
)

const (
	// DefaultCapacity is the maximum number of images attachable to a draft.
	DefaultCapacity = 10

	// DefaultLimitSignalDuration is how long the over-capacity signal stays
	// raised before auto-clearing.
	DefaultLimitSignalDuration = 3 * time.Second

	uploadErrorMessage = "upload failed"
	insertErrorMessage = "creation failed"
)

// View is a read-only snapshot of the composer, shaped for the UI layer.
type View struct {
	State         State    `json:"state"`
	Text          string   `json:"text"`
	Previews      []string `json:"previews"`
	Capacity      int      `json:"capacity"`
	Loading       bool     `json:"loading"`
	Error         string   `json:"error,omitempty"`
	LimitExceeded bool     `json:"limit_exceeded"`
}

// Composer is the post-creation pipeline. All mutable draft state is owned
// here; the UI reads snapshots and calls the operations.
type Composer struct {
	uploader *uploads.Coordinator
	feed     *feed.Service
	records  records.Client
	identity identity.Provider
	logger   *slog.Logger

	capacity    int
	limitSignal time.Duration

	mu            sync.Mutex
	state         State
	text          string
	previews      []string
	loading       bool
	errMsg        string
	limitExceeded bool
	limitTimer    *time.Timer
	limitGen      int
}

// Option configures a Composer.
type Option func(*Composer)

// WithCapacity overrides the maximum number of attachable images.
func WithCapacity(n int) Option {
	return func(c *Composer) { c.capacity = n }
}

// WithLimitSignalDuration overrides how long the over-capacity signal lasts.
func WithLimitSignalDuration(d time.Duration) Option {
	return func(c *Composer) { c.limitSignal = d }
}

// New creates a composer wired to its collaborators. A nil logger defaults to
// slog.Default().
func New(uploader *uploads.Coordinator, feedSvc *feed.Service, rc records.Client, ident identity.Provider, logger *slog.Logger, opts ...Option) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Composer{
		uploader:    uploader,
		feed:        feedSvc,
		records:     rc,
		identity:    ident,
		logger:      logger,
		capacity:    DefaultCapacity,
		limitSignal: DefaultLimitSignalDuration,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open starts a fresh draft. Opening an already-open dialog is a no-op.
func (c *Composer) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return
	}
	c.state = StateComposing
	c.text = ""
	c.previews = nil
	c.errMsg = ""
}

// Cancel discards the draft and closes the dialog. No network calls are made.
func (c *Composer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return
	}
	c.resetLocked()
}

// SetText replaces the draft's text buffer.
func (c *Composer) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateComposing {
		return
	}
	c.text = text
}

// AddImages attaches a batch of image previews (data URLs, in selection
// order). A batch that would push the draft past capacity is rejected in full
// and raises the transient limit-exceeded signal; nothing is partially
// accepted. Returns whether the batch was accepted.
func (c *Composer) AddImages(previews []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateComposing || len(previews) == 0 {
		return false
	}

	if len(c.previews)+len(previews) > c.capacity {
		c.logger.Info("image batch rejected",
			"pending", len(c.previews),
			"batch", len(previews),
			"capacity", c.capacity)
		c.raiseLimitSignalLocked()
		return false
	}

	c.previews = append(c.previews, previews...)
	return true
}

// RemoveImage drops the pending preview at index. Out-of-range indexes are
// ignored.
func (c *Composer) RemoveImage(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateComposing || index < 0 || index >= len(c.previews) {
		return
	}
	c.previews = append(c.previews[:index], c.previews[index+1:]...)
}

// Submit runs the creation pipeline: upload every pending image in order,
// insert the post record, refresh the feed, then reset and close the dialog.
// Failures never propagate as errors; they land in the Error field of the
// view and the draft stays intact for a manual retry. Returns whether a post
// was created.
func (c *Composer) Submit(ctx context.Context) bool {
	c.mu.Lock()
	if c.state != StateComposing || c.loading {
		c.mu.Unlock()
		return false
	}
	c.loading = true
	c.errMsg = ""
	c.state = StateUploading
	text := c.text
	previews := make([]string, len(c.previews))
	copy(previews, c.previews)
	c.mu.Unlock()

	authorID, err := c.identity.CurrentUserID(ctx)
	if err != nil {
		c.logger.Error("submit without authenticated user", "error", err)
		c.fail(insertErrorMessage)
		return false
	}

	paths, err := c.uploader.UploadAll(ctx, previews)
	if err != nil {
		c.fail(uploadErrorMessage)
		return false
	}

	c.mu.Lock()
	c.state = StateInserting
	c.mu.Unlock()

	if paths == nil {
		paths = []string{}
	}
	_, err = c.records.Insert(ctx, "posts", records.Record{
		"author_id": authorID,
		"text":      text,
		"images":    paths,
	})
	if err != nil {
		c.logger.Error("post insert failed", "author", authorID, "error", err)
		c.fail(insertErrorMessage)
		return false
	}

	c.logger.Info("post created", "author", authorID, "images", len(paths))

	// Refresh failures are the feed service's to report; the post itself
	// was created, so the pipeline completes.
	if err := c.feed.FetchFeed(ctx); err != nil {
		c.logger.Warn("post-submit feed refresh failed", "error", err)
	}

	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	return true
}

// Snapshot returns the current dialog state for rendering.
func (c *Composer) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	previews := make([]string, len(c.previews))
	copy(previews, c.previews)
	return View{
		State:         c.state,
		Text:          c.text,
		Previews:      previews,
		Capacity:      c.capacity,
		Loading:       c.loading,
		Error:         c.errMsg,
		LimitExceeded: c.limitExceeded,
	}
}

// fail records a pipeline failure and returns the dialog to composing
// with the draft preserved.
func (c *Composer) fail(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading = false
	c.errMsg = message
	c.state = StateComposing
}

// resetLocked empties the draft and closes the dialog. Callers hold c.mu.
func (c *Composer) resetLocked() {
	c.state = StateIdle
	c.text = ""
	c.previews = nil
	c.loading = false
	c.errMsg = ""
	c.limitExceeded = false
	c.limitGen++
	if c.limitTimer != nil {
		c.limitTimer.Stop()
		c.limitTimer = nil
	}
}

// raiseLimitSignalLocked raises the limit-exceeded flag and schedules its
// clear. A new over-limit event replaces the outstanding timer rather than
// stacking a second clear; the generation counter keeps a timer that already
// fired from clearing a newer signal. Callers hold c.mu.
func (c *Composer) raiseLimitSignalLocked() {
	c.limitExceeded = true
	c.limitGen++
	gen := c.limitGen

	if c.limitTimer != nil {
		c.limitTimer.Stop()
	}
	c.limitTimer = time.AfterFunc(c.limitSignal, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.limitGen != gen {
			return
		}
		c.limitExceeded = false
		c.limitTimer = nil
	})
}
