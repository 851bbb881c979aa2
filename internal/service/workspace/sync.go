package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/repositories"
)

// cloudSyncer pushes snapshots to the cloud repository on a background
// goroutine. Only the latest pending snapshot is kept; intermediate ones
// are skipped.
type cloudSyncer struct {
	repo    repositories.SnapshotRepository
	userID  string
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	pending *models.Snapshot

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newCloudSyncer(repo repositories.SnapshotRepository, userID string, timeout time.Duration, logger *slog.Logger) *cloudSyncer {
	c := &cloudSyncer{
		repo:    repo,
		userID:  userID,
		timeout: timeout,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.run()
	return c
}

// Touch queues snap for upload. It never blocks.
func (c *cloudSyncer) Touch(snap *models.Snapshot) {
	c.mu.Lock()
	c.pending = snap
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *cloudSyncer) run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.wake:
			c.flush()
		case <-c.done:
			c.flush()
			return
		}
	}
}

func (c *cloudSyncer) flush() {
	c.mu.Lock()
	snap := c.pending
	c.pending = nil
	c.mu.Unlock()
	if snap == nil {
		return
	}

	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.repo.Save(ctx, c.userID, snap); err != nil {
		c.logger.Warn("cloud sync failed",
			"user_id", c.userID,
			"version", snap.Version,
			"error", err,
		)
		return
	}
	c.logger.Debug("cloud sync complete",
		"user_id", c.userID,
		"version", snap.Version,
	)
}

// Close uploads whatever is pending and stops the worker.
// Safe to call multiple times.
func (c *cloudSyncer) Close() {
	c.once.Do(func() { close(c.done) })
	<-c.stopped
}
