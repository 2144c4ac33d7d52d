package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"dungeon_schedule_bot/internal/domain/ping"
	"dungeon_schedule_bot/internal/domain/sink"
)

// PingJanitor owns the pending-ping table. Notification fires register new
// entries and the display tick drives the purge pass; both may run
// concurrently, so the table sits behind a mutex. Sink and store I/O always
// happens outside the lock.
type PingJanitor struct {
	mu      sync.Mutex
	pending map[string]*ping.Pending

	sink   sink.Sink
	repo   ping.Repository
	logger logrus.FieldLogger
}

func NewPingJanitor(s sink.Sink, repo ping.Repository, logger logrus.FieldLogger) *PingJanitor {
	return &PingJanitor{
		pending: make(map[string]*ping.Pending),
		sink:    s,
		repo:    repo,
		logger:  logger,
	}
}

// Restore reloads pending entries persisted by a previous process so their
// messages still get deleted on schedule.
func (j *PingJanitor) Restore(ctx context.Context) error {
	entries, err := j.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore pending pings: %w", err)
	}
	j.mu.Lock()
	for _, p := range entries {
		j.pending[p.EventName] = p
	}
	j.mu.Unlock()
	if len(entries) > 0 {
		j.logger.Infof("Restored %d pending ping(s) from a previous run.", len(entries))
	}
	return nil
}

// Track registers a sent notification for deferred deletion. A live entry
// for the same event name is replaced, and its message is deleted
// immediately (best effort) rather than orphaned.
func (j *PingJanitor) Track(ctx context.Context, eventName string, ref sink.MessageRef, deleteAfter time.Time) {
	entry := &ping.Pending{EventName: eventName, Message: ref, DeleteAfter: deleteAfter}

	j.mu.Lock()
	replaced := j.pending[eventName]
	j.pending[eventName] = entry
	j.mu.Unlock()

	if replaced != nil {
		j.logger.WithField("event", eventName).Info("Replacing undeleted ping from a prior occurrence; deleting the old message now.")
		if err := j.sink.Delete(ctx, replaced.Message); err != nil && !errors.Is(err, sink.ErrNotFound) {
			j.logger.WithField("event", eventName).WithError(err).Warn("Failed to delete superseded ping message.")
		}
	}

	if err := j.repo.Upsert(ctx, entry); err != nil {
		j.logger.WithField("event", eventName).WithError(err).Error("Failed to persist pending ping; it will not survive a restart.")
	}
}

// Purge deletes every tracked message whose delete-after instant has passed.
// Deletion is best effort and never retried: success, NotFound, and any
// other failure all remove the entry from the table.
func (j *PingJanitor) Purge(ctx context.Context, now time.Time) {
	j.mu.Lock()
	var expired []*ping.Pending
	for name, p := range j.pending {
		if !now.Before(p.DeleteAfter) {
			expired = append(expired, p)
			delete(j.pending, name)
		}
	}
	j.mu.Unlock()

	for _, p := range expired {
		err := j.sink.Delete(ctx, p.Message)
		switch {
		case err == nil:
			j.logger.WithField("event", p.EventName).Debug("Deleted expired ping message.")
		case errors.Is(err, sink.ErrNotFound):
			j.logger.WithField("event", p.EventName).Debug("Expired ping message was already gone.")
		default:
			j.logger.WithField("event", p.EventName).WithError(err).Warn("Failed to delete expired ping message; dropping it anyway.")
		}
		if err := j.repo.Delete(ctx, p.EventName); err != nil {
			j.logger.WithField("event", p.EventName).WithError(err).Error("Failed to remove pending ping from the state store.")
		}
	}
}

// Len reports the number of live entries. Used by tests and logging only.
func (j *PingJanitor) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}
