package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dungeon_schedule_bot/internal/domain/display"
	"dungeon_schedule_bot/internal/domain/event"
	"dungeon_schedule_bot/internal/domain/sink"
	"dungeon_schedule_bot/internal/infra/database"
)

// callTimeout bounds every sink and store call made from a refresh pass so a
// hung request cannot stall the loop past one tick.
const callTimeout = 8 * time.Second

// ArtifactRepository persists the display artifact handle between runs.
type ArtifactRepository interface {
	Get(ctx context.Context) (sink.MessageRef, error)
	Put(ctx context.Context, ref sink.MessageRef) error
	Clear(ctx context.Context) error
}

// DisplayReconciler owns the single live schedule message. It locates or
// creates the message at startup, re-renders it on a fixed tick, and
// recreates it when it disappears. The handle is touched only from the run
// loop goroutine, so it needs no locking; holding at most one handle at a
// time is the reconciler's invariant.
type DisplayReconciler struct {
	sink       sink.Sink
	artifacts  ArtifactRepository
	classifier *event.Classifier
	janitor    *PingJanitor
	rules      []event.Rule

	interval     time.Duration
	historyLimit int
	logger       logrus.FieldLogger

	handle *sink.MessageRef
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewDisplayReconciler(
	s sink.Sink,
	artifacts ArtifactRepository,
	classifier *event.Classifier,
	janitor *PingJanitor,
	rules []event.Rule,
	interval time.Duration,
	historyLimit int,
	logger logrus.FieldLogger,
) *DisplayReconciler {
	return &DisplayReconciler{
		sink:         s,
		artifacts:    artifacts,
		classifier:   classifier,
		janitor:      janitor,
		rules:        rules,
		interval:     interval,
		historyLimit: historyLimit,
		logger:       logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start launches the refresh loop. The initial locate-or-create runs before
// the first tick.
func (r *DisplayReconciler) Start() {
	go r.run()
}

// Stop terminates the refresh loop and waits for it to finish.
func (r *DisplayReconciler) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *DisplayReconciler) run() {
	defer close(r.doneCh)

	r.withTimeout(func(ctx context.Context) {
		r.ensureArtifact(ctx)
	})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopCh:
			return
		case now := <-ticker.C:
			r.tick(now.UTC())
		}
	}
}

// tick runs one refresh pass: janitor purge, classification, render, push.
// Every failure is handled locally; nothing here can kill the loop.
func (r *DisplayReconciler) tick(now time.Time) {
	r.withTimeout(func(ctx context.Context) {
		r.janitor.Purge(ctx, now)

		if r.handle == nil {
			r.ensureArtifact(ctx)
			if r.handle == nil {
				return
			}
		}

		active, upcoming := r.classifier.Classify(r.rules, now)
		embed := display.Render(active, upcoming, now)

		err := r.sink.EditEmbed(ctx, *r.handle, embed)
		switch {
		case err == nil:
		case errors.Is(err, sink.ErrNotFound):
			r.logger.Warn("Display message was deleted externally. Recreating it...")
			r.handle = nil
			if err := r.artifacts.Clear(ctx); err != nil {
				r.logger.WithError(err).Error("Failed to clear stored artifact handle.")
			}
			r.ensureArtifact(ctx)
		default:
			// Transient or permission failure: keep the handle and let the
			// next tick retry naturally.
			r.logger.WithError(err).Warn("Failed to push display update.")
		}
	})
}

// ensureArtifact adopts exactly one display message: the stored handle if
// one exists, else a recognizable message from recent history, else a newly
// created placeholder. Leaves the handle nil on failure; the next tick
// retries.
func (r *DisplayReconciler) ensureArtifact(ctx context.Context) {
	if r.handle != nil {
		return
	}

	if ref, err := r.artifacts.Get(ctx); err == nil {
		// A stale stored handle surfaces as NotFound on the next edit and
		// goes through the recreate path, which clears it first.
		r.logger.WithField("message_id", ref.MessageID).Info("Adopted stored display message.")
		r.handle = &ref
		return
	} else if !errors.Is(err, database.ErrArtifactNotFound) {
		r.logger.WithError(err).Error("Failed to read stored artifact handle.")
	}

	msgs, err := r.sink.RecentMessages(ctx, r.historyLimit)
	if err != nil {
		if errors.Is(err, sink.ErrForbidden) {
			r.logger.Error("Bot lacks permission to read channel history.")
		} else {
			r.logger.WithError(err).Warn("Failed to scan channel history for a prior display message.")
		}
		return
	}
	for _, m := range msgs {
		if m.IsOwn && strings.Contains(m.EmbedTitle, display.TitleMarker) {
			r.logger.WithField("message_id", m.Ref.MessageID).Info("Found existing display message to edit.")
			r.adopt(ctx, m.Ref)
			return
		}
	}

	ref, err := r.sink.SendEmbed(ctx, display.Placeholder())
	if err != nil {
		if errors.Is(err, sink.ErrForbidden) {
			r.logger.Error("Bot lacks permission to send the display message.")
		} else {
			r.logger.WithError(err).Warn("Failed to create display message.")
		}
		return
	}
	r.logger.WithField("message_id", ref.MessageID).Info("Created new display message.")
	r.adopt(ctx, ref)
}

// adopt replaces (never appends to) the held handle and persists it.
func (r *DisplayReconciler) adopt(ctx context.Context, ref sink.MessageRef) {
	r.handle = &ref
	if err := r.artifacts.Put(ctx, ref); err != nil {
		r.logger.WithError(err).Error("Failed to persist artifact handle.")
	}
}

func (r *DisplayReconciler) withTimeout(fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	fn(ctx)
}
