package ping

import (
	"context"
	"time"

	"dungeon_schedule_bot/internal/domain/sink"
)

// Pending is a sent notification message awaiting scheduled deletion.
// At most one live entry exists per event name.
type Pending struct {
	EventName   string
	Message     sink.MessageRef
	DeleteAfter time.Time
}

// Repository persists the pending-ping table so a restart can still clean
// up messages sent by a previous process.
type Repository interface {
	// Upsert stores the entry, replacing any existing entry for the same
	// event name.
	Upsert(ctx context.Context, p *Pending) error
	Delete(ctx context.Context, eventName string) error
	List(ctx context.Context) ([]*Pending, error)
}
