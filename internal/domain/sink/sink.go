package sink

import (
	"context"
	"fmt"

	"dungeon_schedule_bot/internal/domain/display"
)

// Errors every Sink implementation must surface for the failure kinds the
// services react to. Implementations wrap these with %w; any other error is
// treated as transient by callers.
var (
	ErrNotFound  = fmt.Errorf("sink: message not found")
	ErrForbidden = fmt.Errorf("sink: operation forbidden")
)

// MessageRef is an opaque handle to a message living in the sink channel.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// Message is the slice of a channel message the reconciler needs when
// scanning history for a prior display artifact.
type Message struct {
	Ref        MessageRef
	IsOwn      bool   // authored by this bot's user
	EmbedTitle string // title of the first embed, empty when there is none
}

// Sink abstracts the chat platform. Every call is bounded-latency, fallible
// I/O; implementations honor the context deadline.
type Sink interface {
	Send(ctx context.Context, text string) (MessageRef, error)
	SendEmbed(ctx context.Context, embed display.Embed) (MessageRef, error)
	EditEmbed(ctx context.Context, ref MessageRef, embed display.Embed) error
	Delete(ctx context.Context, ref MessageRef) error
	RecentMessages(ctx context.Context, limit int) ([]Message, error)
}
