package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"dungeon_schedule_bot/internal/domain/ping"
	"dungeon_schedule_bot/internal/domain/sink"
)

var janitorNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func TestJanitorPurgesEachEntryAtItsOwnDeadline(t *testing.T) {
	t.Parallel()
	s := &fakeSink{}
	repo := newFakePingRepo()
	j := NewPingJanitor(s, repo, testLogger())
	ctx := context.Background()

	refA := sink.MessageRef{ChannelID: "chan", MessageID: "ping-a"}
	refB := sink.MessageRef{ChannelID: "chan", MessageID: "ping-b"}
	j.Track(ctx, "Easy Dungeon", refA, janitorNow.Add(2*time.Minute))
	j.Track(ctx, "Medium Dungeon", refB, janitorNow.Add(5*time.Minute))

	j.Purge(ctx, janitorNow.Add(time.Minute))
	if len(s.deleted) != 0 || j.Len() != 2 {
		t.Fatalf("nothing should expire yet: deleted=%d live=%d", len(s.deleted), j.Len())
	}

	j.Purge(ctx, janitorNow.Add(2*time.Minute))
	if len(s.deleted) != 1 || s.deleted[0] != refA {
		t.Fatalf("expected only the first ping deleted, got %v", s.deleted)
	}
	if j.Len() != 1 {
		t.Fatalf("live entries = %d, want 1", j.Len())
	}

	j.Purge(ctx, janitorNow.Add(6*time.Minute))
	if len(s.deleted) != 2 {
		t.Fatalf("expected both pings deleted, got %v", s.deleted)
	}
	if j.Len() != 0 {
		t.Fatalf("live entries = %d, want 0", j.Len())
	}
	if entries, _ := repo.List(ctx); len(entries) != 0 {
		t.Fatalf("state store still holds %d entries", len(entries))
	}
}

func TestJanitorDropsEntryWhenDeleteFails(t *testing.T) {
	t.Parallel()
	s := &fakeSink{deleteErr: map[string]error{
		"gone":   sink.ErrNotFound,
		"broken": errors.New("boom"),
	}}
	repo := newFakePingRepo()
	j := NewPingJanitor(s, repo, testLogger())
	ctx := context.Background()

	j.Track(ctx, "Leaf Raid", sink.MessageRef{ChannelID: "chan", MessageID: "gone"}, janitorNow)
	j.Track(ctx, "Hard Dungeon", sink.MessageRef{ChannelID: "chan", MessageID: "broken"}, janitorNow)

	j.Purge(ctx, janitorNow.Add(time.Second))
	if j.Len() != 0 {
		t.Fatalf("entries must be dropped regardless of delete outcome, %d left", j.Len())
	}
	if entries, _ := repo.List(ctx); len(entries) != 0 {
		t.Fatalf("state store still holds %d entries", len(entries))
	}
}

func TestJanitorTrackReplacesPriorPing(t *testing.T) {
	t.Parallel()
	s := &fakeSink{}
	repo := newFakePingRepo()
	j := NewPingJanitor(s, repo, testLogger())
	ctx := context.Background()

	old := sink.MessageRef{ChannelID: "chan", MessageID: "old"}
	j.Track(ctx, "Easy Dungeon", old, janitorNow.Add(2*time.Minute))

	fresh := sink.MessageRef{ChannelID: "chan", MessageID: "fresh"}
	j.Track(ctx, "Easy Dungeon", fresh, janitorNow.Add(time.Hour))

	if j.Len() != 1 {
		t.Fatalf("live entries = %d, want 1 (replace, not append)", j.Len())
	}
	// The superseded message is deleted right away instead of being orphaned.
	if len(s.deleted) != 1 || s.deleted[0] != old {
		t.Fatalf("expected superseded message deleted immediately, got %v", s.deleted)
	}
	entries, _ := repo.List(ctx)
	if len(entries) != 1 || entries[0].Message != fresh {
		t.Fatalf("state store should hold the fresh ping, got %+v", entries)
	}
}

func TestJanitorRestoresFromRepository(t *testing.T) {
	t.Parallel()
	s := &fakeSink{}
	repo := newFakePingRepo()
	stale := &ping.Pending{
		EventName:   "Nightmare Dungeon",
		Message:     sink.MessageRef{ChannelID: "chan", MessageID: "stale"},
		DeleteAfter: janitorNow.Add(-time.Minute),
	}
	if err := repo.Upsert(context.Background(), stale); err != nil {
		t.Fatalf("seeding repo: %v", err)
	}

	j := NewPingJanitor(s, repo, testLogger())
	if err := j.Restore(context.Background()); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if j.Len() != 1 {
		t.Fatalf("restored entries = %d, want 1", j.Len())
	}

	j.Purge(context.Background(), janitorNow)
	if len(s.deleted) != 1 || s.deleted[0] != stale.Message {
		t.Fatalf("expected the stale ping from the previous run deleted, got %v", s.deleted)
	}
}
