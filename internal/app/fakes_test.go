package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"dungeon_schedule_bot/internal/domain/display"
	"dungeon_schedule_bot/internal/domain/ping"
	"dungeon_schedule_bot/internal/domain/sink"
	"dungeon_schedule_bot/internal/infra/database"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeSink is an in-memory sink recording every call.
type fakeSink struct {
	mu     sync.Mutex
	nextID int

	sent       []string
	sendErr    error
	sentEmbeds []display.Embed
	createErr  error

	edits   []sink.MessageRef
	editErr error

	deleted   []sink.MessageRef
	deleteErr map[string]error // keyed by message ID

	history     []sink.Message
	historyErr  error
	historyGets int
}

func (f *fakeSink) newRef() sink.MessageRef {
	f.nextID++
	return sink.MessageRef{ChannelID: "chan", MessageID: fmt.Sprintf("msg-%d", f.nextID)}
}

func (f *fakeSink) Send(_ context.Context, text string) (sink.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return sink.MessageRef{}, f.sendErr
	}
	f.sent = append(f.sent, text)
	return f.newRef(), nil
}

func (f *fakeSink) SendEmbed(_ context.Context, embed display.Embed) (sink.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return sink.MessageRef{}, f.createErr
	}
	f.sentEmbeds = append(f.sentEmbeds, embed)
	return f.newRef(), nil
}

func (f *fakeSink) EditEmbed(_ context.Context, ref sink.MessageRef, _ display.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, ref)
	return nil
}

func (f *fakeSink) Delete(_ context.Context, ref sink.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.deleteErr[ref.MessageID]; ok {
		return err
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeSink) RecentMessages(_ context.Context, _ int) ([]sink.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyGets++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

var _ sink.Sink = (*fakeSink)(nil)

// fakePingRepo keeps pending pings in a map.
type fakePingRepo struct {
	mu      sync.Mutex
	entries map[string]*ping.Pending
}

func newFakePingRepo() *fakePingRepo {
	return &fakePingRepo{entries: make(map[string]*ping.Pending)}
}

func (r *fakePingRepo) Upsert(_ context.Context, p *ping.Pending) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.entries[p.EventName] = &cp
	return nil
}

func (r *fakePingRepo) Delete(_ context.Context, eventName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, eventName)
	return nil
}

func (r *fakePingRepo) List(_ context.Context) ([]*ping.Pending, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ping.Pending, 0, len(r.entries))
	for _, p := range r.entries {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

var _ ping.Repository = (*fakePingRepo)(nil)

// fakeArtifactRepo stores at most one handle.
type fakeArtifactRepo struct {
	ref    *sink.MessageRef
	puts   int
	clears int
	getErr error
}

func (r *fakeArtifactRepo) Get(context.Context) (sink.MessageRef, error) {
	if r.getErr != nil {
		return sink.MessageRef{}, r.getErr
	}
	if r.ref == nil {
		return sink.MessageRef{}, database.ErrArtifactNotFound
	}
	return *r.ref, nil
}

func (r *fakeArtifactRepo) Put(_ context.Context, ref sink.MessageRef) error {
	r.ref = &ref
	r.puts++
	return nil
}

func (r *fakeArtifactRepo) Clear(context.Context) error {
	r.ref = nil
	r.clears++
	return nil
}

var _ ArtifactRepository = (*fakeArtifactRepo)(nil)
