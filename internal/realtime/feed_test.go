package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recv waits briefly for one snapshot; alive reports whether the channel is
// still open.
func recv[T any](t *testing.T, c <-chan T) (snapshot T, alive bool) {
	t.Helper()
	select {
	case snapshot, alive = <-c:
		return snapshot, alive
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return
	}
}

func expectNothing[T any](t *testing.T, c <-chan T) {
	t.Helper()
	select {
	case v, ok := <-c:
		if ok {
			t.Fatalf("unexpected delivery: %v", v)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func seedEvent(t *testing.T, repo *memory.EventRepo, titulo string) *models.Event {
	t.Helper()
	e := &models.Event{
		Titulo:      titulo,
		Cliente:     "Acme",
		Lugar:       "Salón",
		Estado:      models.StatusConfirmed,
		FechaEvento: models.DateRange{Start: time.Date(2026, 10, 5, 20, 0, 0, 0, time.UTC)},
		CreatedBy:   uuid.New(),
	}
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestFeed_InitialSnapshotOnAttach(t *testing.T) {
	repo := memory.NewEventRepo()
	seedEvent(t, repo, "Boda")
	feed := NewEventsFeed(NewMemoryBus(), repo, zap.NewNop())

	sub := feed.Subscribe(context.Background())
	defer sub.Unsubscribe()

	events, ok := recv(t, sub.C)
	require.True(t, ok)
	require.Len(t, events, 1)
	assert.Equal(t, "Boda", events[0].Titulo)
}

func TestFeed_SnapshotAfterChange(t *testing.T) {
	repo := memory.NewEventRepo()
	bus := NewMemoryBus()
	feed := NewEventsFeed(bus, repo, zap.NewNop())
	ctx := context.Background()

	sub := feed.Subscribe(ctx)
	defer sub.Unsubscribe()

	events, _ := recv(t, sub.C)
	assert.Empty(t, events)

	seedEvent(t, repo, "Cumpleaños")
	require.NoError(t, bus.Publish(ctx, ChannelEvents))

	// The delivery is the full current set, not a delta
	events, ok := recv(t, sub.C)
	require.True(t, ok)
	require.Len(t, events, 1)
	assert.Equal(t, "Cumpleaños", events[0].Titulo)
}

func TestFeed_NoDeliveryAfterUnsubscribe(t *testing.T) {
	repo := memory.NewEventRepo()
	bus := NewMemoryBus()
	feed := NewEventsFeed(bus, repo, zap.NewNop())
	ctx := context.Background()

	sub := feed.Subscribe(ctx)
	recv(t, sub.C)

	sub.Unsubscribe()
	for {
		if _, ok := recv(t, sub.C); !ok {
			break
		}
	}

	seedEvent(t, repo, "Tarde")
	require.NoError(t, bus.Publish(ctx, ChannelEvents))
	expectNothing(t, sub.C)
}

func TestFeed_ContextCancelTearsDown(t *testing.T) {
	repo := memory.NewEventRepo()
	feed := NewEventsFeed(NewMemoryBus(), repo, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	sub := feed.Subscribe(ctx)
	recv(t, sub.C)

	cancel()
	for {
		if _, ok := recv(t, sub.C); !ok {
			break
		}
	}
}

func TestFeed_IndependentSubscribers(t *testing.T) {
	repo := memory.NewEventRepo()
	bus := NewMemoryBus()
	feed := NewEventsFeed(bus, repo, zap.NewNop())
	ctx := context.Background()

	first := feed.Subscribe(ctx)
	second := feed.Subscribe(ctx)
	recv(t, first.C)
	recv(t, second.C)

	first.Unsubscribe()
	for {
		if _, ok := recv(t, first.C); !ok {
			break
		}
	}

	// The surviving subscriber still receives changes
	seedEvent(t, repo, "Conferencia")
	require.NoError(t, bus.Publish(ctx, ChannelEvents))
	events, ok := recv(t, second.C)
	require.True(t, ok)
	assert.Len(t, events, 1)

	second.Unsubscribe()
}

func TestNotesFeed_DeliversDateKeyedMap(t *testing.T) {
	repo := memory.NewNoteRepo()
	bus := NewMemoryBus()
	feed := NewNotesFeed(bus, repo, zap.NewNop())
	ctx := context.Background()

	_, err := repo.Upsert(ctx, "2026-09-20", "Confirmar catering")
	require.NoError(t, err)

	sub := feed.Subscribe(ctx)
	defer sub.Unsubscribe()

	notes, ok := recv(t, sub.C)
	require.True(t, ok)
	require.Contains(t, notes, "2026-09-20")
	assert.Equal(t, "Confirmar catering", notes["2026-09-20"].Content)
}
