package realtime

import (
	"context"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
	"go.uber.org/zap"
)

// Feed turns a change bus channel plus a loader into a snapshot
// subscription: the subscriber receives the full current result set on
// attach and again after every change, never a delta. One Feed serves many
// subscribers; each view opens at most one subscription and releases it on
// teardown.
type Feed[T any] struct {
	load    func(ctx context.Context) (T, error)
	bus     Bus
	channel string
	logger  *zap.Logger
}

func NewFeed[T any](bus Bus, channel string, load func(ctx context.Context) (T, error), logger *zap.Logger) *Feed[T] {
	return &Feed[T]{load: load, bus: bus, channel: channel, logger: logger}
}

// Subscription is one live attachment. C is closed after Unsubscribe (or
// context cancellation); no snapshot is ever delivered after that, so a
// detached view cannot be mutated by a late delivery.
type Subscription[T any] struct {
	C      <-chan T
	cancel context.CancelFunc
}

func (s *Subscription[T]) Unsubscribe() {
	s.cancel()
}

func (f *Feed[T]) Subscribe(ctx context.Context) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	notifs, stop := f.bus.Subscribe(ctx, f.channel)
	out := make(chan T, 1)

	go func() {
		defer close(out)
		defer stop()

		f.deliver(ctx, out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-notifs:
				if !ok {
					return
				}
				f.deliver(ctx, out)
			}
		}
	}()

	return &Subscription[T]{C: out, cancel: cancel}
}

func (f *Feed[T]) deliver(ctx context.Context, out chan T) {
	snapshot, err := f.load(ctx)
	if err != nil {
		if ctx.Err() == nil {
			f.logger.Warn("snapshot load failed", zap.String("channel", f.channel), zap.Error(err))
		}
		return
	}

	// Only the latest snapshot matters: drop one the consumer hasn't
	// taken yet rather than queueing behind it.
	select {
	case <-out:
	default:
	}
	select {
	case out <- snapshot:
	case <-ctx.Done():
	}
}

// NewEventsFeed delivers all events ordered by updated_at descending.
func NewEventsFeed(bus Bus, repo repositories.EventRepository, logger *zap.Logger) *Feed[[]*models.Event] {
	return NewFeed(bus, ChannelEvents, repo.ListByUpdatedDesc, logger)
}

// NewNotesFeed delivers the full date-keyed note map.
func NewNotesFeed(bus Bus, repo repositories.NoteRepository, logger *zap.Logger) *Feed[map[string]*models.Note] {
	return NewFeed(bus, ChannelNotes, repo.ListAll, logger)
}
