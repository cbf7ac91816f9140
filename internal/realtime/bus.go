// Package realtime delivers full-snapshot subscriptions over a Redis
// pub/sub change bus: writers publish a dirty signal per collection, and
// each subscriber re-reads and receives the complete current result set.
package realtime

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	ChannelEvents = "changes:events"
	ChannelNotes  = "changes:notes"
)

// Bus carries change notifications. The payload is deliberately empty: a
// notification only means "this collection changed, re-read it".
type Bus interface {
	Publish(ctx context.Context, channel string) error
	// Subscribe returns a notification channel and a stop function. The
	// channel is closed after stop. Notifications are coalesced: a slow
	// consumer sees at least one pending signal, not a backlog.
	Subscribe(ctx context.Context, channel string) (<-chan struct{}, func())
}

type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, channel string) error {
	if err := b.client.Publish(ctx, channel, "1").Err(); err != nil {
		return fmt.Errorf("failed to publish change on %s: %w", channel, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string) (<-chan struct{}, func()) {
	pubsub := b.client.Subscribe(ctx, channel)
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		for range pubsub.Channel() {
			select {
			case out <- struct{}{}:
			default: // a signal is already pending
			}
		}
	}()

	stop := func() { _ = pubsub.Close() }
	return out, stop
}
