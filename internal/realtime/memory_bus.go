package realtime

import (
	"context"
	"sync"
)

// MemoryBus is an in-process Bus with the same coalescing contract as the
// Redis one. It backs tests and single-process setups.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[string]map[int]chan struct{}
	next int
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[int]chan struct{})}
}

func (b *MemoryBus) Publish(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[channel] {
		select {
		case ch <- struct{}{}:
		default: // a signal is already pending
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, channel string) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[channel] == nil {
		b.subs[channel] = make(map[int]chan struct{})
	}
	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[channel][id] = ch

	var once sync.Once
	stop := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[channel], id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, stop
}
