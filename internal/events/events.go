// Package events fans cart and wishlist changes out to open storefront
// sessions so their header badges stay current.
package events

import (
	"context"
	"sync"
	"time"
)

type Kind string

const (
	CartChanged     Kind = "cart.changed"
	WishlistChanged Kind = "wishlist.changed"
)

// Event tells a shopper's sessions that one of their counters changed.
type Event struct {
	Kind   Kind      `json:"kind"`
	UserID string    `json:"user_id"`
	Count  int       `json:"count"`
	At     time.Time `json:"at"`
}

// Bus delivers events to subscribers. The returned cancel func releases the
// subscription and closes its channel; cancelling ctx does the same.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context) (<-chan Event, func())
}

const subscriberBuffer = 16

// MemoryBus delivers within one process. A subscriber that falls behind by
// more than its buffer misses events rather than blocking publishers.
type MemoryBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: map[int]chan Event{}}
}

func (b *MemoryBus) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel
}

// Subscribers is the number of live subscriptions.
func (b *MemoryBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
