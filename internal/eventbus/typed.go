package eventbus

import (
	"sync"
	"sync/atomic"
)

// subscriberBuffer absorbs one planning cycle's burst: a round of flight
// updates plus the plan and solver events emitted around a solve.
const subscriberBuffer = 32

// TypedBus fans events of type T out to subscribers. Publishing never
// blocks the planning loop: a subscriber that falls behind loses events
// rather than stalling the cycle.
type TypedBus[T any] struct {
	mu      sync.RWMutex
	subs    []chan T
	closed  bool
	dropped atomic.Uint64
}

// NewTyped creates an empty bus.
func NewTyped[T any]() *TypedBus[T] { return &TypedBus[T]{} }

// Subscribe registers a subscriber and returns its receive channel. The
// channel is closed on Close or Unsubscribe.
func (b *TypedBus[T]) Subscribe() <-chan T {
	ch := make(chan T, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Publish delivers the event to every subscriber whose buffer has room.
func (b *TypedBus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Unsubscribe removes the subscriber and closes its channel. Unknown
// channels are ignored.
func (b *TypedBus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Dropped reports how many deliveries were discarded because a
// subscriber's buffer was full.
func (b *TypedBus[T]) Dropped() uint64 { return b.dropped.Load() }

// Close closes every subscriber channel and rejects further publishes.
func (b *TypedBus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
