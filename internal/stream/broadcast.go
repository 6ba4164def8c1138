// Package stream implements the reactive-stream layer the engine's readers
// use: a last-value-cached, multi-subscriber broadcast, and derived
// per-key streams with distinct-until-changed de-duplication.
package stream

import (
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer is the bounded per-subscriber buffer size. A lagging
// subscriber never blocks the publisher; instead, an intermediate value is
// dropped and only the latest is kept, matching the coalescing semantics
// §9 calls for.
const subscriberBuffer = 1

// Broadcast is a hot, last-value-cached, multi-subscriber stream. Every new
// subscriber immediately receives the current value (if any) followed by
// every subsequently published value.
type Broadcast[T any] struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*subscription[T]
	latest      T
	hasValue    bool
}

type subscription[T any] struct {
	mu sync.Mutex
	ch chan T
}

// New returns an empty Broadcast with no cached value yet.
func New[T any]() *Broadcast[T] {
	return &Broadcast[T]{subscribers: make(map[uuid.UUID]*subscription[T])}
}

// Publish sets the latest value and delivers it to every current
// subscriber, coalescing with any value a lagging subscriber hasn't
// consumed yet.
func (b *Broadcast[T]) Publish(value T) {
	b.mu.Lock()
	b.latest = value
	b.hasValue = true
	subs := make([]*subscription[T], 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(value)
	}
}

// Latest returns the most recently published value and whether one exists
// yet.
func (b *Broadcast[T]) Latest() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.hasValue
}

// Subscription is a live handle on a Broadcast. Callers receive from Chan()
// and must call Close when done to release the subscriber slot.
type Subscription[T any] struct {
	id   uuid.UUID
	sub  *subscription[T]
	stop func(uuid.UUID)
}

// Chan returns the channel new values are delivered on.
func (s *Subscription[T]) Chan() <-chan T {
	return s.sub.ch
}

// Close unregisters the subscription from its Broadcast.
func (s *Subscription[T]) Close() {
	s.stop(s.id)
}

// Subscribe registers a new subscriber and, if a value has already been
// published, immediately enqueues it.
func (b *Broadcast[T]) Subscribe() *Subscription[T] {
	sub := &subscription[T]{ch: make(chan T, subscriberBuffer)}
	id := uuid.New()

	b.mu.Lock()
	b.subscribers[id] = sub
	current, has := b.latest, b.hasValue
	b.mu.Unlock()

	if has {
		sub.deliver(current)
	}

	return &Subscription[T]{
		id:  id,
		sub: sub,
		stop: func(id uuid.UUID) {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
		},
	}
}

// deliver performs a coalescing non-blocking send: if the subscriber's
// single-slot buffer is already occupied by an unconsumed value, that
// value is dropped in favor of the new one, so a lagging subscriber always
// eventually observes the latest state rather than blocking the publisher.
func (s *subscription[T]) deliver(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.ch <- value:
		return
	default:
	}

	select {
	case <-s.ch:
	default:
	}

	select {
	case s.ch <- value:
	default:
	}
}
