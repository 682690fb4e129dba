// Package eventbus implements the optional broadcast fan-out described
// in spec.md §4.12: each subscriber gets an isolated in-memory FIFO fed
// in the bus's receive order. Not required for a single-consumer
// pipeline — the orchestrator's own event channel already serves that
// case — but useful for pluggable observers (loggers, UIs).
//
// Grounded on the teacher's ObserverManager broadcast pattern
// (internal/infrastructure/monitoring/observer.go), which likewise
// fans a single stream of progress notifications out to N independent
// listeners. Emit blocks the producer while any subscriber's buffer is
// full.
package eventbus

import (
	"sync"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
)

// subscriberBufferSize bounds each subscriber's FIFO; Emit blocks a
// slow subscriber rather than dropping events, since ordering and
// completeness are required guarantees (spec.md §5, "Ordering
// guarantees").
const subscriberBufferSize = 256

// Bus fans out emitted events to every current subscriber, each seeing
// them in the order the bus received them (spec.md §5).
type Bus struct {
	mu          sync.Mutex
	subscribers []chan domain.Event
	closed      bool
}

// New builds an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a new listener and returns its private channel.
// The channel closes once Shutdown is called and every event queued
// ahead of it has been delivered.
func (b *Bus) Subscribe() <-chan domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan domain.Event, subscriberBufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Emit enqueues event to every current subscriber.
func (b *Bus) Emit(event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subscribers {
		ch <- event
	}
}

// Shutdown closes every subscriber's channel, letting their range
// loops complete (spec.md §4.12, "enqueues a terminator").
func (b *Bus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
}
