package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Errors returned by the event queue.
var (
	ErrQueueClosed = errors.New("audit queue is closed")
	ErrQueueFull   = errors.New("audit queue is full")
)

// queuedEvent keeps the context the event was recorded under, detached from
// the request's cancellation.
type queuedEvent struct {
	ctx   context.Context
	event Event
}

// eventQueue is a bounded, non-blocking FIFO.
type eventQueue struct {
	mu     sync.RWMutex
	events chan queuedEvent
	closed bool
}

func newEventQueue(size int) *eventQueue {
	return &eventQueue{events: make(chan queuedEvent, size)}
}

// enqueue adds an event without blocking.
func (q *eventQueue) enqueue(item queuedEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- item:
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.events))
	}
}

// close stops further enqueues. Events already queued can still be received.
func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.events)
	}
}

func (q *eventQueue) channel() <-chan queuedEvent {
	return q.events
}

func (q *eventQueue) len() int {
	return len(q.events)
}
