package vm

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO channel between one producer and one consumer.
// Send never blocks, so a ring of machines can't deadlock on backpressure.
//
// The producer calls Close when it is done, the consumer calls Drop when it
// goes away. After Drop, Send fails with ErrDisconnected. After Close, Next
// drains what is left and then fails with ErrMissingInput.
type Queue struct {
	mu      sync.Mutex
	items   []int64
	closed  bool
	dropped bool
	notify  chan struct{} // Signaled when items or closed change.
}

// NewQueue returns a queue pre-loaded with values.
func NewQueue(values ...int64) *Queue {
	return &Queue{
		items:  append([]int64(nil), values...),
		notify: make(chan struct{}, 1),
	}
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default: // Already pending, the consumer will see the new state.
	}
}

// Send appends v. It fails once the consumer is gone.
func (q *Queue) Send(v int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.dropped {
		return ErrDisconnected
	}
	q.items = append(q.items, v)
	q.signal()
	return nil
}

// Emit implements Output.
func (q *Queue) Emit(v int64) error { return q.Send(v) }

// Next pops the oldest value, blocking while the queue is empty.
func (q *Queue) Next(ctx context.Context) (int64, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			v := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return v, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return 0, ErrMissingInput
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Close marks the producer side as done.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.signal()
}

// Drop marks the consumer side as gone and discards pending values.
func (q *Queue) Drop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dropped = true
	q.items = nil
}

// Len returns the number of pending values.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
