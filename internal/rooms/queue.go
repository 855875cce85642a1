package rooms

import (
	"context"
	"errors"
	"sync"
)

var ErrQueueClosed = errors.New("outbound queue closed")

// Queue is an unbounded FIFO of outbound messages for one session.
// Any number of goroutines may Push; exactly one goroutine may Pop.
type Queue struct {
	mu     sync.Mutex
	items  []Message
	closed bool
	ready  chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends m without blocking. It fails only once the queue is closed.
func (q *Queue) Push(m Message) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, m)
	q.mu.Unlock()

	q.signal()
	return nil
}

// Close detaches the producer side. Messages already queued can still be
// popped; Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.signal()
}

// Pop blocks until a message is available. It returns false once the queue
// is closed and drained, or when ctx is done.
func (q *Queue) Pop(ctx context.Context) (Message, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			m := q.items[0]
			q.items[0] = Message{}
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
			q.mu.Unlock()
			return m, true
		}
		if q.closed {
			q.mu.Unlock()
			return Message{}, false
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return Message{}, false
		}
	}
}

// Len reports the number of messages waiting to be popped.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
