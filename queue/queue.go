package queue

import (
	"sync"

	"github.com/dshills/pulse/event"
)

// Queue is an unbounded FIFO of pending event envelopes. It is safe for
// concurrent use by multiple producers and consumers, though the bus only
// ever attaches a single consumer.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    []*event.Envelope
	down     bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push enqueues an envelope and wakes one waiting consumer. The envelope's
// queue position is stamped as the queue length before insertion, and its
// state advances to StateQueued, both under the insertion lock. The stamped
// position is returned; callers must not touch the envelope afterwards, as
// ownership passes to the consumer.
//
// Push after Shutdown is accepted but the envelope is dropped; it returns
// ok=false so the caller can account for it.
func (q *Queue) Push(env *event.Envelope) (pos int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.down {
		return 0, false
	}

	pos = len(q.items)
	env.Meta.QueuePos = pos
	env.Meta.Transition(event.StateQueued)
	q.items = append(q.items, env)
	q.notEmpty.Signal()
	return pos, true
}

// Pop blocks until an envelope is available or the queue has been shut
// down. It returns (nil, false) only when the queue is shut down and empty;
// envelopes still queued at shutdown are returned in FIFO order first.
func (q *Queue) Pop() (*event.Envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.down {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}

	env := q.items[0]
	q.items[0] = nil // release for GC
	q.items = q.items[1:]
	return env, true
}

// TryPop removes the head of the queue without blocking. It returns
// (nil, false) if the queue is empty.
func (q *Queue) TryPop() (*event.Envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	env := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return env, true
}

// Shutdown marks the queue as closed and wakes all waiters. It is
// idempotent. After shutdown, Push drops envelopes and Pop drains whatever
// remains before reporting exhaustion.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.down {
		return
	}
	q.down = true
	q.notEmpty.Broadcast()
}

// Len returns the current number of queued envelopes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// ShutDown returns true if Shutdown has been called.
func (q *Queue) ShutDown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.down
}
