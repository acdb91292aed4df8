package queue

import (
	"sync"
	"sync/atomic"

	"github.com/randomizedcoder/spmc-bench/internal/cancel"
)

// SPMC is a bounded blocking single-producer multi-consumer queue built on
// a mutex and ONE condition variable.
//
// One condition variable serves both "not empty" and "not full" because
// there is only one producer: the producer is the only goroutine that can
// wait for "not full", consumers are the only ones that wait for
// "not empty", and the buffer cannot be full and empty at once.
//
// WARNING: This queue is NOT safe for multiple producers. A multi-producer
// variant needs a second condition variable for "not full".
//
// The implementation includes a runtime guard that panics if two
// goroutines are inside Push at the same time.
type SPMC[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf   []T
	head  int
	count int

	// Highest occupancy observed under the lock
	maxLen int

	done cancel.AtomicCanceler

	// SPMC guard: detect concurrent Push
	pushActive atomic.Uint32
}

// NewSPMC creates an SPMC queue holding at most capacity items.
//
// Panics if capacity < 1.
func NewSPMC[T any](capacity int) *SPMC[T] {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}

	q := &SPMC[T]{
		buf: make([]T, capacity),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v, blocking while the queue is full.
//
// SPMC CONTRACT: Only ONE goroutine may call Push(), and never after
// SetDone().
func (q *SPMC[T]) Push(v T) {
	// SPMC guard: panic if concurrent Push detected
	if !q.pushActive.CompareAndSwap(0, 1) {
		panic("queue: concurrent Push on SPMC queue - only one producer allowed")
	}
	defer q.pushActive.Store(0)

	q.mu.Lock()
	if q.done.Done() {
		q.mu.Unlock()
		panic("queue: Push after SetDone")
	}
	for q.count == len(q.buf) {
		q.cond.Wait()
	}

	q.buf[(q.head+q.count)%len(q.buf)] = v
	q.count++
	if q.count > q.maxLen {
		q.maxLen = q.count
	}
	q.mu.Unlock()

	// Only consumers can be parked here: the producer is this goroutine.
	q.cond.Signal()
}

// Pop removes and returns the oldest item.
//
// It blocks while the queue is empty and not done. It returns false only
// after observing, under the lock, that the queue is done AND empty, so no
// item pushed before SetDone is ever lost.
func (q *SPMC[T]) Pop() (T, bool) {
	q.mu.Lock()
	for q.count == 0 {
		if q.done.Done() {
			q.mu.Unlock()
			var zero T
			return zero, false
		}
		q.cond.Wait()
	}

	v := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	wasFull := q.count == len(q.buf)
	q.count--
	q.mu.Unlock()

	// The producer is parked only on a full buffer, possibly queued behind
	// consumers still waiting for "not empty": wake all so it is not skipped.
	if wasFull {
		q.cond.Broadcast()
	} else {
		q.cond.Signal()
	}
	return v, true
}

// SetDone marks the queue terminal and wakes every waiter.
//
// Idempotent. The flag is set under the lock so a consumer cannot check it
// and then miss the wakeup.
func (q *SPMC[T]) SetDone() {
	q.mu.Lock()
	q.done.Cancel()
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Done reports whether SetDone has been called.
func (q *SPMC[T]) Done() bool {
	return q.done.Done()
}

// Len returns the current number of items in the queue.
func (q *SPMC[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the capacity of the queue.
func (q *SPMC[T]) Cap() int {
	return len(q.buf)
}

// MaxLen returns the highest number of items the queue has held at once.
// It never exceeds Cap.
func (q *SPMC[T]) MaxLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.maxLen
}
