package queue

import (
	"fmt"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// LFQ adapts the lock-free SPMC queue from code.hybscloud.com/lfq to the
// blocking Queue contract.
//
// It uses the compact CAS-based SPMCSeq variant: the FAA-based SPMC has a
// livelock threshold that can refuse Dequeue while items remain once the
// producer has stopped, which would strand items at shutdown.
//
// Push and Pop retry on ErrWouldBlock with an adaptive iox.Backoff.
type LFQ[T any] struct {
	q     lfq.Queue[T]
	track drainTracker
}

// NewLFQ creates an LFQ. Capacity rounds up to the next power of 2
// (minimum 2).
//
// Panics if capacity < 1.
func NewLFQ[T any](capacity int) *LFQ[T] {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}
	return &LFQ[T]{
		q: lfq.NewSPMCSeq[T](roundToPow2(capacity)),
	}
}

// Push adds an item, retrying with backoff while the queue is full.
//
// SPMC CONTRACT: Only ONE goroutine may call Push().
func (q *LFQ[T]) Push(v T) {
	q.track.checkOpen()

	backoff := iox.Backoff{}
	for {
		err := q.q.Enqueue(&v)
		if err == nil {
			break
		}
		if !iox.IsWouldBlock(err) {
			panic(fmt.Sprintf("queue: lfq enqueue: %v", err))
		}
		backoff.Wait()
	}
	q.track.published()
}

// Pop removes and returns an item, retrying with backoff while the queue
// is empty. Returns false once SetDone has been called and every pushed
// item has been taken.
func (q *LFQ[T]) Pop() (T, bool) {
	backoff := iox.Backoff{}
	for {
		v, err := q.q.Dequeue()
		if err == nil {
			q.track.taken()
			return v, true
		}
		if !iox.IsWouldBlock(err) {
			panic(fmt.Sprintf("queue: lfq dequeue: %v", err))
		}
		if q.track.drained() {
			var zero T
			return zero, false
		}
		backoff.Wait()
	}
}

// SetDone marks the end of the stream. Safe to call more than once.
func (q *LFQ[T]) SetDone() {
	q.track.finish()
}

// Cap returns the effective capacity of the queue.
func (q *LFQ[T]) Cap() int {
	return q.q.Cap()
}
