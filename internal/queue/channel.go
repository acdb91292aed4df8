package queue

import (
	"sync"

	"github.com/randomizedcoder/spmc-bench/internal/cancel"
)

// ChannelQueue wraps a buffered channel as a Queue.
//
// This is the standard library approach. Push is a blocking send, Pop a
// blocking receive, and SetDone closes the channel: a closed, drained
// channel makes every receiver return immediately.
type ChannelQueue[T any] struct {
	ch   chan T
	once sync.Once
	done cancel.AtomicCanceler
}

// NewChannel creates a ChannelQueue with the specified buffer size.
//
// Panics if size < 1: an unbuffered channel is not a bounded queue.
func NewChannel[T any](size int) *ChannelQueue[T] {
	if size < 1 {
		panic("queue: capacity must be >= 1")
	}
	return &ChannelQueue[T]{
		ch: make(chan T, size),
	}
}

// Push adds an item to the queue, blocking while the buffer is full.
func (q *ChannelQueue[T]) Push(v T) {
	if q.done.Done() {
		panic("queue: Push after SetDone")
	}
	q.ch <- v
}

// Pop removes and returns an item from the queue.
// Returns false once the channel is closed and drained.
func (q *ChannelQueue[T]) Pop() (T, bool) {
	v, ok := <-q.ch
	return v, ok
}

// SetDone closes the channel. Safe to call more than once.
func (q *ChannelQueue[T]) SetDone() {
	q.once.Do(func() {
		q.done.Cancel()
		close(q.ch)
	})
}

// Len returns the current number of items in the queue.
func (q *ChannelQueue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the capacity of the queue.
func (q *ChannelQueue[T]) Cap() int {
	return cap(q.ch)
}
