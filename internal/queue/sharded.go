package queue

import (
	"fmt"
	"sync"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
	ring "github.com/randomizedcoder/go-lock-free-ring"
)

// ShardedRing adapts go-lock-free-ring to the blocking Queue contract.
//
// The ring is MPSC, so it is built with a single shard (one FIFO ring)
// and the read side is serialised: consumers take a spin-acquired mutex
// around TryRead. Items are boxed into the ring's interface slots.
type ShardedRing[T any] struct {
	r        *ring.ShardedRing
	readMu   sync.Mutex
	capacity int
	track    drainTracker
}

// NewShardedRing creates a ShardedRing. Capacity rounds up to the next
// power of 2 (minimum 2).
//
// Panics if capacity < 1.
func NewShardedRing[T any](capacity int) (*ShardedRing[T], error) {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}
	n := roundToPow2(capacity)
	r, err := ring.NewShardedRing(uint64(n), 1)
	if err != nil {
		return nil, fmt.Errorf("queue: sharded ring: %w", err)
	}
	return &ShardedRing[T]{r: r, capacity: n}, nil
}

// Push adds an item, retrying with backoff while the ring is full.
//
// SPMC CONTRACT: Only ONE goroutine may call Push().
func (q *ShardedRing[T]) Push(v T) {
	q.track.checkOpen()

	backoff := iox.Backoff{}
	for !q.r.Write(0, v) {
		backoff.Wait()
	}
	q.track.published()
}

// Pop removes and returns an item, retrying with backoff while the ring is
// empty. Returns false once SetDone has been called and every pushed item
// has been taken.
func (q *ShardedRing[T]) Pop() (T, bool) {
	backoff := iox.Backoff{}
	for {
		if v, ok := q.tryRead(); ok {
			q.track.taken()
			return v, true
		}
		if q.track.drained() {
			var zero T
			return zero, false
		}
		backoff.Wait()
	}
}

func (q *ShardedRing[T]) tryRead() (T, bool) {
	sw := spin.Wait{}
	for !q.readMu.TryLock() {
		sw.Once()
	}
	v, ok := q.r.TryRead()
	q.readMu.Unlock()

	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// SetDone marks the end of the stream. Safe to call more than once.
func (q *ShardedRing[T]) SetDone() {
	q.track.finish()
}

// Cap returns the effective capacity of the ring.
func (q *ShardedRing[T]) Cap() int {
	return q.capacity
}
