// Package queue provides bounded blocking SPMC queue implementations for
// benchmarking.
//
// This package offers four implementations of the Queue interface:
//   - SPMC: mutex + one sync.Cond monitor. This is the reference queue.
//   - ChannelQueue: standard library approach using a buffered channel
//   - LFQ: lock-free SPMC queue from code.hybscloud.com/lfq, made blocking
//     with iox.Backoff retry loops
//   - ShardedRing: go-lock-free-ring with a single shard, readers
//     serialised, made blocking the same way as LFQ
//
// # Contract (IMPORTANT)
//
// Exactly ONE goroutine may call Push(). Any number may call Pop().
//
// Push blocks while the queue is full. Pop blocks while the queue is empty
// and SetDone has not been called. Once SetDone has been called and every
// pushed item has been taken, Pop returns (zero, false) to every caller.
// Calling Push after SetDone is a programming error and panics.
//
// Items are delivered in FIFO order. Which consumer receives which item is
// unspecified.
package queue

import (
	"errors"
	"fmt"
)

// Queue is a bounded blocking single-producer multi-consumer queue.
type Queue[T any] interface {
	// Push adds an item to the queue, blocking while it is full.
	// Only one goroutine may call Push.
	Push(T)

	// Pop removes and returns the oldest item, blocking while the queue
	// is empty. Returns false once the queue is done and drained.
	Pop() (T, bool)

	// SetDone marks the end of the stream and wakes every blocked
	// consumer. Safe to call more than once.
	SetDone()

	// Cap returns the capacity of the queue.
	Cap() int
}

// Kind names a Queue implementation.
type Kind string

const (
	KindMutex   Kind = "mutex"
	KindChannel Kind = "channel"
	KindLFQ     Kind = "lfq"
	KindRing    Kind = "ring"
)

var (
	// ErrUnknownKind is returned for an unrecognised implementation name.
	ErrUnknownKind = errors.New("queue: unknown implementation")

	// ErrInvalidCapacity is returned by New for a capacity below 1.
	ErrInvalidCapacity = errors.New("queue: capacity must be >= 1")
)

// Kinds returns every implementation, reference queue first.
func Kinds() []Kind {
	return []Kind{KindMutex, KindChannel, KindLFQ, KindRing}
}

// ParseKind validates an implementation name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Label is the implementation name used in reports.
func (k Kind) Label() string {
	if k == KindMutex || k == "" {
		return "Go"
	}
	return "Go/" + string(k)
}

// New creates a Queue of the given kind.
//
// The lfq and ring backends round capacity up to the next power of 2
// (minimum 2); Cap reports the effective value.
func New[T any](kind Kind, capacity int) (Queue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	switch kind {
	case KindMutex, "":
		return NewSPMC[T](capacity), nil
	case KindChannel:
		return NewChannel[T](capacity), nil
	case KindLFQ:
		return NewLFQ[T](capacity), nil
	case KindRing:
		q, err := NewShardedRing[T](capacity)
		if err != nil {
			return nil, err
		}
		return q, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// roundToPow2 rounds n up to the next power of 2, minimum 2.
func roundToPow2(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}
