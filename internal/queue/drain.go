package queue

import "github.com/randomizedcoder/spmc-bench/internal/cancel"

// drainTracker lets consumers of a non-blocking queue tell "momentarily
// empty" from "finished".
//
// The producer counts items after they are published and consumers count
// items after they are taken. Once done is observed, pushed is final, so
// popped == pushed means every item has been handed to some consumer.
// A consumer that sees popped < pushed keeps retrying: either an item is
// still in the queue or another consumer is between Dequeue and taken().
type drainTracker struct {
	pushed counter
	popped counter
	done   cancel.AtomicCanceler
}

func (d *drainTracker) published() {
	d.pushed.inc()
}

func (d *drainTracker) taken() {
	d.popped.inc()
}

func (d *drainTracker) finish() {
	d.done.Cancel()
}

func (d *drainTracker) checkOpen() {
	if d.done.Done() {
		panic("queue: Push after SetDone")
	}
}

// drained reports whether the producer is done and nothing is left.
func (d *drainTracker) drained() bool {
	if !d.done.Done() {
		return false
	}
	return d.popped.load() >= d.pushed.load()
}
