package tick

import (
	"time"

	"code.hybscloud.com/atomix"
)

// AtomicTicker uses runtime.nanotime and a CAS on the last tick time.
//
// The producer polls it once per batch to decide when to log progress,
// so a check must cost a few nanoseconds rather than a channel select.
// A zero or negative interval disables the ticker: Tick always returns
// false.
type AtomicTicker struct {
	interval int64 // nanoseconds
	lastTick atomix.Int64
}

// NewAtomicTicker creates an AtomicTicker with the specified interval.
func NewAtomicTicker(interval time.Duration) *AtomicTicker {
	t := &AtomicTicker{
		interval: int64(interval),
	}
	t.lastTick.StoreRelaxed(nanotime())
	return t
}

// Tick returns true if the interval has elapsed since the last tick.
//
// Uses a compare-and-swap so concurrent pollers never see the same tick.
func (a *AtomicTicker) Tick() bool {
	if a.interval <= 0 {
		return false
	}
	now := nanotime()
	last := a.lastTick.LoadRelaxed()

	if now-last >= a.interval {
		// CAS to prevent multiple triggers
		if a.lastTick.CompareAndSwapAcqRel(last, now) {
			return true
		}
	}
	return false
}

// Reset resets the ticker to start a new interval from now.
func (a *AtomicTicker) Reset() {
	a.lastTick.StoreRelaxed(nanotime())
}

// Stop is a no-op for AtomicTicker (no resources to release).
func (a *AtomicTicker) Stop() {}
