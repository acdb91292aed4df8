// Package tick provides the monotonic clock used for latency samples and
// a cheap periodic trigger for progress reporting.
//
// Now reads runtime.nanotime directly. It is monotonic, unaffected by
// wall-clock adjustments, and avoids building a time.Time on the hot path,
// which matters when two readings bracket a single atomic increment.
package tick

// Ticker signals when a time interval has elapsed.
//
// The benchmark producer polls one once per batch to decide when to log
// progress. All implementations are safe for concurrent use from multiple
// goroutines, though typically only one goroutine polls Tick() in a hot
// loop.
type Ticker interface {
	// Tick returns true if the interval has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset resets the ticker to start a new interval from now.
	Reset()

	// Stop releases any resources held by the ticker.
	// After Stop, the ticker should not be used.
	Stop()
}
