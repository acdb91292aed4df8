package tick

import (
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the current monotonic time in nanoseconds.
// This is faster than time.Now() because it returns a single int64
// and avoids constructing a time.Time struct.
//
// Note: This uses go:linkname to access an internal runtime function.
// It may break in future Go versions, though it has been stable.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Now returns a monotonic clock reading in nanoseconds.
//
// Readings are only meaningful relative to each other; the clock is not
// affected by wall-clock adjustments.
func Now() int64 {
	return nanotime()
}

// Micros converts a nanosecond interval to floating-point microseconds.
func Micros(ns int64) float64 {
	return float64(ns) / 1e3
}

// SinceMicros returns the microseconds elapsed since start, a value
// previously returned by Now.
func SinceMicros(start int64) float64 {
	return Micros(nanotime() - start)
}
