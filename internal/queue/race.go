//go:build race

package queue

// RaceEnabled is true when the race detector is active.
// Tests use it to skip concurrent runs of the lfq backend, whose
// atomix-based ordering the detector reports as false positives.
const RaceEnabled = true
