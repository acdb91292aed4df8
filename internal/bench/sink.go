package bench

import "sync"

// LatencySink collects latency samples in microseconds from the producer
// and every consumer.
//
// Consumers buffer samples locally and Merge once on exit, so the lock is
// taken once per consumer rather than once per item.
type LatencySink struct {
	mu      sync.Mutex
	samples []float64
}

// NewLatencySink creates a sink with room for sizeHint samples.
func NewLatencySink(sizeHint int) *LatencySink {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &LatencySink{samples: make([]float64, 0, sizeHint)}
}

// Append adds one sample.
func (s *LatencySink) Append(us float64) {
	s.mu.Lock()
	s.samples = append(s.samples, us)
	s.mu.Unlock()
}

// Merge adds a batch of samples.
func (s *LatencySink) Merge(us []float64) {
	if len(us) == 0 {
		return
	}
	s.mu.Lock()
	s.samples = append(s.samples, us...)
	s.mu.Unlock()
}

// Len returns the number of samples collected so far.
func (s *LatencySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Snapshot returns a copy of the samples.
func (s *LatencySink) Snapshot() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}
