package bench

import (
	"time"

	"github.com/montanaflynn/stats"
)

// Stats is the result of one benchmark run. Latency fields are in
// microseconds.
type Stats struct {
	Impl           string        `json:"impl"`
	Total          time.Duration `json:"-"`
	TotalMicros    float64       `json:"total_us"`
	TotalMillis    float64       `json:"total_ms"`
	Mean           float64       `json:"mean_us"`
	Min            float64       `json:"min_us"`
	Max            float64       `json:"max_us"`
	P50            float64       `json:"p50_us"`
	P99            float64       `json:"p99_us"`
	StdDev         float64       `json:"stddev_us"`
	Throughput     float64       `json:"throughput"`
	ItemsProcessed int64         `json:"items_processed"`
	Samples        int           `json:"samples"`
	Latencies      []float64     `json:"-"`
}

// Summarize computes Stats from the run's elapsed time, the latency samples
// and the item counts.
//
// Throughput is items * 1e6 / elapsed microseconds. An empty sample set
// yields zero latency fields; a zero elapsed time yields zero throughput.
func Summarize(impl string, total time.Duration, samples []float64, items int, processed int64) Stats {
	s := Stats{
		Impl:           impl,
		Total:          total,
		TotalMicros:    float64(total.Nanoseconds()) / 1e3,
		TotalMillis:    float64(total.Nanoseconds()) / 1e6,
		ItemsProcessed: processed,
		Samples:        len(samples),
		Latencies:      samples,
	}
	if s.TotalMicros > 0 {
		s.Throughput = float64(items) * 1e6 / s.TotalMicros
	}
	if len(samples) == 0 {
		return s
	}

	data := stats.Float64Data(samples)

	// Errors only come from empty input, handled above.
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Mean, _ = stats.Mean(data)
	s.StdDev, _ = stats.StandardDeviationPopulation(data)
	s.P50 = percentile(data, 50, s.Mean)
	s.P99 = percentile(data, 99, s.Max)

	// Rounding in the sum can push the mean an ulp outside [min, max].
	s.Mean = clamp(s.Mean, s.Min, s.Max)
	s.P50 = clamp(s.P50, s.Min, s.Max)
	s.P99 = clamp(s.P99, s.Min, s.Max)
	return s
}

// percentile returns the pct-th percentile of data, or fallback when the
// sample set is too small for stats.Percentile to place it.
func percentile(data stats.Float64Data, pct, fallback float64) float64 {
	v, err := stats.Percentile(data, pct)
	if err != nil {
		return fallback
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
