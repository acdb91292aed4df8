package bench

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

// WriteHeader writes the line that opens a text report.
func WriteHeader(w io.Writer, cfg Config) error {
	_, err := fmt.Fprintf(w, "Running benchmarks with %d consumers and %d items...\n\n",
		cfg.Consumers, cfg.Items)
	return err
}

// WriteRun writes the result block for run number run of runs.
func WriteRun(w io.Writer, run, runs int, s Stats) error {
	_, err := fmt.Fprintf(w,
		"Run %d/%d\n\n"+
			"%s SPMC Queue Benchmark Results:\n"+
			"Total time: %.2f microseconds\n"+
			"Mean latency: %.2f microseconds\n"+
			"Min latency: %.2f microseconds\n"+
			"Max latency: %.2f microseconds\n"+
			"Throughput: %.2f items/second\n"+
			"Items processed: %d\n\n",
		run, runs,
		s.Impl,
		s.TotalMicros,
		s.Mean,
		s.Min,
		s.Max,
		s.Throughput,
		s.ItemsProcessed,
	)
	return err
}

// WriteSummary writes the averages across the completed runs.
func WriteSummary(w io.Writer, r SuiteResult) error {
	_, err := fmt.Fprintf(w,
		"Final averaged results across %d runs:\n"+
			"Average throughput: %.2f items/second\n"+
			"Average latency: %.2f microseconds\n",
		len(r.Runs),
		r.AvgThroughput,
		r.AvgLatency,
	)
	return err
}

// WriteJSON writes r as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r SuiteResult) error {
	data, err := sonic.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("bench: encode report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
