package bench

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/randomizedcoder/spmc-bench/internal/cancel"
)

// ErrInterrupted is returned by RunSuite when ctx is cancelled before every
// run has completed.
var ErrInterrupted = errors.New("bench: interrupted")

// SuiteResult holds every completed run and the averages across them.
type SuiteResult struct {
	Config        Config  `json:"config"`
	Runs          []Stats `json:"runs"`
	AvgThroughput float64 `json:"avg_throughput"`
	AvgLatency    float64 `json:"avg_latency_us"`
	Interrupted   bool    `json:"interrupted,omitempty"`
}

// RunSuite executes cfg.Runs runs with cfg.Cooldown between consecutive
// runs, writing the text report to out as it goes (nil discards it).
//
// Cancelling ctx stops the suite before the next run or during a cooldown;
// a run in progress always completes. The partial result is returned with
// an error wrapping ErrInterrupted and the summary is not written.
func RunSuite(ctx context.Context, cfg Config, out io.Writer, opts Options) (SuiteResult, error) {
	res := SuiteResult{Config: cfg}
	if err := cfg.Validate(); err != nil {
		return res, err
	}
	if out == nil {
		out = io.Discard
	}

	c := cancel.NewContext(ctx)
	defer c.Cancel()

	if err := WriteHeader(out, cfg); err != nil {
		return res, err
	}

	for run := 1; run <= cfg.Runs; run++ {
		if c.Done() {
			return interrupted(ctx, res)
		}

		s, err := Run(cfg, opts)
		if err != nil {
			return res, fmt.Errorf("run %d/%d: %w", run, cfg.Runs, err)
		}
		res.Runs = append(res.Runs, s)
		if err := WriteRun(out, run, cfg.Runs, s); err != nil {
			return res, err
		}

		if run < cfg.Runs && !c.Sleep(cfg.Cooldown) {
			return interrupted(ctx, res)
		}
	}

	res.average()
	logx.Infow("suite finished",
		logx.Field("impl", cfg.Impl.Label()),
		logx.Field("runs", len(res.Runs)),
		logx.Field("avg_throughput", res.AvgThroughput),
		logx.Field("avg_latency_us", res.AvgLatency),
	)
	return res, WriteSummary(out, res)
}

func interrupted(ctx context.Context, res SuiteResult) (SuiteResult, error) {
	res.Interrupted = true
	res.average()
	logx.Infow("suite interrupted", logx.Field("completed_runs", len(res.Runs)))
	return res, fmt.Errorf("%w after %d of %d runs: %w",
		ErrInterrupted, len(res.Runs), res.Config.Runs, context.Cause(ctx))
}

// average fills AvgThroughput and AvgLatency from the completed runs.
func (r *SuiteResult) average() {
	if len(r.Runs) == 0 {
		return
	}
	var tput, lat float64
	for _, s := range r.Runs {
		tput += s.Throughput
		lat += s.Mean
	}
	n := float64(len(r.Runs))
	r.AvgThroughput = tput / n
	r.AvgLatency = lat / n
}
