package bench_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/randomizedcoder/spmc-bench/internal/bench"
	"github.com/randomizedcoder/spmc-bench/internal/queue"
)

func smallSuite(kind queue.Kind, runs int) bench.Config {
	return bench.Config{
		Consumers: 4,
		Items:     1000,
		BatchSize: 10,
		Runs:      runs,
		Impl:      kind,
	}
}

func TestRunSuite(t *testing.T) {
	for _, kind := range queue.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			skipIfRacy(t, kind)
			var out bytes.Buffer
			res, err := bench.RunSuite(context.Background(), smallSuite(kind, 3), &out, bench.Options{})
			if err != nil {
				t.Fatalf("RunSuite() error: %v", err)
			}
			if len(res.Runs) != 3 {
				t.Fatalf("len(Runs) = %d, want 3", len(res.Runs))
			}

			var tput, lat float64
			for _, s := range res.Runs {
				tput += s.Throughput
				lat += s.Mean
			}
			if !almostEqual(res.AvgThroughput, tput/3) || !almostEqual(res.AvgLatency, lat/3) {
				t.Errorf("averages = (%f, %f), want (%f, %f)",
					res.AvgThroughput, res.AvgLatency, tput/3, lat/3)
			}

			text := out.String()
			if !strings.HasPrefix(text, "Running benchmarks with 4 consumers and 1000 items...\n\n") {
				t.Errorf("report does not start with header:\n%s", text)
			}
			for _, want := range []string{
				"Run 1/3\n\n" + kind.Label() + " SPMC Queue Benchmark Results:\n",
				"Run 3/3\n",
				"Items processed: 1000\n",
				"Final averaged results across 3 runs:\n",
			} {
				if !strings.Contains(text, want) {
					t.Errorf("report missing %q:\n%s", want, text)
				}
			}
			if strings.Contains(text, "Run 4/3") {
				t.Errorf("report has too many runs:\n%s", text)
			}
		})
	}
}

func TestRunSuite_InvalidConfig(t *testing.T) {
	cfg := smallSuite(queue.KindMutex, 0)
	if _, err := bench.RunSuite(context.Background(), cfg, nil, bench.Options{}); !errors.Is(err, bench.ErrInvalidConfig) {
		t.Errorf("RunSuite() error = %v, want ErrInvalidConfig", err)
	}
}

func TestRunSuite_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := bench.RunSuite(ctx, smallSuite(queue.KindMutex, 3), nil, bench.Options{})
	if !errors.Is(err, bench.ErrInterrupted) {
		t.Fatalf("RunSuite() error = %v, want ErrInterrupted", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunSuite() error = %v, want it to wrap context.Canceled", err)
	}
	if len(res.Runs) != 0 || !res.Interrupted {
		t.Errorf("expected no runs and Interrupted, got %d runs, Interrupted=%v", len(res.Runs), res.Interrupted)
	}
}

// TestRunSuite_InterruptDuringCooldown cancels after the first run and
// checks the long cooldown is cut short.
func TestRunSuite_InterruptDuringCooldown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := smallSuite(queue.KindMutex, 3)
	cfg.Cooldown = time.Hour

	opts := bench.Options{
		OnPhase: func(p bench.Phase) {
			if p == bench.PhaseReported {
				cancel()
			}
		},
	}

	var out bytes.Buffer
	done := make(chan struct{})
	var res bench.SuiteResult
	var err error
	go func() {
		res, err = bench.RunSuite(ctx, cfg, &out, opts)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("RunSuite() did not return after cancellation")
	}

	if !errors.Is(err, bench.ErrInterrupted) {
		t.Fatalf("RunSuite() error = %v, want ErrInterrupted", err)
	}
	if len(res.Runs) != 1 {
		t.Fatalf("len(Runs) = %d, want 1", len(res.Runs))
	}
	if res.AvgThroughput != res.Runs[0].Throughput {
		t.Errorf("AvgThroughput = %f, want %f", res.AvgThroughput, res.Runs[0].Throughput)
	}
	if strings.Contains(out.String(), "Final averaged results") {
		t.Error("summary written for an interrupted suite")
	}
}

func TestRunSuite_WorkerAbort(t *testing.T) {
	opts := bench.Options{
		Observe: func(item int) {
			if item == 0 {
				panic("bad item")
			}
		},
	}

	_, err := bench.RunSuite(context.Background(), smallSuite(queue.KindChannel, 2), nil, opts)
	if !errors.Is(err, bench.ErrWorkerAborted) {
		t.Errorf("RunSuite() error = %v, want ErrWorkerAborted", err)
	}
}
