package bench_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/randomizedcoder/spmc-bench/internal/bench"
	"github.com/randomizedcoder/spmc-bench/internal/queue"
)

// runWithin runs the harness and fails the test if it does not return
// within d.
func runWithin(t *testing.T, cfg bench.Config, opts bench.Options, d time.Duration) (bench.Stats, error) {
	t.Helper()
	type result struct {
		s   bench.Stats
		err error
	}
	ch := make(chan result, 1)
	go func() {
		s, err := bench.Run(cfg, opts)
		ch <- result{s, err}
	}()

	select {
	case r := <-ch:
		return r.s, r.err
	case <-time.After(d):
		t.Fatalf("Run(%+v) still running after %v", cfg, d)
		return bench.Stats{}, nil
	}
}

// skipIfRacy skips the lfq backend under the race detector: lfq orders
// its slots with atomix, which the detector reports as races.
func skipIfRacy(t *testing.T, kind queue.Kind) {
	t.Helper()
	if queue.RaceEnabled && kind == queue.KindLFQ {
		t.Skip("skip: lfq uses cross-variable memory ordering")
	}
}

func checkStats(t *testing.T, cfg bench.Config, s bench.Stats) {
	t.Helper()

	if s.ItemsProcessed != int64(cfg.Items) {
		t.Errorf("ItemsProcessed = %d, want %d", s.ItemsProcessed, cfg.Items)
	}
	wantSamples := cfg.Items + cfg.Batches()
	if len(s.Latencies) != wantSamples {
		t.Errorf("len(Latencies) = %d, want %d", len(s.Latencies), wantSamples)
	}
	if s.Samples != len(s.Latencies) {
		t.Errorf("Samples = %d, want %d", s.Samples, len(s.Latencies))
	}
	if s.Min > s.Mean || s.Mean > s.Max {
		t.Errorf("expected Min <= Mean <= Max, got %f <= %f <= %f", s.Min, s.Mean, s.Max)
	}
	for i, v := range s.Latencies {
		if v < 0 {
			t.Fatalf("sample %d is negative: %f", i, v)
		}
	}
	if s.Total <= 0 {
		t.Errorf("Total = %v, want > 0", s.Total)
	}
	if cfg.Items > 0 && s.Throughput <= 0 {
		t.Errorf("Throughput = %f, want > 0", s.Throughput)
	}
	if s.Impl != cfg.Impl.Label() {
		t.Errorf("Impl = %q, want %q", s.Impl, cfg.Impl.Label())
	}
}

func TestRun_Scenarios(t *testing.T) {
	testCases := []struct {
		name      string
		consumers int
		items     int
		batch     int
	}{
		{"empty", 1, 0, 1},
		{"1c_10items_batch1", 1, 10, 1},
		{"4c_1000items_batch10", 4, 1000, 10},
		{"2c_100items_batch1000", 2, 100, 1000},
		{"8c_10000items_batch4", 8, 10000, 4},
	}

	for _, kind := range queue.Kinds() {
		for _, tc := range testCases {
			t.Run(fmt.Sprintf("%s/%s", kind, tc.name), func(t *testing.T) {
				skipIfRacy(t, kind)
				cfg := bench.Config{
					Consumers: tc.consumers,
					Items:     tc.items,
					BatchSize: tc.batch,
					Impl:      kind,
				}

				seen := make([]int, tc.items)
				var order []int
				var mu sync.Mutex
				opts := bench.Options{
					Observe: func(item int) {
						mu.Lock()
						seen[item]++
						order = append(order, item)
						mu.Unlock()
					},
				}

				s, err := runWithin(t, cfg, opts, 30*time.Second)
				if err != nil {
					t.Fatalf("Run() error: %v", err)
				}
				checkStats(t, cfg, s)

				for item, n := range seen {
					if n != 1 {
						t.Fatalf("item %d consumed %d times, want 1", item, n)
					}
				}

				// A single consumer sees the pushed order
				if tc.consumers == 1 {
					for i, v := range order {
						if v != i {
							t.Fatalf("popped order[%d] = %d, want %d", i, v, i)
						}
					}
				}
			})
		}
	}
}

func TestRun_Empty(t *testing.T) {
	cfg := bench.Config{Consumers: 1, Items: 0, BatchSize: 1}

	s, err := runWithin(t, cfg, bench.Options{}, 5*time.Second)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if s.ItemsProcessed != 0 || len(s.Latencies) != 0 {
		t.Errorf("expected no items and no samples, got %d items, %d samples",
			s.ItemsProcessed, len(s.Latencies))
	}
	if s.Mean != 0 || s.Min != 0 || s.Max != 0 || s.Throughput != 0 {
		t.Errorf("expected zero statistics, got %+v", s)
	}
}

func TestRun_Reference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1M item run in short mode")
	}

	cfg := bench.DefaultConfig()
	seen := make([]atomic.Int32, cfg.Items)
	opts := bench.Options{
		Observe: func(item int) {
			seen[item].Add(1)
		},
	}

	s, err := runWithin(t, cfg, opts, 2*time.Minute)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	checkStats(t, cfg, s)
	if s.Impl != "Go" {
		t.Errorf("Impl = %q, want Go", s.Impl)
	}

	for item := range seen {
		if n := seen[item].Load(); n != 1 {
			t.Fatalf("item %d consumed %d times, want 1", item, n)
		}
	}
}

// countingTicker ticks on every poll and counts calls.
type countingTicker struct {
	ticks, resets, stops int
}

func (c *countingTicker) Tick() bool {
	c.ticks++
	return true
}

func (c *countingTicker) Reset() { c.resets++ }
func (c *countingTicker) Stop()  { c.stops++ }

func TestRun_ProgressTicker(t *testing.T) {
	ticker := &countingTicker{}
	cfg := bench.Config{Consumers: 2, Items: 95, BatchSize: 10}

	if _, err := runWithin(t, cfg, bench.Options{Progress: ticker}, 5*time.Second); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Polled once per batch by the producer
	if ticker.ticks != cfg.Batches() {
		t.Errorf("Tick() called %d times, want %d", ticker.ticks, cfg.Batches())
	}
	if ticker.resets != 1 || ticker.stops != 1 {
		t.Errorf("Reset(), Stop() called %d, %d times, want 1, 1", ticker.resets, ticker.stops)
	}
}

func TestRun_Phases(t *testing.T) {
	var got []bench.Phase
	opts := bench.Options{
		OnPhase: func(p bench.Phase) {
			got = append(got, p)
		},
	}

	cfg := bench.Config{Consumers: 2, Items: 100, BatchSize: 10}
	if _, err := runWithin(t, cfg, opts, 5*time.Second); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []bench.Phase{
		bench.PhaseInit,
		bench.PhaseSpawning,
		bench.PhaseRunning,
		bench.PhaseDraining,
		bench.PhaseJoined,
		bench.PhaseReported,
	}
	if len(got) != len(want) {
		t.Fatalf("phases = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPhase_String(t *testing.T) {
	testCases := []struct {
		p    bench.Phase
		want string
	}{
		{bench.PhaseInit, "init"},
		{bench.PhaseRunning, "running"},
		{bench.PhaseReported, "reported"},
		{bench.Phase(42), "Phase(42)"},
	}
	for _, tc := range testCases {
		if got := tc.p.String(); got != tc.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tc.p), got, tc.want)
		}
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  bench.Config
	}{
		{"zero_consumers", bench.Config{Consumers: 0, Items: 10, BatchSize: 1}},
		{"negative_items", bench.Config{Consumers: 1, Items: -1, BatchSize: 1}},
		{"zero_batch", bench.Config{Consumers: 1, Items: 10, BatchSize: 0}},
		{"unknown_impl", bench.Config{Consumers: 1, Items: 10, BatchSize: 1, Impl: "stack"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := bench.Run(tc.cfg, bench.Options{}); !errors.Is(err, bench.ErrInvalidConfig) {
				t.Errorf("Run() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestRun_UnknownImplIsClassified(t *testing.T) {
	cfg := bench.Config{Consumers: 1, Items: 1, BatchSize: 1, Impl: "stack"}
	_, err := bench.Run(cfg, bench.Options{})
	if !errors.Is(err, queue.ErrUnknownKind) {
		t.Errorf("Run() error = %v, want it to wrap queue.ErrUnknownKind", err)
	}
}

// TestRun_ConsumerAbort checks that a panicking consumer surfaces as
// ErrWorkerAborted and does not leave the producer blocked.
func TestRun_ConsumerAbort(t *testing.T) {
	for _, kind := range queue.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			skipIfRacy(t, kind)
			cfg := bench.Config{Consumers: 1, Items: 1000, BatchSize: 4, Impl: kind}
			opts := bench.Options{
				Observe: func(item int) {
					if item == 5 {
						panic("boom")
					}
				},
			}

			_, err := runWithin(t, cfg, opts, 10*time.Second)
			if !errors.Is(err, bench.ErrWorkerAborted) {
				t.Fatalf("Run() error = %v, want ErrWorkerAborted", err)
			}
		})
	}
}
