// Command compare runs the same SPMC workload on every queue
// implementation and prints a comparison table relative to the mutex
// queue.
//
// Usage:
//
//	go run ./cmd/compare -consumers 4 -items 1000000 -batch 1000 -runs 3
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/randomizedcoder/spmc-bench/internal/bench"
	"github.com/randomizedcoder/spmc-bench/internal/queue"
)

type result struct {
	kind queue.Kind
	res  bench.SuiteResult
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	def := bench.DefaultConfig()

	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	consumers := fs.Int("consumers", def.Consumers, "number of consumer goroutines")
	items := fs.Int("items", def.Items, "number of items to push per run")
	batch := fs.Int("batch", def.BatchSize, "producer batch size and queue capacity")
	runs := fs.Int("runs", 3, "runs per implementation")
	cooldown := fs.Duration("cooldown", 500*time.Millisecond, "pause between runs")
	impls := fs.String("impl", "", "comma-separated implementations to compare (default all)")
	logLevel := fs.String("log-level", "error", "log level: debug, info, error, severe")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *items < 1 {
		fmt.Fprintf(stderr, "compare: %v: items must be >= 1, got %d\n", bench.ErrInvalidConfig, *items)
		return 1
	}

	kinds, err := parseKinds(*impls)
	if err != nil {
		fmt.Fprintf(stderr, "compare: %v\n", err)
		return 1
	}

	logx.MustSetup(logx.LogConf{
		ServiceName: "compare",
		Mode:        "console",
		Encoding:    "plain",
		Level:       *logLevel,
	})
	logx.SetWriter(logx.NewWriter(stderr))
	logx.DisableStat()
	defer logx.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(stdout, "Comparing SPMC queues (%d consumers, %d items, batch %d, %d runs)\n",
		*consumers, *items, *batch, *runs)
	fmt.Fprintf(stdout, "Architecture: %s/%s, GOMAXPROCS=%d\n",
		runtime.GOOS, runtime.GOARCH, runtime.GOMAXPROCS(0))
	fmt.Fprintln(stdout, "─────────────────────────────────────────────────────────────────")

	var results []result
	for _, kind := range kinds {
		cfg := bench.Config{
			Consumers: *consumers,
			Items:     *items,
			BatchSize: *batch,
			Runs:      *runs,
			Cooldown:  *cooldown,
			Impl:      kind,
		}
		res, err := bench.RunSuite(ctx, cfg, nil, bench.Options{})
		if err != nil {
			fmt.Fprintf(stderr, "compare: %s: %v\n", kind, err)
			return 1
		}
		results = append(results, result{kind: kind, res: res})
	}

	printTable(stdout, results)
	return 0
}

// parseKinds turns a comma-separated list into queue kinds, the mutex
// queue first so it is the speedup baseline. Empty means every kind.
func parseKinds(list string) ([]queue.Kind, error) {
	if list == "" {
		return queue.Kinds(), nil
	}

	want := make(map[queue.Kind]bool)
	for _, name := range strings.Split(list, ",") {
		k, err := queue.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		want[k] = true
	}

	var kinds []queue.Kind
	for _, k := range queue.Kinds() {
		if want[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// printTable writes one row per implementation. Speedup is throughput
// relative to the first row, the mutex queue when it was selected.
func printTable(w io.Writer, results []result) {
	if len(results) == 0 {
		return
	}

	fmt.Fprintf(w, "\nResults:\n")
	fmt.Fprintf(w, "  %-12s %16s %14s %14s %8s\n", "impl", "items/sec", "mean (us)", "p99 (us)", "speedup")

	baseline := results[0].res.AvgThroughput
	for _, r := range results {
		var p99 float64
		for _, s := range r.res.Runs {
			p99 += s.P99
		}
		p99 /= float64(len(r.res.Runs))

		speedup := 0.0
		if baseline > 0 {
			speedup = r.res.AvgThroughput / baseline
		}
		fmt.Fprintf(w, "  %-12s %16.2f %14.4f %14.4f %7.2fx\n",
			r.kind.Label(), r.res.AvgThroughput, r.res.AvgLatency, p99, speedup)
	}

	fmt.Fprintf(w, "\nNote: latencies mix amortised producer batch cost and consumer clock-bracket cost.\n")
}
