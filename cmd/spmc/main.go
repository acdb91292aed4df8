// Command spmc benchmarks a bounded blocking single-producer
// multi-consumer queue.
//
// One producer pushes -items integers in batches of -batch into a queue of
// capacity -batch; -consumers goroutines pop them. The run is repeated
// -runs times with -cooldown in between, and the averages are printed at
// the end.
//
// Usage:
//
//	go run ./cmd/spmc -consumers 4 -items 1000000 -batch 1000 -runs 5
//	go run ./cmd/spmc -impl lfq -json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/randomizedcoder/spmc-bench/internal/bench"
	"github.com/randomizedcoder/spmc-bench/internal/queue"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	def := bench.DefaultConfig()

	fs := flag.NewFlagSet("spmc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	consumers := fs.Int("consumers", def.Consumers, "number of consumer goroutines")
	items := fs.Int("items", def.Items, "number of items to push per run")
	batch := fs.Int("batch", def.BatchSize, "producer batch size and queue capacity")
	runs := fs.Int("runs", def.Runs, "number of measured runs")
	cooldown := fs.Duration("cooldown", def.Cooldown, "pause between runs")
	impl := fs.String("impl", string(def.Impl), "queue implementation: "+kindList())
	jsonOut := fs.Bool("json", false, "write the results as JSON instead of text")
	progress := fs.Duration("progress", 0, "log producer progress at this interval (0 disables)")
	logLevel := fs.String("log-level", "info", "log level: debug, info, error, severe")
	gops := fs.Bool("gops", false, "start the gops diagnostics agent")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	setupLogging(*logLevel, stderr)
	defer logx.Close()

	if *gops {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			logx.Errorw("gops agent", logx.Field("error", err.Error()))
			return 1
		}
		defer agent.Close()
	}

	kind, err := queue.ParseKind(*impl)
	if err != nil {
		fmt.Fprintf(stderr, "spmc: %v\n", err)
		return 1
	}

	cfg := bench.Config{
		Consumers: *consumers,
		Items:     *items,
		BatchSize: *batch,
		Runs:      *runs,
		Cooldown:  *cooldown,
		Impl:      kind,
		Progress:  *progress,
	}
	if err := validate(cfg); err != nil {
		fmt.Fprintf(stderr, "spmc: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := stdout
	if *jsonOut {
		report = io.Discard
	}

	res, err := bench.RunSuite(ctx, cfg, report, bench.Options{})
	if *jsonOut && len(res.Runs) > 0 {
		if werr := bench.WriteJSON(stdout, res); werr != nil {
			logx.Errorw("write report", logx.Field("error", werr.Error()))
			return 1
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "spmc: %v\n", err)
		return 1
	}
	return 0
}

// validate applies the harness checks plus the command-line requirement
// that every run moves at least one item.
func validate(cfg bench.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Items < 1 {
		return fmt.Errorf("%w: items must be >= 1, got %d", bench.ErrInvalidConfig, cfg.Items)
	}
	return nil
}

func setupLogging(level string, w io.Writer) {
	logx.MustSetup(logx.LogConf{
		ServiceName: "spmc",
		Mode:        "console",
		Encoding:    "plain",
		Level:       level,
	})
	// stdout carries the report only
	logx.SetWriter(logx.NewWriter(w))
	logx.DisableStat()
}

func kindList() string {
	names := make([]string, 0, len(queue.Kinds()))
	for _, k := range queue.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
