// Package bench runs the SPMC queue benchmark: one producer pushing items
// in timed batches, N consumers popping and timing a trivial body, and the
// statistics computed from both sets of samples.
//
// # Latency samples
//
// A producer sample is the cost of pushing one batch divided by the batch
// size, so it includes any time spent blocked on a full queue. A consumer
// sample brackets a single counter increment with two clock reads and
// measures the clock and the increment, not enqueue-to-dequeue latency.
// Both kinds land in the same sink.
//
// A run with Items items and batch size B yields Items + ceil(Items/B)
// samples.
package bench

import (
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/atomix"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/spmc-bench/internal/queue"
	"github.com/randomizedcoder/spmc-bench/internal/tick"
)

// ErrWorkerAborted is wrapped by the error Run returns when the producer
// or a consumer panicked.
var ErrWorkerAborted = errors.New("bench: worker aborted")

// Phase is a step of the run lifecycle.
type Phase int

const (
	PhaseInit     Phase = iota // queue and sink created
	PhaseSpawning              // starting consumers, clock running
	PhaseRunning               // producer pushing
	PhaseDraining              // done set, waiting for consumers
	PhaseJoined                // all consumers returned, clock stopped
	PhaseReported              // statistics computed
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseSpawning:
		return "spawning"
	case PhaseRunning:
		return "running"
	case PhaseDraining:
		return "draining"
	case PhaseJoined:
		return "joined"
	case PhaseReported:
		return "reported"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Options holds optional hooks for Run.
type Options struct {
	// OnPhase is called from the producer goroutine at each transition.
	OnPhase func(Phase)

	// Observe is called by consumers with every item they pop, outside the
	// timed section. It must be safe for concurrent use.
	Observe func(item int)

	// Progress is polled by the producer after every batch; a tick logs
	// the items pushed so far. Nil means an AtomicTicker on
	// Config.Progress.
	Progress tick.Ticker
}

func (o Options) phase(p Phase) {
	if o.OnPhase != nil {
		o.OnPhase(p)
	}
}

// Run executes one benchmark run on the calling goroutine, which acts as
// the producer.
//
// The returned error wraps ErrInvalidConfig, queue.ErrUnknownKind or
// ErrWorkerAborted. Workers are always joined before Run returns.
func Run(cfg Config, opts Options) (Stats, error) {
	if err := cfg.validateRun(); err != nil {
		return Stats{}, err
	}

	progress := opts.Progress
	if progress == nil {
		progress = tick.NewAtomicTicker(cfg.Progress)
	}

	opts.phase(PhaseInit)
	q, err := queue.New[int](cfg.Impl, cfg.BatchSize)
	if err != nil {
		return Stats{}, fmt.Errorf("bench: create queue: %w", err)
	}
	sink := NewLatencySink(cfg.Items + cfg.Batches())
	var processed atomix.Int64

	logx.Infow("run starting",
		logx.Field("impl", cfg.Impl.Label()),
		logx.Field("consumers", cfg.Consumers),
		logx.Field("items", cfg.Items),
		logx.Field("batch", cfg.BatchSize),
		logx.Field("capacity", q.Cap()),
	)

	opts.phase(PhaseSpawning)
	start := tick.Now()

	var g errgroup.Group
	perConsumer := cfg.Items/cfg.Consumers + 1
	for c := 0; c < cfg.Consumers; c++ {
		id := c
		g.Go(func() error {
			samples, err := consume(q, id, perConsumer, &processed, opts.Observe)
			sink.Merge(samples)
			if err != nil {
				// Keep taking items so the producer cannot stall on a full
				// queue while the other consumers finish.
				discard(q)
				return err
			}
			return nil
		})
	}

	opts.phase(PhaseRunning)
	produceErr := produce(q, cfg, sink, progress)

	opts.phase(PhaseDraining)
	consumeErr := g.Wait()
	elapsed := tick.Now() - start
	opts.phase(PhaseJoined)

	if err := errors.Join(produceErr, consumeErr); err != nil {
		logx.Errorw("run aborted",
			logx.Field("impl", cfg.Impl.Label()),
			logx.Field("error", err.Error()),
		)
		return Stats{}, err
	}

	s := Summarize(cfg.Impl.Label(), time.Duration(elapsed), sink.Snapshot(), cfg.Items, processed.Load())
	opts.phase(PhaseReported)

	logx.Infow("run finished",
		logx.Field("impl", s.Impl),
		logx.Field("total_ms", s.TotalMillis),
		logx.Field("throughput", s.Throughput),
		logx.Field("mean_us", s.Mean),
		logx.Field("p99_us", s.P99),
		logx.Field("items_processed", s.ItemsProcessed),
	)
	return s, nil
}

// produce pushes items 0..Items-1 in batches and records one amortised
// sample per batch. SetDone is called exactly once on every path.
func produce(q queue.Queue[int], cfg Config, sink *LatencySink, progress tick.Ticker) (err error) {
	defer q.SetDone()
	defer progress.Stop()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: producer: %v", ErrWorkerAborted, r)
		}
	}()

	progress.Reset()
	for i := 0; i < cfg.Items; i += cfg.BatchSize {
		size := min(cfg.BatchSize, cfg.Items-i)

		t0 := tick.Now()
		for j := i; j < i+size; j++ {
			q.Push(j)
		}
		sink.Append(tick.SinceMicros(t0) / float64(size))

		if progress.Tick() {
			logx.Infof("producer: %d/%d items pushed", i+size, cfg.Items)
		}
	}
	return nil
}

// consume pops until the queue is done and drained, timing the body of
// each iteration. On a panic it returns the samples gathered so far.
func consume(q queue.Queue[int], id, sizeHint int, processed *atomix.Int64, observe func(int)) (samples []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: consumer %d: %v", ErrWorkerAborted, id, r)
		}
	}()

	samples = make([]float64, 0, sizeHint)
	for {
		v, ok := q.Pop()
		if !ok {
			return samples, nil
		}

		t0 := tick.Now()
		processed.AddRelaxed(1)
		samples = append(samples, tick.SinceMicros(t0))

		if observe != nil {
			observe(v)
		}
	}
}

func discard(q queue.Queue[int]) {
	for {
		if _, ok := q.Pop(); !ok {
			return
		}
	}
}
