package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/randomizedcoder/spmc-bench/internal/queue"
)

// ErrInvalidConfig is wrapped by every Config validation error.
var ErrInvalidConfig = errors.New("bench: invalid configuration")

// Config describes one benchmark workload.
type Config struct {
	// Consumers is the number of consumer goroutines (>= 1).
	Consumers int `json:"consumers"`

	// Items is the number of items the producer pushes (>= 0).
	Items int `json:"items"`

	// BatchSize is the producer batch size and the queue capacity (>= 1).
	BatchSize int `json:"batch_size"`

	// Runs is the number of measured runs in a Suite (>= 1).
	Runs int `json:"runs"`

	// Cooldown is the pause between consecutive runs.
	Cooldown time.Duration `json:"cooldown_ns"`

	// Impl selects the queue implementation.
	Impl queue.Kind `json:"impl"`

	// Progress, when > 0, logs producer progress at this interval.
	Progress time.Duration `json:"-"`
}

// DefaultConfig returns the reference workload.
func DefaultConfig() Config {
	return Config{
		Consumers: 4,
		Items:     1_000_000,
		BatchSize: 1_000,
		Runs:      5,
		Cooldown:  time.Second,
		Impl:      queue.KindMutex,
	}
}

// Validate checks every field used by a Suite.
func (c Config) Validate() error {
	if err := c.validateRun(); err != nil {
		return err
	}
	if c.Runs < 1 {
		return fmt.Errorf("%w: runs must be >= 1, got %d", ErrInvalidConfig, c.Runs)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("%w: cooldown must be >= 0, got %v", ErrInvalidConfig, c.Cooldown)
	}
	return nil
}

// validateRun checks the fields a single Run depends on.
func (c Config) validateRun() error {
	if c.Consumers < 1 {
		return fmt.Errorf("%w: consumers must be >= 1, got %d", ErrInvalidConfig, c.Consumers)
	}
	if c.Items < 0 {
		return fmt.Errorf("%w: items must be >= 0, got %d", ErrInvalidConfig, c.Items)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be >= 1, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.Impl != "" {
		if _, err := queue.ParseKind(string(c.Impl)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Batches returns the number of producer batches, ceil(Items/BatchSize).
func (c Config) Batches() int {
	if c.BatchSize < 1 {
		return 0
	}
	return (c.Items + c.BatchSize - 1) / c.BatchSize
}
