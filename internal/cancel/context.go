package cancel

import (
	"context"
	"time"
)

// ContextCanceler wraps context.Context for cancellation signaling.
//
// The benchmark driver polls Done() between runs and uses Sleep for the
// cooldown, so an interrupt never has to wait out a full cooldown.
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewContext creates a ContextCanceler from a parent context.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancel(parent)
	return &ContextCanceler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Done returns true if the context has been cancelled.
//
// This performs a non-blocking select on ctx.Done().
func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel triggers cancellation of the context.
func (c *ContextCanceler) Cancel() {
	c.cancel()
}

// Sleep blocks for d or until cancellation, whichever comes first.
// It returns false if it was cut short by cancellation.
func (c *ContextCanceler) Sleep(d time.Duration) bool {
	if d <= 0 {
		return !c.Done()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-c.ctx.Done():
		return false
	}
}
