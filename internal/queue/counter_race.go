//go:build race

package queue

import "sync/atomic"

type counter struct {
	v atomic.Int64
}

func (c *counter) inc() {
	c.v.Add(1)
}

func (c *counter) load() int64 {
	return c.v.Load()
}
