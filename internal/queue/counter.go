//go:build !race

package queue

import "code.hybscloud.com/atomix"

// counter is a monotonically increasing item count.
//
// atomix loads compile to plain moves on amd64; counter_race.go uses
// sync/atomic instead so -race builds see the synchronisation.
type counter struct {
	v atomix.Int64
}

func (c *counter) inc() {
	c.v.Add(1)
}

func (c *counter) load() int64 {
	return c.v.LoadAcquire()
}
