//go:build race

package cancel

import "sync/atomic"

type doneFlag struct {
	v atomic.Bool
}

func (f *doneFlag) load() bool {
	return f.v.Load()
}

func (f *doneFlag) set() {
	f.v.Store(true)
}
