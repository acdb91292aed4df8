//go:build !race

package cancel

import "code.hybscloud.com/atomix"

// doneFlag is the done bit behind AtomicCanceler.
//
// atomix loads and stores compile to plain moves on amd64, which the race
// detector cannot see as synchronisation; flag_race.go swaps in
// sync/atomic for -race builds.
type doneFlag struct {
	v atomix.Bool
}

func (f *doneFlag) load() bool {
	return f.v.LoadAcquire()
}

func (f *doneFlag) set() {
	f.v.StoreRelease(true)
}
