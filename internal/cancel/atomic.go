package cancel

// AtomicCanceler is a monotonic done flag.
//
// Cancel publishes with release ordering and Done observes with acquire
// ordering, so every write made before Cancel is visible to a goroutine
// that sees Done() == true.
type AtomicCanceler struct {
	done doneFlag
}

// NewAtomic creates a new AtomicCanceler.
func NewAtomic() *AtomicCanceler {
	return &AtomicCanceler{}
}

// Done returns true if cancellation has been triggered.
//
// This performs a single acquire load.
func (a *AtomicCanceler) Done() bool {
	return a.done.load()
}

// Cancel triggers cancellation.
//
// Safe to call multiple times; subsequent calls are no-ops.
func (a *AtomicCanceler) Cancel() {
	a.done.set()
}
