// Package cancel provides the termination signals used by the queues and
// the benchmark driver.
//
// Two one-way signals are provided:
//   - AtomicCanceler: a monotonic done flag on an atomix.Bool. Every queue
//     backend uses one as its "producer finished" marker.
//   - ContextCanceler: wraps context.Context. The multi-run driver uses it
//     to stop between runs and to cut a cooldown short on interrupt.
//
// Once Done reports true it never reports false again. Both are safe for
// concurrent use: any number of goroutines may call Done while another
// calls Cancel.
package cancel
