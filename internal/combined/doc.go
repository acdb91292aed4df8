// Package combined provides interaction benchmarks that exercise the
// queues together with the cancellation, clock and harness packages.
//
// These benchmarks are more representative of the real benchmark loop
// than the isolated queue micro-benchmarks, as they capture the cumulative
// cost of a consumer checking for shutdown, timing its body and popping,
// and the overhead each blocking adapter adds over its raw backend.
package combined
