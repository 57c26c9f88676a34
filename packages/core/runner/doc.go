// Package runner executes a suite of test cases against an HTTP service.
//
// Cases run sequentially, in suite order, with one request in flight.
// Every failure is recovered at the case boundary and recorded on the
// case's CaseResult with a FailureKind; only a nil suite is an error.
//
// The runner supports name and tag filters, fail fast, request pacing
// with a token bucket, and per-case timeouts. Latency percentiles of the
// issued requests are collected on the Report.
package runner
