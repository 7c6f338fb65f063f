// Package report aggregates the structured anomaly log into a summary
// and renders it in text or markdown format.
//
// Aggregation is a single pass over the full log. It is strict: a
// malformed row aborts the run, because a report built from a partially
// parsed log would be silently wrong. The summary cross-references the
// snapshot directory so operators can spot rows whose image write failed.
//
// Design decision: Rendering is split from aggregation behind a small
// Writer interface so the same Summary can go to a terminal, a file, or
// both, in either format.
package report
