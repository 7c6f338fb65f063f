// Package pipeline drives the per-frame detection loop.
//
// Each iteration runs capture, detect, evaluate, record, render, and
// liveness checks strictly in sequence; there is no overlap between
// iterations. The loop is single-threaded: the only suspension points are
// the blocking capture and render calls owned by the video collaborators.
//
// Cancellation is cooperative and coarse-grained. An interrupt is observed
// at iteration boundaries only, after which the loop unwinds and its owner
// releases the evidence resources.
//
// Design decision: The running counters live in a State struct owned by the
// Loop rather than in package-level variables. This lets a test drive one
// iteration at a time against fake collaborators and assert on the exact
// state transitions, without a live detection backend.
package pipeline
