// Package rules implements the per-frame anomaly rule evaluator.
//
// The evaluator is a pure function over the labels present in a frame and
// their per-label counts. Rules fire independently and additively: every
// firing rule contributes one reason string, and a frame is anomalous when
// at least one rule fired. There are two rules:
//
//   - Forbidden-class: any configured forbidden label present in the frame.
//   - Count-cap: more than the configured maximum number of "person" labels
//     in a single frame (disabled by default).
//
// Design decision: The evaluator holds no mutable state and performs no I/O,
// so it is safe to call on every frame and trivial to test in isolation.
// Everything that touches disk lives in the evidence package instead.
package rules
