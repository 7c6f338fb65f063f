// Package model defines the core data structures used throughout sentrycam.
//
// This package contains the following main types:
//   - Detection: A single object found in one video frame
//   - LabelCounts: Per-frame occurrence counts keyed by object label
//   - AnomalyRecord: One durable anomaly event, serializable to the CSV log
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (rules, evidence, pipeline, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The serialized forms (CSV row, "label:count" pairs) are shared between the
// evidence writer and the offline aggregator, so both directions of the
// round-trip live here.
package model
