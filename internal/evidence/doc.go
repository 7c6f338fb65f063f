// Package evidence persists the proof of each anomalous frame.
//
// Three durability actions back one anomaly event:
//   - a snapshot image named by second-resolution timestamp
//   - one row appended to the structured CSV log, flushed immediately
//   - one line per detection in the human-readable rotating log
//
// The actions are independently fault-tolerant: a failed snapshot degrades
// the CSV row (empty snapshot path) but never suppresses it, and a failed
// CSV append is logged and survived. Nothing in this package is allowed to
// abort the detection loop.
//
// The writer owns the CSV file handle for the lifetime of the run. The file
// is opened in append mode so external readers tailing it always see a
// consistent, never-truncated stream, and Close releases the handle exactly
// once no matter how many shutdown paths reach it.
package evidence
