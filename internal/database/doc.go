// Package database provides SQLite-based storage for anomaly events.
//
// The EventDB mirrors every anomaly record the evidence writer appends to
// the CSV log. The CSV remains the source of truth for the offline report;
// the database exists for indexed queries over history (the events command)
// without re-reading the whole log.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for one insert per anomalous frame
// 4. WAL mode provides good concurrent read performance
package database
