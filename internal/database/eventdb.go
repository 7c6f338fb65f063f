package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sentrycam/internal/model"
)

// DBFileName is the event database file name inside the data directory.
const DBFileName = "sentrycam.db"

// EventDB provides SQLite-based storage for anomaly events.
// It manages connection pooling and provides methods for inserting and
// querying events.
type EventDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures EventDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// read performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an EventDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned instead of creating an empty one; the events command uses
// this so it can tell the user no events have been recorded yet.
func Open(dbDir string, opts Options) (*EventDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("event database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	edb := &EventDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := edb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return edb, nil
}

// Close closes the database connection.
func (edb *EventDB) Close() error {
	return edb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (edb *EventDB) createTables() error {
	schema := `
	-- One row per anomaly event, mirroring the CSV log.
	CREATE TABLE IF NOT EXISTS anomaly_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		reason TEXT NOT NULL,
		labels TEXT NOT NULL,
		counts TEXT NOT NULL,
		snapshot TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON anomaly_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_reason ON anomaly_events(reason);
	`

	_, err := edb.db.ExecContext(context.Background(), schema)
	return err
}

// Event is a stored anomaly event with its database identity.
type Event struct {
	// ID is the auto-assigned row identifier.
	ID int64

	// Record is the anomaly record as it was written to the CSV log.
	Record model.AnomalyRecord
}

// SaveEvent inserts one anomaly record.
// Labels and counts are stored in their CSV serializations so the database
// row and the CSV row for the same event are field-for-field comparable.
func (edb *EventDB) SaveEvent(ctx context.Context, rec model.AnomalyRecord) error {
	_, err := edb.db.ExecContext(ctx,
		`INSERT INTO anomaly_events (timestamp, reason, labels, counts, snapshot)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(model.TimestampLayout),
		rec.Reason,
		strings.Join(rec.Labels, ";"),
		rec.Counts.String(),
		rec.Snapshot,
	)
	if err != nil {
		return fmt.Errorf("failed to insert anomaly event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first, recorded at or
// after since. A zero since returns events from all time.
func (edb *EventDB) RecentEvents(ctx context.Context, limit int, since time.Time) ([]Event, error) {
	rows, err := edb.db.QueryContext(ctx,
		`SELECT id, timestamp, reason, labels, counts, snapshot
		 FROM anomaly_events
		 WHERE timestamp >= ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`,
		since.Format(model.TimestampLayout), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomaly events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event    Event
			ts       string
			labels   string
			counts   string
			snapshot sql.NullString
		)
		if err := rows.Scan(&event.ID, &ts, &event.Record.Reason, &labels, &counts, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan anomaly event: %w", err)
		}

		event.Record.Timestamp, err = time.Parse(model.TimestampLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("malformed timestamp in event %d: %w", event.ID, err)
		}
		event.Record.Counts, err = model.ParseLabelCounts(counts)
		if err != nil {
			return nil, fmt.Errorf("malformed counts in event %d: %w", event.ID, err)
		}
		if labels != "" {
			event.Record.Labels = strings.Split(labels, ";")
		}
		event.Record.Snapshot = snapshot.String

		events = append(events, event)
	}

	return events, rows.Err()
}

// CountEvents returns the total number of stored anomaly events.
func (edb *EventDB) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := edb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM anomaly_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count anomaly events: %w", err)
	}
	return count, nil
}
