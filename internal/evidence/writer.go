package evidence

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nao1215/sentrycam/internal/database"
	"github.com/nao1215/sentrycam/internal/model"
)

// snapshotTimeLayout names snapshot files at second resolution.
// Two anomalies within the same second map to the same path and the later
// write overwrites the earlier one. The CSV row, not the file name, is the
// event identity.
const snapshotTimeLayout = "20060102_150405"

// SaveFunc writes the current frame to the given image path.
// The detection loop supplies a closure over the live frame so this package
// never touches image buffers directly.
type SaveFunc func(path string) error

// Writer records anomaly evidence. It owns the structured CSV log handle
// and writes the per-detection lines to the human-readable log.
type Writer struct {
	csvFile     *os.File
	csv         *csv.Writer
	snapshotDir string
	logger      *slog.Logger
	events      *database.EventDB

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger for detection lines and write failures.
// This should be the rotating detection logger so evidence lines and
// failure diagnostics land in the same stream, as the operator expects.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// WithEventDB mirrors every recorded anomaly into the SQLite event store.
// A nil db leaves mirroring disabled.
func WithEventDB(db *database.EventDB) Option {
	return func(w *Writer) {
		w.events = db
	}
}

// New creates a Writer appending to the structured log at csvPath and
// saving snapshots under snapshotDir. The header row is written once, when
// the file is created; reopening an existing log appends below the rows
// already there.
func New(csvPath, snapshotDir string, opts ...Option) (*Writer, error) {
	info, err := os.Stat(csvPath)
	newFile := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640) //nolint:gosec // Operator-owned log path
	if err != nil {
		return nil, fmt.Errorf("failed to open structured log: %w", err)
	}

	w := &Writer{
		csvFile:     f,
		csv:         csv.NewWriter(f),
		snapshotDir: snapshotDir,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if newFile {
		if err := w.csv.Write(model.CSVHeader()); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write structured log header: %w", err)
		}
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to flush structured log header: %w", err)
		}
	}

	return w, nil
}

// LogDetections renders one human-readable line per detection, regardless
// of whether the frame is anomalous. flagged classifies a single detection
// as anomaly-related (forbidden label, or person beyond the cap).
func (w *Writer) LogDetections(detections []model.Detection, flagged func(model.Detection) bool) {
	for _, d := range detections {
		conf := d.Confidence * 100.0
		if flagged(d) {
			w.logger.Info(fmt.Sprintf("ANOMALY: %s (%.1f%%)", d.Label, conf))
		} else {
			w.logger.Info(fmt.Sprintf("Normal : %s (%.1f%%)", d.Label, conf))
		}
	}
}

// SnapshotPath returns the snapshot file path for an anomaly at ts.
func (w *Writer) SnapshotPath(ts time.Time) string {
	return filepath.Join(w.snapshotDir, "anomaly_"+ts.Format(snapshotTimeLayout)+".jpg")
}

// Record durably records one anomaly event: it attempts the snapshot, then
// appends the structured-log row, then mirrors the row into the event store
// if one is configured. Every failure is logged and survived; the returned
// record always reflects what was actually persisted (empty Snapshot on a
// failed image write).
func (w *Writer) Record(ctx context.Context, ts time.Time, reason string, present []string, counts model.LabelCounts, save SaveFunc) model.AnomalyRecord {
	snapshot := w.SnapshotPath(ts)
	if err := save(snapshot); err != nil {
		w.logger.Error("failed to save snapshot", "path", snapshot, "error", err)
		snapshot = ""
	} else {
		w.logger.Info("saved snapshot", "path", snapshot)
	}

	rec := model.AnomalyRecord{
		Timestamp: ts,
		Reason:    reason,
		Labels:    present,
		Counts:    counts,
		Snapshot:  snapshot,
	}

	if err := w.append(rec); err != nil {
		w.logger.Error("structured log write failed", "error", err)
	}

	if w.events != nil {
		if err := w.events.SaveEvent(ctx, rec); err != nil {
			w.logger.Error("event store write failed", "error", err)
		}
	}

	return rec
}

// append writes one row and flushes it immediately so the row survives a
// crash in the next iteration.
func (w *Writer) append(rec model.AnomalyRecord) error {
	if err := w.csv.Write(rec.CSVRow()); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes and closes the structured log exactly once.
// Safe to call from multiple shutdown paths.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		w.csv.Flush()
		w.closeErr = w.csvFile.Close()
	})
	return w.closeErr
}
