package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wall-clock layout used in the structured log.
// Second resolution, matching the snapshot naming scheme.
const TimestampLayout = "2006-01-02 15:04:05"

// MinuteLayout is the truncated-minute layout used by the aggregator's
// per-minute buckets.
const MinuteLayout = "2006-01-02 15:04"

// labelSeparator joins the present-label set in the CSV "labels" field.
const labelSeparator = ";"

// AnomalyRecord is the unit of durable evidence: one row of the structured
// anomaly log. A record is created once per anomalous frame and is immutable
// after it has been appended; the log is append-only.
type AnomalyRecord struct {
	// Timestamp is the wall-clock time of the anomalous frame,
	// second resolution.
	Timestamp time.Time

	// Reason is the pipe-joined list of triggered-rule descriptions.
	Reason string

	// Labels is the set of all labels seen in the frame,
	// sorted lexicographically ascending.
	Labels []string

	// Counts maps each label to its occurrence count in the frame.
	Counts LabelCounts

	// Snapshot is the path of the saved snapshot image, or the empty
	// string when the snapshot write failed. A failed snapshot degrades
	// the record; it never suppresses it.
	Snapshot string
}

// CSVHeader returns the header row written once when the structured log file
// is created. Field order is fixed; the aggregator validates it on read.
func CSVHeader() []string {
	return []string{"timestamp", "reason", "labels", "counts", "snapshot"}
}

// CSVRow serializes the record into one structured-log row, in header order.
func (r AnomalyRecord) CSVRow() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.Reason,
		strings.Join(r.Labels, labelSeparator),
		r.Counts.String(),
		r.Snapshot,
	}
}

// ParseAnomalyRecord parses one structured-log row back into an
// AnomalyRecord. It is strict: a wrong field count, an unparseable
// timestamp, or an unparseable counts field is an error. The aggregator
// treats any such error as fatal for its run, since a report built from a
// partially parsed log would be silently wrong.
func ParseAnomalyRecord(row []string) (AnomalyRecord, error) {
	if len(row) != len(CSVHeader()) {
		return AnomalyRecord{}, fmt.Errorf("expected %d fields, got %d", len(CSVHeader()), len(row))
	}

	ts, err := time.Parse(TimestampLayout, row[0])
	if err != nil {
		return AnomalyRecord{}, fmt.Errorf("malformed timestamp %q: %w", row[0], err)
	}

	counts, err := ParseLabelCounts(row[3])
	if err != nil {
		return AnomalyRecord{}, fmt.Errorf("malformed counts field %q: %w", row[3], err)
	}

	var labels []string
	if row[2] != "" {
		labels = strings.Split(row[2], labelSeparator)
	}

	return AnomalyRecord{
		Timestamp: ts,
		Reason:    row[1],
		Labels:    labels,
		Counts:    counts,
		Snapshot:  row[4],
	}, nil
}
