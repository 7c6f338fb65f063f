package report

import (
	"fmt"
	"io"
	"strings"
)

// topN is the number of entries shown in the reasons and per-minute
// sections of the rendered report.
const topN = 10

// Writer renders an aggregated summary to a destination.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the
// same API.
type Writer interface {
	// Write renders the summary. Returns the number of bytes written
	// and any error encountered.
	Write(summary *Summary) (int, error)
}

// TextWriter renders the summary as the fixed-format text report.
// Two runs over an unchanged log produce byte-identical output.
type TextWriter struct {
	output io.Writer
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{output: output}
}

// Write renders the summary in text format.
func (w *TextWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("=== Anomaly Report ===\n")
	fmt.Fprintf(&sb, "CSV anomalies:        %d\n", summary.TotalRows)
	fmt.Fprintf(&sb, "Snapshot files:       %d\n", summary.SnapshotFiles)

	sb.WriteString("\nTop reasons:\n")
	for _, e := range summary.TopReasons(topN) {
		fmt.Fprintf(&sb, "  %4d  %s\n", e.Count, e.Key)
	}

	sb.WriteString("\nClass totals in anomaly frames:\n")
	for _, e := range summary.SortedLabelTotals() {
		fmt.Fprintf(&sb, "  %-12s %d\n", e.Key, e.Count)
	}

	sb.WriteString("\nAnomalies by minute (top 10):\n")
	for _, e := range summary.TopMinutes(topN) {
		fmt.Fprintf(&sb, "  %s  %d\n", e.Key, e.Count)
	}

	return io.WriteString(w.output, sb.String())
}
