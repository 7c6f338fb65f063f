package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter renders the summary in Markdown format, designed for
// documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides type-safe tables and headings
// instead of hand-built format strings.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Anomaly Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"CSV anomalies", strconv.Itoa(summary.TotalRows)},
			{"Snapshot files", strconv.Itoa(summary.SnapshotFiles)},
		},
	})
	md.PlainText("")

	w.writeEntries(md, "Top reasons", "Reason", summary.TopReasons(topN))
	w.writeEntries(md, "Class totals in anomaly frames", "Class", summary.SortedLabelTotals())
	w.writeEntries(md, "Anomalies by minute", "Minute", summary.TopMinutes(topN))

	return len(md.String()), md.Build()
}

// writeEntries renders one section as a two-column table.
func (w *MarkdownWriter) writeEntries(md *markdown.Markdown, title, keyHeader string, entries []Entry) {
	md.H2(title)
	md.PlainText("")

	if len(entries) == 0 {
		md.PlainText("No entries.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Key, strconv.Itoa(e.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{keyHeader, "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}
