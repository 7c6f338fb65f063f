package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nao1215/sentrycam/internal/model"
)

// Summary is the derived, read-only view of one structured log.
// It is computed fresh on every Aggregate call and never persisted.
type Summary struct {
	// TotalRows is the number of anomaly rows in the structured log.
	TotalRows int

	// SnapshotFiles is the number of image files found in the snapshot
	// directory. It can be lower than TotalRows when snapshot writes
	// failed, and lower still when same-second anomalies overwrote
	// each other.
	SnapshotFiles int

	// Reasons counts rows per reason string.
	Reasons map[string]int

	// LabelTotals sums per-label counts across all anomaly rows.
	LabelTotals model.LabelCounts

	// ByMinute counts rows per truncated-minute bucket.
	ByMinute map[string]int
}

// Entry is one key with its count, used for sorted summary views.
type Entry struct {
	Key   string
	Count int
}

// Aggregate reads the whole structured log and cross-references the
// snapshot directory. The first malformed row aborts the run with an
// error wrapping ErrMalformedRow and naming the row number.
func Aggregate(r io.Reader, snapshotDir string) (*Summary, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty structured log", ErrBadHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read structured log header: %w", err)
	}
	if !equalHeader(header, model.CSVHeader()) {
		return nil, fmt.Errorf("%w: got %v, want %v", ErrBadHeader, header, model.CSVHeader())
	}

	// Field-count errors must surface as malformed rows, not csv errors.
	cr.FieldsPerRecord = -1

	s := &Summary{
		Reasons:     make(map[string]int),
		LabelTotals: make(model.LabelCounts),
		ByMinute:    make(map[string]int),
	}

	for rowNum := 2; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrMalformedRow, rowNum, err)
		}

		rec, err := model.ParseAnomalyRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrMalformedRow, rowNum, err)
		}

		s.TotalRows++
		s.Reasons[rec.Reason]++
		for label, n := range rec.Counts {
			s.LabelTotals[label] += n
		}
		s.ByMinute[rec.Timestamp.Format(model.MinuteLayout)]++
	}

	s.SnapshotFiles = countSnapshots(snapshotDir)
	return s, nil
}

// equalHeader compares two header rows field by field.
func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// countSnapshots counts image files in the snapshot directory.
// A missing directory counts as zero; the evidence writer may never
// have created it.
func countSnapshots(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	var n int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			n++
		}
	}
	return n
}

// TopReasons returns up to n reasons ordered by count descending, then
// key ascending. The secondary order keeps repeated runs byte-identical.
func (s *Summary) TopReasons(n int) []Entry {
	return topEntries(s.Reasons, n)
}

// TopMinutes returns up to n minute buckets ordered by count descending,
// then minute ascending.
func (s *Summary) TopMinutes(n int) []Entry {
	return topEntries(s.ByMinute, n)
}

// SortedLabelTotals returns all label totals ordered by label ascending.
func (s *Summary) SortedLabelTotals() []Entry {
	entries := make([]Entry, 0, len(s.LabelTotals))
	for label, n := range s.LabelTotals {
		entries = append(entries, Entry{Key: label, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// topEntries sorts a counter map by count descending then key ascending
// and truncates to n entries.
func topEntries(counter map[string]int, n int) []Entry {
	entries := make([]Entry, 0, len(counter))
	for key, count := range counter {
		entries = append(entries, Entry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
