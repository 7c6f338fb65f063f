package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Detection represents a single object found in one video frame by the
// detection backend. Detections are transient: they are rebuilt every frame
// and never persisted directly. Only the label survives, inside an
// AnomalyRecord.
type Detection struct {
	// Label is the class description reported by the backend.
	// The detection loop lower-cases labels before rule evaluation,
	// so anywhere past the backend boundary Label is lower case.
	Label string

	// Confidence is the backend's confidence for this detection in [0, 1].
	Confidence float64

	// ClassID is the backend's numeric class identifier.
	ClassID int
}

// LabelCounts maps a lower-cased object label to its occurrence count in a
// single frame (or, in the aggregator, to a running total across frames).
type LabelCounts map[string]int

// LowerLabels normalizes detection labels to lower case in place.
// Label comparison is case-insensitive everywhere downstream of the backend,
// so the loop calls this once per frame before any rule evaluation.
func LowerLabels(detections []Detection) {
	for i := range detections {
		detections[i].Label = strings.ToLower(detections[i].Label)
	}
}

// CollectLabels derives the present-label set and the per-label counts from a
// frame's detection list. Labels are expected to be already lower-cased
// (see LowerLabels).
func CollectLabels(detections []Detection) (present map[string]bool, counts LabelCounts) {
	present = make(map[string]bool, len(detections))
	counts = make(LabelCounts, len(detections))
	for _, d := range detections {
		present[d.Label] = true
		counts[d.Label]++
	}
	return present, counts
}

// SortedLabels returns the labels of a present-label set sorted
// lexicographically ascending. This is the order persisted in the CSV log.
func SortedLabels(present map[string]bool) []string {
	labels := make([]string, 0, len(present))
	for label := range present {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// String serializes the counts as "label:count" pairs joined by semicolons,
// sorted by label ascending. The empty map serializes to the empty string.
// ParseLabelCounts reverses this exactly.
func (c LabelCounts) String() string {
	labels := make([]string, 0, len(c))
	for label := range c {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	pairs := make([]string, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, label+":"+strconv.Itoa(c[label]))
	}
	return strings.Join(pairs, ";")
}

// ParseLabelCounts parses the serialized "label:count;label:count" form back
// into a LabelCounts map. It is strict: any pair that is not exactly
// "label:count" with a valid integer count is an error, because the
// aggregator's correctness depends on every pair being accounted for.
// Empty pairs (from trailing semicolons) are skipped.
func ParseLabelCounts(s string) (LabelCounts, error) {
	counts := make(LabelCounts)
	if s == "" {
		return counts, nil
	}

	for _, pair := range strings.Split(s, ";") {
		if pair == "" {
			continue
		}

		label, value, ok := strings.Cut(pair, ":")
		if !ok || label == "" {
			return nil, fmt.Errorf("malformed label count pair %q", pair)
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("malformed count in pair %q: %w", pair, err)
		}
		counts[label] = n
	}

	return counts, nil
}
