package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nao1215/sentrycam/internal/model"
)

// NoAnomalyReason is the display fallback used when no rule fired.
// It is never written to the structured log; non-anomalous frames
// produce no record.
const NoAnomalyReason = "No anomaly classes present"

// reasonSeparator joins the reasons of multiple firing rules for display.
const reasonSeparator = " | "

// personLabel is the label the count-cap rule applies to.
const personLabel = "person"

// Evaluator decides whether a frame is anomalous. It is configured once at
// startup and is read-only afterwards.
type Evaluator struct {
	// anomalySet is the set of forbidden labels, lower-cased.
	anomalySet map[string]bool

	// maxPersons is the per-frame cap on the "person" label.
	// A negative value disables the count-cap rule.
	maxPersons int
}

// NewEvaluator creates an Evaluator for the given forbidden labels and
// person cap. Labels are lower-cased so configuration matches the
// case-insensitive label handling of the detection loop. A negative
// maxPersons disables the count-cap rule.
func NewEvaluator(anomalySet []string, maxPersons int) *Evaluator {
	set := make(map[string]bool, len(anomalySet))
	for _, label := range anomalySet {
		set[strings.ToLower(label)] = true
	}
	return &Evaluator{
		anomalySet: set,
		maxPersons: maxPersons,
	}
}

// Verdict is the result of evaluating one frame.
type Verdict struct {
	// Anomaly is true when at least one rule fired.
	Anomaly bool

	// Reasons holds one description per firing rule, in fixed order:
	// the forbidden-class reason (if any) always precedes the
	// count-cap reason (if any).
	Reasons []string
}

// Reason returns the display form of the verdict: the reasons joined with
// " | ", or the NoAnomalyReason fallback when no rule fired.
func (v Verdict) Reason() string {
	if len(v.Reasons) == 0 {
		return NoAnomalyReason
	}
	return strings.Join(v.Reasons, reasonSeparator)
}

// Evaluate applies all rules to one frame's present-label set and counts.
// It is deterministic and has no side effects.
func (e *Evaluator) Evaluate(present map[string]bool, counts model.LabelCounts) Verdict {
	var reasons []string

	// Forbidden-class rule: the intersection of present labels and the
	// anomaly set, sorted lexicographically so the reason string is
	// stable regardless of detection order.
	var bad []string
	for label := range e.anomalySet {
		if present[label] {
			bad = append(bad, label)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		reasons = append(reasons, "Detected: "+strings.Join(bad, ", "))
	}

	// Count-cap rule.
	if e.maxPersons >= 0 && counts[personLabel] > e.maxPersons {
		reasons = append(reasons,
			fmt.Sprintf("person_count>%d (=%d)", e.maxPersons, counts[personLabel]))
	}

	return Verdict{
		Anomaly: len(reasons) > 0,
		Reasons: reasons,
	}
}

// Flagged reports whether a single detection with the given label should be
// rendered as an anomaly line (rather than a normal line) in the
// human-readable log. A label is flagged when it is in the forbidden set, or
// when it is "person" and the frame exceeds the configured cap.
func (e *Evaluator) Flagged(label string, counts model.LabelCounts) bool {
	if e.anomalySet[label] {
		return true
	}
	return e.maxPersons >= 0 && label == personLabel && counts[personLabel] > e.maxPersons
}

// AnomalyLabels returns the configured forbidden labels sorted ascending,
// for display in the startup banner.
func (e *Evaluator) AnomalyLabels() []string {
	labels := make([]string, 0, len(e.anomalySet))
	for label := range e.anomalySet {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// MaxPersons returns the configured person cap and whether the count-cap
// rule is enabled.
func (e *Evaluator) MaxPersons() (int, bool) {
	return e.maxPersons, e.maxPersons >= 0
}
