package rules

import (
	"reflect"
	"testing"

	"github.com/nao1215/sentrycam/internal/model"
)

// present builds a present-label set from a label list.
func present(labels ...string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}

// TestEvaluateForbiddenClassRule tests the forbidden-class rule in isolation.
func TestEvaluateForbiddenClassRule(t *testing.T) {
	t.Parallel()

	t.Run("single forbidden label present", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator([]string{"chair", "cellphone"}, -1)
		v := e.Evaluate(present("chair"), model.LabelCounts{"chair": 1})

		if !v.Anomaly {
			t.Error("expected anomaly")
		}
		if v.Reason() != "Detected: chair" {
			t.Errorf("expected reason 'Detected: chair', got %q", v.Reason())
		}
	})

	t.Run("bad labels sorted regardless of configuration order", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator([]string{"laptop", "cellphone", "chair"}, -1)
		v := e.Evaluate(
			present("laptop", "chair", "cellphone"),
			model.LabelCounts{"laptop": 1, "chair": 1, "cellphone": 1},
		)

		if v.Reason() != "Detected: cellphone, chair, laptop" {
			t.Errorf("expected sorted bad labels, got %q", v.Reason())
		}
	})

	t.Run("no forbidden label present", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator([]string{"chair", "cellphone"}, -1)
		v := e.Evaluate(present("person", "laptop"), model.LabelCounts{"person": 1, "laptop": 1})

		if v.Anomaly {
			t.Error("expected no anomaly")
		}
		if len(v.Reasons) != 0 {
			t.Errorf("expected no reasons, got %v", v.Reasons)
		}
		if v.Reason() != NoAnomalyReason {
			t.Errorf("expected fallback reason, got %q", v.Reason())
		}
	})

	t.Run("configured labels are matched case-insensitively", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator([]string{"Chair"}, -1)
		v := e.Evaluate(present("chair"), model.LabelCounts{"chair": 1})

		if !v.Anomaly {
			t.Error("expected anomaly for lower-cased match")
		}
	})
}

// TestEvaluateCountCapRule tests the person count-cap rule in isolation.
func TestEvaluateCountCapRule(t *testing.T) {
	t.Parallel()

	t.Run("count above cap fires", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator(nil, 3)
		v := e.Evaluate(present("person"), model.LabelCounts{"person": 4})

		if !v.Anomaly {
			t.Error("expected anomaly")
		}
		if v.Reason() != "person_count>3 (=4)" {
			t.Errorf("expected cap reason, got %q", v.Reason())
		}
	})

	t.Run("count at cap does not fire", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator(nil, 3)
		v := e.Evaluate(present("person"), model.LabelCounts{"person": 3})

		if v.Anomaly {
			t.Errorf("expected no anomaly at the cap, got %q", v.Reason())
		}
	})

	t.Run("count below cap with person not forbidden", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator([]string{"chair", "cellphone"}, 3)
		v := e.Evaluate(present("person"), model.LabelCounts{"person": 2})

		if v.Anomaly {
			t.Errorf("expected no anomaly, got %q", v.Reason())
		}
	})

	t.Run("negative cap disables the rule", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator(nil, -1)
		v := e.Evaluate(present("person"), model.LabelCounts{"person": 100})

		if v.Anomaly {
			t.Error("expected disabled cap to never fire")
		}
	})

	t.Run("cap of zero flags any person", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator(nil, 0)
		v := e.Evaluate(present("person"), model.LabelCounts{"person": 1})

		if !v.Anomaly {
			t.Error("expected anomaly with cap 0 and one person")
		}
	})
}

// TestEvaluateRuleOrdering verifies that rules fire additively and that the
// forbidden-class reason always precedes the count-cap reason.
func TestEvaluateRuleOrdering(t *testing.T) {
	t.Parallel()

	e := NewEvaluator([]string{"cellphone"}, 1)
	v := e.Evaluate(
		present("cellphone", "person"),
		model.LabelCounts{"cellphone": 1, "person": 2},
	)

	if !v.Anomaly {
		t.Fatal("expected anomaly")
	}
	want := []string{"Detected: cellphone", "person_count>1 (=2)"}
	if !reflect.DeepEqual(v.Reasons, want) {
		t.Errorf("expected reasons %v, got %v", want, v.Reasons)
	}
	if v.Reason() != "Detected: cellphone | person_count>1 (=2)" {
		t.Errorf("unexpected joined reason %q", v.Reason())
	}
}

// TestFlagged verifies the per-detection line classification.
func TestFlagged(t *testing.T) {
	t.Parallel()

	e := NewEvaluator([]string{"chair"}, 2)

	t.Run("forbidden label is flagged", func(t *testing.T) {
		t.Parallel()
		if !e.Flagged("chair", model.LabelCounts{"chair": 1}) {
			t.Error("expected chair to be flagged")
		}
	})

	t.Run("person over cap is flagged", func(t *testing.T) {
		t.Parallel()
		if !e.Flagged("person", model.LabelCounts{"person": 3}) {
			t.Error("expected person over cap to be flagged")
		}
	})

	t.Run("person under cap is not flagged", func(t *testing.T) {
		t.Parallel()
		if e.Flagged("person", model.LabelCounts{"person": 2}) {
			t.Error("expected person at cap to be normal")
		}
	})

	t.Run("unrelated label is not flagged", func(t *testing.T) {
		t.Parallel()
		if e.Flagged("laptop", model.LabelCounts{"laptop": 1}) {
			t.Error("expected laptop to be normal")
		}
	})
}

// TestAnomalyLabels verifies sorted banner output and the cap accessor.
func TestAnomalyLabels(t *testing.T) {
	t.Parallel()

	e := NewEvaluator([]string{"laptop", "chair"}, 5)

	if got := e.AnomalyLabels(); !reflect.DeepEqual(got, []string{"chair", "laptop"}) {
		t.Errorf("expected sorted labels, got %v", got)
	}

	cap, enabled := e.MaxPersons()
	if !enabled || cap != 5 {
		t.Errorf("expected enabled cap 5, got %d enabled=%v", cap, enabled)
	}

	_, enabled = NewEvaluator(nil, -1).MaxPersons()
	if enabled {
		t.Error("expected negative cap to be disabled")
	}
}
