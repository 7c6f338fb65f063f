package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadRulesFile tests YAML rules file loading.
func TestLoadRulesFile(t *testing.T) {
	t.Parallel()

	t.Run("loads full rules file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".sentrycam")
		content := []byte("anomaly_set:\n  - chair\n  - cellphone\nmax_persons: 3\nthreshold: 0.6\n")
		if err := os.WriteFile(path, content, 0600); err != nil {
			t.Fatalf("failed to write rules file: %v", err)
		}

		rf, err := LoadRulesFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(rf.AnomalySet) != 2 {
			t.Errorf("expected 2 labels, got %v", rf.AnomalySet)
		}
		if rf.MaxPersons == nil || *rf.MaxPersons != 3 {
			t.Errorf("expected max_persons 3, got %v", rf.MaxPersons)
		}
		if rf.Threshold == nil || *rf.Threshold != 0.6 {
			t.Errorf("expected threshold 0.6, got %v", rf.Threshold)
		}
	})

	t.Run("missing file returns ErrRulesNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadRulesFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrRulesNotFound) {
			t.Errorf("expected ErrRulesNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".sentrycam")
		if err := os.WriteFile(path, []byte("anomaly_set: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write rules file: %v", err)
		}

		if _, err := LoadRulesFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

// TestRulesFileApply tests merging a rules file into a config.
func TestRulesFileApply(t *testing.T) {
	t.Parallel()

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cap := 2
		threshold := 0.7
		rf := &RulesFile{
			AnomalySet: []string{"laptop"},
			MaxPersons: &cap,
			Threshold:  &threshold,
		}

		rf.Apply(cfg)

		if len(cfg.AnomalySet) != 1 || cfg.AnomalySet[0] != "laptop" {
			t.Errorf("expected [laptop], got %v", cfg.AnomalySet)
		}
		if cfg.MaxPersons != 2 {
			t.Errorf("expected cap 2, got %d", cfg.MaxPersons)
		}
		if cfg.Threshold != 0.7 {
			t.Errorf("expected threshold 0.7, got %v", cfg.Threshold)
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&RulesFile{}).Apply(cfg)

		if len(cfg.AnomalySet) != 2 {
			t.Errorf("expected default anomaly set kept, got %v", cfg.AnomalySet)
		}
		if cfg.MaxPersons != DefaultMaxPersons {
			t.Errorf("expected default cap kept, got %d", cfg.MaxPersons)
		}
		if cfg.Threshold != DefaultThreshold {
			t.Errorf("expected default threshold kept, got %v", cfg.Threshold)
		}
	})
}

// TestFindRulesFile tests rules file discovery.
func TestFindRulesFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "rules.yaml")
		if err := os.WriteFile(path, []byte("anomaly_set: [chair]\n"), 0600); err != nil {
			t.Fatalf("failed to write rules file: %v", err)
		}

		if got := FindRulesFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindRulesFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestEnsureDirs verifies directory bootstrapping.
func TestEnsureDirs(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(cfg.SnapshotDir()); err != nil {
		t.Errorf("expected snapshot dir to exist: %v", err)
	}

	// Idempotent on existing directories.
	if err := cfg.EnsureDirs(); err != nil {
		t.Errorf("expected second call to succeed, got %v", err)
	}
}
