package config

import (
	"errors"
	"path/filepath"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. This serves as living documentation of the defaults and
// makes changes to them intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default input is the first camera", func(t *testing.T) {
		t.Parallel()
		if cfg.Input != "0" {
			t.Errorf("expected input '0', got %q", cfg.Input)
		}
	})

	t.Run("default output is a window", func(t *testing.T) {
		t.Parallel()
		if cfg.Output != "window" {
			t.Errorf("expected output 'window', got %q", cfg.Output)
		}
	})

	t.Run("default threshold is 0.5", func(t *testing.T) {
		t.Parallel()
		if cfg.Threshold != 0.5 {
			t.Errorf("expected threshold 0.5, got %v", cfg.Threshold)
		}
	})

	t.Run("default anomaly set is chair and cellphone", func(t *testing.T) {
		t.Parallel()
		if len(cfg.AnomalySet) != 2 || cfg.AnomalySet[0] != "chair" || cfg.AnomalySet[1] != "cellphone" {
			t.Errorf("expected [chair cellphone], got %v", cfg.AnomalySet)
		}
	})

	t.Run("default person cap is disabled", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPersons >= 0 {
			t.Errorf("expected disabled cap, got %d", cfg.MaxPersons)
		}
	})

	t.Run("default data dir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DataDir != XDGDataDir() {
			t.Errorf("expected %q, got %q", XDGDataDir(), cfg.DataDir)
		}
	})

	t.Run("event store enabled by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.DataDir = "/tmp/sentrycam-test"
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty input returns ErrNoInput", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Input = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})

	t.Run("empty output returns ErrNoOutput", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Output = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoOutput) {
			t.Errorf("expected ErrNoOutput, got %v", err)
		}
	})

	t.Run("zero threshold returns ErrInvalidThreshold", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Threshold = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("expected ErrInvalidThreshold, got %v", err)
		}
	})

	t.Run("threshold above one returns ErrInvalidThreshold", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Threshold = 1.5
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("expected ErrInvalidThreshold, got %v", err)
		}
	})

	t.Run("empty data dir returns ErrNoDataDir", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.DataDir = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoDataDir) {
			t.Errorf("expected ErrNoDataDir, got %v", err)
		}
	})

	t.Run("no rules at all returns ErrNoRules", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.AnomalySet = nil
		cfg.MaxPersons = -1
		if err := cfg.Validate(); !errors.Is(err, ErrNoRules) {
			t.Errorf("expected ErrNoRules, got %v", err)
		}
	})

	t.Run("person cap alone is a valid rule set", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.AnomalySet = nil
		cfg.MaxPersons = 3
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigPaths verifies the fixed data-directory layout.
func TestConfigPaths(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.DataDir = "/data/sentrycam"

	if got := cfg.DetectionLogPath(); got != filepath.Join("/data/sentrycam", "detections.log") {
		t.Errorf("unexpected detection log path %q", got)
	}
	if got := cfg.AnomalyCSVPath(); got != filepath.Join("/data/sentrycam", "anomaly_log.csv") {
		t.Errorf("unexpected anomaly csv path %q", got)
	}
	if got := cfg.SnapshotDir(); got != filepath.Join("/data/sentrycam", "anomaly_images") {
		t.Errorf("unexpected snapshot dir %q", got)
	}
}

// TestModelPath verifies model path resolution.
func TestModelPath(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.DataDir = "/data/sentrycam"

	t.Run("relative name resolves under models dir", func(t *testing.T) {
		t.Parallel()
		want := filepath.Join("/data/sentrycam", "models", "coco.names")
		if got := cfg.ModelPath("coco.names"); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("absolute path used as-is", func(t *testing.T) {
		t.Parallel()
		if got := cfg.ModelPath("/models/net.pb"); got != "/models/net.pb" {
			t.Errorf("expected absolute path unchanged, got %q", got)
		}
	})
}
