package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/sentrycam/internal/config"
)

// parseWatchFlags parses the given flags into a fresh watch command.
func parseWatchFlags(t *testing.T, flags ...string) *config.Config {
	t.Helper()

	cmd := NewWatchCmd()
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := buildConfig(cmd, cmd.Flags().Args())
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}
	return cfg
}

// TestBuildConfigDefaults verifies the flag defaults land in the config.
func TestBuildConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := parseWatchFlags(t)

	if cfg.Input != config.DefaultInput {
		t.Errorf("expected default input %q, got %q", config.DefaultInput, cfg.Input)
	}
	if cfg.Output != config.DefaultOutput {
		t.Errorf("expected default output %q, got %q", config.DefaultOutput, cfg.Output)
	}
	if cfg.Threshold != config.DefaultThreshold {
		t.Errorf("expected default threshold %v, got %v", config.DefaultThreshold, cfg.Threshold)
	}
	if !reflect.DeepEqual(cfg.AnomalySet, config.DefaultAnomalySet()) {
		t.Errorf("expected default anomaly set, got %v", cfg.AnomalySet)
	}
	if cfg.MaxPersons != config.DefaultMaxPersons {
		t.Errorf("expected person cap disabled, got %d", cfg.MaxPersons)
	}
	if !cfg.SaveToDB {
		t.Error("expected database mirroring enabled by default")
	}
	if !cfg.Overlay {
		t.Error("expected overlay enabled by default")
	}
}

// TestBuildConfigFlags verifies flag overrides.
func TestBuildConfigFlags(t *testing.T) {
	t.Parallel()

	cfg := parseWatchFlags(t,
		"recording.mp4", "annotated.mp4",
		"--threshold", "0.3",
		"--data-dir", "/tmp/sentrycam-test",
		"--overlay=false",
		"--no-db",
	)

	if cfg.Input != "recording.mp4" {
		t.Errorf("expected input from first argument, got %q", cfg.Input)
	}
	if cfg.Output != "annotated.mp4" {
		t.Errorf("expected output from second argument, got %q", cfg.Output)
	}
	if cfg.Threshold != 0.3 {
		t.Errorf("expected threshold 0.3, got %v", cfg.Threshold)
	}
	if cfg.DataDir != "/tmp/sentrycam-test" {
		t.Errorf("expected data dir override, got %q", cfg.DataDir)
	}
	if cfg.Overlay {
		t.Error("expected overlay disabled")
	}
	if cfg.SaveToDB {
		t.Error("expected database mirroring disabled by --no-db")
	}
}

// TestBuildConfigRulesFile verifies the rules file merges into the config.
func TestBuildConfigRulesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yml")
	rules := strings.Join([]string{
		"anomaly_set:",
		"  - backpack",
		"  - knife",
		"max_persons: 3",
		"threshold: 0.6",
		"",
	}, "\n")
	if err := os.WriteFile(rulesPath, []byte(rules), 0600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	cfg := parseWatchFlags(t, "--config", rulesPath)

	if !reflect.DeepEqual(cfg.AnomalySet, []string{"backpack", "knife"}) {
		t.Errorf("expected anomaly set from rules file, got %v", cfg.AnomalySet)
	}
	if cfg.MaxPersons != 3 {
		t.Errorf("expected person cap 3, got %d", cfg.MaxPersons)
	}
	if cfg.Threshold != 0.6 {
		t.Errorf("expected threshold from rules file, got %v", cfg.Threshold)
	}
}

// TestBuildConfigExplicitThresholdBeatsRulesFile verifies flag precedence.
func TestBuildConfigExplicitThresholdBeatsRulesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yml")
	if err := os.WriteFile(rulesPath, []byte("threshold: 0.6\n"), 0600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	cfg := parseWatchFlags(t, "--config", rulesPath, "--threshold", "0.25")

	if cfg.Threshold != 0.25 {
		t.Errorf("expected explicit flag to win, got %v", cfg.Threshold)
	}
}

// TestBuildConfigMissingExplicitRulesFile verifies the hard error for a
// named rules file that does not exist.
func TestBuildConfigMissingExplicitRulesFile(t *testing.T) {
	t.Parallel()

	cmd := NewWatchCmd()
	missing := filepath.Join(t.TempDir(), "nope.yml")
	if err := cmd.ParseFlags([]string{"--config", missing}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	_, err := buildConfig(cmd, nil)
	if err == nil {
		t.Fatal("expected error for missing explicit rules file")
	}
	if !strings.Contains(err.Error(), "rules file not found") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}
