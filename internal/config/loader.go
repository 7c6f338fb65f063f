package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is the default rules file name.
const DefaultRulesFile = ".sentrycam"

// ErrRulesNotFound is returned when the rules file does not exist.
var ErrRulesNotFound = errors.New("rules file not found")

// RulesFile holds the anomaly rules loaded from the YAML rules file.
// Pointer fields distinguish "not set" from explicit zero values, so a file
// can disable the person cap without also resetting the threshold.
type RulesFile struct {
	// AnomalySet is the list of forbidden labels.
	AnomalySet []string `yaml:"anomaly_set"`

	// MaxPersons caps the per-frame "person" count. Negative disables.
	MaxPersons *int `yaml:"max_persons"`

	// Threshold overrides the backend confidence threshold.
	Threshold *float64 `yaml:"threshold"`
}

// LoadRulesFile loads anomaly rules from a YAML file.
// If the file does not exist, it returns ErrRulesNotFound. Callers should
// handle this error based on whether the path was explicitly specified.
func LoadRulesFile(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided rules path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRulesNotFound
		}
		return nil, err
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, err
	}

	return &rf, nil
}

// Apply merges the rules file into the configuration. Only fields present
// in the file override the config.
func (rf *RulesFile) Apply(cfg *Config) {
	if len(rf.AnomalySet) > 0 {
		cfg.AnomalySet = rf.AnomalySet
	}
	if rf.MaxPersons != nil {
		cfg.MaxPersons = *rf.MaxPersons
	}
	if rf.Threshold != nil {
		cfg.Threshold = *rf.Threshold
	}
}

// FindRulesFile searches for the rules file in the following order:
// 1. If rulesPath is specified, use it directly
// 2. Look for .sentrycam in the current directory
// 3. Look for .sentrycam in the user's home directory
//
// Returns the path to the rules file if found, or empty string if not found.
func FindRulesFile(rulesPath string) string {
	if rulesPath != "" {
		if _, err := os.Stat(rulesPath); err == nil {
			return rulesPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdRules := filepath.Join(cwd, DefaultRulesFile)
		if _, err := os.Stat(cwdRules); err == nil {
			return cwdRules
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeRules := filepath.Join(home, DefaultRulesFile)
		if _, err := os.Stat(homeRules); err == nil {
			return homeRules
		}
	}

	return ""
}

// EnsureDirs creates the data directory and the snapshot directory if they
// do not exist. Called once at watch startup before any file handle opens.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.DataDir, 0750); err != nil {
		return err
	}
	return os.MkdirAll(c.SnapshotDir(), 0750)
}
