package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// All of these are overridable via CLI flags or the rules file.
const (
	// DefaultInput is the default video source. "0" opens the first
	// attached camera device; files, RTSP URLs, and v4l2 device paths
	// are also accepted.
	DefaultInput = "0"

	// DefaultOutput is the default video sink. "window" renders to a
	// desktop window; any other value is treated as a video file path.
	DefaultOutput = "window"

	// DefaultThreshold is the detection confidence threshold applied by
	// the backend. Detections below this confidence never reach the
	// rule evaluator.
	DefaultThreshold = 0.5

	// DefaultNetwork is the default detection model weights file,
	// resolved relative to the data directory's models/ subdirectory
	// unless an absolute path is given.
	DefaultNetwork = "frozen_inference_graph.pb"

	// DefaultModelConfig is the default model graph description matching
	// DefaultNetwork.
	DefaultModelConfig = "ssd_mobilenet_v1_coco_2017_11_17.pbtxt"

	// DefaultNames is the default class-names file: one label per line,
	// line N holding the label for class ID N.
	DefaultNames = "coco.names"

	// DefaultMaxPersons disables the person count-cap rule.
	// Any non-negative value enables it.
	DefaultMaxPersons = -1

	// DetectionLogName is the human-readable rotating log file name.
	DetectionLogName = "detections.log"

	// AnomalyCSVName is the structured anomaly log file name.
	AnomalyCSVName = "anomaly_log.csv"

	// SnapshotDirName is the snapshot image directory name.
	SnapshotDirName = "anomaly_images"

	// MaxLogSizeMB is the rotation threshold of the human-readable log.
	MaxLogSizeMB = 1

	// MaxLogBackups bounds the number of rotated log files kept.
	MaxLogBackups = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "sentrycam"
)

// DefaultAnomalySet returns the default set of forbidden labels.
// Returned as a fresh slice so callers can append without aliasing.
func DefaultAnomalySet() []string {
	return []string{"chair", "cellphone"}
}

// Config holds all configuration options for sentrycam.
// It is populated from CLI flags and the optional rules file, then passed
// through the application by dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// Input is the video source: a camera index, a device path,
	// a video file, or a stream URL.
	Input string

	// Output is the video sink: "window" for a desktop window,
	// or a video file path.
	Output string

	// Network is the detection model weights file path.
	Network string

	// ModelConfig is the model graph description file path.
	ModelConfig string

	// Names is the class-names file path (one label per line).
	Names string

	// Threshold is the backend confidence threshold in (0, 1].
	Threshold float64

	// AnomalySet is the list of forbidden labels. Any of these present
	// in a frame makes the frame anomalous.
	AnomalySet []string

	// MaxPersons caps the per-frame "person" count. Negative disables
	// the rule.
	MaxPersons int

	// Overlay draws detection boxes and labels onto rendered frames.
	Overlay bool

	// DataDir is the directory holding the detection log, the structured
	// anomaly log, the snapshot directory, and the event database.
	DataDir string

	// RulesFilePath is the path to the YAML rules file. If empty, the
	// tool searches for .sentrycam in the current directory and then in
	// the user's home directory.
	RulesFilePath string

	// SaveToDB mirrors every anomaly record into the SQLite event store
	// in DataDir. Enabled by default; --no-db turns it off.
	SaveToDB bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Input:       DefaultInput,
		Output:      DefaultOutput,
		Network:     DefaultNetwork,
		ModelConfig: DefaultModelConfig,
		Names:       DefaultNames,
		Threshold:   DefaultThreshold,
		AnomalySet:  DefaultAnomalySet(),
		MaxPersons:  DefaultMaxPersons,
		Overlay:     true,
		DataDir:     XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for sentrycam.
// On Linux: ~/.local/share/sentrycam
// On macOS: ~/Library/Application Support/sentrycam
// On Windows: %LOCALAPPDATA%\sentrycam
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DetectionLogPath returns the path of the rotating human-readable log.
func (c *Config) DetectionLogPath() string {
	return filepath.Join(c.DataDir, DetectionLogName)
}

// AnomalyCSVPath returns the path of the structured anomaly log.
func (c *Config) AnomalyCSVPath() string {
	return filepath.Join(c.DataDir, AnomalyCSVName)
}

// SnapshotDir returns the snapshot image directory path.
func (c *Config) SnapshotDir() string {
	return filepath.Join(c.DataDir, SnapshotDirName)
}

// ModelPath resolves a model file path. Absolute paths are used as-is;
// relative paths resolve under DataDir/models.
func (c *Config) ModelPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, "models", name)
}

// Validate checks if the configuration is valid and returns a specific
// error describing the first problem found.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
func (c *Config) Validate() error {
	if c.Input == "" {
		return ErrNoInput
	}

	if c.Output == "" {
		return ErrNoOutput
	}

	// The backend needs a meaningful confidence threshold; zero would
	// flood the rule evaluator with noise detections.
	if c.Threshold <= 0 || c.Threshold > 1 {
		return ErrInvalidThreshold
	}

	if c.DataDir == "" {
		return ErrNoDataDir
	}

	// A run with no forbidden labels and no person cap can never flag
	// anything; refuse it rather than silently recording nothing.
	if len(c.AnomalySet) == 0 && c.MaxPersons < 0 {
		return ErrNoRules
	}

	return nil
}
