package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when the video source is empty.
	ErrNoInput = errors.New("no input specified: provide a camera index, device path, or video file")

	// ErrNoOutput is returned when the video sink is empty.
	ErrNoOutput = errors.New("no output specified: use \"window\" or a video file path")

	// ErrInvalidThreshold is returned when the confidence threshold is
	// outside (0, 1].
	ErrInvalidThreshold = errors.New("invalid threshold: must be greater than 0 and at most 1")

	// ErrNoDataDir is returned when the data directory is empty.
	ErrNoDataDir = errors.New("no data directory specified")

	// ErrNoRules is returned when the anomaly set is empty and the person
	// cap is disabled. Such a configuration can never flag a frame.
	ErrNoRules = errors.New("no anomaly rules configured: set anomaly labels or a person cap")
)
