package log

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DetectionLogger wraps the rotating human-readable log.
// It owns the underlying rotator so the file can be closed once at
// shutdown.
type DetectionLogger struct {
	// Logger is the slog logger writing to the rotating file and to
	// standard output.
	*slog.Logger

	rotator *lumberjack.Logger
}

// NewDetectionLogger creates the human-readable detection logger.
// Lines are appended to path, rotated when the file exceeds maxSizeMB
// megabytes, keeping at most maxBackups rotated files, and mirrored to
// standard output.
func NewDetectionLogger(path string, maxSizeMB, maxBackups int) *DetectionLogger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}

	handler := slog.NewTextHandler(io.MultiWriter(rotator, os.Stdout), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &DetectionLogger{
		Logger:  slog.New(handler),
		rotator: rotator,
	}
}

// Close closes the rotating log file.
func (d *DetectionLogger) Close() error {
	return d.rotator.Close()
}

// NewAppLogger creates the stderr diagnostics logger.
// Warnings and errors only by default; verbose switches to debug level.
func NewAppLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
