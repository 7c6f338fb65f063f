package pipeline

import "github.com/nao1215/sentrycam/internal/model"

// Frame is an opaque image buffer produced by a Source for one time step.
// The loop owns a frame only for the duration of one iteration; when an
// anomaly triggers a snapshot, ownership passes to the snapshot saver for
// the duration of the save call only.
type Frame any

// Source produces frames. Implementations block in Capture until a frame
// is available or the stream ends.
type Source interface {
	// Capture returns the next frame. A false ok with a live source is
	// a transient stall; a false ok with a dead source is end-of-stream.
	Capture() (frame Frame, ok bool)

	// IsLive reports whether the source can still produce frames.
	IsLive() bool
}

// Detector runs the object-detection backend on one frame.
// The confidence threshold is applied inside the backend, not by the loop.
type Detector interface {
	// Detect returns all detections above the configured confidence
	// threshold, in backend order.
	Detect(frame Frame) ([]model.Detection, error)

	// FPS reports the backend's current throughput for the status
	// overlay.
	FPS() float64
}

// Sink consumes rendered frames and displays a status line.
type Sink interface {
	// Render displays or encodes one frame.
	Render(frame Frame) error

	// SetStatus updates the status overlay text.
	SetStatus(status string)

	// IsLive reports whether the sink is still accepting frames
	// (false once the user closes the display window).
	IsLive() bool
}

// SnapshotSaver persists a frame as an image file.
type SnapshotSaver interface {
	// Save writes the frame to the given path.
	Save(path string, frame Frame) error
}
