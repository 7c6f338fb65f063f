package video

import "errors"

var (
	// ErrOpenSource is returned when the video source cannot be opened.
	ErrOpenSource = errors.New("video: failed to open video source")

	// ErrOpenSink is returned when the video sink cannot be opened.
	ErrOpenSink = errors.New("video: failed to open video sink")

	// ErrLoadNetwork is returned when the detection network fails to load.
	ErrLoadNetwork = errors.New("video: failed to load detection network")

	// ErrLoadNames is returned when the class-names file cannot be read.
	ErrLoadNames = errors.New("video: failed to load class names")

	// ErrBadFrame is returned when a collaborator receives a frame that
	// did not originate from this package's source.
	ErrBadFrame = errors.New("video: frame is not a video frame")

	// ErrSnapshotWrite is returned when a snapshot image cannot be
	// encoded or written.
	ErrSnapshotWrite = errors.New("video: failed to write snapshot")
)
