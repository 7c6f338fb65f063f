package video

import (
	"fmt"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/nao1215/sentrycam/internal/pipeline"
)

// CaptureSource reads frames from a camera device, a video file, or a
// stream URL.
type CaptureSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
	live    bool
}

// OpenSource opens the given input. A numeric string selects the camera
// device with that index; anything else is passed through as a file path
// or stream URL.
func OpenSource(input string) (*CaptureSource, error) {
	var (
		capture *gocv.VideoCapture
		err     error
	)
	if deviceID, convErr := strconv.Atoi(input); convErr == nil {
		capture, err = gocv.OpenVideoCapture(deviceID)
	} else {
		capture, err = gocv.OpenVideoCapture(input)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrOpenSource, input, err)
	}
	if !capture.IsOpened() {
		_ = capture.Close()
		return nil, fmt.Errorf("%w %q", ErrOpenSource, input)
	}

	return &CaptureSource{
		capture: capture,
		mat:     gocv.NewMat(),
		live:    true,
	}, nil
}

// Capture reads the next frame. A read failure marks the source dead;
// a successful read of an empty frame is a transient stall and leaves
// the source live so the caller retries.
func (s *CaptureSource) Capture() (pipeline.Frame, bool) {
	if !s.capture.Read(&s.mat) {
		s.live = false
		return nil, false
	}
	if s.mat.Empty() {
		return nil, false
	}
	return &s.mat, true
}

// IsLive reports whether the source can still produce frames.
func (s *CaptureSource) IsLive() bool {
	return s.live && s.capture.IsOpened()
}

// Close releases the capture device and the frame buffer.
func (s *CaptureSource) Close() error {
	s.live = false
	if err := s.mat.Close(); err != nil {
		return err
	}
	return s.capture.Close()
}
