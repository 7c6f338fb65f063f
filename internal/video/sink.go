package video

import (
	"fmt"
	"strings"

	"gocv.io/x/gocv"

	"github.com/nao1215/sentrycam/internal/pipeline"
)

// windowWaitMS is the per-frame event-pump delay of the window sink.
// One millisecond keeps the window responsive without throttling capture.
const windowWaitMS = 1

// fallbackFPS is the frame rate written into output video files when the
// source does not report one.
const fallbackFPS = 25.0

// Sink is a pipeline sink that owns a releasable display or file handle.
type Sink interface {
	pipeline.Sink

	// Close releases the window or finalizes the output file.
	Close() error
}

// OpenSink opens the output named by the configuration: "window" for a
// desktop window, anything else for a video file path.
func OpenSink(output, title string) (Sink, error) {
	if output == "window" {
		return NewWindowSink(title), nil
	}
	return NewFileSink(output)
}

// WindowSink renders frames into a desktop window. The status line goes
// into the window title so it never obscures the frame.
type WindowSink struct {
	window *gocv.Window
	title  string
	live   bool
}

// NewWindowSink opens a desktop window with the given title.
func NewWindowSink(title string) *WindowSink {
	return &WindowSink{
		window: gocv.NewWindow(title),
		title:  title,
		live:   true,
	}
}

// Render shows one frame and pumps the window event loop.
func (s *WindowSink) Render(frame pipeline.Frame) error {
	mat, ok := frame.(*gocv.Mat)
	if !ok || mat.Empty() {
		return ErrBadFrame
	}
	s.window.IMShow(*mat)
	s.window.WaitKey(windowWaitMS)
	return nil
}

// SetStatus updates the window title with the status line.
func (s *WindowSink) SetStatus(status string) {
	s.window.SetWindowTitle(s.title + " | " + status)
}

// IsLive reports whether the window is still open. The user closing the
// window is the normal way to stop a live session.
func (s *WindowSink) IsLive() bool {
	if !s.live {
		return false
	}
	if s.window.GetWindowProperty(gocv.WindowPropertyVisible) < 1 {
		s.live = false
	}
	return s.live
}

// Close destroys the window.
func (s *WindowSink) Close() error {
	s.live = false
	return s.window.Close()
}

// FileSink encodes frames into a video file. The writer is created
// lazily on the first frame because the frame geometry is unknown until
// capture starts.
type FileSink struct {
	path   string
	writer *gocv.VideoWriter
	status string
	live   bool
}

// NewFileSink prepares a sink writing to the given file path.
func NewFileSink(path string) (*FileSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty output path", ErrOpenSink)
	}
	return &FileSink{path: path, live: true}, nil
}

// Render encodes one frame. The first frame fixes the output geometry.
func (s *FileSink) Render(frame pipeline.Frame) error {
	mat, ok := frame.(*gocv.Mat)
	if !ok || mat.Empty() {
		return ErrBadFrame
	}

	if s.writer == nil {
		writer, err := gocv.VideoWriterFile(s.path, "avc1", fallbackFPS,
			mat.Cols(), mat.Rows(), true)
		if err != nil {
			s.live = false
			return fmt.Errorf("%w %q: %v", ErrOpenSink, s.path, err)
		}
		if !writer.IsOpened() {
			_ = writer.Close()
			s.live = false
			return fmt.Errorf("%w %q", ErrOpenSink, s.path)
		}
		s.writer = writer
	}

	if err := s.writer.Write(*mat); err != nil {
		s.live = false
		return fmt.Errorf("failed to encode frame to %q: %w", s.path, err)
	}
	return nil
}

// SetStatus records the status line. A file has no title bar; the value
// is kept only for introspection.
func (s *FileSink) SetStatus(status string) {
	s.status = status
}

// Status returns the most recent status line.
func (s *FileSink) Status() string {
	return s.status
}

// IsLive reports whether the sink still accepts frames.
func (s *FileSink) IsLive() bool {
	return s.live
}

// Close finalizes the output file.
func (s *FileSink) Close() error {
	s.live = false
	if s.writer == nil {
		return nil
	}
	return s.writer.Close()
}
