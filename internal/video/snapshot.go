package video

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/nao1215/sentrycam/internal/pipeline"
)

// ImageSaver writes frames as image files. The format is chosen by the
// path extension, which the evidence writer fixes to .jpg.
type ImageSaver struct{}

// NewImageSaver creates an ImageSaver.
func NewImageSaver() *ImageSaver {
	return &ImageSaver{}
}

// Save writes the frame to the given path.
func (s *ImageSaver) Save(path string, frame pipeline.Frame) error {
	mat, ok := frame.(*gocv.Mat)
	if !ok || mat.Empty() {
		return ErrBadFrame
	}
	if !gocv.IMWrite(path, *mat) {
		return fmt.Errorf("%w: %q", ErrSnapshotWrite, path)
	}
	return nil
}
