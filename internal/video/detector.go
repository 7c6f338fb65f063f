package video

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/nao1215/sentrycam/internal/model"
	"github.com/nao1215/sentrycam/internal/pipeline"
)

// Input geometry and normalization of the SSD MobileNet graph.
const (
	inputSize          = 300
	blobScale          = 1.0 / 127.5
	blobMean           = 127.5
	fieldsPerDetection = 7
)

// fpsSmoothing is the weight of the previous FPS estimate in the
// exponential moving average.
const fpsSmoothing = 0.9

// DNNDetector runs an SSD MobileNet object-detection network over
// frames via the OpenCV DNN module.
type DNNDetector struct {
	net       gocv.Net
	names     []string
	threshold float32
	overlay   bool

	fps      float64
	lastTick time.Time
}

// DetectorOption configures a DNNDetector.
type DetectorOption func(*DNNDetector)

// WithOverlay enables drawing detection boxes and labels onto the frame.
func WithOverlay(overlay bool) DetectorOption {
	return func(d *DNNDetector) {
		d.overlay = overlay
	}
}

// NewDNNDetector loads the network weights, the graph description, and
// the class-names file. Detections below threshold are discarded inside
// the backend and never reach the caller.
func NewDNNDetector(modelPath, configPath, namesPath string, threshold float64, opts ...DetectorOption) (*DNNDetector, error) {
	names, err := loadClassNames(namesPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: model file %q: %v", ErrLoadNetwork, modelPath, err)
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%w: config file %q: %v", ErrLoadNetwork, configPath, err)
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: %q with %q", ErrLoadNetwork, modelPath, configPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		_ = net.Close()
		return nil, fmt.Errorf("%w: backend: %v", ErrLoadNetwork, err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		_ = net.Close()
		return nil, fmt.Errorf("%w: target: %v", ErrLoadNetwork, err)
	}

	d := &DNNDetector{
		net:       net,
		names:     names,
		threshold: float32(threshold),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// loadClassNames reads one label per line; line N holds class ID N.
func loadClassNames(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadNames, err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, strings.ToLower(line))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q holds no labels", ErrLoadNames, path)
	}
	return names, nil
}

// Detect runs the network on one frame and returns all detections above
// the configured threshold, in backend order. Labels are lowercased.
func (d *DNNDetector) Detect(frame pipeline.Frame) ([]model.Detection, error) {
	mat, ok := frame.(*gocv.Mat)
	if !ok || mat.Empty() {
		return nil, ErrBadFrame
	}

	blob := gocv.BlobFromImage(*mat, blobScale, image.Pt(inputSize, inputSize),
		gocv.NewScalar(blobMean, blobMean, blobMean, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	// The output tensor is a flat list of 7-float detection rows:
	// [batch, classID, confidence, left, top, right, bottom].
	rows := output.Reshape(1, output.Total()/fieldsPerDetection)
	defer rows.Close()

	var detections []model.Detection
	for i := 0; i < rows.Rows(); i++ {
		confidence := rows.GetFloatAt(i, 2)
		if confidence <= d.threshold {
			continue
		}

		classID := int(rows.GetFloatAt(i, 1))
		det := model.Detection{
			Label:      d.className(classID),
			Confidence: float64(confidence),
			ClassID:    classID,
		}
		detections = append(detections, det)

		if d.overlay {
			d.drawDetection(mat, det,
				rows.GetFloatAt(i, 3), rows.GetFloatAt(i, 4),
				rows.GetFloatAt(i, 5), rows.GetFloatAt(i, 6))
		}
	}

	d.tick()
	return detections, nil
}

// className maps an SSD class ID to its label. Class IDs are 1-based
// with respect to the names file.
func (d *DNNDetector) className(classID int) string {
	if classID >= 1 && classID <= len(d.names) {
		return d.names[classID-1]
	}
	return fmt.Sprintf("class_%d", classID)
}

// drawDetection renders one bounding box with its label onto the frame.
// Box coordinates arrive normalized to [0, 1].
func (d *DNNDetector) drawDetection(mat *gocv.Mat, det model.Detection, left, top, right, bottom float32) {
	green := color.RGBA{G: 255, A: 255}

	rect := image.Rect(
		int(left*float32(mat.Cols())),
		int(top*float32(mat.Rows())),
		int(right*float32(mat.Cols())),
		int(bottom*float32(mat.Rows())),
	)
	if err := gocv.Rectangle(mat, rect, green, 2); err != nil {
		return
	}

	label := fmt.Sprintf("%s (%.1f%%)", det.Label, det.Confidence*100)
	_ = gocv.PutText(mat, label, image.Pt(rect.Min.X, rect.Min.Y-5),
		gocv.FontHersheySimplex, 0.5, green, 1)
}

// tick updates the throughput estimate after one inference pass.
func (d *DNNDetector) tick() {
	now := time.Now()
	if !d.lastTick.IsZero() {
		if elapsed := now.Sub(d.lastTick).Seconds(); elapsed > 0 {
			instant := 1.0 / elapsed
			if d.fps == 0 {
				d.fps = instant
			} else {
				d.fps = fpsSmoothing*d.fps + (1-fpsSmoothing)*instant
			}
		}
	}
	d.lastTick = now
}

// FPS reports the smoothed inference throughput.
func (d *DNNDetector) FPS() float64 {
	return d.fps
}

// Close releases the network.
func (d *DNNDetector) Close() error {
	return d.net.Close()
}
