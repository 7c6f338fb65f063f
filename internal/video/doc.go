// Package video implements the camera-facing collaborators of the
// detection loop: the frame source, the detection backend, the render
// sink, and the snapshot saver.
//
// Design decision: This is the only package that imports gocv. The loop,
// the rule evaluator, the evidence writer, and the aggregator treat
// frames as opaque values, so the rest of the module builds and tests
// without an OpenCV installation. The price is a type assertion at each
// package boundary, paid once per frame.
package video
