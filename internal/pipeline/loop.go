package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/sentrycam/internal/evidence"
	"github.com/nao1215/sentrycam/internal/model"
	"github.com/nao1215/sentrycam/internal/rules"
)

// noReasonYet is the LastReason sentinel before the first anomaly.
const noReasonYet = "none"

// State holds the loop's running counters. Mutated once per anomalous
// frame; reset only when the process restarts.
type State struct {
	// AnomalyCount is the monotonic count of anomalous frames this run.
	AnomalyCount int

	// LastReason is the most recent non-empty reason string.
	LastReason string
}

// Loop orchestrates the per-frame pipeline until the stream ends, the sink
// dies, or the context is cancelled.
type Loop struct {
	source    Source
	detector  Detector
	sink      Sink
	evaluator *rules.Evaluator
	evidence  *evidence.Writer
	saver     SnapshotSaver

	logger *slog.Logger
	now    func() time.Time

	state State
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for loop lifecycle events and
// recoverable failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithClock overrides the wall clock. Tests use this to pin record
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// New creates a detection loop over the given collaborators.
func New(source Source, detector Detector, sink Sink, evaluator *rules.Evaluator, ev *evidence.Writer, saver SnapshotSaver, opts ...Option) *Loop {
	l := &Loop{
		source:    source,
		detector:  detector,
		sink:      sink,
		evaluator: evaluator,
		evidence:  ev,
		saver:     saver,
		logger:    slog.Default(),
		now:       time.Now,
		state:     State{LastReason: noReasonYet},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns a copy of the running counters.
func (l *Loop) State() State {
	return l.state
}

// Run executes iterations until a termination condition. It returns nil on
// every normal termination path: end-of-stream, closed sink, and context
// cancellation are all graceful shutdowns, not errors.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("exit: interrupted")
			return nil
		default:
		}

		if done := l.iterate(ctx); done {
			return nil
		}
	}
}

// iterate runs one full pipeline pass and reports whether the loop should
// terminate.
func (l *Loop) iterate(ctx context.Context) (done bool) {
	// 1. Acquire a frame. No frame from a dead source is end-of-stream;
	// no frame from a live source is a transient stall and is retried
	// without advancing any counters.
	frame, ok := l.source.Capture()
	if !ok {
		if !l.source.IsLive() {
			l.logger.Info("exit: input EOS")
			return true
		}
		return false
	}

	// 2. Detect. A backend failure is recoverable: log it and carry on
	// with an empty detection list so the frame still renders.
	detections, err := l.detector.Detect(frame)
	if err != nil {
		l.logger.Error("detection failed", "error", err)
		detections = nil
	}

	// 3. Labels are compared case-insensitively everywhere downstream.
	model.LowerLabels(detections)
	present, counts := model.CollectLabels(detections)

	// 4. Evaluate the anomaly rules.
	verdict := l.evaluator.Evaluate(present, counts)

	// 5. Per-detection lines go to the human-readable log every frame,
	// anomalous or not.
	l.evidence.LogDetections(detections, func(d model.Detection) bool {
		return l.evaluator.Flagged(d.Label, counts)
	})

	// 6. Durable evidence. The counter update and the record attempt
	// belong together: a snapshot failure inside Record degrades the
	// row but never cancels the increment or the append attempt.
	if verdict.Anomaly {
		l.state.AnomalyCount++
		l.state.LastReason = verdict.Reason()
		l.evidence.Record(ctx, l.now(), verdict.Reason(),
			model.SortedLabels(present), counts,
			func(path string) error { return l.saver.Save(path, frame) })
	}

	// 7. Render with the status overlay.
	if err := l.sink.Render(frame); err != nil {
		l.logger.Error("render failed", "error", err)
	}
	l.sink.SetStatus(l.statusLine(verdict))

	// 8. A dead sink means the user closed the display.
	if !l.sink.IsLive() {
		l.logger.Info("exit: output closed")
		return true
	}

	return false
}

// statusLine builds the HUD overlay summarizing the current state.
func (l *Loop) statusLine(verdict rules.Verdict) string {
	status := "Normal"
	if verdict.Anomaly {
		status = "Anomaly!"
	}
	return fmt.Sprintf("%s | anomalies=%d | last=%s | FPS=%.0f",
		status, l.state.AnomalyCount, l.state.LastReason, l.detector.FPS())
}
