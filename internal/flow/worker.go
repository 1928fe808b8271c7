package flow

import (
	"context"
	"image"
	"log/slog"
	"runtime"
	"sync/atomic"
)

type WorkerOptions struct {
	Decimate float64
	Mirror   bool
}

func DefaultWorkerOptions() WorkerOptions {
	return WorkerOptions{Decimate: 0.25}
}

// WorkerStats counts what the worker did with the frames it polled.
type WorkerStats struct {
	Frames    uint64
	Dropped   uint64
	Published uint64
	Errors    uint64
}

// Worker polls a camera, computes flow between consecutive decimated frames
// and publishes the result to a Buffer whenever the consumer is ready.
// Frames that arrive while the consumer is busy are dropped.
type Worker struct {
	camera Camera
	algo   Algorithm
	buf    *Buffer
	opts   WorkerOptions

	mirrored   *image.RGBA
	prev, curr *image.Gray

	frames    atomic.Uint64
	dropped   atomic.Uint64
	published atomic.Uint64
	errors    atomic.Uint64
}

func NewWorker(camera Camera, algo Algorithm, buf *Buffer, opts WorkerOptions) *Worker {
	if opts.Decimate <= 0 || opts.Decimate > 1 {
		opts.Decimate = 1
	}
	return &Worker{camera: camera, algo: algo, buf: buf, opts: opts}
}

// FieldSize is the dimension of the fields this worker publishes.
func (w *Worker) FieldSize() (int, int) {
	return DecimatedSize(w.camera.Bounds(), w.opts.Decimate)
}

// Run loops until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	fw, fh := w.FieldSize()
	slog.Info("flow worker start", "algorithm", w.algo.Name(), "camera", w.camera.Bounds().Size().String(), "field_w", fw, "field_h", fh)
	defer func() {
		s := w.Stats()
		slog.Info("flow worker stop", "frames", s.Frames, "published", s.Published, "dropped", s.Dropped, "errors", s.Errors)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if !w.Step() {
			runtime.Gosched()
		}
	}
}

// Step performs one poll. It reports whether a frame was taken from the camera
// and processed.
func (w *Worker) Step() bool {
	frame, ok := w.camera.PollFrame()
	if !ok {
		return false
	}
	w.frames.Add(1)
	if !w.buf.Ready() {
		w.dropped.Add(1)
		return false
	}

	if w.opts.Mirror {
		w.mirrored = Mirror(w.mirrored, frame)
		frame = w.mirrored
	}

	w.prev, w.curr = w.curr, w.prev
	w.curr = DecimateGray(w.curr, frame, w.opts.Decimate)
	if w.prev == nil {
		return true
	}

	field, err := w.algo.Compute(w.prev, w.curr)
	if err != nil {
		if w.errors.Add(1) == 1 {
			slog.Warn("flow compute failed", "algorithm", w.algo.Name(), "err", err)
		}
		return true
	}
	version := w.buf.Publish(field, frame)
	if w.published.Add(1) == 1 {
		slog.Debug("flow first field", "version", version, "width", field.Width, "height", field.Height)
	}
	return true
}

func (w *Worker) Stats() WorkerStats {
	return WorkerStats{
		Frames:    w.frames.Load(),
		Dropped:   w.dropped.Load(),
		Published: w.published.Load(),
		Errors:    w.errors.Load(),
	}
}
