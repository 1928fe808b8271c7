package sim

import (
	"context"
	"time"

	"github.com/san-kum/flowgrid/internal/dynamo"
)

// Runner is the fixed-rate scheduler that drives a Scene.
type Runner struct {
	scene     *Scene
	metrics   []Metric
	observers []Observer
}

func NewRunner(scene *Scene) *Runner {
	return &Runner{
		scene:     scene,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }
func (r *Runner) Scene() *Scene          { return r.scene }

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Ticks < 0 {
		return &dynamo.ParamError{Field: "ticks", Value: cfg.Ticks, Reason: "must not be negative"}
	}
	if cfg.FPS < 0 {
		return &dynamo.ParamError{Field: "fps", Value: cfg.FPS, Reason: "must not be negative"}
	}
	return nil
}

// Run ticks the scene until cfg.Ticks ticks have run or ctx is done. On
// cancellation the partial result is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{Metrics: make(map[string]float64)}
	if cfg.Record && cfg.Ticks > 0 {
		result.Ticks = make([]TickStats, 0, cfg.Ticks)
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	var tick <-chan time.Time
	if cfg.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		for _, m := range r.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	for cfg.Ticks == 0 || result.StepsTaken < cfg.Ticks {
		if tick != nil {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}
		}

		stats := r.scene.Step()
		for _, m := range r.metrics {
			m.Observe(stats)
		}
		for _, obs := range r.observers {
			obs.OnTick(r.scene, stats)
		}
		if cfg.Record {
			result.Ticks = append(result.Ticks, stats)
		}
		result.StepsTaken++
	}

	return result, nil
}
