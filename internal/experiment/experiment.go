package experiment

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/flow"
	"github.com/san-kum/flowgrid/internal/sim"
)

// Experiment is one fully wired pipeline: camera, flow worker, shared
// buffer, scene and runner.
type Experiment struct {
	cfg    *config.Config
	camera *flow.PacedCamera
	buffer *flow.Buffer
	worker *flow.Worker
	scene  *sim.Scene
	runner *sim.Runner
}

func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	camera, err := reg.GetCamera(cfg)
	if err != nil {
		return nil, err
	}
	algo, err := reg.GetAlgorithm(cfg)
	if err != nil {
		return nil, err
	}

	buf := flow.NewBuffer()
	scene, err := sim.NewScene(cfg.SceneConfig(), buf)
	if err != nil {
		return nil, err
	}

	runner := sim.NewRunner(scene)
	for _, m := range reg.DefaultMetrics() {
		runner.AddMetric(m)
	}

	return &Experiment{
		cfg:    cfg,
		camera: camera,
		buffer: buf,
		worker: flow.NewWorker(camera, algo, buf, cfg.WorkerOptions()),
		scene:  scene,
		runner: runner,
	}, nil
}

// Run starts the worker, runs the scene for the configured ticks and stops
// the worker again. On cancellation the partial result is returned with the
// context error.
func (e *Experiment) Run(ctx context.Context, record bool) (*sim.Result, error) {
	slog.Info("experiment start",
		"camera", e.cfg.Camera.Source,
		"algorithm", e.cfg.Flow.Algorithm,
		"particles", e.cfg.Grid.Cols*e.cfg.Grid.Rows,
		"ticks", e.cfg.Ticks,
		"fps", e.cfg.FPS,
		"seed", e.cfg.Seed,
	)

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error { return e.worker.Run(runCtx) })

	var result *sim.Result
	g.Go(func() error {
		defer cancel()
		var err error
		result, err = e.runner.Run(runCtx, e.cfg.RunConfig(record))
		return err
	})

	err := g.Wait()
	if result != nil {
		stats := e.worker.Stats()
		slog.Info("experiment done",
			"ticks", result.StepsTaken,
			"elapsed", result.Elapsed,
			"camera_frames", e.camera.Frames(),
			"fields_published", stats.Published,
			"frames_dropped", stats.Dropped,
		)
	}
	return result, err
}

// RunFunc returns a sim.RunFunc that builds and runs a fresh experiment from
// a copy of cfg with the given seed.
func RunFunc(cfg *config.Config, reg *Registry) sim.RunFunc {
	return func(ctx context.Context, seed int64) (*sim.Result, error) {
		c := *cfg
		c.Seed = seed
		exp, err := New(&c, reg)
		if err != nil {
			return nil, err
		}
		return exp.Run(ctx, false)
	}
}

// Start runs only the worker in the background, for callers that drive the
// scene themselves. The returned function stops the worker and waits for it.
func (e *Experiment) Start(ctx context.Context) (stop func() error) {
	ctx, cancel := context.WithCancel(ctx)
	var g errgroup.Group
	g.Go(func() error { return e.worker.Run(ctx) })
	return func() error {
		cancel()
		return g.Wait()
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Scene() *sim.Scene      { return e.scene }
func (e *Experiment) Runner() *sim.Runner    { return e.runner }
func (e *Experiment) Worker() *flow.Worker   { return e.worker }
func (e *Experiment) Buffer() *flow.Buffer   { return e.buffer }
