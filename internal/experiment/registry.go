package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/dynamo"
	"github.com/san-kum/flowgrid/internal/flow"
	"github.com/san-kum/flowgrid/internal/metrics"
	"github.com/san-kum/flowgrid/internal/sim"
)

type Registry struct {
	cameras    map[string]func(cfg *config.Config) (flow.Generator, error)
	algorithms map[string]func(cfg *config.Config) flow.Algorithm
}

func NewRegistry() *Registry {
	r := &Registry{
		cameras:    make(map[string]func(*config.Config) (flow.Generator, error)),
		algorithms: make(map[string]func(*config.Config) flow.Algorithm),
	}

	r.cameras["noise"] = func(c *config.Config) (flow.Generator, error) {
		return flow.NewNoiseGenerator(c.Camera.Width, c.Camera.Height, c.Seed), nil
	}
	r.cameras["blobs"] = func(c *config.Config) (flow.Generator, error) {
		return flow.NewBlobGenerator(c.Camera.Width, c.Camera.Height, c.Camera.Blobs, c.Seed), nil
	}
	r.cameras["still"] = func(c *config.Config) (flow.Generator, error) {
		frame := flow.NewNoiseGenerator(c.Camera.Width, c.Camera.Height, c.Seed).Frame(0)
		return flow.NewStillGenerator(frame), nil
	}
	r.cameras["frames"] = func(c *config.Config) (flow.Generator, error) {
		if c.Camera.Dir == "" {
			return nil, fmt.Errorf("frames camera: no directory set: %w", dynamo.ErrNoFrames)
		}
		frames, err := flow.LoadFrameDir(c.Camera.Dir, c.Camera.Width, c.Camera.Height)
		if err != nil {
			return nil, err
		}
		return flow.NewSequenceGenerator(frames, true)
	}

	r.algorithms["lucas-kanade"] = func(c *config.Config) flow.Algorithm {
		return flow.NewLucasKanade(c.Flow.Window, c.Flow.MinEigen)
	}
	r.algorithms["none"] = func(c *config.Config) flow.Algorithm { return &flow.NullFlow{} }

	return r
}

// GetCamera builds the configured camera, paced at the configured rate.
func (r *Registry) GetCamera(cfg *config.Config) (*flow.PacedCamera, error) {
	fn, ok := r.cameras[cfg.Camera.Source]
	if !ok {
		return nil, fmt.Errorf("camera %q: %w", cfg.Camera.Source, dynamo.ErrUnknownComponent)
	}
	gen, err := fn(cfg)
	if err != nil {
		return nil, err
	}
	return flow.NewPacedCamera(gen, cfg.Camera.FPS), nil
}

func (r *Registry) GetAlgorithm(cfg *config.Config) (flow.Algorithm, error) {
	fn, ok := r.algorithms[cfg.Flow.Algorithm]
	if !ok {
		return nil, fmt.Errorf("algorithm %q: %w", cfg.Flow.Algorithm, dynamo.ErrUnknownComponent)
	}
	return fn(cfg), nil
}

func (r *Registry) ListCameras() []string    { return sortedKeys(r.cameras) }
func (r *Registry) ListAlgorithms() []string { return sortedKeys(r.algorithms) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Defaults()
}
