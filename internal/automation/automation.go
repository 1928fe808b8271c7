package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/experiment"
	"github.com/san-kum/flowgrid/internal/sim"
	"github.com/san-kum/flowgrid/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset, optional overrides and whether to keep it.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Camera    string             `yaml:"camera"`
	Algorithm string             `yaml:"algorithm"`
	Ticks     int                `yaml:"ticks"`
	Seed      int64              `yaml:"seed"`
	Params    map[string]float64 `yaml:"params"`
	Save      bool               `yaml:"save"`
}

// StepResult is the outcome of one scenario step. RunID is empty unless the
// step was saved.
type StepResult struct {
	Step   int
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &scenario, nil
}

// Config resolves the step into a full configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Camera != "" {
		cfg.Camera.Source = s.Camera
	}
	if s.Algorithm != "" {
		cfg.Flow.Algorithm = s.Algorithm
	}
	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	for k, v := range s.Params {
		if !cfg.SetParam(k, v) {
			return nil, fmt.Errorf("unknown parameter: %s", k)
		}
	}
	if cfg.Ticks == 0 {
		return nil, fmt.Errorf("a scenario step needs a tick limit")
	}
	return cfg, cfg.Validate()
}

// RunScenario executes the steps in order. Steps marked save are written to
// store, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		slog.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx, step.Save)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Result: result}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			meta := storage.NewMetadata(cfg, step.Preset, result)
			if sr.RunID, err = store.Save(cfg, meta, result.Ticks); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs one configuration across evenly spaced values of a
// single parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult is the metric set of one sweep point. Err is set when the value
// produced an invalid configuration; such points are not run.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Err        error
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	if _, ok := sweep.Base.GetParams()[sweep.ParamName]; !ok {
		return nil, fmt.Errorf("unknown parameter: %s", sweep.ParamName)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := *sweep.Base
		cfg.SetParam(sweep.ParamName, paramVal)

		exp, err := experiment.New(&cfg, registry)
		if err != nil {
			results = append(results, SweepResult{ParamValue: paramVal, Err: err})
			continue
		}
		result, err := exp.Run(ctx, false)
		if err != nil {
			return results, err
		}
		results = append(results, SweepResult{ParamValue: paramVal, Metrics: result.Metrics})

		slog.Info("sweep point", "step", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal)
	}

	return results, nil
}
