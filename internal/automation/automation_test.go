package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/experiment"
	"github.com/san-kum/flowgrid/internal/storage"
)

const scenarioYAML = `
name: smoke
description: two tiny runs
steps:
  - preset: quick
    camera: still
    ticks: 5
    params:
      drag: 0.02
  - preset: quick
    camera: blobs
    ticks: 8
    seed: 9
    save: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func tiny(c *config.Config) {
	c.Grid.Cols, c.Grid.Rows = 4, 4
	c.Camera.Width, c.Camera.Height = 32, 24
	c.Camera.FPS = 0
	c.Flow.Decimate = 0.5
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.Name != "smoke" || len(s.Steps) != 2 {
		t.Fatalf("scenario = %+v", s)
	}
	if s.Steps[0].Params["drag"] != 0.02 || !s.Steps[1].Save {
		t.Errorf("steps = %+v", s.Steps)
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("scenario without steps accepted")
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := ScenarioStep{Preset: "quick", Camera: "still", Ticks: 5, Seed: 3, Params: map[string]float64{"drag": 0.5}}.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.Camera.Source != "still" || cfg.Ticks != 5 || cfg.Seed != 3 || cfg.Physics.Drag != 0.5 {
		t.Errorf("cfg = %+v", cfg)
	}

	bad := []ScenarioStep{
		{Preset: "nope"},
		{Preset: "quick", Params: map[string]float64{"bogus": 1}},
		{Preset: "quick", Params: map[string]float64{"reset_max": 2}},
	}
	for _, s := range bad {
		if _, err := s.Config(); err == nil {
			t.Errorf("step %+v accepted", s)
		}
	}
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), store)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].RunID != "" {
		t.Error("unsaved step has a run id")
	}
	if results[1].RunID == "" || results[1].Result.StepsTaken != 8 {
		t.Errorf("saved step = %+v", results[1])
	}
	if _, err := store.Load(results[1].RunID); err != nil {
		t.Errorf("saved run not loadable: %v", err)
	}
}

func TestRunScenarioNeedsStore(t *testing.T) {
	s := &Scenario{Name: "x", Steps: []ScenarioStep{{Preset: "quick", Camera: "still", Ticks: 2, Save: true}}}
	if _, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil); err == nil {
		t.Error("save without store accepted")
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("quick")
	tiny(base)
	base.Camera.Source = "still"
	base.Ticks = 4

	sweep := &ParameterSweep{Base: base, ParamName: "reset_max", ParamMin: 0.5, ParamMax: 1.5, NumSteps: 3}
	results, err := RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].ParamValue != 0.5 || results[2].ParamValue != 1.5 {
		t.Errorf("values = %v, %v", results[0].ParamValue, results[2].ParamValue)
	}
	if results[0].Err != nil || results[0].Metrics == nil {
		t.Errorf("first point = %+v", results[0])
	}
	if results[2].Err == nil {
		t.Error("reset_max 1.5 should be rejected")
	}
	if base.Reset.MaxFraction != config.GetPreset("quick").Reset.MaxFraction {
		t.Error("sweep modified the base config")
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "nope", NumSteps: 2}, experiment.NewRegistry()); err == nil {
		t.Error("unknown parameter accepted")
	}
}
