package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/dynamo"
	"github.com/san-kum/flowgrid/internal/sim"
)

func smallConfig() *config.Config {
	cfg := config.GetPreset("quick")
	cfg.Grid.Cols, cfg.Grid.Rows = 8, 6
	cfg.Ticks = 40
	cfg.FPS = 0
	cfg.Camera.Width, cfg.Camera.Height = 64, 48
	cfg.Camera.FPS = 0
	cfg.Flow.Decimate = 0.5
	return cfg
}

func TestRegistryLists(t *testing.T) {
	r := NewRegistry()
	cams := r.ListCameras()
	want := []string{"blobs", "frames", "noise", "still"}
	if len(cams) != len(want) {
		t.Fatalf("cameras = %v, want %v", cams, want)
	}
	for i := range want {
		if cams[i] != want[i] {
			t.Errorf("cameras = %v, want %v", cams, want)
		}
	}
	if algos := r.ListAlgorithms(); len(algos) != 2 {
		t.Errorf("algorithms = %v", algos)
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	cfg := smallConfig()

	cfg.Camera.Source = "webcam"
	if _, err := r.GetCamera(cfg); !errors.Is(err, dynamo.ErrUnknownComponent) {
		t.Errorf("unknown camera err = %v", err)
	}

	cfg = smallConfig()
	cfg.Flow.Algorithm = "farneback"
	if _, err := r.GetAlgorithm(cfg); !errors.Is(err, dynamo.ErrUnknownComponent) {
		t.Errorf("unknown algorithm err = %v", err)
	}

	cfg = smallConfig()
	cfg.Camera.Source = "frames"
	if _, err := New(cfg, r); !errors.Is(err, dynamo.ErrNoFrames) {
		t.Errorf("frames without dir err = %v", err)
	}
}

func TestExperimentRun(t *testing.T) {
	for _, source := range []string{"noise", "blobs", "still"} {
		t.Run(source, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Camera.Source = source
			exp, err := New(cfg, NewRegistry())
			if err != nil {
				t.Fatal(err)
			}

			result, err := exp.Run(context.Background(), true)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if result.StepsTaken != cfg.Ticks || len(result.Ticks) != cfg.Ticks {
				t.Errorf("steps = %d, recorded = %d, want %d", result.StepsTaken, len(result.Ticks), cfg.Ticks)
			}
			for _, name := range []string{"detach_ratio", "peak_detach", "reset_cycles", "kinetic_energy", "off_screen"} {
				if _, ok := result.Metrics[name]; !ok {
					t.Errorf("metric %s missing", name)
				}
			}
		})
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Grid.Cols = 0
	if _, err := New(cfg, NewRegistry()); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("err = %v, want ErrParameterBounds", err)
	}
}

func TestExperimentCancelled(t *testing.T) {
	cfg := smallConfig()
	cfg.Ticks = 0
	exp, err := New(cfg, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := exp.Run(ctx, false); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestStartStop(t *testing.T) {
	exp, err := New(smallConfig(), NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	stop := exp.Start(context.Background())
	for i := 0; i < 20; i++ {
		exp.Scene().Step()
	}
	if err := stop(); err != nil {
		t.Errorf("stop: %v", err)
	}
}

func TestRunFuncEnsemble(t *testing.T) {
	cfg := smallConfig()
	cfg.Ticks = 10
	results, err := sim.NewEnsemble(RunFunc(cfg, NewRegistry()), 3, 5).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if cfg.Seed != 1 {
		t.Error("ensemble modified the base config")
	}
}
