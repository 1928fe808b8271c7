package optim

import (
	"context"
	"testing"

	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/experiment"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0.2, 0.8, 4)
	want := []float64{0.2, 0.4, 0.6, 0.8}
	for i := range want {
		if d := got[i] - want[i]; d > 1e-12 || d < -1e-12 {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if got := Linspace(1, 2, 1); len(got) != 1 || got[0] != 1 {
		t.Errorf("Linspace n=1 = %v", got)
	}
}

func TestGridSearch(t *testing.T) {
	reg := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.GetPreset("quick")
		cfg.Grid.Cols, cfg.Grid.Rows = 4, 4
		cfg.Ticks = 5
		cfg.Camera.Width, cfg.Camera.Height = 32, 24
		cfg.Camera.Source = "still"
		for k, v := range params {
			cfg.SetParam(k, v)
		}
		return experiment.New(cfg, reg)
	}

	gs := NewGridSearch([]string{"reset_min", "reset_max"}, [][]float64{{0.1, 0.2}, {0.5, 0.05}})
	best, _, trials, err := gs.Search(context.Background(), build, "detach_ratio")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 2 {
		t.Fatalf("expected 2 valid trials, got %d", len(trials))
	}
	if best["reset_max"] != 0.5 {
		t.Errorf("best params = %v", best)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gs := NewGridSearch([]string{"drag"}, [][]float64{{0.01}})
	_, _, _, err := gs.Search(ctx, nil, "detach_ratio")
	if err == nil {
		t.Error("expected context error")
	}
}
