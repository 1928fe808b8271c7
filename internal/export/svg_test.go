package export

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/san-kum/flowgrid/internal/flow"
	"github.com/san-kum/flowgrid/internal/physics"
	"github.com/san-kum/flowgrid/internal/sim"
)

func TestSceneToSVG(t *testing.T) {
	buf := flow.NewBuffer()
	scene, err := sim.NewScene(sim.SceneConfig{
		World:       physics.Bounds{Width: 100, Height: 100},
		Cols:        2,
		Rows:        2,
		Radius:      1,
		LifeSpanMin: 10,
		LifeSpanMax: 10,
		ReturnMin:   5,
		ReturnMax:   5,
		Params:      physics.DefaultParams(),
		ResetMax:    0.5,
	}, buf)
	if err != nil {
		t.Fatal(err)
	}

	snap := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 16; i++ {
		snap.SetRGBA(i%4, i/4, color.RGBA{0xff, 0x80, 0x00, 0xff})
	}
	buf.Publish(flow.NewField(2, 2), snap)
	scene.Step()

	svg := SceneToSVG(scene, 2)
	if !strings.Contains(svg, `width="200"`) {
		t.Error("scale not applied to canvas size")
	}
	if n := strings.Count(svg, "<circle"); n != 4 {
		t.Errorf("expected 4 circles, got %d", n)
	}
	if !strings.Contains(svg, `fill="#ff8000"`) {
		t.Error("particle colour not taken from snapshot")
	}
	if SceneToSVG(nil, 1) != "" {
		t.Error("nil scene should render nothing")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 0.5, 0.25}, 100, 50, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.Contains(svg, "stroke=\"#00ff00\"") {
		t.Fatalf("unexpected svg: %s", svg)
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments: %s", svg)
	}
	if SeriesToSVG([]float64{1}, 10, 10, "#fff") != "" {
		t.Error("single value should render nothing")
	}
}
