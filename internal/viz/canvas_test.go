package viz

import (
	"image/color"
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("Set(0,0) = %U", c.Grid[0][0])
	}
	c.Set(1, 3)
	if c.Grid[0][0] != 0x2881 {
		t.Errorf("Set(1,3) = %U", c.Grid[0][0])
	}
	c.Set(2, 0)
	if c.Grid[0][1] != 0x2801 {
		t.Errorf("Set(2,0) = %U", c.Grid[0][1])
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 8}} {
		c.Set(p[0], p[1])
		c.SetColor(p[0], p[1], color.RGBA{255, 0, 0, 255})
	}
	for _, row := range c.Grid {
		for _, r := range row {
			if r != brailleBlank {
				t.Fatalf("grid changed: %q", c.String())
			}
		}
	}
}

func TestCanvasUnsetAndClear(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	c.Set(1, 1)
	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2810 {
		t.Errorf("after Unset = %U", c.Grid[0][0])
	}
	c.SetColor(0, 2, color.RGBA{0, 0, 255, 255})
	c.Clear()
	if c.Grid[0][0] != brailleBlank || c.tinted[0][0] {
		t.Error("Clear left dots or tint behind")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for i, r := range c.Grid[0] {
		if r != 0x2809 {
			t.Errorf("cell %d = %U, want top row set", i, r)
		}
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 2)
	c.SetColor(0, 0, color.RGBA{255, 0, 0, 255})
	c.SetColor(1, 0, color.RGBA{250, 5, 5, 255})
	c.Set(4, 4)

	out := c.Render()
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("lines = %d, want 2", got)
	}
	if !strings.ContainsRune(out, 0x2809) {
		t.Errorf("render lost the tinted cell: %q", out)
	}
	if !strings.ContainsRune(out, 0x2801) {
		t.Errorf("render lost the plain cell: %q", out)
	}
}

func TestQuantizeGroupsNearbyColours(t *testing.T) {
	a := quantize(color.RGBA{255, 0, 0, 255})
	b := quantize(color.RGBA{250, 5, 5, 255})
	if a != b {
		t.Errorf("%v != %v", a, b)
	}
}
