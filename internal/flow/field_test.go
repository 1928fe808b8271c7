package flow

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/flowgrid/internal/dynamo"
)

func TestFieldSample(t *testing.T) {
	f := NewField(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			f.Set(x, y, dynamo.V(float64(x), float64(y)))
		}
	}

	tests := []struct {
		name string
		x, y float64
		want dynamo.Vec
	}{
		{"origin", 0, 0, dynamo.V(0, 0)},
		{"truncates", 1.9, 0.9, dynamo.V(1, 0)},
		{"last cell", 2, 1, dynamo.V(2, 1)},
		{"clamps high", 10, 5, dynamo.V(2, 1)},
		{"clamps low", -3, -0.5, dynamo.V(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Sample(tt.x, tt.y); got != tt.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if got := (Field{}).Sample(1, 1); got != (dynamo.Vec{}) {
		t.Errorf("empty field sample = %v", got)
	}
}

func TestDecimatedSize(t *testing.T) {
	tests := []struct {
		w, h   int
		factor float64
		ww, wh int
	}{
		{640, 480, 0.25, 160, 120},
		{641, 479, 0.25, 160, 119},
		{3, 3, 0.1, 1, 1},
		{8, 4, 1, 8, 4},
	}
	for _, tt := range tests {
		w, h := DecimatedSize(image.Rect(0, 0, tt.w, tt.h), tt.factor)
		if w != tt.ww || h != tt.wh {
			t.Errorf("DecimatedSize(%dx%d, %v) = %dx%d, want %dx%d", tt.w, tt.h, tt.factor, w, h, tt.ww, tt.wh)
		}
	}
}

func TestMirror(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	dst := Mirror(nil, src)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if dst.RGBAAt(x, y) != src.RGBAAt(2-x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, dst.RGBAAt(x, y), src.RGBAAt(2-x, y))
			}
		}
	}
	if again := Mirror(dst, src); again != dst {
		t.Error("Mirror did not reuse destination")
	}
}

func wave(w, h int, shift float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := float64(x) - shift
			v := 128 + 90*math.Sin(fx*0.3)*math.Cos(float64(y)*0.25)
			img.Pix[y*img.Stride+x] = uint8(v)
		}
	}
	return img
}

func TestLucasKanadeShift(t *testing.T) {
	lk := NewLucasKanade(7, 1e-4)
	field, err := lk.Compute(wave(48, 32, 0), wave(48, 32, 1))
	if err != nil {
		t.Fatal(err)
	}

	var sum dynamo.Vec
	n := 0
	for y := 8; y < 24; y++ {
		for x := 8; x < 40; x++ {
			sum = dynamo.Add(sum, field.At(x, y))
			n++
		}
	}
	mean := dynamo.Scale(1/float64(n), sum)
	if mean.X < 0.5 || mean.X > 1.5 {
		t.Errorf("mean horizontal flow = %v, want about 1", mean.X)
	}
	if math.Abs(mean.Y) > 0.2 {
		t.Errorf("mean vertical flow = %v, want about 0", mean.Y)
	}
}

func TestLucasKanadeStill(t *testing.T) {
	lk := NewLucasKanade(5, 1e-4)
	img := wave(20, 20, 0)
	field, err := lk.Compute(img, img)
	if err != nil {
		t.Fatal(err)
	}
	if m := field.MeanMagnitude(); m != 0 {
		t.Errorf("still frames mean magnitude = %v", m)
	}
}

func TestAlgorithmDimensionMismatch(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 4, 4))
	b := image.NewGray(image.Rect(0, 0, 5, 4))
	for _, algo := range []Algorithm{NewLucasKanade(3, 0), &NullFlow{}} {
		if _, err := algo.Compute(a, b); !errors.Is(err, dynamo.ErrDimensionMismatch) {
			t.Errorf("%s: err = %v, want ErrDimensionMismatch", algo.Name(), err)
		}
	}
}

func TestPacedCamera(t *testing.T) {
	now := time.Unix(0, 0)
	cam := NewPacedCamera(NewNoiseGenerator(8, 8, 1), 10)
	cam.now = func() time.Time { return now }

	if _, ok := cam.PollFrame(); !ok {
		t.Fatal("first poll should yield a frame")
	}
	now = now.Add(50 * time.Millisecond)
	if _, ok := cam.PollFrame(); ok {
		t.Error("poll inside the frame interval yielded a frame")
	}
	now = now.Add(50 * time.Millisecond)
	if _, ok := cam.PollFrame(); !ok {
		t.Error("poll after the frame interval yielded nothing")
	}
	if cam.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", cam.Frames())
	}
}

func TestSequenceGenerator(t *testing.T) {
	fs := frames(2, 4, 4)
	seq, err := NewSequenceGenerator(fs, false)
	if err != nil {
		t.Fatal(err)
	}
	cam := NewPacedCamera(seq, 0)
	for i := 0; i < 2; i++ {
		if _, ok := cam.PollFrame(); !ok {
			t.Fatalf("frame %d missing", i)
		}
	}
	if _, ok := cam.PollFrame(); ok {
		t.Error("non-looping sequence kept producing frames")
	}

	seq.Loop = true
	if got := seq.Frame(3); got != fs[1] {
		t.Error("looping sequence did not wrap")
	}

	if _, err := NewSequenceGenerator(nil, true); !errors.Is(err, dynamo.ErrNoFrames) {
		t.Errorf("empty sequence err = %v", err)
	}
	mixed := []*image.RGBA{fs[0], image.NewRGBA(image.Rect(0, 0, 2, 2))}
	if _, err := NewSequenceGenerator(mixed, true); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("mixed sequence err = %v", err)
	}
}

func TestLoadFrameDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFrameDir(dir, 4, 4); !errors.Is(err, dynamo.ErrNoFrames) {
		t.Fatalf("empty dir err = %v", err)
	}

	for name, v := range map[string]uint8{"b.png": 50, "a.png": 200} {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		draw.Draw(img, img.Rect, image.NewUniform(color.RGBA{v, v, v, 255}), image.Point{}, draw.Src)
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644)

	got, err := LoadFrameDir(dir, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d frames, want 2", len(got))
	}
	if got[0].Rect.Dx() != 4 || got[0].Rect.Dy() != 4 {
		t.Errorf("frame size = %v", got[0].Rect)
	}
	if got[0].Pix[0] < 150 {
		t.Errorf("frames not sorted by name: first pixel %d", got[0].Pix[0])
	}
}

func TestBlobGeneratorDrawsBlobs(t *testing.T) {
	g := NewBlobGenerator(64, 48, 3, 7)
	img := g.Frame(0)
	c := g.Position(0, 0)
	px := img.RGBAAt(int(c.X), int(c.Y))
	if px == g.Background {
		t.Errorf("blob centre %v has background colour", c)
	}
	if g.Position(0, 0) == g.Position(0, 10) {
		t.Error("blob did not move")
	}
}
