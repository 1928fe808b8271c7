package flow

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ojrac/opensimplex-go"

	"github.com/san-kum/flowgrid/internal/dynamo"
)

// NoiseGenerator renders drifting coloured simplex noise. Successive frames
// are slices of a 3D noise volume, so the pattern moves smoothly over time.
type NoiseGenerator struct {
	noise  opensimplex.Noise
	bounds image.Rectangle
	Scale  float64
	Speed  float64
	Drift  dynamo.Vec
	frame  *image.RGBA
}

func NewNoiseGenerator(width, height int, seed int64) *NoiseGenerator {
	return &NoiseGenerator{
		noise:  opensimplex.New(seed),
		bounds: image.Rect(0, 0, width, height),
		Scale:  0.02,
		Speed:  0.05,
		Drift:  dynamo.V(1.5, 0.75),
	}
}

func (g *NoiseGenerator) Bounds() image.Rectangle { return g.bounds }

func (g *NoiseGenerator) Frame(n int) *image.RGBA {
	if g.frame == nil {
		g.frame = image.NewRGBA(g.bounds)
	}
	t := float64(n)
	ox, oy := g.Drift.X*t, g.Drift.Y*t
	z := t * g.Speed
	w, h := g.bounds.Dx(), g.bounds.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := (float64(x) - ox) * g.Scale
			fy := (float64(y) - oy) * g.Scale
			v := g.noise.Eval3(fx, fy, z)*0.5 + 0.5
			hue := g.noise.Eval3(fx*0.5+100, fy*0.5, z*0.5)*0.5 + 0.5
			g.frame.SetRGBA(x, y, shade(v, hue))
		}
	}
	return g.frame
}

// Blob is a soft disc orbiting a centre point.
type Blob struct {
	Center dynamo.Vec
	Orbit  float64
	Radius float64
	Speed  float64
	Phase  float64
	Color  color.RGBA
}

// BlobGenerator renders a dark background with bright blobs moving on
// circular paths. Motion is large and coherent, which makes it useful for
// checking that the flow field drags particles in the expected direction.
type BlobGenerator struct {
	bounds     image.Rectangle
	Blobs      []Blob
	Background color.RGBA
	frame      *image.RGBA
}

func NewBlobGenerator(width, height, count int, seed int64) *BlobGenerator {
	noise := opensimplex.New(seed)
	g := &BlobGenerator{
		bounds:     image.Rect(0, 0, width, height),
		Background: color.RGBA{16, 16, 24, 255},
	}
	w, h := float64(width), float64(height)
	for i := 0; i < count; i++ {
		r := noise.Eval2(float64(i), 0.5)*0.5 + 0.5
		g.Blobs = append(g.Blobs, Blob{
			Center: dynamo.V(w*(0.25+0.5*r), h*(0.3+0.4*(1-r))),
			Orbit:  math.Min(w, h) * (0.15 + 0.1*r),
			Radius: math.Min(w, h) * (0.06 + 0.04*r),
			Speed:  0.02 + 0.03*r,
			Phase:  float64(i) * 2 * math.Pi / float64(count),
			Color:  shade(0.9, float64(i)/float64(count)),
		})
	}
	return g
}

func (g *BlobGenerator) Bounds() image.Rectangle { return g.bounds }

// Position is the centre of blob i at frame n.
func (g *BlobGenerator) Position(i, n int) dynamo.Vec {
	b := g.Blobs[i]
	a := b.Phase + b.Speed*float64(n)
	return dynamo.Add(b.Center, dynamo.V(math.Cos(a)*b.Orbit, math.Sin(a)*b.Orbit))
}

func (g *BlobGenerator) Frame(n int) *image.RGBA {
	if g.frame == nil {
		g.frame = image.NewRGBA(g.bounds)
	}
	bg := g.Background
	for i := 0; i < len(g.frame.Pix); i += 4 {
		g.frame.Pix[i], g.frame.Pix[i+1], g.frame.Pix[i+2], g.frame.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	for i, b := range g.Blobs {
		c := g.Position(i, n)
		x0 := dynamo.ClampInt(int(c.X-b.Radius), 0, g.bounds.Dx())
		x1 := dynamo.ClampInt(int(c.X+b.Radius)+1, 0, g.bounds.Dx())
		y0 := dynamo.ClampInt(int(c.Y-b.Radius), 0, g.bounds.Dy())
		y1 := dynamo.ClampInt(int(c.Y+b.Radius)+1, 0, g.bounds.Dy())
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				d := dynamo.Dist(c, dynamo.V(float64(x), float64(y)))
				if d >= b.Radius {
					continue
				}
				a := 1 - d/b.Radius
				a = a * a * (3 - 2*a)
				g.frame.SetRGBA(x, y, blend(g.frame.RGBAAt(x, y), b.Color, a))
			}
		}
	}
	return g.frame
}

// SequenceGenerator replays a fixed list of frames, looping at the end.
type SequenceGenerator struct {
	frames []*image.RGBA
	bounds image.Rectangle
	Loop   bool
}

func NewSequenceGenerator(frames []*image.RGBA, loop bool) (*SequenceGenerator, error) {
	if len(frames) == 0 {
		return nil, dynamo.ErrNoFrames
	}
	b := frames[0].Rect
	for i, f := range frames {
		if f.Rect != b {
			return nil, fmt.Errorf("frame %d: %v != %v: %w", i, f.Rect, b, dynamo.ErrDimensionMismatch)
		}
	}
	return &SequenceGenerator{frames: frames, bounds: b, Loop: loop}, nil
}

func (g *SequenceGenerator) Bounds() image.Rectangle { return g.bounds }

func (g *SequenceGenerator) Len() int { return len(g.frames) }

func (g *SequenceGenerator) Frame(n int) *image.RGBA {
	if n >= len(g.frames) {
		if !g.Loop {
			return nil
		}
		n %= len(g.frames)
	}
	return g.frames[n]
}

// StillGenerator returns the same frame forever. The resulting flow is zero.
type StillGenerator struct {
	frame *image.RGBA
}

func NewStillGenerator(frame *image.RGBA) *StillGenerator {
	return &StillGenerator{frame: frame}
}

func (g *StillGenerator) Bounds() image.Rectangle { return g.frame.Rect }

func (g *StillGenerator) Frame(int) *image.RGBA { return g.frame }

// LoadFrameDir reads every PNG and JPEG in dir in lexical order and scales
// each to width x height.
func LoadFrameDir(dir string, width, height int) ([]*image.RGBA, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, dynamo.ErrNoFrames)
	}
	sort.Strings(names)

	size := image.Rect(0, 0, width, height)
	frames := make([]*image.RGBA, 0, len(names))
	for _, name := range names {
		img, err := decodeFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, ToRGBA(img, size))
	}
	return frames, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// shade maps a brightness and hue in [0,1] to an opaque colour.
func shade(v, hue float64) color.RGBA {
	v = dynamo.Clamp(v, 0, 1)
	h := math.Mod(dynamo.Clamp(hue, 0, 1)*6, 6)
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	var r, g, b float64
	switch {
	case h < 1:
		r, g = 1, x
	case h < 2:
		r, g = x, 1
	case h < 3:
		g, b = 1, x
	case h < 4:
		g, b = x, 1
	case h < 5:
		r, b = x, 1
	default:
		r, b = 1, x
	}
	return color.RGBA{uint8(r * v * 255), uint8(g * v * 255), uint8(b * v * 255), 255}
}

func blend(dst, src color.RGBA, a float64) color.RGBA {
	mix := func(d, s uint8) uint8 { return uint8(float64(d)*(1-a) + float64(s)*a) }
	return color.RGBA{mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B), 255}
}
