package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"

	"github.com/san-kum/flowgrid/internal/sim"
)

// Recorder collects scene frames and writes them out as an animated GIF.
type Recorder struct {
	width, height int
	delay         int
	frames        []*image.Paletted
	index         map[color.RGBA]uint8
}

// NewRecorder records width x height frames played back at fps.
func NewRecorder(width, height, fps int) *Recorder {
	delay := 2
	if fps > 0 && 100/fps > delay {
		delay = 100 / fps
	}
	return &Recorder{
		width:  width,
		height: height,
		delay:  delay,
		index:  make(map[color.RGBA]uint8),
	}
}

func (r *Recorder) Len() int { return len(r.frames) }
func (r *Recorder) Reset()   { r.frames = r.frames[:0] }

// Capture draws every particle of scene as a two pixel square in its colour.
func (r *Recorder) Capture(scene *sim.Scene) {
	img := image.NewPaletted(image.Rect(0, 0, r.width, r.height), palette.Plan9)
	world := scene.Config().World
	sx := float64(r.width) / world.Width
	sy := float64(r.height) / world.Height

	particles := scene.Particles()
	for i := range particles {
		px := int(particles[i].Position.X * sx)
		py := int(particles[i].Position.Y * sy)
		idx := r.colorIndex(scene.Color(i))
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				if (image.Point{px + dx, py + dy}).In(img.Rect) {
					img.SetColorIndex(px+dx, py+dy, idx)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) colorIndex(c color.RGBA) uint8 {
	c = quantize(c)
	idx, ok := r.index[c]
	if !ok {
		idx = uint8(color.Palette(palette.Plan9).Index(c))
		r.index[c] = idx
	}
	return idx
}

// Save writes the recorded frames to path.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("recorder: no frames")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recorder: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("recorder: encode %s: %w", path, err)
	}
	return nil
}
