package flow

import (
	"image"
	"time"
)

// Camera is a non-blocking frame source with fixed capture dimensions.
// PollFrame returns false when no new frame is available. The returned image
// is only valid until the next poll.
type Camera interface {
	PollFrame() (*image.RGBA, bool)
	Bounds() image.Rectangle
}

// Generator renders frame n of a synthetic or recorded sequence.
type Generator interface {
	Frame(n int) *image.RGBA
	Bounds() image.Rectangle
}

// PacedCamera turns a Generator into a Camera that yields a new frame at
// most every interval. A zero interval yields a frame on every poll.
// It is meant to be polled from a single goroutine.
type PacedCamera struct {
	gen      Generator
	interval time.Duration
	last     time.Time
	n        int
	now      func() time.Time
}

func NewPacedCamera(gen Generator, fps int) *PacedCamera {
	var interval time.Duration
	if fps > 0 {
		interval = time.Second / time.Duration(fps)
	}
	return &PacedCamera{gen: gen, interval: interval, now: time.Now}
}

func (c *PacedCamera) PollFrame() (*image.RGBA, bool) {
	now := c.now()
	if c.n > 0 && now.Sub(c.last) < c.interval {
		return nil, false
	}
	c.last = now
	frame := c.gen.Frame(c.n)
	c.n++
	return frame, frame != nil
}

func (c *PacedCamera) Bounds() image.Rectangle { return c.gen.Bounds() }

// Frames is the number of frames delivered so far.
func (c *PacedCamera) Frames() int { return c.n }
