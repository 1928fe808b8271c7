package sim

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/san-kum/flowgrid/internal/dynamo"
	"github.com/san-kum/flowgrid/internal/flow"
	"github.com/san-kum/flowgrid/internal/physics"
)

const minParallelChunk = 512

// SceneConfig describes the particle grid and the per-tick forces.
type SceneConfig struct {
	World  physics.Bounds
	Cols   int
	Rows   int
	Radius float64

	LifeSpanMin, LifeSpanMax int
	ReturnMin, ReturnMax     int

	Params   physics.Params
	Gravity  dynamo.Vec
	ResetMin float64
	ResetMax float64

	Repulsion       bool
	RepulsionRadius float64
	RepulsionScale  float64

	Workers int
	Seed    int64
}

func (c SceneConfig) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return &dynamo.ParamError{Field: "world", Value: c.World, Reason: "must be positive"}
	case c.Cols <= 0 || c.Rows <= 0:
		return &dynamo.ParamError{Field: "grid", Value: [2]int{c.Cols, c.Rows}, Reason: "must be positive"}
	case c.LifeSpanMin <= 0 || c.LifeSpanMax < c.LifeSpanMin:
		return &dynamo.ParamError{Field: "particle.life_span", Value: [2]int{c.LifeSpanMin, c.LifeSpanMax}, Reason: "need 0 < min <= max"}
	case c.ReturnMin <= 0 || c.ReturnMax < c.ReturnMin:
		return &dynamo.ParamError{Field: "particle.return", Value: [2]int{c.ReturnMin, c.ReturnMax}, Reason: "need 0 < min <= max"}
	case c.ResetMin < 0 || c.ResetMax > 1 || c.ResetMax < c.ResetMin:
		return &dynamo.ParamError{Field: "reset", Value: [2]float64{c.ResetMin, c.ResetMax}, Reason: "need 0 <= min <= max <= 1"}
	}
	return nil
}

// BuildGrid lays out cols x rows particles at the centres of equal cells
// and draws each particle's lifecycle from rng.
func BuildGrid(cfg SceneConfig, rng *rand.Rand) []physics.Particle {
	xStep := cfg.World.Width / float64(cfg.Cols)
	yStep := cfg.World.Height / float64(cfg.Rows)

	particles := make([]physics.Particle, 0, cfg.Cols*cfg.Rows)
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			pos := dynamo.V(xStep*float64(col)+xStep/2, yStep*float64(row)+yStep/2)
			life := physics.Lifecycle{
				LifeSpan:       randRange(rng, cfg.LifeSpanMin, cfg.LifeSpanMax),
				ReturnDuration: randRange(rng, cfg.ReturnMin, cfg.ReturnMax),
			}
			particles = append(particles, physics.NewParticle(pos, cfg.Radius, cfg.World, life, cfg.Params))
		}
	}
	return particles
}

// randRange draws from [lo, hi), or returns lo when the range is empty.
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}

// Scene is the consumer side of the flow pipeline: it owns the particles and
// advances them once per tick using the latest published field.
type Scene struct {
	cfg       SceneConfig
	particles []physics.Particle
	buf       *flow.Buffer
	frame     flow.Frame
	haveField bool
	reset     *ResetController
	repulsion *physics.Repulsion
	tick      int
	last      TickStats
}

func NewScene(cfg SceneConfig, buf *flow.Buffer) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	particles := BuildGrid(cfg, rng)

	s := &Scene{
		cfg:       cfg,
		particles: particles,
		buf:       buf,
		reset:     NewResetController(cfg.ResetMin, cfg.ResetMax, len(particles), rng),
	}
	if cfg.Repulsion {
		s.repulsion = physics.NewRepulsion(cfg.RepulsionRadius, cfg.RepulsionScale)
	}
	return s, nil
}

// Step runs one tick: fetch the field, move the particles, update the reset
// state, advance lifecycles, then hand the field back to the producer.
func (s *Scene) Step() TickStats {
	ready, _ := s.buf.Acquire(&s.frame)
	if ready {
		s.haveField = true
	}

	if s.haveField {
		s.updateParticles()
	}

	stats := s.count()
	resetting := s.reset.Update(stats.Detached, stats.Total)
	if resetting {
		for i := range s.particles {
			if s.particles[i].Detached() {
				s.particles[i].ResetPosition()
			}
		}
	}
	stats.Reset = resetting
	stats.Threshold = s.reset.Threshold()

	s.buf.Handoff(s.frame.Version)
	s.tick++
	s.last = stats
	return stats
}

func (s *Scene) updateParticles() {
	field := s.frame.Field
	sx := float64(field.Width) / s.cfg.World.Width
	sy := float64(field.Height) / s.cfg.World.Height
	gravity := s.cfg.Gravity

	if s.repulsion != nil {
		for i := range s.particles {
			s.particles[i].ResetForce()
		}
		s.repulsion.Apply(s.particles)
	}

	dynamo.ParallelFor(len(s.particles), minParallelChunk, s.cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			p := &s.particles[i]
			if s.repulsion == nil {
				p.ResetForce()
			}
			f := field.Sample(p.Position.X*sx, p.Position.Y*sy)
			p.AddForce(gravity)
			p.AddFieldForce(f)
			p.DampenForce()
			p.Update()
		}
	})
}

func (s *Scene) count() TickStats {
	stats := TickStats{
		Tick:         s.tick,
		Total:        len(s.particles),
		HaveField:    s.haveField,
		FieldVersion: s.frame.Version,
	}
	for i := range s.particles {
		p := &s.particles[i]
		if p.Detached() {
			stats.Detached++
		}
		if p.IsOffScreen() {
			stats.OffScreen++
		}
		stats.KineticEnergy += p.KineticEnergy()
	}
	if stats.Total > 0 {
		stats.Ratio = float64(stats.Detached) / float64(stats.Total)
	}
	return stats
}

func (s *Scene) Particles() []physics.Particle { return s.particles }
func (s *Scene) Config() SceneConfig           { return s.cfg }
func (s *Scene) HaveField() bool               { return s.haveField }
func (s *Scene) Field() flow.Field             { return s.frame.Field }
func (s *Scene) Snapshot() *image.RGBA         { return s.frame.Snapshot }
func (s *Scene) Resets() *ResetController      { return s.reset }
func (s *Scene) Last() TickStats               { return s.last }

// Color is the camera colour under particle i's origin, or white before the
// first snapshot arrives.
func (s *Scene) Color(i int) color.RGBA {
	snap := s.frame.Snapshot
	if snap == nil {
		return color.RGBA{255, 255, 255, 255}
	}
	o := s.particles[i].Origin
	b := snap.Rect
	x := dynamo.ClampInt(int(o.X*float64(b.Dx())/s.cfg.World.Width), 0, b.Dx()-1)
	y := dynamo.ClampInt(int(o.Y*float64(b.Dy())/s.cfg.World.Height), 0, b.Dy()-1)
	return snap.RGBAAt(b.Min.X+x, b.Min.Y+y)
}
