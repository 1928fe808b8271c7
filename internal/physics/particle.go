package physics

import "github.com/san-kum/flowgrid/internal/dynamo"

// Bounds is the world rectangle [0, Width] x [0, Height].
type Bounds struct {
	Width, Height float64
}

// Lifecycle holds the per-particle timing drawn once at construction.
type Lifecycle struct {
	LifeSpan       int // ticks spent free before the return begins
	ReturnDuration int // ticks the return interpolation takes
}

// Phase names the lifecycle stage selected by age.
type Phase int

const (
	PhaseFree Phase = iota
	PhaseReturning
	PhaseSnap
	PhaseRestart
)

func (p Phase) String() string {
	switch p {
	case PhaseFree:
		return "free"
	case PhaseReturning:
		return "returning"
	case PhaseSnap:
		return "snap"
	case PhaseRestart:
		return "restart"
	}
	return "unknown"
}

type Particle struct {
	Position   dynamo.Vec
	Velocity   dynamo.Vec
	Force      dynamo.Vec
	Origin     dynamo.Vec
	LastStable dynamo.Vec

	radius  float64
	bounds  Bounds
	params  Params
	life    Lifecycle
	age     int
	physics bool
	free    bool
	spring  Spring
}

func NewParticle(pos dynamo.Vec, radius float64, bounds Bounds, life Lifecycle, params Params) Particle {
	return Particle{
		Position:   pos,
		Origin:     pos,
		LastStable: pos,
		radius:     radius,
		bounds:     bounds,
		params:     params,
		life:       life,
		physics:    true,
		spring:     NewSpring(pos, pos, params),
	}
}

func (p *Particle) Radius() float64       { return p.radius }
func (p *Particle) Age() int              { return p.age }
func (p *Particle) Lifecycle() Lifecycle  { return p.life }
func (p *Particle) PhysicsEnabled() bool  { return p.physics }
func (p *Particle) Detached() bool        { return p.free }
func (p *Particle) Spring() *Spring       { return &p.spring }
func (p *Particle) Phase() Phase          { return p.phaseAt(p.age) }
func (p *Particle) AddForce(f dynamo.Vec) { p.Force = dynamo.Add(p.Force, f) }
func (p *Particle) ResetForce()           { p.Force = dynamo.Vec{} }
func (p *Particle) ResetVelocity()        { p.Velocity = dynamo.Vec{} }

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * (p.Velocity.X*p.Velocity.X + p.Velocity.Y*p.Velocity.Y)
}

func (p *Particle) returnEnd() int { return p.life.LifeSpan + p.life.ReturnDuration }

func (p *Particle) phaseAt(age int) Phase {
	switch end := p.returnEnd(); {
	case age < p.life.LifeSpan:
		return PhaseFree
	case age < end:
		return PhaseReturning
	case age == end:
		return PhaseSnap
	default:
		return PhaseRestart
	}
}

// Update applies edge collisions for a detached particle, accumulates the
// spring force while tethered, and integrates when physics is enabled.
func (p *Particle) Update() {
	if !p.spring.IsActive() {
		p.Edges()
	}

	p.calcSpring()

	if p.physics {
		p.Velocity = dynamo.Add(p.Velocity, p.Force)
		p.Position = dynamo.Add(p.Position, p.Velocity)
	}
}

func (p *Particle) calcSpring() {
	if !p.spring.IsActive() {
		p.free = true
		return
	}
	p.Force = dynamo.Add(p.Force, p.spring.Force(p.Position))
	p.spring.UpdateActivity()
}

// AddFieldForce accumulates a force from a flow sample. The sample magnitude
// is clamped to [0, FieldMax]; below FieldMin nothing is added, otherwise the
// raw sample is scaled by FieldGain * clampedMagnitude.
func (p *Particle) AddFieldForce(f dynamo.Vec) {
	mag := dynamo.Clamp(dynamo.Norm(f), 0, p.params.FieldMax)
	if mag < p.params.FieldMin {
		return
	}
	p.AddForce(dynamo.Scale(p.params.FieldGain*mag, f))
}

// DampenForce subtracts linear drag proportional to velocity.
func (p *Particle) DampenForce() {
	p.Force.X -= p.Velocity.X * p.params.Drag
	p.Force.Y -= p.Velocity.Y * p.params.Drag
}

// Edges bounces the particle off the world boundary. At most one axis is
// corrected per call, checked in the order left, right, top, bottom.
func (p *Particle) Edges() {
	maxX := p.bounds.Width - p.radius
	maxY := p.bounds.Height - p.radius

	switch {
	case p.Position.X < 0:
		p.Position.X = 0
		p.bounceX()
	case p.Position.X > maxX:
		p.Position.X = maxX
		p.bounceX()
	case p.Position.Y < 0:
		p.Position.Y = 0
		p.bounceY()
	case p.Position.Y > maxY:
		p.Position.Y = maxY
		p.bounceY()
	}
}

func (p *Particle) bounceX() {
	p.Force.X -= p.Velocity.X * p.params.Drag
	p.Velocity.X = -p.Velocity.X
}

func (p *Particle) bounceY() {
	p.Force.Y -= p.Velocity.Y * p.params.Drag
	p.Velocity.Y = -p.Velocity.Y
}

// IsOffScreen reports whether the particle lies strictly outside the world rectangle.
func (p *Particle) IsOffScreen() bool {
	return p.Position.X < 0 || p.Position.X > p.bounds.Width ||
		p.Position.Y < 0 || p.Position.Y > p.bounds.Height
}

// ResetPosition advances the return-to-origin lifecycle by one tick.
//
// The phase is chosen from the current age, then age advances by one:
// free ticks record the last stable position, returning ticks lerp toward
// the origin with physics disabled, the snap tick zeroes motion, places the
// particle exactly on its origin and re-arms the spring, and the tick after
// that clears the detached flag and restarts the cycle at age 0.
func (p *Particle) ResetPosition() {
	switch p.phaseAt(p.age) {
	case PhaseFree:
		p.LastStable = p.Position
	case PhaseReturning:
		p.physics = false
		t := dynamo.Map(float64(p.age), float64(p.life.LifeSpan), float64(p.returnEnd()), 0, 1)
		p.Position = dynamo.LerpVec(p.LastStable, p.Origin, t)
	case PhaseSnap:
		p.ResetVelocity()
		p.ResetForce()
		p.Position = p.Origin
		p.physics = true
		p.spring.SetActive(true)
	case PhaseRestart:
		p.free = false
		p.age = 0
		return
	}
	p.age++
}
