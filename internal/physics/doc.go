// Package physics provides the tethered-particle model.
//
// A [Particle] owns exactly one [Spring] anchored at its starting position.
// Each tick the caller accumulates forces on the particle (gravity, the
// sampled flow field, drag) and then calls [Particle.Update], which adds the
// spring force and integrates with explicit symplectic Euler:
//
//	p.ResetForce()
//	p.AddForce(gravity)
//	p.AddFieldForce(sample)
//	p.DampenForce()
//	p.Update()
//
// Once stretched past the detach distance the spring latches inactive and
// the particle roams free, bouncing off the world edges. [Particle.ResetPosition]
// advances the return-to-origin lifecycle that eventually snaps it back and
// re-arms the spring.
//
// Particles are plain values; the simulation keeps them in a contiguous slice
// and never frees one mid-run.
package physics
