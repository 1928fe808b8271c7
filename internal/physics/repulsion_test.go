package physics

import (
	"math"
	"testing"

	"github.com/san-kum/flowgrid/internal/dynamo"
)

func TestRepulsion_PairForces(t *testing.T) {
	life := Lifecycle{LifeSpan: 10, ReturnDuration: 10}
	particles := []Particle{
		newTestParticle(dynamo.V(10, 10), life),
		newTestParticle(dynamo.V(11, 10), life),
		newTestParticle(dynamo.V(100, 100), life),
	}

	r := NewRepulsion(2, 0.1)
	if pairs := r.Apply(particles); pairs != 1 {
		t.Fatalf("pairs = %d, want 1", pairs)
	}

	if math.Abs(particles[0].Force.X+0.1) > 1e-12 || math.Abs(particles[1].Force.X-0.1) > 1e-12 {
		t.Errorf("forces = %v, %v", particles[0].Force, particles[1].Force)
	}
	if !dynamo.IsZero(particles[2].Force) {
		t.Errorf("distant particle received force %v", particles[2].Force)
	}
}

func TestRepulsion_AcrossCellBoundary(t *testing.T) {
	life := Lifecycle{LifeSpan: 10, ReturnDuration: 10}
	particles := []Particle{
		newTestParticle(dynamo.V(3.9, 0.5), life),
		newTestParticle(dynamo.V(4.1, 0.5), life),
	}
	r := NewRepulsion(2, 1)
	if pairs := r.Apply(particles); pairs != 1 {
		t.Errorf("pairs = %d, want 1", pairs)
	}
}

func TestRepulsion_CoincidentSkipped(t *testing.T) {
	life := Lifecycle{LifeSpan: 10, ReturnDuration: 10}
	particles := []Particle{
		newTestParticle(dynamo.V(5, 5), life),
		newTestParticle(dynamo.V(5, 5), life),
	}
	r := NewRepulsion(2, 1)
	r.Apply(particles)
	for i := range particles {
		if !dynamo.IsValid(particles[i].Force) || !dynamo.IsZero(particles[i].Force) {
			t.Errorf("particle %d force %v", i, particles[i].Force)
		}
	}
}
