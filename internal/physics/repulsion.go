package physics

import (
	"math"

	"github.com/san-kum/flowgrid/internal/dynamo"
)

// Repulsion pushes apart pairs of particles closer than Radius. Neighbour
// search uses a uniform spatial hash with cell size Radius, so each particle
// only checks the 3x3 block of cells around it.
type Repulsion struct {
	Radius float64
	Scale  float64

	cells map[[2]int][]int
}

func NewRepulsion(radius, scale float64) *Repulsion {
	return &Repulsion{
		Radius: radius,
		Scale:  scale,
		cells:  make(map[[2]int][]int),
	}
}

func (r *Repulsion) cellOf(p dynamo.Vec) [2]int {
	return [2]int{int(math.Floor(p.X / r.Radius)), int(math.Floor(p.Y / r.Radius))}
}

// Apply accumulates equal and opposite forces on every close pair. Each pair
// is visited once (lower index first). Coincident particles are skipped.
func (r *Repulsion) Apply(particles []Particle) int {
	if r.Radius <= 0 || r.Scale == 0 {
		return 0
	}

	for k, bucket := range r.cells {
		r.cells[k] = bucket[:0]
	}
	for i := range particles {
		c := r.cellOf(particles[i].Position)
		r.cells[c] = append(r.cells[c], i)
	}

	pairs := 0
	for i := range particles {
		a := &particles[i]
		c := r.cellOf(a.Position)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range r.cells[[2]int{c[0] + dx, c[1] + dy}] {
					if j <= i {
						continue
					}
					b := &particles[j]
					diff := dynamo.Sub(a.Position, b.Position)
					d := dynamo.Norm(diff)
					if d >= r.Radius || d == 0 {
						continue
					}
					push := dynamo.Scale(r.Scale/d, diff)
					a.AddForce(push)
					b.AddForce(dynamo.Scale(-1, push))
					pairs++
				}
			}
		}
	}
	return pairs
}
