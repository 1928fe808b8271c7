package metrics

import "github.com/san-kum/flowgrid/internal/sim"

// KineticEnergy averages the per-particle kinetic energy over all ticks.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s sim.TickStats) {
	if s.Total == 0 {
		return
	}
	e.total += s.KineticEnergy / float64(s.Total)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}
