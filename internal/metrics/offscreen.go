package metrics

import "github.com/san-kum/flowgrid/internal/sim"

// OffScreen is the mean fraction of particles outside the world rectangle.
type OffScreen struct {
	name    string
	sum     float64
	samples int
}

func NewOffScreen() *OffScreen {
	return &OffScreen{
		name: "off_screen",
	}
}

func (o *OffScreen) Name() string {
	return o.name
}

func (o *OffScreen) Observe(s sim.TickStats) {
	o.samples++
	if s.Total > 0 {
		o.sum += float64(s.OffScreen) / float64(s.Total)
	}
}

func (o *OffScreen) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return o.sum / float64(o.samples)
}

func (o *OffScreen) Reset() {
	o.sum = 0
	o.samples = 0
}

// Defaults returns one fresh instance of every metric.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewDetachRatio(),
		NewPeakDetach(),
		NewResetCycles(),
		NewKineticEnergy(),
		NewOffScreen(),
	}
}
