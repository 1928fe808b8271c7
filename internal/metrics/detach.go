package metrics

import "github.com/san-kum/flowgrid/internal/sim"

// DetachRatio is the mean fraction of detached particles per tick.
type DetachRatio struct {
	name    string
	sum     float64
	samples int
}

func NewDetachRatio() *DetachRatio {
	return &DetachRatio{
		name: "detach_ratio",
	}
}

func (d *DetachRatio) Name() string { return d.name }

func (d *DetachRatio) Observe(s sim.TickStats) {
	d.sum += s.Ratio
	d.samples++
}

func (d *DetachRatio) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *DetachRatio) Reset() {
	d.sum = 0
	d.samples = 0
}

// PeakDetach is the largest detached fraction seen in a single tick.
type PeakDetach struct {
	name string
	peak float64
}

func NewPeakDetach() *PeakDetach {
	return &PeakDetach{
		name: "peak_detach",
	}
}

func (p *PeakDetach) Name() string { return p.name }

func (p *PeakDetach) Observe(s sim.TickStats) {
	if s.Ratio > p.peak {
		p.peak = s.Ratio
	}
}

func (p *PeakDetach) Value() float64 { return p.peak }

func (p *PeakDetach) Reset() { p.peak = 0 }

// ResetCycles counts how many times a bulk reset was triggered.
type ResetCycles struct {
	name   string
	cycles int
	prev   bool
}

func NewResetCycles() *ResetCycles {
	return &ResetCycles{
		name: "reset_cycles",
	}
}

func (r *ResetCycles) Name() string {
	return r.name
}

func (r *ResetCycles) Observe(s sim.TickStats) {
	if s.Reset && !r.prev {
		r.cycles++
	}
	r.prev = s.Reset
}

func (r *ResetCycles) Value() float64 {
	return float64(r.cycles)
}

func (r *ResetCycles) Reset() {
	r.cycles = 0
	r.prev = false
}
