package analysis

import "github.com/san-kum/flowgrid/internal/sim"

// Cycle is a run of ticks [Start, End) during which the bulk reset was on.
type Cycle struct {
	Start, End int
	PeakRatio  float64
}

func (c Cycle) Len() int { return c.End - c.Start }

// ResetCycles splits the ticks into reset cycles. A cycle still open at the
// last tick ends there.
func ResetCycles(ticks []sim.TickStats) []Cycle {
	var cycles []Cycle
	open := false
	var cur Cycle
	for i, t := range ticks {
		switch {
		case t.Reset && !open:
			open = true
			cur = Cycle{Start: i, PeakRatio: t.Ratio}
		case t.Reset && open:
			if t.Ratio > cur.PeakRatio {
				cur.PeakRatio = t.Ratio
			}
		case !t.Reset && open:
			open = false
			cur.End = i
			cycles = append(cycles, cur)
		}
	}
	if open {
		cur.End = len(ticks)
		cycles = append(cycles, cur)
	}
	return cycles
}

type CycleSummary struct {
	Count        int
	MeanLength   float64
	MeanInterval float64
	MeanPeak     float64
}

// Summarize averages cycle length, the spacing between cycle starts and the
// detach peak of each cycle.
func Summarize(cycles []Cycle) CycleSummary {
	s := CycleSummary{Count: len(cycles)}
	if len(cycles) == 0 {
		return s
	}
	for i, c := range cycles {
		s.MeanLength += float64(c.Len())
		s.MeanPeak += c.PeakRatio
		if i > 0 {
			s.MeanInterval += float64(c.Start - cycles[i-1].Start)
		}
	}
	s.MeanLength /= float64(len(cycles))
	s.MeanPeak /= float64(len(cycles))
	if len(cycles) > 1 {
		s.MeanInterval /= float64(len(cycles) - 1)
	}
	return s
}
