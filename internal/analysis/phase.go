package analysis

import (
	"strings"

	"github.com/san-kum/flowgrid/internal/sim"
)

// Portrait pairs two per-tick series for a 2D scatter plot.
type Portrait struct {
	XName, YName string
	Points       []struct{ X, Y float64 }
}

// Fields that can be plotted from TickStats.
var portraitFields = map[string]func(sim.TickStats) float64{
	"ratio":     func(t sim.TickStats) float64 { return t.Ratio },
	"detached":  func(t sim.TickStats) float64 { return float64(t.Detached) },
	"threshold": func(t sim.TickStats) float64 { return t.Threshold },
	"energy": func(t sim.TickStats) float64 {
		if t.Total == 0 {
			return 0
		}
		return t.KineticEnergy / float64(t.Total)
	},
	"offscreen": func(t sim.TickStats) float64 { return float64(t.OffScreen) },
}

// NewPortrait plots field yName against xName for every tick. It returns nil
// if either name is unknown.
func NewPortrait(ticks []sim.TickStats, xName, yName string) *Portrait {
	fx, okx := portraitFields[xName]
	fy, oky := portraitFields[yName]
	if !okx || !oky {
		return nil
	}

	portrait := &Portrait{
		XName:  xName,
		YName:  yName,
		Points: make([]struct{ X, Y float64 }, 0, len(ticks)),
	}
	for _, t := range ticks {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: fx(t), Y: fy(t)})
	}
	return portrait
}

// ToASCII rasterises the portrait into width x height runes.
func (p *Portrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PortraitFields lists the names NewPortrait accepts.
func PortraitFields() []string {
	return []string{"detached", "energy", "offscreen", "ratio", "threshold"}
}

// FieldSeries extracts one named field from every tick.
func FieldSeries(ticks []sim.TickStats, name string) ([]float64, bool) {
	f, ok := portraitFields[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = f(t)
	}
	return out, true
}
