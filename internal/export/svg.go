package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/flowgrid/internal/sim"
)

// SceneToSVG draws every particle as a dot coloured from the camera snapshot.
// scale multiplies world coordinates.
func SceneToSVG(scene *sim.Scene, scale float64) string {
	if scene == nil {
		return ""
	}
	world := scene.Config().World
	width := world.Width * scale
	height := world.Height * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
<g>
`, width, height, width, height))

	dotRadius := 1.5 * scale
	for i, p := range scene.Particles() {
		c := scene.Color(i)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#%02x%02x%02x"/>
`, p.Position.X*scale, p.Position.Y*scale, dotRadius, c.R, c.G, c.B))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG draws a line chart of values against their index.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY, maxY = min(minY, v), max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
