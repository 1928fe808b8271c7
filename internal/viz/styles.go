package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GradientText creates a gradient effect on text using color interpolation
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}

	// Parse hex colors
	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(text)

	for i, c := range text {
		t := float64(i) / float64(n-1)
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		color := lipgloss.Color(hexColor(r, g, b))
		style := lipgloss.NewStyle().Foreground(color)
		result.WriteString(style.Render(string(c)))
	}

	return result.String()
}

// RatioBar renders ratio as a filled bar with a tick at mark. The fill turns
// to the warning colour once ratio reaches mark.
func RatioBar(ratio, mark float64, width int, t Theme) string {
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	markAt := int(mark * float64(width))

	cells := []rune(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
	if markAt >= 0 && markAt < width {
		cells[markAt] = '│'
	}

	fill := t.Primary
	if ratio >= mark && mark > 0 {
		fill = t.Warning
	}
	return lipgloss.NewStyle().Foreground(fill).Render(string(cells))
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int, t Theme) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	high := lipgloss.NewStyle().Foreground(t.Warning)
	mid := lipgloss.NewStyle().Foreground(t.Accent)
	low := lipgloss.NewStyle().Foreground(t.Muted)

	// Sparkline characters from low to high
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	// Find min/max
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	rng := max - min
	if rng == 0 {
		rng = 1
	}

	// Sample to fit width
	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		norm := (v - min) / rng
		idx := int(norm * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}

		c := chars[idx]
		switch {
		case norm > 0.7:
			result.WriteString(high.Render(string(c)))
		case norm > 0.3:
			result.WriteString(mid.Render(string(c)))
		default:
			result.WriteString(low.Render(string(c)))
		}
	}

	return result.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r, _ = parseHexByte(hex[1:3])
	g, _ = parseHexByte(hex[3:5])
	b, _ = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) (int, error) {
	var val int
	for _, c := range s {
		val *= 16
		if c >= '0' && c <= '9' {
			val += int(c - '0')
		} else if c >= 'a' && c <= 'f' {
			val += int(c - 'a' + 10)
		} else if c >= 'A' && c <= 'F' {
			val += int(c - 'A' + 10)
		}
	}
	return val, nil
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
