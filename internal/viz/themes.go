package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeAurora = Theme{
		Name:    "aurora",
		Primary: lipgloss.Color("#00d7af"),
		Accent:  lipgloss.Color("#af87ff"),
		Text:    lipgloss.Color("#e4e4e4"),
		Muted:   lipgloss.Color("#6c6c6c"),
		Warning: lipgloss.Color("#ff5f87"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"), // Green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"), // Coral
		Accent:  lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Warning: lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{ThemeAurora, ThemeRetroGreen, ThemeMinimal, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	active lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	status lipgloss.Style
	alert  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		stats:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(statsWidth),
		header: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(2),
		status: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		alert:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
	}
}
