package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Thresholds for metric severity. Shared by the CPU gauge and any
// percentage coloring: green below warning, yellow between, red above
// critical.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

// Theme is one dashboard palette. The config's theme preference picks dark
// or light; both fill the same roles so views render from role names and
// never from raw colors.
type Theme struct {
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Subtle    lipgloss.Color
	Muted     lipgloss.Color
	Healthy   lipgloss.Color
	Warning   lipgloss.Color
	Critical  lipgloss.Color
	Selection lipgloss.Color
	Border    lipgloss.Color
}

// DarkTheme is the default palette, tuned for dark terminals.
var DarkTheme = Theme{
	Accent:    lipgloss.Color("205"),
	Text:      lipgloss.Color("252"),
	Subtle:    lipgloss.Color("245"),
	Muted:     lipgloss.Color("240"),
	Healthy:   lipgloss.Color("42"),
	Warning:   lipgloss.Color("214"),
	Critical:  lipgloss.Color("196"),
	Selection: lipgloss.Color("57"),
	Border:    lipgloss.Color("238"),
}

// LightTheme is the palette for light terminals.
var LightTheme = Theme{
	Accent:    lipgloss.Color("162"),
	Text:      lipgloss.Color("235"),
	Subtle:    lipgloss.Color("242"),
	Muted:     lipgloss.Color("249"),
	Healthy:   lipgloss.Color("28"),
	Warning:   lipgloss.Color("130"),
	Critical:  lipgloss.Color("124"),
	Selection: lipgloss.Color("183"),
	Border:    lipgloss.Color("250"),
}

// ThemeByName maps the configured theme preference to a palette. Anything
// unrecognized falls back to dark.
func ThemeByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), "light") {
		return LightTheme
	}
	return DarkTheme
}

// MetricColor returns the severity color for a percentage-based metric.
func (t Theme) MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return t.Critical
	case percent >= WarningThreshold:
		return t.Warning
	default:
		return t.Healthy
	}
}

// MetricStyle returns a style with the severity color for the metric.
func (t Theme) MetricStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.MetricColor(percent))
}

// StatusColor maps a pm2 process status to a palette color. Statuses pass
// through from the remote manager, so unknown values render as warnings
// rather than disappearing.
func (t Theme) StatusColor(status string) lipgloss.Color {
	switch strings.ToLower(status) {
	case "online":
		return t.Healthy
	case "stopped":
		return t.Muted
	case "errored", "error":
		return t.Critical
	default:
		return t.Warning
	}
}

// ProgressBar renders a gauge of the given width, colored by the metric
// thresholds. Percent is clamped to 0-100.
func (t Theme) ProgressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString("▰")
		} else {
			bar.WriteString("▱")
		}
	}
	return lipgloss.NewStyle().Foreground(t.MetricColor(percent)).Render(bar.String())
}

// styles holds every lipgloss style the views use, derived from one theme
// at model construction so the render path never rebuilds them.
type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	muted    lipgloss.Style
	healthy  lipgloss.Style
	warning  lipgloss.Style
	critical lipgloss.Style
	footer   lipgloss.Style
	section  lipgloss.Style

	tableHeader   lipgloss.Style
	tableCell     lipgloss.Style
	tableSelected lipgloss.Style

	helpBox   lipgloss.Style
	helpTitle lipgloss.Style
	helpKey   lipgloss.Style
	helpDesc  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		label:    lipgloss.NewStyle().Foreground(t.Subtle),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		healthy:  lipgloss.NewStyle().Foreground(t.Healthy),
		warning:  lipgloss.NewStyle().Foreground(t.Warning),
		critical: lipgloss.NewStyle().Foreground(t.Critical),
		footer:   lipgloss.NewStyle().Foreground(t.Muted),
		section:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),

		tableHeader: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			BorderBottom(true),
		tableCell: lipgloss.NewStyle().
			Foreground(t.Text).
			Padding(0, 1),
		tableSelected: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Selection).
			Bold(true),

		helpBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(1, 2),
		helpTitle: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			MarginBottom(1),
		helpKey: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true).
			Width(13),
		helpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),
	}
}
