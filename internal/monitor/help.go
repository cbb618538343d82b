package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding is one row in the help overlay.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings lists every dashboard shortcut.
var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "r", Desc: "Refresh now"},
	{Key: "/", Desc: "Search by name (Esc clears)"},
	{Key: "1-8", Desc: "Sort by column, again to reverse"},
	{Key: "up / k", Desc: "Select previous service"},
	{Key: "down / j", Desc: "Select next service"},
	{Key: "Enter", Desc: "View logs (Esc returns)"},
	{Key: "s / x / b", Desc: "Start / stop / restart selected"},
	{Key: "S / X / B", Desc: "Start / stop / restart all"},
	{Key: "y / n", Desc: "Confirm or decline an action"},
	{Key: "?", Desc: "Toggle this help"},
}

// renderHelpOverlay renders a centered box with the keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, m.styles.helpTitle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range helpBindings {
		lines = append(lines, m.styles.helpKey.Render(binding.Key)+m.styles.helpDesc.Render(binding.Desc))
	}

	lines = append(lines, "")
	lines = append(lines, m.styles.label.Render("Press ? to close"))

	box := m.styles.helpBox.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
