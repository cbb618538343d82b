package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/ui"
)

// renderDashboard assembles the main screen: header, resources line,
// service table, footer.
func (m Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderResources())
	b.WriteString("\n\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader shows the app title, target host, connection state, and how
// fresh the data is.
func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("pmx"))
	b.WriteString(m.styles.label.Render(" | " + m.host + " | "))
	b.WriteString(m.connectionState())
	b.WriteString(m.styles.label.Render(" | last update " + m.updatedAgo()))
	return b.String()
}

// connectionState renders the colored state glyph and word.
func (m Model) connectionState() string {
	switch m.phase {
	case phaseConnecting:
		return m.styles.label.Render(m.spin.View() + " connecting")
	case phaseFailed:
		return m.styles.critical.Render(ui.SymbolFail + " offline")
	}
	if m.noticeFromPoll && m.noticeLvl == noticeError {
		return m.styles.warning.Render(ui.SymbolPending + " degraded")
	}
	return m.styles.healthy.Render(ui.SymbolComplete + " online")
}

func (m Model) updatedAgo() string {
	if m.lastPoll.IsZero() {
		return "never"
	}
	secs := int(time.Since(m.lastPoll).Seconds())
	switch {
	case secs <= 0:
		return "just now"
	case secs == 1:
		return "1s ago"
	default:
		return fmt.Sprintf("%ds ago", secs)
	}
}

// renderResources is the host gauge line under the header. PadRight keeps
// the memory column from shifting as the percentage text changes width.
func (m Model) renderResources() string {
	var b strings.Builder
	b.WriteString(m.styles.label.Render("CPU "))
	if m.resources.CPUKnown {
		b.WriteString(m.theme.ProgressBar(gaugeWidth, m.resources.CPU))
		b.WriteString(" ")
		b.WriteString(m.theme.MetricStyle(m.resources.CPU).Render(ui.PadRight(m.resources.CPUSummary(), 7)))
	} else {
		b.WriteString(m.styles.muted.Render(ui.PadRight(pm2.Unavailable, gaugeWidth+8)))
	}
	b.WriteString(m.styles.label.Render("  MEM "))
	if m.resources.Memory == "" || m.resources.Memory == pm2.Unavailable {
		b.WriteString(m.styles.muted.Render(pm2.Unavailable))
	} else {
		b.WriteString(m.styles.value.Render(m.resources.Memory))
	}
	return b.String()
}

func (m Model) renderTable() string {
	if len(m.display) == 0 {
		if m.query != "" {
			return m.styles.muted.Render("No services match " + strconv.Quote(m.query))
		}
		return m.styles.muted.Render("No services reported yet")
	}
	return m.tbl.View()
}

// renderFooter stacks the status line over the key hints. The status line
// is always present so the table does not jump when a notice appears.
func (m Model) renderFooter() string {
	var b strings.Builder
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderHints())
	return b.String()
}

// renderStatusLine shows, in priority order: the pending confirm prompt,
// the live search input, or the filter/sort state plus the last notice.
func (m Model) renderStatusLine() string {
	if m.pending != nil {
		prompt := messages.Render(messages.ConfirmAction, string(m.pending.action), m.pending.target)
		return m.styles.warning.Render(prompt) + m.styles.label.Render(" [y/n]")
	}
	if m.searching {
		return m.search.View()
	}

	var parts []string
	if m.query != "" {
		parts = append(parts, m.styles.label.Render("filter: ")+m.styles.value.Render(m.query))
	}
	if m.sorted {
		dir := "▲"
		if m.sortDesc {
			dir = "▼"
		}
		parts = append(parts, m.styles.label.Render("sort: ")+m.styles.value.Render(m.sortCol.Title()+" "+dir))
	}
	if m.notice != "" {
		parts = append(parts, m.noticeStyle().Render(m.notice))
	}
	return strings.Join(parts, m.styles.muted.Render("  |  "))
}

func (m Model) noticeStyle() lipgloss.Style {
	switch m.noticeLvl {
	case noticeOK:
		return m.styles.healthy
	case noticeWarn:
		return m.styles.warning
	case noticeError:
		return m.styles.critical
	}
	return m.styles.label
}

func (m Model) renderHints() string {
	hints := []string{
		"q quit",
		"r refresh",
		"/ search",
		"1-8 sort",
		"enter logs",
		"s/x/b action",
		"S/X/B all",
		"? help",
	}
	return m.styles.footer.Render(strings.Join(hints, " | "))
}

// renderConnecting is the full-screen state before the first poll.
func (m Model) renderConnecting() string {
	msg := m.spin.View() + " " + m.styles.value.Render(messages.Render(messages.ConnectingTo, m.host))
	if m.width == 0 || m.height == 0 {
		return msg
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// renderConnectError is the full-screen state after a failed connect.
func (m Model) renderConnectError() string {
	text := messages.Render(messages.ConnectFailed, m.host, errors.Message(m.connectErr))
	if errors.IsCode(m.connectErr, errors.ErrAuth) {
		text = messages.Render(messages.AuthFailed, m.host)
	}

	body := m.styles.critical.Render(ui.SymbolFail+" "+text) +
		"\n\n" + m.styles.muted.Render("press q to quit")
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// renderLogs is the full-screen log view for one service.
func (m Model) renderLogs() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("pmx"))
	b.WriteString(m.styles.label.Render(" | logs: "))
	b.WriteString(m.styles.value.Render(m.logsName))
	if m.logsStatus != "" {
		state := lipgloss.NewStyle().Foreground(m.theme.StatusColor(m.logsStatus))
		b.WriteString(" ")
		b.WriteString(state.Render("(" + m.logsStatus + ")"))
	}
	b.WriteString("\n\n")
	if m.viewportReady {
		b.WriteString(m.logsView.View())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.footer.Render("↑/↓ scroll | esc back | q quit"))
	return b.String()
}

// renderLogContent lays out the two log streams with section headers.
func (m Model) renderLogContent(logs pm2.Logs) string {
	var b strings.Builder
	b.WriteString(m.styles.section.Render("── stdout ──"))
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(logs.Out, "\n"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.section.Render("── stderr ──"))
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(logs.Err, "\n"))
	b.WriteString("\n")
	return b.String()
}
