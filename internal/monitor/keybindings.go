package monitor

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/table"
)

// Key bindings as constants for consistency. Lowercase control keys act on
// the selected service; their uppercase forms act on all services.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeySearch     = "/"
	KeyBack       = "esc"
	KeyPrev       = "up"
	KeyPrevAlt    = "k"
	KeyNext       = "down"
	KeyNextAlt    = "j"
	KeyLogs       = "enter"
	KeyStart      = "s"
	KeyStop       = "x"
	KeyRestart    = "b"
	KeyStartAll   = "S"
	KeyStopAll    = "X"
	KeyRestartAll = "B"
	KeyConfirm    = "y"
	KeyDecline    = "n"
	KeyToggleHelp = "?"
)

// HandleKeyMsg routes one key press. The active mode wins: search input
// first, then a pending confirm, then the help overlay, then the log view,
// then the dashboard keys. Returns true when the key was consumed.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if m.searching {
		return m.handleSearchKey(msg, key)
	}
	if m.pending != nil {
		return m.handleConfirmKey(key)
	}
	if m.showHelp {
		return m.handleHelpKey(key)
	}
	if m.logsOpen {
		return m.handleLogsKey(msg, key)
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		return true, m.quit()

	case KeyToggleHelp:
		m.showHelp = true
		return true, nil

	case KeyRefresh:
		if m.phase != phaseReady {
			return true, nil
		}
		return true, m.refreshCmd()

	case KeySearch:
		if m.phase != phaseReady {
			return true, nil
		}
		m.searching = true
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return true, m.search.Focus()

	case KeyPrev, KeyPrevAlt:
		m.tbl.MoveUp(1)
		return true, nil

	case KeyNext, KeyNextAlt:
		m.tbl.MoveDown(1)
		return true, nil

	case KeyLogs:
		svc, ok := m.selectedService()
		if !ok {
			m.setNotice(messages.Render(messages.NoServiceSelected), noticeWarn, false)
			return true, nil
		}
		return true, m.fetchLogsCmd(svc)

	case KeyStart, KeyStop, KeyRestart:
		m.requestAction(keyAction(key), false)
		return true, nil

	case KeyStartAll, KeyStopAll, KeyRestartAll:
		m.requestAction(keyAction(key), true)
		return true, nil
	}

	if col, ok := sortKeyColumn(key); ok {
		m.setSort(col)
		return true, nil
	}

	return false, nil
}

// handleSearchKey edits the live filter. Esc clears it, enter keeps it and
// returns focus to the table.
func (m *Model) handleSearchKey(msg tea.KeyMsg, key string) (bool, tea.Cmd) {
	switch key {
	case KeyBack:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		m.applyFresh()
		return true, nil
	case KeyLogs: // enter
		m.searching = false
		m.search.Blur()
		return true, nil
	case KeyQuitAlt:
		return true, m.quit()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.query {
		m.query = q
		m.applyFresh()
	}
	return true, cmd
}

// handleConfirmKey resolves the y/n gate. Everything except an answer or a
// quit is swallowed so a stray key cannot dispatch or dismiss an action.
func (m *Model) handleConfirmKey(key string) (bool, tea.Cmd) {
	p := *m.pending
	switch key {
	case KeyConfirm:
		m.pending = nil
		m.clearNotice()
		return true, m.dispatchCmd(p.action, p.target)
	case KeyDecline, KeyBack:
		m.pending = nil
		m.setNotice(messages.Render(messages.ActionCancelled, string(p.action)), noticeWarn, false)
		return true, nil
	case KeyQuitAlt:
		return true, m.quit()
	}
	return true, nil
}

func (m *Model) handleHelpKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeyToggleHelp, KeyBack:
		m.showHelp = false
		return true, nil
	case KeyQuit, KeyQuitAlt:
		return true, m.quit()
	}
	return true, nil
}

// handleLogsKey scrolls the log viewport; esc returns to the table.
func (m *Model) handleLogsKey(msg tea.KeyMsg, key string) (bool, tea.Cmd) {
	switch key {
	case KeyBack:
		m.logsOpen = false
		return true, nil
	case KeyQuit, KeyQuitAlt:
		return true, m.quit()
	}

	var cmd tea.Cmd
	m.logsView, cmd = m.logsView.Update(msg)
	return true, cmd
}

// requestAction stages a control action behind the y/n gate.
func (m *Model) requestAction(action pm2.Action, all bool) {
	if m.phase != phaseReady {
		return
	}
	target := pm2.TargetAll
	if !all {
		svc, ok := m.selectedService()
		if !ok {
			m.setNotice(messages.Render(messages.NoServiceSelected), noticeWarn, false)
			return
		}
		target = strconv.Itoa(svc.ID)
	}
	m.pending = &pendingAction{action: action, target: target}
}

// setSort applies a sort column. Picking the active column again flips the
// direction; a new column starts ascending.
func (m *Model) setSort(col table.Column) {
	if m.sorted && col == m.sortCol {
		m.sortDesc = !m.sortDesc
	} else {
		m.sortCol = col
		m.sortDesc = false
		m.sorted = true
	}
	m.apply()
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.poller.Stop()
	return tea.Quit
}

// keyAction maps a control key to its lifecycle verb.
func keyAction(key string) pm2.Action {
	switch key {
	case KeyStart, KeyStartAll:
		return pm2.ActionStart
	case KeyStop, KeyStopAll:
		return pm2.ActionStop
	default:
		return pm2.ActionRestart
	}
}

// sortKeyColumn maps the digit keys 1-8 to table columns.
func sortKeyColumn(key string) (table.Column, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '8' {
		return 0, false
	}
	return table.ColumnByIndex(int(key[0] - '0'))
}
