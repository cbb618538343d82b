package monitor

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/logger"
	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/poll"
	"github.com/rileyhilliard/pmx/internal/session"
	"github.com/rileyhilliard/pmx/internal/table"
	"github.com/rileyhilliard/pmx/internal/ui"
)

// phase is the dashboard's connection lifecycle. The session reconnects
// transparently during polling, so after the first successful connect the
// dashboard never returns to phaseConnecting.
type phase int

const (
	phaseConnecting phase = iota
	phaseReady
	phaseFailed
)

// remote is the slice of the session the dashboard drives directly. Log
// fetches go through the same object as pm2.Runner.
type remote interface {
	pm2.Runner
	Connect() ([]string, error)
}

// feed delivers poll snapshots and accepts refresh requests.
type feed interface {
	Events() <-chan poll.Event
	Start()
	Refresh()
	Stop()
}

// dispatcher issues lifecycle actions.
type dispatcher interface {
	Dispatch(action pm2.Action, target string) (pm2.Result, error)
}

// noticeLevel picks the color of the footer status line.
type noticeLevel int

const (
	noticeNone noticeLevel = iota
	noticeOK
	noticeWarn
	noticeError
)

// pendingAction is a control request waiting on the y/n gate.
type pendingAction struct {
	action pm2.Action
	target string
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	remote  remote
	poller  feed
	control dispatcher
	log     logger.Logger

	host   string
	theme  Theme
	styles styles

	phase      phase
	connectErr error
	missing    []string

	// snapshot is the last successful fetch, unfiltered. display is what
	// the table shows: filtered by the search query and ordered by the
	// reconciler, then by the active sort.
	snapshot  []pm2.Service
	display   []pm2.Service
	resources pm2.Resources
	lastPoll  time.Time

	tbl       btable.Model
	search    textinput.Model
	searching bool
	query     string

	sortCol  table.Column
	sortDesc bool
	sorted   bool

	pending *pendingAction

	logsOpen      bool
	logsName      string
	logsStatus    string
	logsView      viewport.Model
	viewportReady bool

	spin spinner.Model

	notice         string
	noticeLvl      noticeLevel
	noticeFromPoll bool

	width, height int
	showHelp      bool
	quitting      bool
}

// connectedMsg reports the initial connect attempt.
type connectedMsg struct {
	missing []string
	err     error
}

// pollEventMsg wraps one poll cycle handed over from the poller's channel.
type pollEventMsg poll.Event

// actionResultMsg reports a dispatched lifecycle action.
type actionResultMsg struct {
	action pm2.Action
	target string
	err    error
}

// logsMsg carries a fetched log tail pair.
type logsMsg struct {
	name   string
	status string
	logs   pm2.Logs
}

// Vertical space the dashboard chrome occupies around the table: header,
// resources line, footer, and the blank lines between them.
const tableChrome = 7

// Vertical space around the log viewport.
const logChrome = 4

// gaugeWidth is the CPU bar width on the resources line.
const gaugeWidth = 20

// Widths for the fixed table columns. The name column absorbs whatever
// terminal width is left.
var fixedWidths = map[table.Column]int{
	table.ColumnID:      4,
	table.ColumnVersion: 9,
	table.ColumnStatus:  9,
	table.ColumnCPU:     7,
	table.ColumnMemory:  8,
	table.ColumnUptime:  15,
	table.ColumnPort:    6,
}

const nameMinWidth = 12

// Options carries the presentation knobs the CLI resolves from config.
type Options struct {
	// Host is the display name shown in the header, usually host:port.
	Host string
	// Theme is the configured palette name, "dark" or "light".
	Theme string
	Log   logger.Logger
}

// New assembles the dashboard around its wiring: a session to connect and
// execute through, a poller for snapshots, and a controller for lifecycle
// actions. The session must not be connected yet; Init performs the connect
// so the UI can animate while it happens.
func New(sess *session.Session, poller *poll.Poller, control *pm2.Controller, opts Options) Model {
	return newModel(sess, poller, control, opts)
}

func newModel(r remote, f feed, d dispatcher, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}
	theme := ThemeByName(opts.Theme)
	st := newStyles(theme)

	sp := spinner.New(spinner.WithSpinner(ui.SpinnerFrames))
	sp.Style = st.title

	search := textinput.New()
	search.Placeholder = "service name"
	search.Prompt = "/"
	search.CharLimit = 64

	tbl := btable.New(
		btable.WithColumns(tableColumns(0)),
		btable.WithFocused(true),
	)
	tbl.SetStyles(btable.Styles{
		Header:   st.tableHeader,
		Cell:     st.tableCell,
		Selected: st.tableSelected,
	})

	return Model{
		remote:  r,
		poller:  f,
		control: d,
		log:     log,
		host:    opts.Host,
		theme:   theme,
		styles:  st,
		phase:   phaseConnecting,
		tbl:     tbl,
		search:  search,
		spin:    sp,
	}
}

// Init starts the spinner and kicks off the connect attempt. Polling begins
// once the connect succeeds.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.connectCmd())
}

// Update handles messages and advances the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseConnecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case connectedMsg:
		return m.handleConnected(msg)

	case pollEventMsg:
		return m.handlePollEvent(poll.Event(msg))

	case actionResultMsg:
		m.handleActionResult(msg)
		return m, nil

	case logsMsg:
		if !m.viewportReady {
			m.initViewport()
		}
		m.logsOpen = true
		m.logsName = msg.name
		m.logsStatus = msg.status
		m.logsView.SetContent(m.renderLogContent(msg.logs))
		m.logsView.GotoTop()
		return m, nil
	}

	// Stray messages (cursor blinks and the like) belong to the search
	// input while it is active.
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.phase {
	case phaseConnecting:
		return m.renderConnecting()
	case phaseFailed:
		return m.renderConnectError()
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.logsOpen {
		return m.renderLogs()
	}
	return m.renderDashboard()
}

// Err reports the fatal connect error, if any, so the CLI can exit nonzero
// after the program finishes.
func (m Model) Err() error {
	return m.connectErr
}

// connectCmd performs the blocking connect off the UI goroutine.
func (m Model) connectCmd() tea.Cmd {
	r := m.remote
	return func() tea.Msg {
		missing, err := r.Connect()
		return connectedMsg{missing: missing, err: err}
	}
}

// startPollCmd arms the poll loop. The first cycle runs inside the command
// because Start fetches synchronously.
func (m Model) startPollCmd() tea.Cmd {
	f := m.poller
	return func() tea.Msg {
		f.Start()
		return nil
	}
}

// refreshCmd runs one out-of-band poll cycle.
func (m Model) refreshCmd() tea.Cmd {
	f := m.poller
	return func() tea.Msg {
		f.Refresh()
		return nil
	}
}

// waitForEvent hands the next poll cycle to Update. Re-issued after every
// event so the channel always has exactly one reader.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.poller.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return pollEventMsg(ev)
	}
}

// dispatchCmd issues one confirmed lifecycle action.
func (m Model) dispatchCmd(action pm2.Action, target string) tea.Cmd {
	d := m.control
	return func() tea.Msg {
		_, err := d.Dispatch(action, target)
		return actionResultMsg{action: action, target: target, err: err}
	}
}

// fetchLogsCmd tails the selected service's log files.
func (m Model) fetchLogsCmd(svc pm2.Service) tea.Cmd {
	r := m.remote
	return func() tea.Msg {
		return logsMsg{name: svc.Name, status: svc.Status, logs: pm2.FetchLogs(r, svc.OutLog, svc.ErrLog)}
	}
}

func (m Model) handleConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.phase = phaseFailed
		m.connectErr = msg.err
		return m, nil
	}
	m.phase = phaseReady
	m.missing = msg.missing
	if len(msg.missing) > 0 {
		m.setNotice(messages.Render(messages.MissingCommands, strings.Join(msg.missing, ", ")), noticeWarn, false)
	} else {
		// transient; the first completed poll clears it
		m.setNotice(messages.Render(messages.ConnectedTo, m.host), noticeOK, true)
	}
	return m, tea.Batch(m.startPollCmd(), m.waitForEvent())
}

// handlePollEvent folds one poll cycle into the display. A failed cycle
// keeps the previous rows on screen; reconciling against the empty record
// set a failure carries would blank the table for a transient fault.
func (m Model) handlePollEvent(ev poll.Event) (tea.Model, tea.Cmd) {
	if ev.Err != nil {
		m.setNotice(messages.Render(messages.RefreshFailed, errors.Message(ev.Err)), noticeError, true)
		return m, m.waitForEvent()
	}

	m.lastPoll = ev.At
	m.snapshot = ev.Services
	m.resources = ev.Resources
	if m.noticeFromPoll {
		m.clearNotice()
	}
	if !ev.Resources.CPUKnown || ev.Resources.Memory == pm2.Unavailable {
		m.setNotice(messages.Render(messages.ResourcesDegraded), noticeWarn, true)
	}
	m.apply()
	return m, m.waitForEvent()
}

func (m *Model) handleActionResult(msg actionResultMsg) {
	switch {
	case msg.err == nil:
		m.setNotice(messages.Render(messages.ActionSucceeded, string(msg.action), msg.target), noticeOK, false)
	case errors.IsCode(msg.err, errors.ErrCancelled):
		m.setNotice(messages.Render(messages.ActionCancelled, string(msg.action)), noticeWarn, false)
	default:
		m.setNotice(messages.Render(messages.ActionFailed, string(msg.action), msg.target, errors.Message(msg.err)), noticeError, false)
	}
}

// apply rebuilds the visible rows from the last snapshot: reconcile against
// the current display so unchanged services keep their position, re-apply
// the active sort, then restore the cursor to the service it was on.
func (m *Model) apply() {
	selected := m.selectedID()

	next, _ := table.Reconcile(m.display, m.snapshot, m.query)
	m.display = next
	if m.sorted {
		table.Sort(m.display, m.sortCol, m.sortDesc)
	}

	rows := make([]btable.Row, len(m.display))
	for i, svc := range m.display {
		rows[i] = serviceRow(svc)
	}
	m.tbl.SetRows(rows)

	if selected >= 0 {
		for i, svc := range m.display {
			if svc.ID == selected {
				m.tbl.SetCursor(i)
				break
			}
		}
	}
	if len(m.display) > 0 && m.tbl.Cursor() >= len(m.display) {
		m.tbl.SetCursor(len(m.display) - 1)
	}
}

// applyFresh rebuilds the rows from the snapshot alone, dropping the
// reconciled order. Used when the query changes, so rows that reappear
// come back in snapshot order instead of appending at the bottom.
func (m *Model) applyFresh() {
	m.display = nil
	m.apply()
}

// selectedID returns the id of the service under the cursor, or -1.
func (m Model) selectedID() int {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.display) {
		return -1
	}
	return m.display[i].ID
}

// selectedService returns the service under the cursor.
func (m Model) selectedService() (pm2.Service, bool) {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.display) {
		return pm2.Service{}, false
	}
	return m.display[i], true
}

func (m *Model) setNotice(text string, lvl noticeLevel, fromPoll bool) {
	m.notice = text
	m.noticeLvl = lvl
	m.noticeFromPoll = fromPoll
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeLvl = noticeNone
	m.noticeFromPoll = false
}

// resize reflows the table and the log viewport to the terminal.
func (m *Model) resize() {
	m.tbl.SetColumns(tableColumns(m.width))
	h := m.height - tableChrome
	if h < 3 {
		h = 3
	}
	m.tbl.SetHeight(h)

	vh := m.height - logChrome
	if vh < 3 {
		vh = 3
	}
	if !m.viewportReady {
		m.logsView = viewport.New(m.width, vh)
		m.viewportReady = true
	} else {
		m.logsView.Width = m.width
		m.logsView.Height = vh
	}
}

// initViewport builds the log viewport before the first WindowSizeMsg has
// arrived, using a conservative size.
func (m *Model) initViewport() {
	m.logsView = viewport.New(80, 20)
	m.viewportReady = true
}

// tableColumns builds the bubbles column set for a terminal width. Width
// zero (before the first WindowSizeMsg) gets the minimum layout.
func tableColumns(total int) []btable.Column {
	fixed := 0
	for _, w := range fixedWidths {
		fixed += w
	}
	// each column carries two cells of padding from the styles
	name := total - fixed - 2*len(table.Columns)
	if name < nameMinWidth {
		name = nameMinWidth
	}

	cols := make([]btable.Column, 0, len(table.Columns))
	for _, c := range table.Columns {
		w, ok := fixedWidths[c]
		if !ok {
			w = name
		}
		cols = append(cols, btable.Column{Title: c.Title(), Width: w})
	}
	return cols
}

// serviceRow formats one service into table cells, in display column order.
func serviceRow(svc pm2.Service) btable.Row {
	return btable.Row{
		strconv.Itoa(svc.ID),
		svc.Name,
		svc.Version,
		svc.Status,
		strconv.FormatFloat(svc.CPU, 'f', -1, 64),
		strconv.FormatFloat(svc.MemoryMB, 'f', -1, 64),
		svc.Uptime,
		svc.Port,
	}
}
