package monitor

import (
	"os"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/poll"
)

// TestMain pins the color profile so rendered views compare as plain text
// regardless of the terminal the tests run under.
func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type fakeRemote struct {
	mu         sync.Mutex
	missing    []string
	connectErr error
	out        map[string]string
	execErr    error
	executed   []string
}

func (f *fakeRemote) Connect() ([]string, error) {
	return f.missing, f.connectErr
}

func (f *fakeRemote) Execute(command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executed = append(f.executed, command)
	if f.execErr != nil {
		return "", f.execErr
	}
	return f.out[command], nil
}

type fakeFeed struct {
	ch        chan poll.Event
	started   int
	refreshed int
	stopped   int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{ch: make(chan poll.Event, 4)}
}

func (f *fakeFeed) Events() <-chan poll.Event { return f.ch }
func (f *fakeFeed) Start()                    { f.started++ }
func (f *fakeFeed) Refresh()                  { f.refreshed++ }
func (f *fakeFeed) Stop()                     { f.stopped++ }

type fakeDispatcher struct {
	calls []string
	err   error
}

func (f *fakeDispatcher) Dispatch(action pm2.Action, target string) (pm2.Result, error) {
	f.calls = append(f.calls, string(action)+" "+target)
	if f.err != nil {
		return pm2.Result{}, f.err
	}
	return pm2.Result{RequestID: "req-1", Action: action, Target: target}, nil
}

func newTestModel() (Model, *fakeRemote, *fakeFeed, *fakeDispatcher) {
	r := &fakeRemote{out: map[string]string{}}
	f := newFakeFeed()
	d := &fakeDispatcher{}
	m := newModel(r, f, d, Options{Host: "web.example.com:22", Theme: "dark"})
	return m, r, f, d
}

func testServices() []pm2.Service {
	return []pm2.Service{
		{ID: 0, Name: "web-api", Version: "1.2.0", Status: "online", CPU: 12.5, MemoryMB: 84.21, Uptime: "0d 4h 12m 9s", OutLog: "/logs/web-out.log", ErrLog: "/logs/web-err.log", Port: "3000"},
		{ID: 1, Name: "worker", Version: "N/A", Status: "stopped", CPU: 0.5, MemoryMB: 12.0, Uptime: pm2.Unavailable, Port: pm2.Unavailable},
		{ID: 2, Name: "webhook", Version: "2.0.1", Status: "online", CPU: 3.2, MemoryMB: 45.5, Uptime: "1d 0h 0m 0s", Port: "4000"},
	}
}

func testResources() pm2.Resources {
	return pm2.Resources{CPU: 34.2, CPUKnown: true, Memory: "512.0 MB / 2048.0 MB"}
}

func goodEvent() poll.Event {
	return poll.Event{Services: testServices(), Resources: testResources(), At: time.Now()}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, keyMsg(key))
}

// connectedModel returns a model past the connect phase with one snapshot
// applied.
func connectedModel(t *testing.T) (Model, *fakeRemote, *fakeFeed, *fakeDispatcher) {
	t.Helper()
	m, r, f, d := newTestModel()
	m, _ = update(t, m, connectedMsg{})
	m, _ = update(t, m, pollEventMsg(goodEvent()))
	return m, r, f, d
}

func displayIDs(m Model) []int {
	ids := make([]int, len(m.display))
	for i, svc := range m.display {
		ids[i] = svc.ID
	}
	return ids
}

func TestNewModelStartsConnecting(t *testing.T) {
	m, _, _, _ := newTestModel()

	assert.Equal(t, phaseConnecting, m.phase)
	assert.Contains(t, m.View(), "Connecting to web.example.com:22")
	require.NotNil(t, m.Init())
}

func TestConnectCmdReportsResult(t *testing.T) {
	m, r, _, _ := newTestModel()
	r.missing = []string{"mpstat"}

	msg := m.connectCmd()()

	connected, ok := msg.(connectedMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"mpstat"}, connected.missing)
	assert.NoError(t, connected.err)
}

func TestConnectedSuccessStartsPolling(t *testing.T) {
	m, _, _, _ := newTestModel()

	m, cmd := update(t, m, connectedMsg{})

	assert.Equal(t, phaseReady, m.phase)
	assert.Equal(t, "Connected to web.example.com:22", m.notice)
	require.NotNil(t, cmd)
}

func TestConnectedMissingCommandsWarns(t *testing.T) {
	m, _, _, _ := newTestModel()

	m, _ = update(t, m, connectedMsg{missing: []string{"mpstat", "top"}})

	assert.Contains(t, m.notice, "mpstat, top")
	assert.Equal(t, noticeWarn, m.noticeLvl)
}

func TestConnectedFailure(t *testing.T) {
	m, _, _, _ := newTestModel()
	authErr := errors.New(errors.ErrAuth, "Authentication failed", "")

	m, cmd := update(t, m, connectedMsg{err: authErr})

	assert.Nil(t, cmd)
	assert.Equal(t, phaseFailed, m.phase)
	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "Authentication failed")
}

func TestStartPollCmd(t *testing.T) {
	m, _, f, _ := newTestModel()

	m.startPollCmd()()

	assert.Equal(t, 1, f.started)
}

func TestWaitForEventDeliversPollEvent(t *testing.T) {
	m, _, f, _ := newTestModel()
	f.ch <- goodEvent()

	msg := m.waitForEvent()()

	ev, ok := msg.(pollEventMsg)
	require.True(t, ok)
	assert.Len(t, ev.Services, 3)
}

func TestWaitForEventClosedChannel(t *testing.T) {
	m, _, f, _ := newTestModel()
	close(f.ch)

	assert.Nil(t, m.waitForEvent()())
}

func TestPollEventUpdatesDisplay(t *testing.T) {
	m, _, _, _ := newTestModel()
	m, _ = update(t, m, connectedMsg{})

	m, cmd := update(t, m, pollEventMsg(goodEvent()))

	require.NotNil(t, cmd)
	assert.Equal(t, []int{0, 1, 2}, displayIDs(m))
	assert.Len(t, m.tbl.Rows(), 3)
	assert.False(t, m.lastPoll.IsZero())
	assert.Empty(t, m.notice)
}

func TestPollEventErrorKeepsRows(t *testing.T) {
	m, _, _, _ := connectedModel(t)
	before := m.lastPoll

	m, cmd := update(t, m, pollEventMsg(poll.Event{
		Err: errors.New(errors.ErrTransport, "Connection lost", ""),
		At:  time.Now(),
	}))

	require.NotNil(t, cmd)
	assert.Equal(t, []int{0, 1, 2}, displayIDs(m))
	assert.Contains(t, m.notice, "Refresh failed")
	assert.Equal(t, noticeError, m.noticeLvl)
	assert.Equal(t, before, m.lastPoll)
}

func TestPollRecoveryClearsNotice(t *testing.T) {
	m, _, _, _ := connectedModel(t)
	m, _ = update(t, m, pollEventMsg(poll.Event{
		Err: errors.New(errors.ErrTransport, "Connection lost", ""),
		At:  time.Now(),
	}))
	require.NotEmpty(t, m.notice)

	m, _ = update(t, m, pollEventMsg(goodEvent()))

	assert.Empty(t, m.notice)
}

func TestPollEventDegradedResources(t *testing.T) {
	m, _, _, _ := newTestModel()
	m, _ = update(t, m, connectedMsg{})

	ev := goodEvent()
	ev.Resources = pm2.Resources{Memory: pm2.Unavailable}
	m, _ = update(t, m, pollEventMsg(ev))

	assert.Contains(t, m.notice, "partially unavailable")
}

func TestReconcilePreservesOrderAndCursor(t *testing.T) {
	m, _, _, _ := connectedModel(t)
	m, _ = press(t, m, "down")
	require.Equal(t, 1, m.selectedID())

	fresh := []pm2.Service{
		{ID: 3, Name: "metrics", Status: "online"},
		{ID: 2, Name: "webhook", Status: "online"},
		{ID: 1, Name: "worker", Status: "online"},
	}
	ev := poll.Event{Services: fresh, Resources: testResources(), At: time.Now()}
	m, _ = update(t, m, pollEventMsg(ev))

	// survivors keep their previous relative order, the new id appends
	assert.Equal(t, []int{1, 2, 3}, displayIDs(m))
	assert.Equal(t, 1, m.selectedID())
	assert.Equal(t, 0, m.tbl.Cursor())
}

func TestCursorClampsWhenRowsShrink(t *testing.T) {
	m, _, _, _ := connectedModel(t)
	m, _ = press(t, m, "down")
	m, _ = press(t, m, "down")
	require.Equal(t, 2, m.tbl.Cursor())

	ev := poll.Event{
		Services:  testServices()[:1],
		Resources: testResources(),
		At:        time.Now(),
	}
	m, _ = update(t, m, pollEventMsg(ev))

	assert.Equal(t, 0, m.tbl.Cursor())
	assert.Equal(t, 0, m.selectedID())
}

func TestActionDispatchFlow(t *testing.T) {
	m, _, _, d := connectedModel(t)

	m, _ = press(t, m, "x")
	require.NotNil(t, m.pending)
	assert.Equal(t, pm2.ActionStop, m.pending.action)
	assert.Equal(t, "0", m.pending.target)
	assert.Contains(t, m.View(), "Are you sure you want to stop 0?")

	m, cmd := press(t, m, "y")
	assert.Nil(t, m.pending)
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(actionResultMsg)
	require.True(t, ok)
	assert.NoError(t, result.err)
	assert.Equal(t, []string{"stop 0"}, d.calls)

	m, _ = update(t, m, msg)
	assert.Equal(t, "stop 0 succeeded", m.notice)
	assert.Equal(t, noticeOK, m.noticeLvl)
}

func TestActionDeclineCancels(t *testing.T) {
	m, _, _, d := connectedModel(t)

	m, _ = press(t, m, "B")
	require.NotNil(t, m.pending)
	assert.Equal(t, pm2.ActionRestart, m.pending.action)
	assert.Equal(t, pm2.TargetAll, m.pending.target)

	m, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
	assert.Nil(t, m.pending)
	assert.Equal(t, "restart cancelled", m.notice)
	assert.Empty(t, d.calls)
}

func TestActionFailureNotice(t *testing.T) {
	m, _, _, d := connectedModel(t)
	d.err = errors.New(errors.ErrExec, "Could not stop 0", "")

	m, _ = press(t, m, "x")
	m, cmd := press(t, m, "y")
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Contains(t, m.notice, "stop 0 failed")
	assert.Equal(t, noticeError, m.noticeLvl)
}

func TestActionWithoutSelection(t *testing.T) {
	m, _, _, d := newTestModel()
	m, _ = update(t, m, connectedMsg{})

	m, _ = press(t, m, "s")

	assert.Nil(t, m.pending)
	assert.Equal(t, "No service selected.", m.notice)
	assert.Empty(t, d.calls)
}

func TestLogsFlow(t *testing.T) {
	m, r, _, _ := connectedModel(t)
	r.out["tail -n 100 '/logs/web-out.log'"] = "request handled\n"
	r.out["tail -n 100 '/logs/web-err.log'"] = "oom warning\n"
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)

	msg := cmd()
	logs, ok := msg.(logsMsg)
	require.True(t, ok)
	assert.Equal(t, "web-api", logs.name)
	assert.Equal(t, "online", logs.status)

	m, _ = update(t, m, msg)
	assert.True(t, m.logsOpen)
	view := m.View()
	assert.Contains(t, view, "logs: web-api")
	assert.Contains(t, view, "(online)")
	assert.Contains(t, view, "request handled")
	assert.Contains(t, view, "oom warning")

	m, _ = press(t, m, "esc")
	assert.False(t, m.logsOpen)
}

func TestLogsMissingPathSentinel(t *testing.T) {
	m, _, _, _ := connectedModel(t)
	m, _ = press(t, m, "down") // worker has no log paths

	_, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)

	logs, ok := cmd().(logsMsg)
	require.True(t, ok)
	assert.Equal(t, "Log file not found.", logs.logs.Out)
	assert.Equal(t, "Log file not found.", logs.logs.Err)
}

func TestRefreshKey(t *testing.T) {
	m, _, f, _ := connectedModel(t)

	_, cmd := press(t, m, "r")
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 1, f.refreshed)
}

func TestRefreshIgnoredWhileConnecting(t *testing.T) {
	m, _, f, _ := newTestModel()

	_, cmd := press(t, m, "r")

	assert.Nil(t, cmd)
	assert.Zero(t, f.refreshed)
}

func TestQuitStopsPoller(t *testing.T) {
	m, _, f, _ := connectedModel(t)

	m, cmd := press(t, m, "q")

	assert.True(t, m.quitting)
	assert.Equal(t, 1, f.stopped)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestCtrlCQuitsFromAnyMode(t *testing.T) {
	m, _, _, _ := connectedModel(t)
	m, _ = press(t, m, "/")
	require.True(t, m.searching)

	m, cmd := press(t, m, "ctrl+c")

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestWindowSizeResizes(t *testing.T) {
	m, _, _, _ := connectedModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.True(t, m.viewportReady)
	assert.NotEmpty(t, m.View())
}

func TestServiceRowFormatting(t *testing.T) {
	row := serviceRow(pm2.Service{
		ID: 7, Name: "api", Version: "1.0.3", Status: "online",
		CPU: 12.5, MemoryMB: 84.21, Uptime: "0d 1h 2m 3s", Port: "3000",
	})

	assert.Equal(t, []string{"7", "api", "1.0.3", "online", "12.5", "84.21", "0d 1h 2m 3s", "3000"}, []string(row))
}
