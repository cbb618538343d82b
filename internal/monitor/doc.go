// Package monitor implements the full-screen dashboard for one remote
// PM2 host.
//
// The dashboard renders a live service table, a host resource line, and
// per-service log views over the shared SSH session, and turns key presses
// into lifecycle actions.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm
// Architecture (Model-Update-View pattern):
//
//   - Model: holds the display state (snapshot, filtered rows, cursor,
//     sort, pending confirm, notices)
//   - Update: processes messages (keystrokes, poll events, action results)
//   - View: renders the current state to a string for display
//
// # Message Flow
//
// Data reaches the dashboard through exactly one channel:
//
//  1. Init issues a connect command; the session dials off the UI
//     goroutine while a spinner animates.
//  2. On success the poller is started and a command blocks on its events
//     channel; each completed poll cycle arrives as one message.
//  3. Every snapshot is folded into the visible rows by reconciliation,
//     so services that did not change keep their row position and the
//     cursor stays on the service it was on.
//  4. Control dispatches and log fetches run as commands and come back as
//     typed messages; the render loop never blocks on the network.
//
// A failed poll keeps the previous rows on screen and surfaces a notice
// instead; search and sort re-apply locally from the last good snapshot
// without waiting for the next poll.
//
// # Keyboard Shortcuts
//
// Navigation and control are handled via keybindings defined in
// keybindings.go:
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	/           - Search by name (Esc clears)
//	1-8         - Sort by column, same digit reverses
//	j/k, ↑/↓    - Select service
//	Enter       - View logs (Esc returns)
//	s/x/b       - Start / stop / restart selected
//	S/X/B       - Start / stop / restart all
//	y/n         - Confirm or decline a staged action
//	?           - Toggle help overlay
//
// # Themes
//
// The config's theme preference selects between a dark and a light
// lipgloss palette; every view renders through role names on the palette
// so the two stay interchangeable.
package monitor
