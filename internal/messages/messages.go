// Package messages is the catalog of user-visible text.
//
// Every message the CLI or dashboard shows a user lives here under a typed
// id, so a missing or malformed template is caught by Validate at startup
// instead of surfacing as a runtime formatting artifact. Log lines and error
// plumbing do not go through this package.
package messages

import (
	"fmt"
	"strings"
)

// ID identifies one user-visible message template.
type ID int

const (
	ConnectingTo ID = iota
	ConnectedTo
	AuthFailed
	ConnectFailed
	MissingCommands
	ResourcesDegraded
	ConfirmAction
	ActionSucceeded
	ActionFailed
	ActionCancelled
	NoServiceSelected
	UnknownService
	LogNotFound
	LogFetchFailed
	RefreshFailed
	ConfigMissing
	ConfigSaved
	lastID // sentinel, keep last
)

// template pairs the format text with the number of arguments it expects.
type template struct {
	text string
	args int
}

var templates = map[ID]template{
	ConnectingTo:      {"Connecting to %s...", 1},
	ConnectedTo:       {"Connected to %s", 1},
	AuthFailed:        {"Authentication failed for %s. Check your username and password.", 1},
	ConnectFailed:     {"Could not connect to %s: %v", 2},
	MissingCommands:   {"Some commands are missing on the remote host: %s. Related metrics will show as N/A.", 1},
	ResourcesDegraded: {"System resource metrics are partially unavailable.", 0},
	ConfirmAction:     {"Are you sure you want to %s %s?", 2},
	ActionSucceeded:   {"%s %s succeeded", 2},
	ActionFailed:      {"%s %s failed: %v", 3},
	ActionCancelled:   {"%s cancelled", 1},
	NoServiceSelected: {"No service selected.", 0},
	UnknownService:    {"No service with id %s. Known ids: %s", 2},
	LogNotFound:       {"Log file not found.", 0},
	LogFetchFailed:    {"Could not read the log file: %v", 1},
	RefreshFailed:     {"Refresh failed: %v", 1},
	ConfigMissing:     {"No configuration found. Run 'pmx init' to set up your server.", 0},
	ConfigSaved:       {"Configuration saved to %s", 1},
}

// Render formats the message for id with the given arguments.
// Unknown ids and argument-count mismatches are rendered loudly rather than
// silently dropped, but Validate makes both unreachable in a correct build.
func Render(id ID, args ...interface{}) string {
	tpl, ok := templates[id]
	if !ok {
		return fmt.Sprintf("(missing message %d)", int(id))
	}
	if len(args) != tpl.args {
		return fmt.Sprintf("(message %d wants %d args, got %d)", int(id), tpl.args, len(args))
	}
	return fmt.Sprintf(tpl.text, args...)
}

// Validate checks that every id has a template and that each template
// consumes exactly its declared argument count. Called from main at startup
// so a bad catalog fails the build's smoke test, not a user's session.
func Validate() error {
	for id := ID(0); id < lastID; id++ {
		tpl, ok := templates[id]
		if !ok {
			return fmt.Errorf("message %d has no template", int(id))
		}

		// Render with placeholder args; fmt marks arity mismatches
		// with %! sequences. Templates stick to %s/%v so string
		// placeholders exercise every verb.
		args := make([]interface{}, tpl.args)
		for i := range args {
			args[i] = "x"
		}
		out := fmt.Sprintf(tpl.text, args...)
		if strings.Contains(out, "%!") {
			return fmt.Errorf("message %d template %q does not match its %d declared args", int(id), tpl.text, tpl.args)
		}
	}
	return nil
}
