package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/util"
)

// runner executes commands on the monitored host. *sshclient.Client
// satisfies it.
type runner interface {
	Run(command string) (stdout, stderr string, exitCode int, err error)
}

// Remote carries the SSH connection shared by the remote checks. AuthCheck
// populates it; the tool checks fail fast when it never connected.
type Remote struct {
	conn runner
}

func (r *Remote) set(conn runner) { r.conn = conn }

// Connected reports whether the auth check left a usable connection.
func (r *Remote) Connected() bool { return r != nil && r.conn != nil }

// Close tears down the connection, if one was established.
func (r *Remote) Close() {
	if r == nil {
		return
	}
	if c, ok := r.conn.(io.Closer); ok {
		c.Close()
	}
}

// toolSuggestions maps tools to install hints. Tools without an entry get a
// generic one.
var toolSuggestions = map[string]string{
	"pm2":    "Install PM2 on the host: npm install -g pm2",
	"mpstat": "Install the sysstat package; CPU usage falls back to top without it",
}

// ToolCheck verifies one required command exists on the host. A missing pm2
// is fatal; the rest only degrade dashboard data.
type ToolCheck struct {
	Tool   string
	Remote *Remote
}

func (c *ToolCheck) Name() string     { return "tool_" + c.Tool }
func (c *ToolCheck) Category() string { return "REMOTE" }

func (c *ToolCheck) Run() CheckResult {
	if !c.Remote.Connected() {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("Cannot check for %s: not connected", c.Tool),
		}
	}

	_, _, exitCode, err := c.Remote.conn.Run("command -v " + util.ShellQuote(c.Tool))
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("Cannot check for %s: %v", c.Tool, err),
		}
	}

	if exitCode != 0 {
		status := StatusWarn
		if c.Tool == "pm2" {
			status = StatusFail
		}
		suggestion := toolSuggestions[c.Tool]
		if suggestion == "" {
			suggestion = fmt.Sprintf("Install %s on the host; some dashboard data depends on it", c.Tool)
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     status,
			Message:    fmt.Sprintf("%s not found on host", c.Tool),
			Suggestion: suggestion,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s available", c.Tool),
	}
}

// PM2VersionCheck verifies the PM2 daemon answers and reports its version.
type PM2VersionCheck struct {
	Remote *Remote
}

func (c *PM2VersionCheck) Name() string     { return "pm2_version" }
func (c *PM2VersionCheck) Category() string { return "REMOTE" }

func (c *PM2VersionCheck) Run() CheckResult {
	if !c.Remote.Connected() {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot check PM2: not connected",
		}
	}

	stdout, stderr, exitCode, err := c.Remote.conn.Run("pm2 --version")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot run pm2: %v", err),
			Suggestion: "Check the SSH connection",
		}
	}

	if exitCode != 0 {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = fmt.Sprintf("exit status %d", exitCode)
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("PM2 not responding: %s", firstLine(detail)),
			Suggestion: "Try 'pm2 ping' on the host to wake the daemon",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("PM2 version %s", strings.TrimSpace(stdout)),
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// NewRemoteChecks creates the tool and PM2 checks, one per required tool.
func NewRemoteChecks(remote *Remote) []Check {
	checks := make([]Check, 0, len(pm2.RequiredTools)+1)
	for _, tool := range pm2.RequiredTools {
		checks = append(checks, &ToolCheck{Tool: tool, Remote: remote})
	}
	checks = append(checks, &PM2VersionCheck{Remote: remote})
	return checks
}
