package doctor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rileyhilliard/pmx/internal/pm2"
)

// fakeRunner scripts remote command results by substring match.
type fakeRunner struct {
	missing []string // tools `command -v` reports absent
	pm2Out  string
	pm2Exit int
	pm2Err  error
	closed  bool
}

func (f *fakeRunner) Run(command string) (string, string, int, error) {
	if strings.HasPrefix(command, "command -v ") {
		tool := strings.Trim(strings.TrimPrefix(command, "command -v "), "'")
		for _, m := range f.missing {
			if m == tool {
				return "", "", 1, nil
			}
		}
		return "/usr/bin/" + tool, "", 0, nil
	}
	if strings.HasPrefix(command, "pm2 --version") {
		if f.pm2Err != nil {
			return "", "", -1, f.pm2Err
		}
		if f.pm2Exit != 0 {
			return "", "daemon not running", f.pm2Exit, nil
		}
		out := f.pm2Out
		if out == "" {
			out = "5.3.0\n"
		}
		return out, "", 0, nil
	}
	return "", "", 0, nil
}

func (f *fakeRunner) Close() error {
	f.closed = true
	return nil
}

func connectedRemote(r runner) *Remote {
	remote := &Remote{}
	remote.set(r)
	return remote
}

func TestToolCheck_Present(t *testing.T) {
	remote := connectedRemote(&fakeRunner{})

	check := &ToolCheck{Tool: "pm2", Remote: remote}
	result := check.Run()

	if result.Status != StatusPass {
		t.Fatalf("status = %v, want pass (%s)", result.Status, result.Message)
	}
	if !strings.Contains(result.Message, "pm2") {
		t.Errorf("message %q should name the tool", result.Message)
	}
}

func TestToolCheck_MissingPM2IsFatal(t *testing.T) {
	remote := connectedRemote(&fakeRunner{missing: []string{"pm2"}})

	check := &ToolCheck{Tool: "pm2", Remote: remote}
	result := check.Run()

	if result.Status != StatusFail {
		t.Fatalf("status = %v, want fail", result.Status)
	}
	if !strings.Contains(result.Suggestion, "npm install -g pm2") {
		t.Errorf("suggestion %q should say how to install PM2", result.Suggestion)
	}
}

func TestToolCheck_MissingMetricToolWarns(t *testing.T) {
	remote := connectedRemote(&fakeRunner{missing: []string{"mpstat"}})

	check := &ToolCheck{Tool: "mpstat", Remote: remote}
	result := check.Run()

	if result.Status != StatusWarn {
		t.Fatalf("status = %v, want warn", result.Status)
	}
	if !strings.Contains(result.Suggestion, "sysstat") {
		t.Errorf("suggestion %q should mention sysstat", result.Suggestion)
	}
}

func TestToolCheck_NotConnected(t *testing.T) {
	check := &ToolCheck{Tool: "pm2", Remote: &Remote{}}
	result := check.Run()

	if result.Status != StatusFail {
		t.Fatalf("status = %v, want fail", result.Status)
	}
	if !strings.Contains(result.Message, "not connected") {
		t.Errorf("message %q should say not connected", result.Message)
	}
}

func TestToolCheck_RunError(t *testing.T) {
	remote := connectedRemote(&errRunner{err: fmt.Errorf("session closed")})

	check := &ToolCheck{Tool: "free", Remote: remote}
	result := check.Run()

	if result.Status != StatusFail {
		t.Fatalf("status = %v, want fail", result.Status)
	}
}

// errRunner fails every command at the transport level.
type errRunner struct{ err error }

func (e *errRunner) Run(string) (string, string, int, error) {
	return "", "", -1, e.err
}

func TestPM2VersionCheck_Responds(t *testing.T) {
	remote := connectedRemote(&fakeRunner{pm2Out: "5.3.0\n"})

	check := &PM2VersionCheck{Remote: remote}
	result := check.Run()

	if result.Status != StatusPass {
		t.Fatalf("status = %v, want pass (%s)", result.Status, result.Message)
	}
	if !strings.Contains(result.Message, "5.3.0") {
		t.Errorf("message %q should carry the version", result.Message)
	}
}

func TestPM2VersionCheck_Broken(t *testing.T) {
	remote := connectedRemote(&fakeRunner{pm2Exit: 1})

	check := &PM2VersionCheck{Remote: remote}
	result := check.Run()

	if result.Status != StatusFail {
		t.Fatalf("status = %v, want fail", result.Status)
	}
	if !strings.Contains(result.Message, "daemon not running") {
		t.Errorf("message %q should carry stderr detail", result.Message)
	}
}

func TestPM2VersionCheck_NotConnected(t *testing.T) {
	check := &PM2VersionCheck{Remote: &Remote{}}
	result := check.Run()

	if result.Status != StatusFail {
		t.Fatalf("status = %v, want fail", result.Status)
	}
}

func TestNewRemoteChecks(t *testing.T) {
	checks := NewRemoteChecks(&Remote{})

	if len(checks) != len(pm2.RequiredTools)+1 {
		t.Fatalf("expected %d checks, got %d", len(pm2.RequiredTools)+1, len(checks))
	}
	for _, c := range checks {
		if c.Category() != "REMOTE" {
			t.Errorf("check %s category = %q, want REMOTE", c.Name(), c.Category())
		}
	}
}

func TestRemoteClose(t *testing.T) {
	r := &fakeRunner{}
	remote := connectedRemote(r)

	remote.Close()

	if !r.closed {
		t.Error("Close should close the underlying connection")
	}

	// Close on a never-connected remote must not panic.
	(&Remote{}).Close()
	var nilRemote *Remote
	nilRemote.Close()
}
