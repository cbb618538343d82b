package integration

import (
	"strings"
	"sync"

	"github.com/rileyhilliard/pmx/internal/logger"
	"github.com/rileyhilliard/pmx/internal/session"
)

// response scripts one command's outcome on the fake transport.
type response struct {
	stdout string
	stderr string
	exit   int
	err    error
}

// fakeConn is a scripted session.Conn. Commands not in the script succeed
// with empty output; probe commands resolve to a fake path so connects see
// a fully equipped host unless a test scripts otherwise.
type fakeConn struct {
	mu       sync.Mutex
	script   map[string]response
	alive    bool
	closed   bool
	executed []string
}

func newFakeConn(script map[string]response) *fakeConn {
	if script == nil {
		script = map[string]response{}
	}
	return &fakeConn{script: script, alive: true}
}

func (c *fakeConn) Run(command string) (string, string, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executed = append(c.executed, command)

	if r, ok := c.script[command]; ok {
		return r.stdout, r.stderr, r.exit, r.err
	}
	if name, ok := strings.CutPrefix(command, "command -v "); ok {
		return "/usr/bin/" + name, "", 0, nil
	}
	return "", "", 0, nil
}

func (c *fakeConn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = false
	c.closed = true
	return nil
}

// kill marks the transport dead without closing it, like a dropped TCP
// connection would.
func (c *fakeConn) kill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = false
}

func (c *fakeConn) ran(command string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, cmd := range c.executed {
		if cmd == command {
			n++
		}
	}
	return n
}

// newTestSession builds a session over a single scripted transport.
func newTestSession(conn *fakeConn, probe []string) *session.Session {
	dial := func() (session.Conn, error) { return conn, nil }
	return session.NewWithDial("web.example.com:22", dial, probe, logger.Noop())
}

// dialSequence builds a DialFunc that hands out the given transports in
// order. Dials past the end fail with errs, if provided.
func dialSequence(conns []*fakeConn, tail error) session.DialFunc {
	i := 0
	var mu sync.Mutex
	return func() (session.Conn, error) {
		mu.Lock()
		defer mu.Unlock()
		if i < len(conns) {
			c := conns[i]
			i++
			return c, nil
		}
		return nil, tail
	}
}
