// Package session owns the single SSH connection to the monitored host.
// Every remote command in pmx funnels through one Session, which serializes
// commands, detects dead connections, and transparently reconnects with
// exactly one retry per command.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/pmx/internal/config"
	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/logger"
	"github.com/rileyhilliard/pmx/pkg/sshclient"
)

// managerPrefix marks commands addressed to pm2 itself. pm2 writes banner
// and notice lines to stderr even when a command succeeds, so stderr alone
// is not a failure signal for these.
const managerPrefix = "pm2 "

// ConnectTimeout bounds a single connection attempt.
const ConnectTimeout = 10 * time.Second

// Conn is the transport a Session drives. *sshclient.Client satisfies it;
// tests substitute scripted fakes.
type Conn interface {
	// Run executes one command, returning stdout, stderr, and exit status.
	// err is reserved for transport-level failures.
	Run(command string) (string, string, int, error)
	// Alive reports whether the transport is still believed healthy.
	Alive() bool
	Close() error
}

var _ Conn = (*sshclient.Client)(nil)

// DialFunc opens a fresh transport. Injected so tests can script outcomes.
type DialFunc func() (Conn, error)

// State describes where the session is in its connection lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Session multiplexes all of pmx over one SSH connection. All methods are
// safe for concurrent use; commands are serialized, so a reconnect triggered
// by one caller is never observed half-done by another.
type Session struct {
	mu      sync.Mutex
	dial    DialFunc
	probe   []string
	log     logger.Logger
	target  string
	conn    Conn
	state   State
	closed  bool
	missing []string
}

// New builds a session for the configured server using the real SSH
// transport. probe lists commands whose presence Connect verifies.
func New(server config.Server, probe []string, log logger.Logger) *Session {
	dial := func() (Conn, error) {
		c, err := sshclient.Dial(server.Host, server.Port, server.Username, server.Password, ConnectTimeout)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return NewWithDial(server.Address(), dial, probe, log)
}

// NewWithDial builds a session around an injected transport factory.
func NewWithDial(target string, dial DialFunc, probe []string, log logger.Logger) *Session {
	if log == nil {
		log = logger.Noop()
	}
	return &Session{
		dial:   dial,
		probe:  probe,
		log:    log,
		target: target,
	}
}

// Target returns the host:port this session points at.
func (s *Session) Target() string {
	return s.target
}

// State reports the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// MissingCommands lists the probed commands the host lacked at the last
// connect. Metrics backed by a missing command degrade to N/A.
func (s *Session) MissingCommands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.missing))
	copy(out, s.missing)
	return out
}

// Connect establishes the connection and probes for required commands. It
// returns the commands the host is missing; a non-empty list is a warning,
// not an error. Calling Connect on a closed session reopens it.
func (s *Session) Connect() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = false
	if s.state == Connected && s.conn != nil && s.conn.Alive() {
		return append([]string(nil), s.missing...), nil
	}
	if err := s.connectLocked(); err != nil {
		return nil, err
	}
	return append([]string(nil), s.missing...), nil
}

// Execute runs one command on the host and returns its stdout. On any
// failure the session tears the connection down, reconnects, and retries
// exactly once; the second failure is returned.
func (s *Session) Execute(command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", errors.New(errors.ErrTransport,
			"The connection is closed.",
			"Reconnect before running commands.")
	}

	if s.state != Connected || s.conn == nil || !s.conn.Alive() {
		s.dropLocked()
		if err := s.connectLocked(); err != nil {
			return "", err
		}
	}

	out, err := s.runLocked(command)
	if err == nil {
		return out, nil
	}

	s.log.Debug("command failed on %s, reconnecting once: %v", s.target, err)
	s.dropLocked()
	if rerr := s.connectLocked(); rerr != nil {
		return "", errors.WrapWithCode(rerr, errors.CodeOf(rerr),
			fmt.Sprintf("Lost the connection to %s and could not reconnect", s.target),
			"Check the host and your network, then try again.")
	}
	return s.runLocked(command)
}

// Close shuts the session down. Further Execute calls fail until Connect is
// called again. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.dropLocked()
	return nil
}

// connectLocked dials a fresh transport and probes it. Callers hold the lock.
func (s *Session) connectLocked() error {
	s.state = Connecting
	s.log.Debug("connecting to %s", s.target)
	conn, err := s.dial()
	if err != nil {
		s.state = Disconnected
		return err
	}
	s.conn = conn
	s.state = Connected
	s.probeLocked()
	return nil
}

// probeLocked checks each required command with command -v on the raw
// transport. Probe results only gate metric rendering, so a transport error
// here just leaves the list empty; the next Execute will surface it.
func (s *Session) probeLocked() {
	s.missing = nil
	for _, name := range s.probe {
		stdout, _, exit, err := s.conn.Run("command -v " + name)
		if err != nil {
			s.log.Debug("command probe aborted on %s: %v", s.target, err)
			return
		}
		if exit != 0 || strings.TrimSpace(stdout) == "" {
			s.missing = append(s.missing, name)
		}
	}
	if len(s.missing) > 0 {
		s.log.Warn("host %s is missing commands: %s", s.target, strings.Join(s.missing, ", "))
	}
}

// runLocked executes one command over the live transport and applies the
// failure policy: transport errors fail, stderr output fails unless the
// command is addressed to pm2, and the exit status on its own does not.
// Callers that care about a silently failing command check its output;
// the controller treats an empty pm2 response as a failure for exactly
// this reason.
func (s *Session) runLocked(command string) (string, error) {
	stdout, stderr, exit, err := s.conn.Run(command)
	if err != nil {
		s.state = Disconnected
		return "", err
	}

	errText := strings.TrimSpace(stderr)
	if errText != "" && strings.HasPrefix(command, managerPrefix) {
		s.log.Debug("ignoring pm2 stderr: %s", firstLine(errText))
		errText = ""
	}
	if errText != "" {
		return "", errors.New(errors.ErrExec,
			"Remote command failed: "+firstLine(errText),
			"Run 'pmx doctor' to check the host setup.")
	}
	if exit != 0 {
		s.log.Debug("command exited %d: %s", exit, command)
	}
	return stdout, nil
}

// dropLocked discards the current transport, if any.
func (s *Session) dropLocked() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.state = Disconnected
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
