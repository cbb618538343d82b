// Package sshclient provides the SSH transport pmx uses to reach the
// monitored host. Authentication is username/password only and host keys
// are not verified; pmx targets hosts the operator already trusts.
package sshclient

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/logger"
)

const (
	// DefaultTimeout bounds the TCP dial plus SSH handshake.
	DefaultTimeout = 10 * time.Second

	// KeepaliveInterval is how often an established connection is probed.
	KeepaliveInterval = 30 * time.Second
)

// Client is an authenticated SSH connection to the monitored host.
type Client struct {
	*ssh.Client

	// Host is the name the user configured, possibly an ~/.ssh/config alias.
	Host string

	// Address is the resolved host:port the connection was dialed to.
	Address string

	log      logger.Logger
	alive    atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
}

// Dial opens a password-authenticated connection to host. When host matches
// an ~/.ssh/config alias, HostName always applies, and Port and User fill in
// whatever the caller left unset (port 0, empty user). Servers that only
// offer keyboard-interactive auth get the same password.
func Dial(host string, port int, user, password string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hostname, port, user := Resolve(host, port, user)
	addr := net.JoinHostPort(hostname, strconv.Itoa(port))

	log := logger.NewEnvLogger("[ssh]")
	log.Debug("dialing %s as %s", addr, user)

	cfg := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(passwordResponder(password)),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	conn, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		if IsAuthError(err) {
			return nil, errors.WrapWithCode(err, errors.ErrAuth,
				"Authentication failed for "+host,
				"Check the username and password, then run 'pmx init' to update them.")
		}
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Could not connect to "+addr,
			suggestionForDialError(err))
	}

	c := &Client{
		Client:  conn,
		Host:    host,
		Address: addr,
		log:     log,
		stop:    make(chan struct{}),
	}
	c.alive.Store(true)
	go c.keepalive()
	return c, nil
}

// Alive reports whether the transport is still believed healthy. It flips
// false when a keepalive probe or a command fails at the transport level.
func (c *Client) Alive() bool {
	return c.alive.Load()
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() error {
	c.alive.Store(false)
	var err error
	c.stopOnce.Do(func() {
		close(c.stop)
		err = c.Client.Close()
	})
	return err
}

// keepalive probes the server until the connection dies or Close is called.
// OpenSSH replies to this request name even though it is advisory.
func (c *Client) keepalive() {
	ticker := time.NewTicker(KeepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if _, _, err := c.SendRequest("keepalive@openssh.com", true, nil); err != nil {
				c.log.Debug("keepalive failed for %s: %v", c.Address, err)
				c.alive.Store(false)
				return
			}
		}
	}
}

// passwordResponder answers every keyboard-interactive challenge with the
// configured password. Some sshd setups disable "password" auth but accept
// the same credential this way.
func passwordResponder(password string) ssh.KeyboardInteractiveChallenge {
	return func(name, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = password
		}
		return answers, nil
	}
}

// Resolve applies ~/.ssh/config to the configured host. HostName maps
// aliases to real addresses; Port and User are consulted only when the
// caller did not set them.
func Resolve(host string, port int, user string) (string, int, string) {
	hostname := host
	cfg := userSSHConfig()
	if cfg != nil {
		if v, err := cfg.Get(host, "HostName"); err == nil && v != "" {
			hostname = v
		}
		if port == 0 {
			if v, err := cfg.Get(host, "Port"); err == nil && v != "" {
				if p, perr := strconv.Atoi(v); perr == nil {
					port = p
				}
			}
		}
		if user == "" {
			if v, err := cfg.Get(host, "User"); err == nil && v != "" {
				user = v
			}
		}
	}
	if port == 0 {
		port = 22
	}
	return hostname, port, user
}

// userSSHConfig loads ~/.ssh/config, or nil when it is absent or unreadable.
// Match blocks are stripped first; the parser rejects them outright and a
// config that uses Match for other hosts should not break alias lookup.
func userSSHConfig() *ssh_config.Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(home, ".ssh", "config"))
	if err != nil {
		return nil
	}
	cfg, err := ssh_config.DecodeBytes(stripMatchBlocks(data))
	if err != nil {
		return nil
	}
	return cfg
}

// stripMatchBlocks removes Match sections, keeping everything up to the next
// Host block.
func stripMatchBlocks(data []byte) []byte {
	var out []string
	skipping := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "match "), lower == "match":
			skipping = true
			continue
		case strings.HasPrefix(lower, "host "), lower == "host":
			skipping = false
		}
		if !skipping {
			out = append(out, line)
		}
	}
	return []byte(strings.Join(out, "\n"))
}

// IsAuthError reports whether an SSH dial failure was a credential problem
// rather than a network one.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain") ||
		strings.Contains(msg, "permission denied")
}

// suggestionForDialError maps common dial failures to a next step the user
// can actually take.
func suggestionForDialError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "Check that sshd is running on the host and the port is correct."
	case strings.Contains(msg, "i/o timeout"), strings.Contains(msg, "timed out"):
		return "Check that the host is reachable and not blocked by a firewall."
	case strings.Contains(msg, "no such host"):
		return "Check the hostname for typos, or use an IP address."
	case strings.Contains(msg, "network is unreachable"):
		return "Check your network connection."
	default:
		return "Verify the host and port with 'pmx config show'."
	}
}
