package doctor

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rileyhilliard/pmx/internal/config"
	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/pkg/sshclient"
)

// dialTimeout bounds each connection attempt made by the checks.
const dialTimeout = 10 * time.Second

// ReachCheck verifies the host accepts TCP connections on the SSH port.
type ReachCheck struct {
	Server config.Server

	// dial is a test seam; nil means net.DialTimeout.
	dial func(network, address string, timeout time.Duration) (net.Conn, error)
}

func (c *ReachCheck) Name() string     { return "host_reachable" }
func (c *ReachCheck) Category() string { return "CONNECTION" }

func (c *ReachCheck) Run() CheckResult {
	dial := c.dial
	if dial == nil {
		dial = net.DialTimeout
	}

	host, port, _ := sshclient.Resolve(c.Server.Host, c.Server.Port, c.Server.Username)
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := dial("tcp", addr, dialTimeout)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot reach %s: %v", addr, err),
			Suggestion: "Check the host and port, and that sshd is running",
		}
	}
	conn.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Host reachable: %s", addr),
	}
}

// AuthCheck verifies password authentication against the host. On success it
// parks the connection in Remote so the remote checks reuse it.
type AuthCheck struct {
	Server config.Server
	Remote *Remote

	// dial is a test seam; nil means sshclient.Dial.
	dial func() (runner, error)
}

func (c *AuthCheck) Name() string     { return "ssh_auth" }
func (c *AuthCheck) Category() string { return "CONNECTION" }

func (c *AuthCheck) Run() CheckResult {
	dial := c.dial
	if dial == nil {
		dial = func() (runner, error) {
			client, err := sshclient.Dial(c.Server.Host, c.Server.Port,
				c.Server.Username, c.Server.Password, dialTimeout)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}

	conn, err := dial()
	if err != nil {
		if errors.IsCode(err, errors.ErrAuth) || sshclient.IsAuthError(err) {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    fmt.Sprintf("Authentication failed for %s", c.Server.Username),
				Suggestion: "Check the username and password; 'pmx init --force' re-enters them",
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("SSH connection failed: %v", errors.Message(err)),
			Suggestion: "Run the connection checks above first",
		}
	}

	if c.Remote != nil {
		c.Remote.set(conn)
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Authenticated as %s", c.Server.Username),
	}
}

// NewConnectionChecks creates the reachability and authentication checks.
// remote receives the authenticated connection for the remote checks.
func NewConnectionChecks(server config.Server, remote *Remote) []Check {
	return []Check{
		&ReachCheck{Server: server},
		&AuthCheck{Server: server, Remote: remote},
	}
}
