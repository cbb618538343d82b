package sshclient

import (
	"bytes"
	stderrors "errors"

	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/pmx/internal/errors"
)

// Run executes a command on the remote host and returns captured stdout,
// stderr, and the exit status. A non-zero exit is not an error here; err is
// set only when the channel or transport fails, and the connection is marked
// dead so the session layer reconnects.
func (c *Client) Run(command string) (string, string, int, error) {
	sess, err := c.NewSession()
	if err != nil {
		c.alive.Store(false)
		return "", "", -1, errors.WrapWithCode(err, errors.ErrTransport,
			"Could not open an SSH channel to "+c.Host,
			"The connection may have dropped. The next command will reconnect.")
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	c.log.Debug("run on %s: %s", c.Host, command)
	if err := sess.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.ExitStatus(), nil
		}
		c.alive.Store(false)
		return stdout.String(), stderr.String(), -1, errors.WrapWithCode(err, errors.ErrTransport,
			"The connection to "+c.Host+" dropped mid-command",
			"The next command will reconnect automatically.")
	}
	return stdout.String(), stderr.String(), 0, nil
}
