package cli

import (
	"fmt"
	"strings"
)

// execCommand runs an arbitrary command on the host and prints its output.
// The session's failure policy applies: stderr output comes back as an EXEC
// error, the exit status does not.
func execCommand(args []string) error {
	sess, _, err := openSession("[exec]")
	if err != nil {
		return err
	}
	defer sess.Close()

	out, err := sess.Execute(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if trimmed := strings.TrimRight(out, "\n"); trimmed != "" {
		fmt.Println(trimmed)
	}
	return nil
}
