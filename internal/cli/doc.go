// Package cli implements the pmx command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a small implementation function for the actual work. The
// general structure keeps three things apart:
//
//   - Command definitions (cobra.Command instances in commands.go)
//   - Implementation functions (one file per command)
//   - Domain logic (in the other internal packages)
//
// # Command Structure
//
// The root command is "pmx" with subcommands for different operations:
//
//	pmx                  - Open the dashboard (with a config, on a TTY)
//	pmx init             - Create the config file
//	pmx monitor          - The dashboard, explicitly
//	pmx list             - One snapshot, table or JSON
//	pmx start|stop|restart <id|all> - Lifecycle actions
//	pmx logs <id>        - Log tails for one service
//	pmx exec <command>   - Ad-hoc remote command
//	pmx config show|set  - Inspect or tune preferences
//	pmx doctor           - Diagnose connection and config issues
//
// # Connection Model
//
// Every command that talks to the host builds one session from the
// configured server and funnels all remote commands through it. The
// openSession helper handles the shared phases: find and load the config,
// connect, and surface missing remote tools as a warning. Commands own the
// session they open and close it on the way out.
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color) are defined on the root
// command and available to all subcommands. Command-specific flags like
// --yes and --interval are defined on individual commands.
//
// # Exit Codes
//
// Errors exit 1. A declined confirmation is not an error: the command
// prints the cancellation and exits 0, so scripted 'pmx stop 3' without
// --yes behaves as a no-op rather than a failure.
package cli
