package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/pm2"
)

// Command-specific flags
var (
	initHostFlag        string
	initPortFlag        int
	initUserFlag        string
	initNonInteractive  bool
	initForce           bool
	monitorIntervalFlag string
	listJSONFlag        bool
	startYesFlag        bool
	stopYesFlag         bool
	restartYesFlag      bool
	doctorJSONFlag      bool
)

// monitorCmd starts the TUI dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard of PM2 services on the remote host",
	Long: `Start an interactive dashboard showing every PM2-managed service on
the configured host, refreshed automatically.

Displays service status, CPU, memory, uptime, and port alongside
host-level CPU and memory, with color-coded thresholds.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now
  /           Search by name
  1-8         Sort by column (same digit reverses)
  up/k        Select previous service
  down/j      Select next service
  Enter       View logs for the selected service
  s / x / b   Start / stop / restart the selected service
  S / X / B   The same, for all services
  ?           Show help

Examples:
  pmx monitor
  pmx monitor --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(monitorIntervalFlag)
	},
}

// listCmd prints one service snapshot and exits
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List PM2 services once and exit",
	Long: `Fetch one snapshot of the PM2 service table and host resources,
print it, and exit. The dashboard without the dashboard.

Examples:
  pmx list
  pmx list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand(listJSONFlag)
	},
}

// startCmd starts a service or all of them
var startCmd = &cobra.Command{
	Use:   "start <id|all>",
	Short: "Start a PM2 service",
	Long: `Start the service with the given id, or every service.

Asks for confirmation unless --yes is set. Service ids come from
'pmx list'.

Examples:
  pmx start 3
  pmx start all --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return controlCommand(pm2.ActionStart, args[0], startYesFlag)
	},
}

// stopCmd stops a service or all of them
var stopCmd = &cobra.Command{
	Use:   "stop <id|all>",
	Short: "Stop a PM2 service",
	Long: `Stop the service with the given id, or every service.

Asks for confirmation unless --yes is set.

Examples:
  pmx stop 3
  pmx stop all --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return controlCommand(pm2.ActionStop, args[0], stopYesFlag)
	},
}

// restartCmd restarts a service or all of them
var restartCmd = &cobra.Command{
	Use:   "restart <id|all>",
	Short: "Restart a PM2 service",
	Long: `Restart the service with the given id, or every service.

Asks for confirmation unless --yes is set.

Examples:
  pmx restart 3
  pmx restart all --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return controlCommand(pm2.ActionRestart, args[0], restartYesFlag)
	},
}

// logsCmd prints the log tails for one service
var logsCmd = &cobra.Command{
	Use:   "logs <id>",
	Short: "Show the last 100 log lines of a service",
	Long: `Print the tail of a service's stdout and stderr log files.

The service id comes from 'pmx list'. Both streams are fetched and
printed under their own headers.

Examples:
  pmx logs 0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return logsCommand(args[0])
	},
}

// execCmd runs an arbitrary command on the host
var execCmd = &cobra.Command{
	Use:   "exec <command...>",
	Short: "Run a command on the remote host",
	Long: `Execute an arbitrary command on the configured host over the same
SSH connection the dashboard uses, and print its output.

Examples:
  pmx exec pm2 save
  pmx exec "df -h /"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execCommand(args)
	},
}

// initCmd creates the config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up the connection to your server",
	Long: `Create the pmx configuration interactively.

Prompts for the host, port, username, password, and poll interval,
tests the connection, and writes the config file. The file holds the
password in plain text and is written with mode 0600.

Examples:
  pmx init
  pmx init --host 192.168.1.50 --user deploy
  pmx init --non-interactive --host web1 --user deploy --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(InitOptions{
			Host:           initHostFlag,
			Port:           initPortFlag,
			Username:       initUserFlag,
			NonInteractive: initNonInteractive,
			Force:          initForce,
		})
	},
}

// configCmd groups the config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

// configShowCmd prints the current config with the password redacted
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand()
	},
}

// configSetCmd changes one preference in place
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Long: `Change one preference in the config file.

Settable keys:
  poll_interval  auto-refresh interval in seconds (0 disables)
  theme          dashboard palette, dark or light

Connection settings go through 'pmx init', which tests them.

Examples:
  pmx config set poll_interval 10
  pmx config set theme light`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetCommand(args[0], args[1])
	},
}

// doctorCmd diagnoses connection and configuration issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose connection and config issues",
	Long: `Run diagnostic checks against the local config and the remote host.

Checks:
  - Config file exists and is valid
  - Host accepts TCP connections on the SSH port
  - Password authentication works
  - Required commands exist on the host
  - The PM2 daemon answers

Examples:
  pmx doctor
  pmx doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(doctorJSONFlag)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for pmx.

Examples:
  # Bash
  pmx completion bash > /etc/bash_completion.d/pmx

  # Zsh
  pmx completion zsh > "${fpath[1]}/_pmx"

  # Fish
  pmx completion fish > ~/.config/fish/completions/pmx.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// init command flags
	initCmd.Flags().StringVar(&initHostFlag, "host", "", "pre-fill the host")
	initCmd.Flags().IntVar(&initPortFlag, "port", 0, "pre-fill the SSH port")
	initCmd.Flags().StringVar(&initUserFlag, "user", "", "pre-fill the username")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "no prompts; password read from $PMX_PASSWORD")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// monitor command flags
	monitorCmd.Flags().StringVar(&monitorIntervalFlag, "interval", "", "refresh interval (e.g., 10s, 1m); default from config")

	// list command flags
	listCmd.Flags().BoolVar(&listJSONFlag, "json", false, "output in JSON format")

	// control command flags
	startCmd.Flags().BoolVarP(&startYesFlag, "yes", "y", false, "skip the confirmation prompt")
	stopCmd.Flags().BoolVarP(&stopYesFlag, "yes", "y", false, "skip the confirmation prompt")
	restartCmd.Flags().BoolVarP(&restartYesFlag, "yes", "y", false, "skip the confirmation prompt")

	// doctor command flags
	doctorCmd.Flags().BoolVar(&doctorJSONFlag, "json", false, "output in JSON format")

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
