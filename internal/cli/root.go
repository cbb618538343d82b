package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/pmx/internal/config"
	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/logger"
	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/ui"
)

// Global flags, available to every subcommand.
var (
	configFlag  string
	verboseFlag bool
	noColorFlag bool
)

// rootCmd is the base command. Run bare, it launches the dashboard when a
// config exists and stdout is a terminal; anywhere else it prints help, so
// scripts and pipes never end up inside an alt-screen TUI.
var rootCmd = &cobra.Command{
	Use:   "pmx",
	Short: "Monitor and control PM2 services on a remote host",
	Long: `pmx connects to one remote host over SSH and gives you a live
dashboard of its PM2-managed services: status, CPU, memory, uptime, and
logs, with start/stop/restart a keypress away.

Run 'pmx init' once to configure the host, then 'pmx' to open the
dashboard. Every subcommand shares the same single SSH connection model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(configFlag)
		if err != nil {
			return err
		}
		if path == "" || !stdoutIsTerminal() {
			if path == "" && stdoutIsTerminal() {
				fmt.Println(messages.Render(messages.ConfigMissing))
				fmt.Println()
			}
			return cmd.Help()
		}
		return monitorCommand("")
	},
}

// stdoutIsTerminal reports whether stdout is attached to a TTY.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// cliLogger builds the logger commands hand to the packages they drive.
// --verbose forces debug output; otherwise PMX_DEBUG decides.
func cliLogger(prefix string) logger.Logger {
	if verboseFlag {
		return logger.Verbose(prefix)
	}
	return logger.NewEnvLogger(prefix)
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Structured errors already render their own symbol, cause, and
		// suggestion lines.
		if errors.IsCode(err, errors.ErrCancelled) {
			fmt.Fprintln(os.Stderr, errors.Message(err))
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default ~/.config/pmx/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if noColorFlag || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	}
}
