package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/pmx/internal/config"
	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/session"
	"github.com/rileyhilliard/pmx/internal/ui"
	"github.com/rileyhilliard/pmx/pkg/sshclient"
)

// passwordEnv supplies the password in non-interactive mode, where there is
// no prompt to type it into and a flag would leak it into shell history.
const passwordEnv = "PMX_PASSWORD"

// InitOptions holds options for the init command.
type InitOptions struct {
	Host           string // pre-fill the host prompt
	Port           int    // pre-fill the port prompt; 0 means default
	Username       string // pre-fill the username prompt
	NonInteractive bool   // no prompts; fail instead of asking
	Force          bool   // overwrite existing config without asking
}

// initCommand creates the pmx configuration file.
func initCommand(opts InitOptions) error {
	path := configFlag
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine where to write the config",
			"Set $HOME, or pass an explicit path with --config.")
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Use --force to overwrite.")
		}
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite.")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg, err := collectConfig(opts)
	if err != nil {
		return err
	}

	if err := testConnection(cfg.Server, opts.NonInteractive); err != nil {
		return err
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Printf("%s %s\n\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess),
		messages.Render(messages.ConfigSaved, path))
	fmt.Println("Next steps:")
	fmt.Println("  pmx         - Open the dashboard")
	fmt.Println("  pmx list    - Print one snapshot")
	fmt.Println("  pmx doctor  - Check the connection")
	return nil
}

// collectConfig gathers the server settings, either from flags and the
// environment or from an interactive form.
func collectConfig(opts InitOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if opts.NonInteractive {
		if opts.Host == "" {
			return nil, errors.New(errors.ErrConfig,
				"A host is required in non-interactive mode",
				"Pass --host, or run interactively.")
		}
		if opts.Username == "" {
			return nil, errors.New(errors.ErrConfig,
				"A username is required in non-interactive mode",
				"Pass --user, or run interactively.")
		}
		password := os.Getenv(passwordEnv)
		if password == "" {
			return nil, errors.New(errors.ErrConfig,
				"No password provided",
				"Set $"+passwordEnv+" in non-interactive mode.")
		}
		cfg.Server.Host = opts.Host
		if opts.Port != 0 {
			cfg.Server.Port = opts.Port
		}
		cfg.Server.Username = opts.Username
		cfg.Server.Password = password
		return cfg, nil
	}

	host := opts.Host
	port := strconv.Itoa(config.DefaultPort)
	if opts.Port != 0 {
		port = strconv.Itoa(opts.Port)
	}
	username := opts.Username
	var password string
	interval := strconv.Itoa(config.DefaultPollInterval)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Host").
				Description("Hostname, IP address, or SSH config alias").
				Placeholder("192.168.1.50").
				Value(&host).
				Validate(requireNonEmpty("a host")),
			huh.NewInput().
				Title("SSH port").
				Value(&port).
				Validate(validatePort),
			huh.NewInput().
				Title("Username").
				Placeholder("deploy").
				Value(&username).
				Validate(requireNonEmpty("a username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(requireNonEmpty("a password")),
			huh.NewInput().
				Title("Poll interval (seconds)").
				Description("How often the dashboard refreshes; 0 disables").
				Value(&interval).
				Validate(validateInterval),
		),
	)
	if err := form.Run(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility, or use --non-interactive.")
	}

	cfg.Server.Host = strings.TrimSpace(host)
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(port))
	cfg.Server.Username = strings.TrimSpace(username)
	cfg.Server.Password = password
	cfg.Preferences.PollInterval, _ = strconv.Atoi(strings.TrimSpace(interval))
	return cfg, nil
}

// testConnection dials the server once before the config is written. A
// failure is not fatal in interactive mode; the user may save anyway and
// fix the host later.
func testConnection(server config.Server, nonInteractive bool) error {
	spinner := ui.NewSpinner("Testing connection to " + server.Address())
	spinner.Start()

	client, err := sshclient.Dial(server.Host, server.Port,
		server.Username, server.Password, session.ConnectTimeout)
	if err == nil {
		spinner.Success()
		client.Close()
		fmt.Println()
		return nil
	}
	spinner.Fail()

	if nonInteractive {
		return err
	}

	fmt.Printf("\n%s %s\n\n",
		ui.ErrorStyle().Render(ui.SymbolFail),
		messages.Render(messages.ConnectFailed, server.Address(), errors.Message(err)))

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can fix the connection later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return err
	}
	return nil
}

// requireNonEmpty builds a validator for mandatory form fields.
func requireNonEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("enter %s", what)
		}
		return nil
	}
}

// validatePort checks a form value is a usable port number.
func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// validateInterval checks a form value is a non-negative second count.
func validateInterval(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a number of seconds, or 0 to disable")
	}
	return nil
}
