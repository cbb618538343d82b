package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/logger"
	"github.com/rileyhilliard/pmx/internal/monitor"
	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/poll"
	"github.com/rileyhilliard/pmx/internal/session"
)

// monitorCommand starts the TUI dashboard. intervalFlag overrides the
// configured poll interval when non-empty.
func monitorCommand(intervalFlag string) error {
	if !stdoutIsTerminal() {
		return errors.New(errors.ErrConfig,
			"The dashboard needs a terminal",
			"Use 'pmx list' for scriptable output.")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	interval, err := resolveInterval(intervalFlag, cfg.Preferences.PollInterval)
	if err != nil {
		return err
	}

	// The dashboard owns the terminal; anything logged to stderr would
	// corrupt the alt screen.
	log := logger.Noop()

	sess := session.New(cfg.Server, pm2.RequiredTools, log)
	poller := poll.NewPoller(sess, interval, log)
	control := pm2.NewController(sess, nil, poller.Refresh, log)

	model := monitor.New(sess, poller, control, monitor.Options{
		Host:  cfg.Server.Address(),
		Theme: cfg.Preferences.Theme,
		Log:   log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()

	poller.Stop()
	sess.Close()

	if err != nil {
		return errors.Wrap(err, "The dashboard crashed")
	}
	// A dashboard that never connected quits on its own; surface the
	// connect failure as the exit status.
	if m, ok := final.(monitor.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// resolveInterval picks the poll interval: the --interval flag wins, then
// the configured seconds. Zero disables automatic polling in both forms.
func resolveInterval(flag string, cfgSeconds int) (time.Duration, error) {
	if flag == "" {
		return time.Duration(cfgSeconds) * time.Second, nil
	}
	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid interval: %s", flag),
			"Use a duration like 10s, 30s, or 1m, or 0 to disable polling.")
	}
	if d < 0 || (d > 0 && d < time.Second) {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval too short: %s", flag),
			"Use at least 1s, or 0 to disable automatic polling.")
	}
	return d, nil
}
