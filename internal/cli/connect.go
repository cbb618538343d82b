package cli

import (
	"strings"

	"github.com/rileyhilliard/pmx/internal/config"
	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/session"
	"github.com/rileyhilliard/pmx/internal/ui"
)

// loadConfig resolves and loads the config file. A missing file is a CONFIG
// error pointing at 'pmx init'; commands that need a server cannot proceed
// without one.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(configFlag)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New(errors.ErrConfig,
			messages.Render(messages.ConfigMissing),
			"")
	}
	return config.Load(path)
}

// openSession loads the config, connects the shared session, and reports
// missing remote tools as a warning. The caller owns Close.
func openSession(prefix string) (*session.Session, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	sess := session.New(cfg.Server, pm2.RequiredTools, cliLogger(prefix))
	missing, err := sess.Connect()
	if err != nil {
		if errors.IsCode(err, errors.ErrAuth) {
			return nil, nil, errors.WrapWithCode(err, errors.ErrAuth,
				messages.Render(messages.AuthFailed, cfg.Server.Username),
				"Re-enter your credentials with 'pmx init --force'.")
		}
		return nil, nil, err
	}
	if len(missing) > 0 {
		ui.PrintWarning(messages.Render(messages.MissingCommands, strings.Join(missing, ", ")))
	}
	return sess, cfg, nil
}
