package config

import (
	"fmt"

	"github.com/rileyhilliard/pmx/internal/errors"
)

// ValidThemes lists the dashboard palettes pmx ships.
var ValidThemes = map[string]bool{
	"dark":  true,
	"light": true,
}

// Validate checks a config before anything tries to dial with it.
func Validate(cfg *Config) error {
	if cfg.Server.Host == "" {
		return errors.New(errors.ErrConfig,
			"No server host configured",
			"Run 'pmx init', or set server.host in the config file.")
	}
	if cfg.Server.Username == "" {
		return errors.New(errors.ErrConfig,
			"No username configured for "+cfg.Server.Host,
			"Run 'pmx init', or set server.username in the config file.")
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid SSH port %d", cfg.Server.Port),
			"Use a port between 1 and 65535.")
	}
	if cfg.Preferences.PollInterval < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid poll interval %d", cfg.Preferences.PollInterval),
			"Use a number of seconds, or 0 to disable automatic polling.")
	}
	if !ValidThemes[cfg.Preferences.Theme] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown theme %q", cfg.Preferences.Theme),
			"Use 'dark' or 'light'.")
	}
	return nil
}
