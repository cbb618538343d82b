package cli

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pmx/internal/config"
	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/ui"
)

// redactedPassword replaces the real password in 'pmx config show' output.
const redactedPassword = "********"

// configShowCommand prints the loaded config as YAML, password redacted.
func configShowCommand() error {
	path, err := config.Find(configFlag)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			messages.Render(messages.ConfigMissing), "")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(redacted(cfg))
	if err != nil {
		return errors.Wrap(err, "Could not encode the configuration")
	}

	fmt.Printf("%s\n\n", ui.MutedStyle().Render("# "+path))
	fmt.Print(string(data))
	return nil
}

// redacted returns a copy safe to print.
func redacted(cfg *config.Config) *config.Config {
	out := *cfg
	if out.Server.Password != "" {
		out.Server.Password = redactedPassword
	}
	return &out
}

// configSetCommand changes one settable key in the config file.
func configSetCommand(key, value string) error {
	path, err := config.Find(configFlag)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			messages.Render(messages.ConfigMissing), "")
	}

	if err := config.Set(path, key, value); err != nil {
		return err
	}

	fmt.Printf("%s %s = %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), key, value)
	return nil
}
