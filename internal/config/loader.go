package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigDir is the directory under $HOME holding the config file.
	ConfigDir = ".config/pmx"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yaml"
	// ConfigPathEnv overrides the config location when set.
	ConfigPathEnv = "PMX_CONFIG"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'pmx init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config structure in "+path,
			"Compare your file against the output of 'pmx init'")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. $PMX_CONFIG
// 3. ~/.config/pmx/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Environment override
	if env := os.Getenv(ConfigPathEnv); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
		return "", errors.New(errors.ErrConfig,
			"Config file from "+ConfigPathEnv+" not found: "+env,
			"Fix or unset the "+ConfigPathEnv+" environment variable")
	}

	// 3. User config
	if path := DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", nil
}

// DefaultPath returns ~/.config/pmx/config.yaml, or empty if the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigDir, ConfigFileName)
}

// LoadOrDefault loads config from the found path, or returns defaults when no
// file exists yet. Commands like 'pmx init' work without existing config.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// setDefaults registers defaults so omitted keys unmarshal to usable values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("preferences.poll_interval", DefaultPollInterval)
	v.SetDefault("preferences.theme", DefaultTheme)
}
