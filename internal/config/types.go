package config

import (
	"net"
	"strconv"
)

// Config represents the complete pmx configuration file.
type Config struct {
	Server      Server      `yaml:"server" mapstructure:"server"`
	Preferences Preferences `yaml:"preferences" mapstructure:"preferences"`
}

// Server holds the connection settings for the monitored host.
// A session is built from one Server value and never mutates it; changing
// the server means building a new session.
type Server struct {
	// Host is a hostname, IP address, or SSH config alias.
	Host string `yaml:"host" mapstructure:"host"`

	// Port is the SSH port, 1-65535.
	Port int `yaml:"port" mapstructure:"port"`

	// Username for password authentication.
	Username string `yaml:"username" mapstructure:"username"`

	// Password in plain text. The config file is written 0600 for this
	// reason; key-based auth is intentionally out of scope.
	Password string `yaml:"password" mapstructure:"password"`
}

// Preferences holds display and polling settings.
type Preferences struct {
	// PollInterval is the auto-refresh interval in seconds.
	// Zero or negative disables automatic polling.
	PollInterval int `yaml:"poll_interval" mapstructure:"poll_interval"`

	// Theme selects the dashboard palette: "dark" or "light".
	Theme string `yaml:"theme" mapstructure:"theme"`
}

// Address returns host:port for dialing and display.
func (s Server) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DefaultConfig returns a config with standard defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Server: Server{
			Port: DefaultPort,
		},
		Preferences: Preferences{
			PollInterval: DefaultPollInterval,
			Theme:        DefaultTheme,
		},
	}
}

const (
	// DefaultPort is the standard SSH port.
	DefaultPort = 22

	// DefaultPollInterval is the auto-refresh interval in seconds.
	DefaultPollInterval = 30

	// DefaultTheme is the dashboard palette used when none is configured.
	DefaultTheme = "dark"
)
