// Package config loads the wstat configuration file.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v2"
)

const configFile = "wstat/config.yml"

// Config defines all configuration options available to be set through
// the config file.
type Config struct {
	// Signals received by the supervisor that are passed on to the
	// child's process group, e.g. SIGTERM or HUP.
	ForwardSignals []string `yaml:"forward-signals"`
	// Number of times the child is started again when the exit policy
	// asks for a restart.
	MaxRestarts int `yaml:"max-restarts"`
	// Become a child subreaper and reap orphaned descendants (Linux only).
	Subreaper bool `yaml:"subreaper"`
	// Path of a Starlark exit policy script.
	Policy string `yaml:"policy,omitempty"`
	// How often wait4 is polled while the child is running.
	PollInterval time.Duration `yaml:"poll-interval"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		ForwardSignals: []string{"SIGTERM", "SIGINT", "SIGHUP"},
		MaxRestarts:    0,
		PollInterval:   200 * time.Millisecond,
	}
}

// Path returns the location of the user's config file, or an error if
// there is none.
func Path() (string, error) {
	return xdg.SearchConfigFile(configFile)
}

// Load reads the config file at path. An empty path means the default
// location; a missing default file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document on top of the default configuration.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values that yaml decoding cannot.
func (c *Config) Validate() error {
	if c.MaxRestarts < 0 {
		return fmt.Errorf("max-restarts must not be negative, got %d", c.MaxRestarts)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive, got %v", c.PollInterval)
	}
	return nil
}

// Save writes c to path, creating the default location when path is
// empty.
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		p, err := xdg.ConfigFile(configFile)
		if err != nil {
			return "", fmt.Errorf("unable to create config directory: %w", err)
		}
		path = p
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return path, ioutil.WriteFile(path, data, os.FileMode(0644))
}
