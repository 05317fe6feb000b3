package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the tool configuration loaded from YAML. All fields are
// optional; zero values fall back to the defaults below.
type Config struct {
	// DatabasePath is where session checkpoints are stored.
	DatabasePath string `yaml:"database_path"`

	// Actor names who is driving the investigation, recorded on sessions.
	Actor string `yaml:"actor"`

	// Color controls colored terminal output.
	Color bool `yaml:"color"`

	// HistoryFile is where the interactive shell keeps readline history.
	HistoryFile string `yaml:"history_file"`

	// Advisor configures the optional AI stage advisor.
	Advisor AdvisorConfig `yaml:"advisor"`
}

// AdvisorConfig configures the AI advisor. The API key is never stored in
// the config file; it comes from the environment.
type AdvisorConfig struct {
	Enabled bool `yaml:"enabled"`

	// Model overrides the default advisor model.
	Model string `yaml:"model,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DatabasePath: filepath.Join(home, ".fathom", "fathom.db"),
		Actor:        "user",
		Color:        true,
		HistoryFile:  filepath.Join(home, ".fathom", "history"),
	}
}

// Load reads configuration from a YAML file, layered over the defaults.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("database_path cannot be empty")
	}
	if cfg.Actor == "" {
		cfg.Actor = "user"
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fathom.yaml"
	}
	return filepath.Join(home, ".fathom", "config.yaml")
}
