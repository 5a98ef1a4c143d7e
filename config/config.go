// Package config loads the lexicon configuration from YAML, fills in
// defaults and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	RenderGlamour = "glamour"
	RenderANSI    = "ansi"
	RenderPlain   = "plain"
)

// Config holds all lexicon configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`

	// Editor overrides $EDITOR for long-form note editing.
	Editor string `yaml:"editor"`

	// Render selects how notes are drawn in the detail pane.
	Render string `yaml:"render"`

	Logging LoggingConfig `yaml:"logging"`

	// Passphrase only ever comes from the environment.
	Passphrase string `yaml:"-"`
}

// StorageConfig picks the key-value backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite, memory
	Path    string `yaml:"path"`
	Encrypt bool   `yaml:"encrypt"`
}

// LoggingConfig configures the zap file logger.
type LoggingConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: "file"},
		Render:  RenderGlamour,
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/lexicon/config.yaml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lexicon", "config.yaml"), nil
}

// Load reads path. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Render == "" {
		c.Render = def.Render
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LEXICON_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("LEXICON_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("LEXICON_PASSPHRASE"); v != "" {
		c.Passphrase = v
		if c.Storage.Backend == "file" {
			c.Storage.Encrypt = true
		}
	}
	if v := os.Getenv("LEXICON_LOG"); v != "" {
		c.Logging.Path = v
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Encrypt && c.Storage.Backend != "file" {
		return fmt.Errorf("config: encryption is only supported by the file backend")
	}
	switch c.Render {
	case RenderGlamour, RenderANSI, RenderPlain:
	default:
		return fmt.Errorf("config: unknown renderer %q", c.Render)
	}
	return nil
}

// Save writes c to path as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
