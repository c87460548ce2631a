// Package config handles reading and writing .bread/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .bread/config.yaml.
type Config struct {
	Version  int           `yaml:"version"`
	DataDir  string        `yaml:"data_dir" env:"BREAD_DATA_DIR"` // relative paths resolve against the .bread directory
	Database string        `yaml:"database" env:"BREAD_DATABASE"`
	LogMode  string        `yaml:"log_mode" env:"BREAD_LOG_MODE"` // "development" | "production"
	Chat     ChatConfig    `yaml:"chat"`
	History  HistoryConfig `yaml:"history"`
}

// ChatConfig controls the chat screen.
type ChatConfig struct {
	AutosaveEvery int    `yaml:"autosave_every" env:"BREAD_AUTOSAVE_EVERY"` // messages
	ReplyDelayMS  int    `yaml:"reply_delay_ms" env:"BREAD_REPLY_DELAY_MS"`
	DefaultModel  string `yaml:"default_model"`
}

// HistoryConfig controls "bread session prune" when no flags are given.
type HistoryConfig struct {
	MaxAgeDays int `yaml:"max_age_days" env:"BREAD_HISTORY_MAX_AGE_DAYS"`
}

const configDir = ".bread"
const configFile = "config.yaml"

// Dir returns the .bread directory inside root.
func Dir(root string) string {
	return filepath.Join(root, configDir)
}

// ReadConfig reads .bread/config.yaml from the given root directory.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(root string) (*Config, error) {
	path := filepath.Join(root, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to .bread/config.yaml in the given root directory.
// Creates the .bread/ directory if it does not exist.
func WriteConfig(root string, cfg *Config) error {
	dirPath := filepath.Join(root, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Load reads the config under root, falling back to defaults when the
// file is missing, then applies environment overrides.
func Load(root string) (*Config, error) {
	cfg, err := ReadConfig(root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = DefaultConfig()
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays BREAD_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, env.Options{})
}

func applyEnv(cfg *Config, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DatabasePath returns the absolute path of the SQLite file for root.
func (c *Config) DatabasePath(root string) string {
	return filepath.Join(c.dataDir(root), c.Database)
}

// LogDir returns the directory the event log is written to.
func (c *Config) LogDir(root string) string {
	return c.dataDir(root)
}

func (c *Config) dataDir(root string) string {
	if filepath.IsAbs(c.DataDir) {
		return c.DataDir
	}
	return filepath.Join(root, configDir, c.DataDir)
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		DataDir:  "data",
		Database: "bread.db",
		LogMode:  "development",
		Chat: ChatConfig{
			AutosaveEvery: 4,
			ReplyDelayMS:  1200,
			DefaultModel:  "gpt-4o",
		},
		History: HistoryConfig{
			MaxAgeDays: 90,
		},
	}
}
