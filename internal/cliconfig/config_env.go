package cliconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig mirrors Config as read from BULK_* environment variables.
// Durations and lists stay strings so an unset variable is distinguishable
// from a zero value.
type EnvConfig struct {
	Threshold  int    `env:"BULK_THRESHOLD"`
	Delay      string `env:"BULK_DELAY"`
	OutputDir  string `env:"BULK_OUTPUT_DIR"`
	Sinks      string `env:"BULK_SINKS"`
	SQLitePath string `env:"BULK_SQLITE_PATH"`
	Follow     string `env:"BULK_FOLLOW"`
	LogLevel   string `env:"BULK_LOG_LEVEL"`
}

// LoadEnvConfig reads the BULK_* environment variables.
func LoadEnvConfig() (EnvConfig, error) {
	var ec EnvConfig
	if err := env.Parse(&ec); err != nil {
		return ec, fmt.Errorf("parse env: %w", err)
	}
	return ec, nil
}

// ApplyEnvConfig applies configuration from environment variables (BULK_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	ec, err := LoadEnvConfig()
	if err != nil {
		return err
	}

	s := newConfigSetter(changed)

	s.setInt("threshold", ec.Threshold, &cfg.Threshold)
	s.setString("output-dir", ec.OutputDir, &cfg.OutputDir)
	s.setString("sqlite-path", ec.SQLitePath, &cfg.SQLitePath)
	s.setString("follow", ec.Follow, &cfg.Follow)
	s.setString("log-level", ec.LogLevel, &cfg.LogLevel)
	s.setListFromString("sinks", ec.Sinks, &cfg.Sinks)

	if err := s.setDuration("delay", ec.Delay, &cfg.Delay); err != nil {
		return err
	}

	return nil
}
