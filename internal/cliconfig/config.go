package cliconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/bulk/internal/domain"
)

// Sink names accepted in Config.Sinks.
const (
	SinkConsole = "console"
	SinkFile    = "file"
	SinkSQLite  = "sqlite"
)

// Config holds CLI configuration for bulk.
type Config struct {
	// Threshold is the static flush size.
	Threshold int

	// Delay is the pause between two input lines.
	Delay time.Duration

	OutputDir  string
	Sinks      []string
	SQLitePath string

	// Follow tails this file instead of reading stdin.
	Follow string

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Threshold: 3,
		Delay:     0,
		OutputDir: ".",
		Sinks:     []string{SinkConsole, SinkFile},
		LogLevel:  "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive", domain.ErrInvalidConfig)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative", domain.ErrInvalidConfig)
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %v", domain.ErrInvalidConfig, err)
	}

	// A SQLite path alone enables the sink at the end of the chain.
	if c.SQLitePath != "" && !c.HasSink(SinkSQLite) {
		c.Sinks = append(c.Sinks, SinkSQLite)
	}

	seen := make(map[string]bool, len(c.Sinks))
	for _, name := range c.Sinks {
		switch name {
		case SinkConsole, SinkFile, SinkSQLite:
		default:
			return fmt.Errorf("%w: %q", domain.ErrUnknownSink, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: sink %q listed twice", domain.ErrInvalidConfig, name)
		}
		seen[name] = true
	}
	if seen[SinkSQLite] && c.SQLitePath == "" {
		return fmt.Errorf("%w: sqlite sink requires sqlite-path", domain.ErrInvalidConfig)
	}

	return nil
}

// HasSink reports whether name is part of the sink chain.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setList sets a list value if not empty and flag not changed.
func (s *configSetter) setList(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setListFromString splits a comma-separated string and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setListFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var list []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	s.setList(flag, list, dst)
}
