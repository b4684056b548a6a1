package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Threshold  int      `toml:"threshold"`
	Delay      string   `toml:"delay"`
	OutputDir  string   `toml:"output_dir"`
	Sinks      []string `toml:"sinks"`
	SQLitePath string   `toml:"sqlite_path"`
	Follow     string   `toml:"follow"`
	LogLevel   string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.bulk/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".bulk", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("threshold", fc.Threshold, &cfg.Threshold)
	s.setString("output-dir", fc.OutputDir, &cfg.OutputDir)
	s.setString("sqlite-path", fc.SQLitePath, &cfg.SQLitePath)
	s.setString("follow", fc.Follow, &cfg.Follow)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setList("sinks", fc.Sinks, &cfg.Sinks)

	if err := s.setDuration("delay", fc.Delay, &cfg.Delay); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
