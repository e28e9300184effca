package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, loaded from YAML with built-in
// defaults for every field.
type Config struct {
	Log         LogConfig    `yaml:"log"`
	DenyClasses []string     `yaml:"deny_classes"`
	Launch      LaunchConfig `yaml:"launch"`
}

// LogConfig controls daemon logging.
type LogConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// LaunchConfig controls the launch-and-track workflow.
type LaunchConfig struct {
	TimeoutSeconds      int `yaml:"timeout_seconds"`
	ClassTimeoutSeconds int `yaml:"class_change_timeout_seconds"`

	// Launch paths treated as terminal emulators; windows launched
	// through them are sized to a fraction of the monitor afterwards.
	TerminalCommands       []string `yaml:"terminal_commands"`
	TerminalWidthFraction  float64  `yaml:"terminal_width_fraction"`
	TerminalHeightFraction float64  `yaml:"terminal_height_fraction"`
	SettleDelayMS          int      `yaml:"settle_delay_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		DenyClasses: []string{"copyq.copyq"},
		Launch: LaunchConfig{
			TimeoutSeconds:         10,
			ClassTimeoutSeconds:    5,
			TerminalCommands:       []string{"x-terminal-emulator", "gnome-terminal", "kitty", "alacritty", "xterm"},
			TerminalWidthFraction:  0.4,
			TerminalHeightFraction: 0.5,
			SettleDelayMS:          300,
		},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "winctl", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "winctl", "config.yaml"), nil
}

// Load reads the config file, layering it over defaults. A missing
// file is not an error: defaults apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse unmarshals YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Launch.TimeoutSeconds <= 0 {
		return fmt.Errorf("launch.timeout_seconds must be positive, got %d", c.Launch.TimeoutSeconds)
	}
	if c.Launch.ClassTimeoutSeconds <= 0 {
		return fmt.Errorf("launch.class_change_timeout_seconds must be positive, got %d", c.Launch.ClassTimeoutSeconds)
	}
	if c.Launch.TerminalWidthFraction <= 0 || c.Launch.TerminalWidthFraction > 1 {
		return fmt.Errorf("launch.terminal_width_fraction must be in (0, 1], got %v", c.Launch.TerminalWidthFraction)
	}
	if c.Launch.TerminalHeightFraction <= 0 || c.Launch.TerminalHeightFraction > 1 {
		return fmt.Errorf("launch.terminal_height_fraction must be in (0, 1], got %v", c.Launch.TerminalHeightFraction)
	}
	return nil
}
