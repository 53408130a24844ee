// Package config loads babel-tmux configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Command-line flags (applied by cmd)
//  2. Environment variables (BABEL_TMUX_*)
//  3. Config file
//  4. Built-in defaults
//
// Config file search order:
//  1. .babel-tmux.yaml in current directory
//  2. ~/.config/babel-tmux/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all babel-tmux configuration.
type Config struct {
	// tmux settings
	TmuxPath      string `yaml:"tmux_path"`      // executable, looked up on PATH when bare
	SessionPrefix string `yaml:"session_prefix"` // prepended to every session name
	DefaultWindow string `yaml:"default_window"` // first window of new sessions
	Socket        string `yaml:"socket"`         // alternate server socket (tmux -S)

	// Terminal emulator launched for new sessions; empty disables the launch
	Terminal string `yaml:"terminal"`

	// Readiness polling
	ReadyTimeout  string `yaml:"ready_timeout"`  // Go duration string, e.g. "10s"
	ReadyInterval string `yaml:"ready_interval"` // first poll interval, e.g. "20ms"

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	ReadyTimeoutDuration  time.Duration `yaml:"-"`
	ReadyIntervalDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() Config {
	return Config{
		TmuxPath:      "tmux",
		DefaultWindow: "main",
		Terminal:      "gnome-terminal",
		ReadyTimeout:  "10s",
		ReadyInterval: "20ms",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(&cfg, &fileCfg)
	}

	mergeEnv(&cfg)

	if err := cfg.Resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve parses the duration fields. It must be called again after
// string fields are overridden (e.g. by flags).
func (c *Config) Resolve() error {
	var err error
	c.ReadyTimeoutDuration, err = parseDurationOrDisable(c.ReadyTimeout, 10*time.Second)
	if err != nil {
		return fmt.Errorf("invalid ready timeout %q: %w", c.ReadyTimeout, err)
	}
	c.ReadyIntervalDuration, err = parseDurationOrDisable(c.ReadyInterval, 20*time.Millisecond)
	if err != nil {
		return fmt.Errorf("invalid ready interval %q: %w", c.ReadyInterval, err)
	}
	if c.ReadyIntervalDuration < 0 || c.ReadyTimeoutDuration < 0 {
		return fmt.Errorf("ready timeout and interval must not be negative")
	}
	return nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".babel-tmux.yaml"); err == nil {
		return ".babel-tmux.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "babel-tmux", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.TmuxPath != "" {
		cfg.TmuxPath = file.TmuxPath
	}
	if file.SessionPrefix != "" {
		cfg.SessionPrefix = file.SessionPrefix
	}
	if file.DefaultWindow != "" {
		cfg.DefaultWindow = file.DefaultWindow
	}
	if file.Socket != "" {
		cfg.Socket = file.Socket
	}
	if file.Terminal != "" {
		cfg.Terminal = file.Terminal
	}
	if file.ReadyTimeout != "" {
		cfg.ReadyTimeout = file.ReadyTimeout
	}
	if file.ReadyInterval != "" {
		cfg.ReadyInterval = file.ReadyInterval
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("BABEL_TMUX_PATH"); v != "" {
		cfg.TmuxPath = v
	}
	if v, ok := os.LookupEnv("BABEL_TMUX_SESSION_PREFIX"); ok {
		cfg.SessionPrefix = v
	}
	if v := os.Getenv("BABEL_TMUX_DEFAULT_WINDOW"); v != "" {
		cfg.DefaultWindow = v
	}
	if v := os.Getenv("BABEL_TMUX_SOCKET"); v != "" {
		cfg.Socket = v
	}
	// An empty value is meaningful here: it disables the terminal launch.
	if v, ok := os.LookupEnv("BABEL_TMUX_TERMINAL"); ok {
		cfg.Terminal = v
	}
	if v := os.Getenv("BABEL_TMUX_READY_TIMEOUT"); v != "" {
		cfg.ReadyTimeout = v
	}
	if v := os.Getenv("BABEL_TMUX_READY_INTERVAL"); v != "" {
		cfg.ReadyInterval = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
