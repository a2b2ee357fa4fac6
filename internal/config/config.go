// Package config manages the JSON-backed settings the CLI front-end loads
// before starting the core: window scale, backend selection, and a couple
// of core behavior toggles.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the settings the CLI reads before constructing a console
// and a graphics backend.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`

	configPath string
	loaded     bool
}

// WindowConfig controls the presentation window.
type WindowConfig struct {
	Scale   int    `json:"scale"`
	VSync   bool   `json:"vsync"`
	Filter  string `json:"filter"` // "nearest" or "linear"
	Backend string `json:"backend"` // "ebitengine" or "headless"
}

// EmulationConfig toggles core behavior that spec.md leaves
// implementation-defined.
type EmulationConfig struct {
	EnableUnofficialOpcodes bool `json:"enable_unofficial_opcodes"`
	EnableNMI               bool `json:"enable_nmi"`
}

// DebugConfig controls diagnostic logging.
type DebugConfig struct {
	EnableLogging bool   `json:"enable_logging"`
	LogLevel      string `json:"log_level"` // "debug", "info", "warn", "error"
}

// New returns a Config with the defaults the CLI falls back to when no
// config file is found.
func New() *Config {
	return &Config{
		Window: WindowConfig{
			Scale:   2,
			VSync:   true,
			Filter:  "nearest",
			Backend: "ebitengine",
		},
		Emulation: EmulationConfig{
			EnableUnofficialOpcodes: true,
			EnableNMI:               true,
		},
		Debug: DebugConfig{
			EnableLogging: false,
			LogLevel:      "info",
		},
	}
}

// LoadFromFile reads path as JSON into a fresh Config. If path does not
// exist, the defaults are written there and returned instead, matching the
// teacher's "create-on-first-run" behavior.
func LoadFromFile(path string) (*Config, error) {
	c := New()
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := c.SaveToFile(path); err != nil {
			return nil, err
		}
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c.loaded = true
	return c, nil
}

// SaveToFile writes c as indented JSON to path, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	c.configPath = path
	return nil
}

func (c *Config) validate() error {
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
	switch c.Window.Filter {
	case "nearest", "linear":
	default:
		c.Window.Filter = "nearest"
	}
	switch c.Window.Backend {
	case "ebitengine", "headless":
	default:
		c.Window.Backend = "ebitengine"
	}
	return nil
}

// IsLoaded reports whether the config came from an existing file rather
// than freshly-created defaults.
func (c *Config) IsLoaded() bool { return c.loaded }

// GetConfigPath returns the path this config was loaded from or saved to.
func (c *Config) GetConfigPath() string { return c.configPath }

// DefaultConfigPath returns the default location the CLI looks for a
// config file when none is given explicitly.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "nescore", "config.json")
}
