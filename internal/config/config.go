package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/TimelordUK/cpg/pkg/logformat"
)

// EnvEnableTracing turns on diagnostic logging when set to 1 or true
const EnvEnableTracing = "ENABLE_TRACING"

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig                   `toml:"theme"`
	Keybindings KeybindingConfig              `toml:"keybindings"`
	Display     DisplayConfig                 `toml:"display"`
	Stream      StreamConfig                  `toml:"stream"`
	Formats     map[string]logformat.Patterns `toml:"formats"`
	Diagnostics DiagnosticsConfig             `toml:"diagnostics"`
}

// ThemeConfig defines colors
type ThemeConfig struct {
	Name          string `toml:"name"`
	LineNumbers   string `toml:"line_numbers"`
	StatusBar     string `toml:"status_bar"`
	StatusBarText string `toml:"status_bar_text"`
	SearchMatch   string `toml:"search_match"`
	ContextBorder string `toml:"context_border"`
	Notice        string `toml:"notice"`
}

// KeybindingConfig allows customizing keybindings
type KeybindingConfig struct {
	Quit       []string `toml:"quit"`
	ScrollUp   []string `toml:"scroll_up"`
	ScrollDown []string `toml:"scroll_down"`
	PageUp     []string `toml:"page_up"`
	PageDown   []string `toml:"page_down"`
	Top        []string `toml:"top"`
	Bottom     []string `toml:"bottom"`
	Search     []string `toml:"search"`
	NextMatch  []string `toml:"next_match"`
	PrevMatch  []string `toml:"prev_match"`
	Export     []string `toml:"export"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowLineNumbers bool   `toml:"show_line_numbers"`
	Highlight       bool   `toml:"highlight"`
	SyntaxTheme     string `toml:"syntax_theme"`
	ContextHeight   int    `toml:"context_height"`
	Mouse           bool   `toml:"mouse"`
}

// StreamConfig tunes input streaming
type StreamConfig struct {
	// BatchFactor times the screen height is the ingestion batch size
	BatchFactor       int `toml:"batch_factor"`
	StartupTimeoutMs  int `toml:"startup_timeout_ms"`
	RefreshIntervalMs int `toml:"refresh_interval_ms"`
	ChannelCapacity   int `toml:"channel_capacity"`
}

// DiagnosticsConfig controls the rotating diagnostic log
type DiagnosticsConfig struct {
	Enabled    bool   `toml:"enabled"`
	Dir        string `toml:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// StartupTimeout returns the wait for the first batch
func (s StreamConfig) StartupTimeout() time.Duration {
	return time.Duration(s.StartupTimeoutMs) * time.Millisecond
}

// RefreshInterval returns the redraw tick
func (s StreamConfig) RefreshInterval() time.Duration {
	return time.Duration(s.RefreshIntervalMs) * time.Millisecond
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:          "subtle",
			LineNumbers:   "240", // Dark gray
			StatusBar:     "236", // Darker gray background
			StatusBarText: "252", // Light gray text
			SearchMatch:   "226", // Yellow
			ContextBorder: "244", // Medium gray
			Notice:        "214", // Orange
		},
		Keybindings: KeybindingConfig{
			Quit:       []string{"q"},
			ScrollUp:   []string{"k", "up"},
			ScrollDown: []string{"j", "down"},
			PageUp:     []string{"pgup", "b"},
			PageDown:   []string{"pgdown", "f", " "},
			Top:        []string{"g", "home"},
			Bottom:     []string{"G", "end"},
			Search:     []string{"/"},
			NextMatch:  []string{"n"},
			PrevMatch:  []string{"N"},
			Export:     []string{"w"},
		},
		Display: DisplayConfig{
			ShowLineNumbers: false,
			Highlight:       true,
			SyntaxTheme:     "monokai",
			ContextHeight:   7,
			Mouse:           true,
		},
		Stream: StreamConfig{
			BatchFactor:       4,
			StartupTimeoutMs:  1000,
			RefreshIntervalMs: 200,
			ChannelCapacity:   64,
		},
		Diagnostics: DiagnosticsConfig{
			Enabled:    false,
			Dir:        "./.logs",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 7,
		},
	}
}

// Load loads config from the default path, falling back to defaults
func Load() (*Config, error) {
	return LoadFile(getConfigPath())
}

// LoadFile loads config from path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	return cfg, nil
}

// normalize replaces unusable values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Display.ContextHeight < 2 {
		c.Display.ContextHeight = def.Display.ContextHeight
	}
	if c.Stream.BatchFactor < 1 {
		c.Stream.BatchFactor = def.Stream.BatchFactor
	}
	if c.Stream.StartupTimeoutMs <= 0 {
		c.Stream.StartupTimeoutMs = def.Stream.StartupTimeoutMs
	}
	if c.Stream.RefreshIntervalMs <= 0 {
		c.Stream.RefreshIntervalMs = def.Stream.RefreshIntervalMs
	}
	if c.Stream.ChannelCapacity < 1 {
		c.Stream.ChannelCapacity = def.Stream.ChannelCapacity
	}
	if c.Diagnostics.Dir == "" {
		c.Diagnostics.Dir = def.Diagnostics.Dir
	}
}

// ApplyEnv reads the diagnostic toggle from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	switch strings.ToLower(strings.TrimSpace(getenv(EnvEnableTracing))) {
	case "1", "true":
		c.Diagnostics.Enabled = true
	}
}

// Save saves config to path
func Save(cfg *Config, path string) error {
	if path == "" {
		path = getConfigPath()
	}
	if path == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cpg", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "cpg", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
