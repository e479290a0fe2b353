package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const appName = "time-spectrum"

// Config holds all time-spectrum configuration.
type Config struct {
	DataDir  string `toml:"data_dir"`
	LogLevel string `toml:"log_level"`

	History  HistoryConfig  `toml:"history"`
	Analysis AnalysisConfig `toml:"analysis"`
	Archive  ArchiveConfig  `toml:"archive"`
	Watch    WatchConfig    `toml:"watch"`
}

type HistoryConfig struct {
	Window int `toml:"window"` // prior days fed to the trend analyzer
}

type AnalysisConfig struct {
	TotalPolicy string   `toml:"total_policy"` // "supplied" or "items"
	Metrics     []string `toml:"metrics"`
}

type ArchiveConfig struct {
	Compress bool `toml:"compress"`
}

type WatchConfig struct {
	Inbox      string `toml:"inbox"`
	DebounceMS int    `toml:"debounce_ms"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:  "~/.local/share/time-spectrum",
		LogLevel: "info",
		History: HistoryConfig{
			Window: 7,
		},
		Analysis: AnalysisConfig{
			TotalPolicy: "supplied",
			Metrics:     []string{"todo_rate", "deep_focus"},
		},
		Archive: ArchiveConfig{
			Compress: true,
		},
		Watch: WatchConfig{
			Inbox:      "~/.local/share/time-spectrum/inbox",
			DebounceMS: 500,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.Validate()

	// Expand ~ in paths
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Watch.Inbox = expandHome(cfg.Watch.Inbox)

	return cfg, nil
}

// Validate resets out-of-range values to their defaults.
func (c *Config) Validate() {
	def := DefaultConfig()

	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = def.LogLevel
	}
	if c.History.Window <= 0 || c.History.Window > def.History.Window {
		c.History.Window = def.History.Window
	}
	switch c.Analysis.TotalPolicy {
	case "supplied", "items":
	default:
		c.Analysis.TotalPolicy = def.Analysis.TotalPolicy
	}
	if len(c.Analysis.Metrics) == 0 {
		c.Analysis.Metrics = def.Analysis.Metrics
	}
	if c.Watch.Inbox == "" {
		c.Watch.Inbox = def.Watch.Inbox
	}
	if c.Watch.DebounceMS < 0 {
		c.Watch.DebounceMS = def.Watch.DebounceMS
	}
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appName, "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// HistoryDB returns the path of the SQLite history database.
func (c Config) HistoryDB() string {
	return filepath.Join(c.DataDir, "history.db")
}

// ArchiveDir returns the directory holding compressed raw classifier output.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.DataDir, "archive")
}
