package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the time-spectrum config directory path.
// Uses $XDG_CONFIG_HOME/time-spectrum if set, otherwise ~/.config/time-spectrum.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// WriteDefault writes a default config.toml using dataDir.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(dataDir string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	portable := CompressHome(dataDir)

	content := fmt.Sprintf(`data_dir = %q
log_level = "info"

[history]
window = 7

[analysis]
total_policy = "supplied"
metrics = ["todo_rate", "deep_focus"]

[archive]
compress = true

[watch]
inbox = %q
debounce_ms = 500
`, portable, portable+"/inbox")

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
