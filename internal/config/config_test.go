package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DataDir != "~/.local/share/time-spectrum" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.History.Window != 7 {
		t.Errorf("History.Window = %d", cfg.History.Window)
	}
	if cfg.Analysis.TotalPolicy != "supplied" {
		t.Errorf("Analysis.TotalPolicy = %q", cfg.Analysis.TotalPolicy)
	}
	if diff := cmp.Diff([]string{"todo_rate", "deep_focus"}, cfg.Analysis.Metrics); diff != "" {
		t.Errorf("Analysis.Metrics (-want +got):\n%s", diff)
	}
	if !cfg.Archive.Compress {
		t.Error("Archive.Compress should default to true")
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("Watch.DebounceMS = %d", cfg.Watch.DebounceMS)
	}
}

func TestLoad_NoConfig(t *testing.T) {
	// Point XDG to an empty dir so no config file is found
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if strings.HasPrefix(cfg.DataDir, "~/") {
		t.Errorf("DataDir not expanded: %q", cfg.DataDir)
	}
	if !strings.HasSuffix(cfg.DataDir, ".local/share/time-spectrum") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if !strings.HasSuffix(cfg.Watch.Inbox, "time-spectrum/inbox") {
		t.Errorf("Watch.Inbox = %q", cfg.Watch.Inbox)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "time-spectrum")
	os.MkdirAll(configDir, 0o755)

	tomlContent := `data_dir = "/custom/data"
log_level = "DEBUG"

[history]
window = 5

[analysis]
total_policy = "items"
metrics = ["deep_focus"]

[archive]
compress = false

[watch]
inbox = "/custom/inbox"
debounce_ms = 250
`
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(tomlContent), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.History.Window != 5 {
		t.Errorf("History.Window = %d", cfg.History.Window)
	}
	if cfg.Analysis.TotalPolicy != "items" {
		t.Errorf("Analysis.TotalPolicy = %q", cfg.Analysis.TotalPolicy)
	}
	if diff := cmp.Diff([]string{"deep_focus"}, cfg.Analysis.Metrics); diff != "" {
		t.Errorf("Analysis.Metrics (-want +got):\n%s", diff)
	}
	if cfg.Archive.Compress {
		t.Error("Archive.Compress should be false")
	}
	if cfg.Watch.Inbox != "/custom/inbox" || cfg.Watch.DebounceMS != 250 {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	configDir := filepath.Join(xdg, "time-spectrum")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`data_dir = "~/my-data"`), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := filepath.Join(home, "my-data")
	if cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
}

func TestLoad_XDGPriority(t *testing.T) {
	xdg := t.TempDir()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", home)

	xdgDir := filepath.Join(xdg, "time-spectrum")
	os.MkdirAll(xdgDir, 0o755)
	os.WriteFile(filepath.Join(xdgDir, "config.toml"), []byte(`data_dir = "/from-xdg"`), 0o644)

	homeDir := filepath.Join(home, ".config", "time-spectrum")
	os.MkdirAll(homeDir, 0o755)
	os.WriteFile(filepath.Join(homeDir, "config.toml"), []byte(`data_dir = "/from-home"`), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != "/from-xdg" {
		t.Errorf("DataDir = %q, want /from-xdg (XDG should take priority)", cfg.DataDir)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "time-spectrum")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`data_dir = [broken`), 0o644)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestValidate_ResetsBadValues(t *testing.T) {
	cfg := Config{
		LogLevel: "loud",
		History:  HistoryConfig{Window: 30},
		Analysis: AnalysisConfig{TotalPolicy: "max"},
		Watch:    WatchConfig{DebounceMS: -1},
	}
	cfg.Validate()

	def := DefaultConfig()
	if cfg.LogLevel != def.LogLevel {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.History.Window != 7 {
		t.Errorf("History.Window = %d, want capped at 7", cfg.History.Window)
	}
	if cfg.Analysis.TotalPolicy != "supplied" {
		t.Errorf("Analysis.TotalPolicy = %q", cfg.Analysis.TotalPolicy)
	}
	if len(cfg.Analysis.Metrics) != 2 {
		t.Errorf("Analysis.Metrics = %v", cfg.Analysis.Metrics)
	}
	if cfg.DataDir != def.DataDir || cfg.Watch.Inbox != def.Watch.Inbox {
		t.Errorf("paths = %q, %q", cfg.DataDir, cfg.Watch.Inbox)
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("Watch.DebounceMS = %d", cfg.Watch.DebounceMS)
	}
}

func TestDataPaths(t *testing.T) {
	cfg := Config{DataDir: "/home/user/.local/share/time-spectrum"}

	if got := cfg.HistoryDB(); got != "/home/user/.local/share/time-spectrum/history.db" {
		t.Errorf("HistoryDB = %q", got)
	}
	if got := cfg.ArchiveDir(); got != "/home/user/.local/share/time-spectrum/archive" {
		t.Errorf("ArchiveDir = %q", got)
	}
}
