package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johns/time-spectrum/internal/archive"
	"github.com/johns/time-spectrum/internal/config"
	"github.com/johns/time-spectrum/internal/engine"
	"github.com/johns/time-spectrum/internal/history"
	"github.com/johns/time-spectrum/internal/trends"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "tspec check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("tspec check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports whether a config file exists. A missing file is not
// an error: defaults apply.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	if _, err := os.Stat(cfgPath); err != nil {
		return Result{Name: "config", Status: Warn, Detail: config.CompressHome(cfgPath) + " not found, using defaults (tspec init)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(cfgPath)}
}

// CheckDataDir checks whether the data directory exists.
func CheckDataDir(path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: "data", Status: Warn, Detail: config.CompressHome(path) + " not found (created on first compute)"}
	}
	if !info.IsDir() {
		return Result{Name: "data", Status: Fail, Detail: config.CompressHome(path) + " is not a directory"}
	}
	return Result{Name: "data", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckHistory opens the history database and reports how many days it holds.
func CheckHistory(ctx context.Context, dbPath string) Result {
	if _, err := os.Stat(dbPath); err != nil {
		return Result{Name: "history", Status: Warn, Detail: "history.db not found yet"}
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return Result{Name: "history", Status: Fail, Detail: err.Error()}
	}
	defer store.Close()

	entries, err := store.List(ctx, 0)
	if err != nil {
		return Result{Name: "history", Status: Fail, Detail: "history.db unreadable: " + err.Error()}
	}
	detail := fmt.Sprintf("history.db (%d days)", len(entries))
	if len(entries) > 0 {
		detail = fmt.Sprintf("history.db (%d days, latest %s)", len(entries), entries[0].Date)
	}
	if len(entries) > engine.HistoryCap {
		return Result{Name: "history", Status: Warn, Detail: detail + ", will be pruned on next save"}
	}
	return Result{Name: "history", Status: Pass, Detail: detail}
}

// CheckArchive reports archived day count, or that archiving is off.
func CheckArchive(dir string, enabled bool) Result {
	if !enabled {
		return Result{Name: "archive", Status: Pass, Detail: "disabled"}
	}
	dates, err := archive.Dates(dir)
	if err != nil {
		return Result{Name: "archive", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "archive", Status: Pass, Detail: fmt.Sprintf("%s (%d days)", config.CompressHome(dir), len(dates))}
}

// CheckInbox checks the watch inbox and counts files waiting in it.
func CheckInbox(dir string) Result {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{Name: "inbox", Status: Warn, Detail: config.CompressHome(dir) + " not found (created by tspec watch)"}
	}
	pending := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			pending++
		}
	}
	return Result{Name: "inbox", Status: Pass, Detail: fmt.Sprintf("%s (%d pending)", config.CompressHome(dir), pending)}
}

// CheckMetrics flags configured trend metrics the analyzer does not know.
func CheckMetrics(names []string) Result {
	var unknown []string
	for _, n := range names {
		if _, ok := trends.ParseMetric(n); !ok {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return Result{Name: "metrics", Status: Warn, Detail: "unknown: " + strings.Join(unknown, ", ")}
	}
	return Result{Name: "metrics", Status: Pass, Detail: strings.Join(names, ", ")}
}

// Run executes all checks against the given config and returns a report.
func Run(ctx context.Context, cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckDataDir(cfg.DataDir))
	results = append(results, CheckHistory(ctx, cfg.HistoryDB()))
	results = append(results, CheckArchive(cfg.ArchiveDir(), cfg.Archive.Compress))
	results = append(results, CheckInbox(cfg.Watch.Inbox))
	results = append(results, CheckMetrics(cfg.Analysis.Metrics))

	return Report{Results: results}
}
