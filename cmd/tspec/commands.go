package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/johns/time-spectrum/internal/archive"
	"github.com/johns/time-spectrum/internal/capture"
	"github.com/johns/time-spectrum/internal/config"
	"github.com/johns/time-spectrum/internal/engine"
	"github.com/johns/time-spectrum/internal/history"
	"github.com/johns/time-spectrum/internal/report"
	"github.com/johns/time-spectrum/internal/spectrum"
	"github.com/johns/time-spectrum/internal/watch"
)

const doneDir = "done"

func runCompute(cfg config.Config, log *zap.Logger, args []string) error {
	fs := newFlagSet("compute")
	date := fs.String("date", "", "day being computed, YYYY-MM-DD (default today)")
	moods := fs.StringArray("mood", nil, `mood note "HH:MM text", repeatable`)
	asJSON := fs.Bool("json", false, "print the computed result as JSON")
	noSave := fs.Bool("no-save", false, "do not store or archive the result")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: tspec compute [flags] <file.json|->")
	}

	raw, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}

	day := *date
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}
	var records []engine.MoodRecord
	for _, m := range *moods {
		rec, err := capture.ParseMood(m, day)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	c := &capture.Capturer{Config: cfg, Store: store, Log: log}
	res, err := c.Capture(context.Background(), capture.Request{
		Raw:   raw,
		Date:  day,
		Moods: records,
		Save:  !*noSave,
	})
	if err != nil {
		return fmt.Errorf("compute: %w", err)
	}
	return printResult(res.Computed, *asJSON)
}

func runReplay(cfg config.Config, log *zap.Logger, args []string) error {
	fs := newFlagSet("replay")
	asJSON := fs.Bool("json", false, "print the computed result as JSON")
	noSave := fs.Bool("no-save", false, "do not replace the stored result")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: tspec replay [--json] <date>")
	}
	date := fs.Arg(0)

	raw, err := archive.Read(date, cfg.ArchiveDir())
	if err != nil {
		return fmt.Errorf("replay %s: %w", date, err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Stored moods belong to the day, not to the archived classifier output.
	var moods []engine.MoodRecord
	if prev, ok, err := store.Get(context.Background(), date); err == nil && ok {
		moods = prev.Moods
	}

	c := &capture.Capturer{Config: cfg, Store: store, Log: log}
	res, err := c.Capture(context.Background(), capture.Request{
		Raw:   raw,
		Date:  date,
		Moods: moods,
		Save:  !*noSave,
	})
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	return printResult(res.Computed, *asJSON)
}

func runShow(cfg config.Config, args []string) error {
	fs := newFlagSet("show")
	asJSON := fs.Bool("json", false, "print the stored result as JSON")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: tspec show [--json] <date>")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	r, ok, err := store.Get(context.Background(), fs.Arg(0))
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	if !ok {
		return fmt.Errorf("no stored result for %s", fs.Arg(0))
	}
	return printResult(r, *asJSON)
}

func runHistory(cfg config.Config, args []string) error {
	fs := newFlagSet("history")
	limit := fs.Int("limit", engine.HistoryCap, "number of days to list (0 for all)")
	fs.Parse(args)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), *limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("暂无历史记录")
		return nil
	}

	archiveDir := cfg.ArchiveDir()
	for _, e := range entries {
		mark := ""
		if archive.IsArchived(e.Date, archiveDir) {
			mark = "  [已归档]"
		}
		fmt.Printf("%s  总计 %-10s 深度专注 %-10s 待办 %s%s\n",
			e.Date,
			spectrum.FormatDuration(e.TotalDurationMin),
			spectrum.FormatDuration(e.DeepFocusMin),
			e.TodoStr,
			mark)
	}
	return nil
}

func runWatch(cfg config.Config, log *zap.Logger, args []string) error {
	fs := newFlagSet("watch")
	inbox := fs.String("inbox", cfg.Watch.Inbox, "directory to watch for classifier output")
	backlog := fs.Bool("backlog", false, "process files already in the inbox first")
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	c := &capture.Capturer{Config: cfg, Store: store, Log: log}
	handle := func(ctx context.Context, path, date string) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		res, err := c.Capture(ctx, capture.Request{Raw: raw, Date: date, Save: true})
		if err != nil {
			return err
		}
		if err := printResult(res.Computed, false); err != nil {
			return err
		}
		return markDone(path)
	}

	w := watch.New(*inbox, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, handle, log)
	if *backlog {
		failed, err := w.Backlog(ctx)
		if err != nil {
			return fmt.Errorf("backlog: %w", err)
		}
		if failed > 0 {
			log.Warn("some backlog files failed", zap.Int("failed", failed))
		}
	}

	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

func runInit(args []string) {
	fs := newFlagSet("init")
	dataDir := fs.String("data-dir", config.DefaultConfig().DataDir, "where history and archives are kept")
	fs.Parse(args)

	path, err := config.WriteDefault(*dataDir)
	if err != nil {
		fatal("init: %v", err)
	}
	fmt.Printf("config: %s\n", path)
}

func openStore(cfg config.Config) (*history.Store, error) {
	return history.Open(cfg.HistoryDB())
}

func readInput(arg string) ([]byte, error) {
	if arg == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return raw, nil
}

func printResult(r engine.ComputedResult, asJSON bool) error {
	if asJSON {
		if err := report.WriteJSON(os.Stdout, r); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		return nil
	}
	out := report.Format(r)
	if out == "" {
		fmt.Fprintf(os.Stderr, "%s: 无可展示的内容\n", r.Date)
		return nil
	}
	fmt.Print(out)
	return nil
}

// markDone moves a processed inbox file into the done/ subdirectory.
func markDone(path string) error {
	dir := filepath.Join(filepath.Dir(path), doneDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create done dir: %w", err)
	}
	if err := os.Rename(path, filepath.Join(dir, filepath.Base(path))); err != nil {
		return fmt.Errorf("move processed file: %w", err)
	}
	return nil
}
