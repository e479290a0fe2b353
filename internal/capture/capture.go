package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johns/time-spectrum/internal/archive"
	"github.com/johns/time-spectrum/internal/classify"
	"github.com/johns/time-spectrum/internal/config"
	"github.com/johns/time-spectrum/internal/engine"
	"github.com/johns/time-spectrum/internal/history"
	"github.com/johns/time-spectrum/internal/trends"
)

const dateLayout = "2006-01-02"

// Request is one day of classifier output to compute.
type Request struct {
	Raw   []byte
	Date  string // YYYY-MM-DD; empty means today
	Moods []engine.MoodRecord
	Save  bool // persist to history and archive
}

// Result holds the output of a capture.
type Result struct {
	Computed    engine.ComputedResult
	Tier        classify.Tier
	HistoryDays int
	Saved       bool
	Pruned      int64
	ArchivePath string
}

// Capturer runs the compute pipeline against the configured history store.
// Store may be nil, in which case no history is loaded or saved.
type Capturer struct {
	Config config.Config
	Store  *history.Store
	Log    *zap.Logger
	Now    func() time.Time
}

// Capture loads prior days, computes the result, and optionally persists it.
func (c *Capturer) Capture(ctx context.Context, req Request) (*Result, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	date := req.Date
	if date == "" {
		date = c.now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	var prior engine.History
	if c.Store != nil {
		h, err := c.Store.Recent(ctx, date, c.Config.History.Window)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		prior = h
	}

	opts := engine.Options{
		Date:        date,
		Moods:       req.Moods,
		History:     prior,
		TotalPolicy: c.policy(log),
		Metrics:     c.metrics(log),
		Logger:      log,
	}
	computed, tier := engine.ComputeRaw(string(req.Raw), opts)

	res := &Result{Computed: computed, Tier: tier, HistoryDays: len(prior)}
	if !req.Save || c.Store == nil {
		return res, nil
	}

	if err := c.Store.Save(ctx, computed); err != nil {
		return nil, err
	}
	res.Saved = true

	pruned, err := c.Store.Prune(ctx, engine.HistoryCap)
	if err != nil {
		log.Warn("could not prune history", zap.Error(err))
	}
	res.Pruned = pruned
	if pruned > 0 {
		// A backfilled day older than the retained window is pruned right away.
		if _, ok, err := c.Store.Get(ctx, date); err == nil && !ok {
			res.Saved = false
			log.Warn("day is older than retained history, not kept",
				zap.String("date", date), zap.Int("keep", engine.HistoryCap))
		}
	}

	if c.Config.Archive.Compress {
		path, err := archive.Write(date, req.Raw, c.Config.ArchiveDir())
		if err != nil {
			log.Warn("could not archive classifier output", zap.String("date", date), zap.Error(err))
		} else {
			res.ArchivePath = path
		}
	}

	log.Info("day captured",
		zap.String("date", date),
		zap.Stringer("tier", tier),
		zap.Int("history_days", len(prior)),
		zap.Int("signals", len(computed.Trends)))
	return res, nil
}

func (c *Capturer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Capturer) policy(log *zap.Logger) engine.TotalPolicy {
	p, ok := engine.ParsePolicy(c.Config.Analysis.TotalPolicy)
	if !ok {
		log.Warn("unknown total policy, using supplied", zap.String("policy", c.Config.Analysis.TotalPolicy))
	}
	return p
}

func (c *Capturer) metrics(log *zap.Logger) []trends.Metric {
	var out []trends.Metric
	for _, name := range c.Config.Analysis.Metrics {
		m, ok := trends.ParseMetric(name)
		if !ok {
			log.Warn("unknown trend metric ignored", zap.String("metric", name))
			continue
		}
		out = append(out, m)
	}
	return out
}

// ParseMood parses a "HH:MM text" note into a MoodRecord on date.
func ParseMood(s, date string) (engine.MoodRecord, error) {
	s = strings.TrimSpace(s)
	clock, text, ok := strings.Cut(s, " ")
	if !ok || strings.TrimSpace(text) == "" {
		return engine.MoodRecord{}, fmt.Errorf("mood %q: want \"HH:MM text\"", s)
	}
	at, err := time.ParseInLocation(dateLayout+" 15:04", date+" "+clock, time.Local)
	if err != nil {
		return engine.MoodRecord{}, fmt.Errorf("mood %q: %w", s, err)
	}
	return engine.MoodRecord{At: at, Text: strings.TrimSpace(text)}, nil
}
