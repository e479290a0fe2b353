package engine

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/johns/time-spectrum/internal/classify"
	"github.com/johns/time-spectrum/internal/gravity"
	"github.com/johns/time-spectrum/internal/light"
	"github.com/johns/time-spectrum/internal/spectrum"
	"github.com/johns/time-spectrum/internal/trends"
)

// TotalPolicy chooses the ratio denominator when the supplied total and
// the sum of item durations disagree.
type TotalPolicy string

const (
	TotalSupplied TotalPolicy = "supplied" // classifier's total_duration_min
	TotalItems    TotalPolicy = "items"    // sum of item durations
)

// MoodRecord is a free-text mood note from the day's log.
type MoodRecord struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// ComputedResult is everything derived for one day.
type ComputedResult struct {
	Date             string                 `json:"date,omitempty"` // YYYY-MM-DD
	TotalDurationMin int                    `json:"total_duration_min"`
	TotalDurationStr string                 `json:"total_duration_str"`
	ItemsDurationMin int                    `json:"items_duration_min"`
	Spectrum         []spectrum.Item        `json:"spectrum"`
	Light            light.Quality          `json:"light_quality"`
	Gravity          *string                `json:"gravity_mismatch,omitempty"`
	Energy           []classify.EnergyEntry `json:"energy_log"`
	Items            []classify.Item        `json:"items"`
	Trends           []trends.Signal        `json:"trends,omitempty"`
	Moods            []MoodRecord           `json:"moods,omitempty"`
	Warnings         []string               `json:"warnings,omitempty"`
}

// Snapshot returns the values the trend analyzer tracks for this day.
func (r ComputedResult) Snapshot() trends.Snapshot {
	return trends.SnapshotOf(r.Spectrum, r.Light)
}

// Options carries the caller-owned inputs for one computation.
type Options struct {
	Date        string
	Moods       []MoodRecord
	History     History // prior days, oldest first
	TotalPolicy TotalPolicy
	Metrics     []trends.Metric
	Logger      *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// ComputeRaw normalizes raw classifier output and computes the day.
// A tier-3 fallback is logged and recorded in Warnings, never returned as an error.
func ComputeRaw(raw string, opts Options) (ComputedResult, classify.Tier) {
	p := classify.Parse(raw)
	log := opts.logger()

	if p.Tier == classify.TierEmpty {
		log.Warn("classifier output unusable, using empty day",
			zap.String("date", opts.Date),
			zap.String("reason", p.Warning))
	} else {
		log.Debug("classifier output parsed",
			zap.String("date", opts.Date),
			zap.Stringer("tier", p.Tier),
			zap.Int("items", len(p.Data.Items)))
	}

	r := Compute(p.Data, opts)
	if p.Warning != "" {
		r.Warnings = append([]string{p.Warning}, r.Warnings...)
	}
	return r, p.Tier
}

// Compute runs the aggregation pipeline on validated data. Every field of
// the result is rebuilt from the inputs; neither data nor opts is modified.
func Compute(data classify.Data, opts Options) ComputedResult {
	log := opts.logger()
	itemsTotal := data.ItemsDuration()

	total := data.TotalDurationMin
	var warnings []string
	if total != itemsTotal {
		msg := fmt.Sprintf("supplied total %dmin differs from item sum %dmin", total, itemsTotal)
		warnings = append(warnings, msg)
		log.Warn("duration totals disagree",
			zap.String("date", opts.Date),
			zap.Int("supplied", total),
			zap.Int("items", itemsTotal),
			zap.String("policy", string(opts.policy())))
		if opts.policy() == TotalItems {
			total = itemsTotal
		}
	}

	items := append([]classify.Item{}, data.Items...)
	energy := append([]classify.EnergyEntry{}, data.EnergyLog...)

	spec := spectrum.Aggregate(items, total)
	quality := light.Compute(spec, total, data.Todos)

	history := opts.History.Window(trends.Window)
	today := trends.SnapshotOf(spec, quality)
	signals := trends.Analyze(today, history.Snapshots(), opts.Metrics...)

	return ComputedResult{
		Date:             opts.Date,
		TotalDurationMin: total,
		TotalDurationStr: spectrum.FormatDuration(total),
		ItemsDurationMin: itemsTotal,
		Spectrum:         spec,
		Light:            quality,
		Gravity:          gravity.Detect(items, energy),
		Energy:           energy,
		Items:            items,
		Trends:           signals,
		Moods:            sortMoods(opts.Moods),
		Warnings:         warnings,
	}
}

func (o Options) policy() TotalPolicy {
	if o.TotalPolicy == TotalItems {
		return TotalItems
	}
	return TotalSupplied
}

// ParsePolicy maps a config value to a TotalPolicy, defaulting to TotalSupplied.
func ParsePolicy(s string) (TotalPolicy, bool) {
	switch TotalPolicy(s) {
	case TotalSupplied, "":
		return TotalSupplied, true
	case TotalItems:
		return TotalItems, true
	default:
		return TotalSupplied, false
	}
}

func sortMoods(moods []MoodRecord) []MoodRecord {
	if len(moods) == 0 {
		return nil
	}
	out := append([]MoodRecord{}, moods...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}
