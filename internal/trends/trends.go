package trends

import (
	"fmt"
	"math"

	"github.com/johns/time-spectrum/internal/classify"
	"github.com/johns/time-spectrum/internal/light"
	"github.com/johns/time-spectrum/internal/spectrum"
)

const (
	Window     = 7    // most recent prior days considered
	MaxSignals = 2    // signals surfaced per report
	FlatBand   = 5.0  // |delta| at or below this is "flat"
	WarnDrop   = 10.0 // percentage-point drop that warns for ratio metrics
	WarnShare  = 0.6  // share of the average below which duration metrics warn
	MinStreak  = 3    // rising steps needed for ConsecutiveUp
)

// Metric names a tracked day-level value.
type Metric string

const (
	MetricTodoRate  Metric = "todo_rate"
	MetricDeepFocus Metric = "deep_focus"
)

// DefaultMetrics is the metric set used when the caller names none.
var DefaultMetrics = []Metric{MetricTodoRate, MetricDeepFocus}

// ParseMetric maps a config value to a Metric. The bool is false for
// names the analyzer does not know.
func ParseMetric(s string) (Metric, bool) {
	m := Metric(s)
	_, ok := definitions[m]
	return m, ok
}

// Direction is the coarse movement of today's value against the average.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

// Glyph returns the arrow shown in reports.
func (d Direction) Glyph() string {
	switch d {
	case Up:
		return "↑"
	case Down:
		return "↓"
	default:
		return "→"
	}
}

// Snapshot is the slice of a computed day the analyzer looks at.
type Snapshot struct {
	DeepFocusMin int      `json:"deep_focus_min"`
	TodoRatio    *float64 `json:"todo_ratio,omitempty"`
}

// SnapshotOf extracts the tracked values from a day's spectrum and light quality.
func SnapshotOf(items []spectrum.Item, q light.Quality) Snapshot {
	return Snapshot{
		DeepFocusMin: spectrum.Duration(items, classify.DeepFocus),
		TodoRatio:    q.TodoRatio,
	}
}

// Signal compares today's value of one metric with its recent average.
type Signal struct {
	Metric          Metric    `json:"metric"`
	Name            string    `json:"name"`
	Today           string    `json:"today"`
	Average         string    `json:"average"`
	Delta           int       `json:"delta"` // percentage points, rounded
	Direction       Direction `json:"direction"`
	IsPositive      bool      `json:"is_positive"`
	IsWarning       bool      `json:"is_warning"`
	ConsecutiveDays int       `json:"consecutive_days,omitempty"`
	ConsecutiveUp   bool      `json:"consecutive_up,omitempty"`
}

type definition struct {
	name      string
	minPoints int
	streak    bool
	value     func(Snapshot) (float64, bool)
	delta     func(today, avg float64) float64
	warn      func(today, avg, delta float64) bool
	format    func(float64) string
}

var definitions = map[Metric]definition{
	MetricTodoRate: {
		name:      "待办落地率",
		minPoints: 3,
		value: func(s Snapshot) (float64, bool) {
			if s.TodoRatio == nil {
				return 0, false
			}
			return *s.TodoRatio, true
		},
		delta: func(today, avg float64) float64 { return (today - avg) * 100 },
		warn:  func(_, _, delta float64) bool { return delta < -WarnDrop },
		format: func(v float64) string {
			return spectrum.Percent(v)
		},
	},
	MetricDeepFocus: {
		name:      "深度专注时长",
		minPoints: 2,
		streak:    true,
		value: func(s Snapshot) (float64, bool) {
			return float64(s.DeepFocusMin), true
		},
		delta: func(today, avg float64) float64 {
			if avg <= 0 {
				if today > 0 {
					return 100
				}
				return 0
			}
			return (today - avg) / avg * 100
		},
		warn: func(today, avg, _ float64) bool { return avg > 0 && today < WarnShare*avg },
		format: func(v float64) string {
			return spectrum.FormatDuration(int(math.Round(v)))
		},
	},
}

// Analyze compares today against up to Window prior days (oldest first).
// Metrics without enough history, or undefined today, produce no signal.
// At most MaxSignals signals are returned.
func Analyze(today Snapshot, history []Snapshot, metrics ...Metric) []Signal {
	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}
	if len(history) > Window {
		history = history[len(history)-Window:]
	}

	var signals []Signal
	for _, m := range metrics {
		if len(signals) >= MaxSignals {
			break
		}
		def, ok := definitions[m]
		if !ok {
			continue
		}
		if s, ok := analyzeMetric(m, def, today, history); ok {
			signals = append(signals, s)
		}
	}
	return signals
}

func analyzeMetric(m Metric, def definition, today Snapshot, history []Snapshot) (Signal, bool) {
	todayVal, ok := def.value(today)
	if !ok {
		return Signal{}, false
	}

	var values []float64
	for _, h := range history {
		if v, ok := def.value(h); ok {
			values = append(values, v)
		}
	}
	if len(values) < def.minPoints {
		return Signal{}, false
	}

	average, _ := avg(values)
	rawDelta := def.delta(todayVal, average)
	delta := int(math.Round(rawDelta))

	s := Signal{
		Metric:    m,
		Name:      def.name,
		Today:     def.format(todayVal),
		Average:   def.format(average),
		Delta:     delta,
		Direction: direction(delta),
		IsWarning: def.warn(todayVal, average, rawDelta),
	}

	series := append(append([]float64(nil), values...), todayVal)
	// Positivity follows the sign of the delta; the flat band only shapes Direction.
	s.IsPositive = rawDelta > 0 && (!def.streak || nonDecreasing(series))
	if def.streak {
		s.ConsecutiveDays = risingRun(series)
		s.ConsecutiveUp = s.ConsecutiveDays >= MinStreak
	}
	return s, true
}

func direction(delta int) Direction {
	switch {
	case float64(delta) > FlatBand:
		return Up
	case float64(delta) < -FlatBand:
		return Down
	default:
		return Flat
	}
}

// --- Helpers ---

// avg computes the arithmetic mean. Returns (0, false) if slice is empty.
func avg(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), true
}

func nonDecreasing(vals []float64) bool {
	for i := 1; i < len(vals); i++ {
		if vals[i] < vals[i-1] {
			return false
		}
	}
	return true
}

// risingRun counts strictly increasing steps ending at the last value.
func risingRun(vals []float64) int {
	n := 0
	for i := len(vals) - 1; i > 0; i-- {
		if vals[i] <= vals[i-1] {
			break
		}
		n++
	}
	return n
}

// String renders a one-line summary, e.g. "深度专注时长 2h 30min (近期均值 1h 30min) ↑ +67%".
func (s Signal) String() string {
	unit := "%"
	if s.Metric == MetricTodoRate {
		unit = "pt"
	}
	return fmt.Sprintf("%s %s (近期均值 %s) %s %+d%s", s.Name, s.Today, s.Average, s.Direction.Glyph(), s.Delta, unit)
}
