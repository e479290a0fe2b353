package light

import (
	"fmt"

	"github.com/johns/time-spectrum/internal/classify"
	"github.com/johns/time-spectrum/internal/spectrum"
)

// NoTodos is the todo summary for a day without any todo data.
const NoTodos = "无待办记录"

// Quality holds the cross-category attention ratios for one day.
// Ratios are over the effective duration: the day minus neutral
// subsistence time (body maintenance and routine life).
type Quality struct {
	EffectiveMin int `json:"effective_min"`

	FocusRatio   float64 `json:"focus_ratio"`
	ScatterRatio float64 `json:"scatter_ratio"`
	ActiveRatio  float64 `json:"active_ratio"`
	PassiveRatio float64 `json:"passive_ratio"`

	FocusPct   string `json:"focus_pct"`
	ScatterPct string `json:"scatter_pct"`
	ActivePct  string `json:"active_pct"`
	PassivePct string `json:"passive_pct"`

	TodoCompleted int      `json:"todo_completed"`
	TodoTotal     int      `json:"todo_total"`
	TodoRatio     *float64 `json:"todo_ratio"` // nil when there were no todos
	TodoStr       string   `json:"todo_str"`
}

// Compute derives the light-quality readings from an aggregated spectrum.
func Compute(items []spectrum.Item, totalMin int, todos classify.Todos) Quality {
	neutral, focus, active := 0, 0, 0
	for _, it := range items {
		switch classify.Lookup(it.Category).Group {
		case classify.GroupNeutral:
			neutral += it.DurationMin
		case classify.GroupActive:
			active += it.DurationMin
		}
		if it.Category == classify.DeepFocus {
			focus += it.DurationMin
		}
	}

	effective := totalMin - neutral
	if effective < 0 {
		effective = 0
	}

	q := Quality{EffectiveMin: effective}
	if effective > 0 {
		q.FocusRatio = spectrum.Ratio(focus, effective)
		q.ScatterRatio = 1 - q.FocusRatio
		q.ActiveRatio = spectrum.Ratio(active, effective)
		q.PassiveRatio = 1 - q.ActiveRatio
	}

	q.FocusPct, q.ScatterPct = complementPcts(q.FocusRatio, effective > 0)
	q.ActivePct, q.PassivePct = complementPcts(q.ActiveRatio, effective > 0)

	q.TodoCompleted, q.TodoTotal = todos.Completed, todos.Total
	if q.TodoCompleted < 0 {
		q.TodoCompleted = 0
	}
	if q.TodoTotal > 0 {
		if q.TodoCompleted > q.TodoTotal {
			q.TodoCompleted = q.TodoTotal
		}
		r := spectrum.Ratio(q.TodoCompleted, q.TodoTotal)
		q.TodoRatio = &r
		q.TodoStr = fmt.Sprintf("%d/%d (%s)", q.TodoCompleted, q.TodoTotal, spectrum.Percent(r))
	} else {
		q.TodoTotal = 0
		q.TodoStr = NoTodos
	}

	return q
}

// complementPcts renders a ratio and its complement so the two strings
// always add up to 100% when defined.
func complementPcts(r float64, defined bool) (string, string) {
	if !defined {
		return "0%", "0%"
	}
	p := spectrum.PercentInt(r)
	return fmt.Sprintf("%d%%", p), fmt.Sprintf("%d%%", 100-p)
}
