package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/johns/time-spectrum/internal/classify"
	"github.com/johns/time-spectrum/internal/engine"
	"github.com/johns/time-spectrum/internal/spectrum"
	"github.com/johns/time-spectrum/internal/trends"
)

// Section headers, in output order.
const (
	HeaderEvents   = "【今日事件】"
	HeaderMoods    = "【心情记录】"
	HeaderSpectrum = "【时间光谱】"
	HeaderLight    = "【光的质量】"
	HeaderEnergy   = "【能量曲线】"
	HeaderGravity  = "【引力错位】"
	HeaderTrends   = "【趋势信号】"
)

const (
	SignificantMin = 10 // items at least this long are always listed
	TopN           = 5  // otherwise the longest TopN are listed
)

var energyFill = map[classify.EnergyLevel]float64{
	classify.EnergyHigh:   1.0,
	classify.EnergyMedium: 0.5,
	classify.EnergyLow:    0.25,
}

// Format renders a computed day as the text block handed to the narrative
// generator. Sections without content are left out entirely, so an empty
// day renders as "".
func Format(r engine.ComputedResult) string {
	sections := []string{
		formatEvents(r.Items),
		formatMoods(r.Moods),
		formatSpectrum(r),
		formatLight(r),
		formatEnergy(r.Energy),
		formatGravity(r.Gravity),
		formatTrends(r.Trends),
	}

	var b strings.Builder
	for _, s := range sections {
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
	}
	return b.String()
}

// Significant returns the indexes of items worth listing, in input order:
// every item of at least SignificantMin minutes, or the TopN longest,
// whichever set is larger.
func Significant(items []classify.Item) []int {
	var long []int
	for i, it := range items {
		if it.DurationMin >= SignificantMin {
			long = append(long, i)
		}
	}

	top := make([]int, len(items))
	for i := range items {
		top[i] = i
	}
	sort.SliceStable(top, func(a, b int) bool {
		return items[top[a]].DurationMin > items[top[b]].DurationMin
	})
	if len(top) > TopN {
		top = top[:TopN]
	}
	sort.Ints(top)

	if len(top) > len(long) {
		return top
	}
	return long
}

func formatEvents(items []classify.Item) string {
	if len(items) == 0 {
		return ""
	}

	keep := Significant(items)
	bySlot := make(map[classify.TimeSlot][]classify.Item)
	for _, i := range keep {
		it := items[i]
		bySlot[it.Slot] = append(bySlot[it.Slot], it)
	}

	var b strings.Builder
	b.WriteString(HeaderEvents + "\n")
	for _, slot := range append(append([]classify.TimeSlot{}, classify.Slots...), classify.SlotNone) {
		group := bySlot[slot]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s\n", slot.Label())
		for _, it := range group {
			name := it.Name
			if name == "" {
				name = "未命名活动"
			}
			marker := ""
			if it.Flag == classify.FlagAmbiguous {
				marker = " (?)"
			}
			fmt.Fprintf(&b, "  - %s %s [%s]%s\n",
				name, spectrum.FormatDuration(it.DurationMin), classify.Lookup(it.Category).Label, marker)
		}
	}
	if omitted := len(items) - len(keep); omitted > 0 {
		fmt.Fprintf(&b, "  (另有 %d 项零碎活动未列出)\n", omitted)
	}
	return b.String()
}

func formatMoods(moods []engine.MoodRecord) string {
	if len(moods) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(HeaderMoods + "\n")
	for _, m := range moods {
		if m.At.IsZero() {
			fmt.Fprintf(&b, "  - %s\n", m.Text)
			continue
		}
		fmt.Fprintf(&b, "  - %s %s\n", m.At.Format("15:04"), m.Text)
	}
	return b.String()
}

func formatSpectrum(r engine.ComputedResult) string {
	var lines []string
	for _, si := range r.Spectrum {
		if si.DurationMin <= 0 {
			continue
		}
		line := fmt.Sprintf("  %s %-6s %s %4s  %s", si.Icon, si.Label, si.Bar, si.PercentStr, si.DurationStr)
		if si.IsAnomaly {
			line += "  ⚠ 占比过高"
		}
		if si.TopItem != nil {
			line += fmt.Sprintf("  (主要: %s %s)", si.TopItem.Name, si.TopItem.DurationStr)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}
	return fmt.Sprintf("%s 总计 %s\n%s\n", HeaderSpectrum, r.TotalDurationStr, strings.Join(lines, "\n"))
}

func formatLight(r engine.ComputedResult) string {
	q := r.Light
	if q.EffectiveMin <= 0 && q.TodoTotal <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(HeaderLight + "\n")
	if q.EffectiveMin > 0 {
		fmt.Fprintf(&b, "  %-12s %s / %s\n", "专注 / 分散", q.FocusPct, q.ScatterPct)
		fmt.Fprintf(&b, "  %-12s %s / %s\n", "主动 / 被动", q.ActivePct, q.PassivePct)
		fmt.Fprintf(&b, "  %-12s %s\n", "可支配时间", spectrum.FormatDuration(q.EffectiveMin))
	}
	fmt.Fprintf(&b, "  %-12s %s\n", "待办落地", q.TodoStr)
	return b.String()
}

func formatEnergy(energy []classify.EnergyEntry) string {
	bySlot := make(map[classify.TimeSlot][]classify.EnergyEntry)
	n := 0
	for _, e := range energy {
		if e.Level == classify.EnergyNone {
			continue
		}
		bySlot[e.Slot] = append(bySlot[e.Slot], e)
		n++
	}
	if n == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderEnergy + "\n")
	for _, slot := range append(append([]classify.TimeSlot{}, classify.Slots...), classify.SlotNone) {
		for _, e := range bySlot[slot] {
			fmt.Fprintf(&b, "  %s %s %s", slot.Label(), spectrum.Bar(energyFill[e.Level], spectrum.EnergyBarWidth), e.Level.Label())
			if e.Mood != "" {
				fmt.Fprintf(&b, " · %s", e.Mood)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func formatGravity(finding *string) string {
	if finding == nil || *finding == "" {
		return ""
	}
	return fmt.Sprintf("%s\n  ⚠ %s\n", HeaderGravity, *finding)
}

func formatTrends(signals []trends.Signal) string {
	if len(signals) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(HeaderTrends + "\n")
	for _, s := range signals {
		fmt.Fprintf(&b, "  %s", s.String())
		if s.ConsecutiveUp {
			fmt.Fprintf(&b, " · 连续上升 %d 天", s.ConsecutiveDays)
		}
		switch {
		case s.IsWarning:
			b.WriteString(" · 需要留意")
		case s.IsPositive:
			b.WriteString(" · 向好")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
