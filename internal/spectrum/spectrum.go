package spectrum

import (
	"sort"

	"github.com/johns/time-spectrum/internal/classify"
)

// AnomalyThreshold is the ratio above which a category is flagged.
const AnomalyThreshold = 0.35

// Item is one category's share of the day.
type Item struct {
	Category    classify.Category `json:"category"`
	Label       string            `json:"label"`
	Icon        string            `json:"icon"`
	DurationMin int               `json:"duration_min"`
	DurationStr string            `json:"duration_str"`
	Ratio       float64           `json:"ratio"`
	PercentStr  string            `json:"percent_str"`
	Bar         string            `json:"bar"`
	IsAnomaly   bool              `json:"is_anomaly"`
	TopItem     *TopItem          `json:"top_item,omitempty"`
}

// TopItem is the longest single activity inside a multi-item category.
type TopItem struct {
	Name        string `json:"name"`
	DurationStr string `json:"duration_str"`
}

type bucket struct {
	category classify.Category
	order    int
	total    int
	count    int
	longest  classify.Item
}

// Aggregate groups items by category and returns one Item per category
// present, ordered by duration descending (ties keep first-seen order).
// totalMin is the ratio denominator; ratios are 0 when it is not positive.
func Aggregate(items []classify.Item, totalMin int) []Item {
	bucketMap := make(map[classify.Category]*bucket)
	var buckets []*bucket

	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = classify.Dissolved
		}
		b, ok := bucketMap[cat]
		if !ok {
			b = &bucket{category: cat, order: len(buckets)}
			bucketMap[cat] = b
			buckets = append(buckets, b)
		}
		b.total += it.DurationMin
		b.count++
		if b.count == 1 || it.DurationMin > b.longest.DurationMin {
			b.longest = it
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].total != buckets[j].total {
			return buckets[i].total > buckets[j].total
		}
		return buckets[i].order < buckets[j].order
	})

	out := make([]Item, 0, len(buckets))
	for _, b := range buckets {
		meta := classify.Lookup(b.category)
		ratio := Ratio(b.total, totalMin)

		si := Item{
			Category:    b.category,
			Label:       meta.Label,
			Icon:        meta.Icon,
			DurationMin: b.total,
			DurationStr: FormatDuration(b.total),
			Ratio:       ratio,
			PercentStr:  Percent(ratio),
			Bar:         Bar(ratio, SpectrumBarWidth),
			IsAnomaly:   ratio > AnomalyThreshold,
		}
		if b.count > 1 && b.longest.DurationMin < b.total {
			si.TopItem = &TopItem{
				Name:        b.longest.Name,
				DurationStr: FormatDuration(b.longest.DurationMin),
			}
		}
		out = append(out, si)
	}

	return out
}

// Duration returns the minutes recorded for category c, or 0 if absent.
func Duration(items []Item, c classify.Category) int {
	for _, it := range items {
		if it.Category == c {
			return it.DurationMin
		}
	}
	return 0
}

// Total sums the durations of all spectrum entries.
func Total(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.DurationMin
	}
	return total
}
