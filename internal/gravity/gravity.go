package gravity

import (
	"fmt"
	"strings"

	"github.com/johns/time-spectrum/internal/classify"
)

// MaxNamed is how many matching activities the finding names explicitly.
const MaxNamed = 2

// Detect reports deep-focus work scheduled in slots the user marked as low
// energy. It returns nil when there is nothing to report.
func Detect(items []classify.Item, energy []classify.EnergyEntry) *string {
	low := make(map[classify.TimeSlot]bool)
	for _, e := range energy {
		if e.Level == classify.EnergyLow && e.Slot != classify.SlotNone {
			low[e.Slot] = true
		}
	}
	if len(low) == 0 {
		return nil
	}

	var names []string
	hit := make(map[classify.TimeSlot]bool)
	for _, it := range items {
		if it.Category != classify.DeepFocus || !low[it.Slot] {
			continue
		}
		names = append(names, displayName(it.Name))
		hit[it.Slot] = true
	}
	if len(names) == 0 {
		return nil
	}

	var slots []string
	for _, s := range classify.Slots {
		if hit[s] {
			slots = append(slots, s.Label())
		}
	}

	named := names
	if len(named) > MaxNamed {
		named = named[:MaxNamed]
	}
	msg := fmt.Sprintf("在低能量时段（%s）安排了高认知负荷活动：%s",
		strings.Join(slots, "、"), strings.Join(named, "、"))
	if extra := len(names) - len(named); extra > 0 {
		msg += fmt.Sprintf(" 等%d项", len(names))
	}
	return &msg
}

func displayName(name string) string {
	if name == "" {
		return "未命名活动"
	}
	return name
}
