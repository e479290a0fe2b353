package classify

// TimeSlot is the coarse part of the day an activity or energy reading belongs to.
type TimeSlot string

const (
	SlotNone      TimeSlot = ""
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// Slots lists the known time slots in chronological order.
var Slots = []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening}

// ParseSlot maps a wire value to a TimeSlot. Anything unrecognized is SlotNone.
func ParseSlot(s string) TimeSlot {
	switch TimeSlot(normalizeKey(s)) {
	case SlotMorning:
		return SlotMorning
	case SlotAfternoon:
		return SlotAfternoon
	case SlotEvening:
		return SlotEvening
	default:
		return SlotNone
	}
}

// Label returns the display name used in reports.
func (s TimeSlot) Label() string {
	switch s {
	case SlotMorning:
		return "上午"
	case SlotAfternoon:
		return "下午"
	case SlotEvening:
		return "晚上"
	default:
		return "未标注时段"
	}
}

// EnergyLevel is a self-reported energy reading for a time slot.
type EnergyLevel string

const (
	EnergyNone   EnergyLevel = ""
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

// ParseEnergy maps a wire value to an EnergyLevel. Anything unrecognized is EnergyNone.
func ParseEnergy(s string) EnergyLevel {
	switch EnergyLevel(normalizeKey(s)) {
	case EnergyHigh:
		return EnergyHigh
	case EnergyMedium:
		return EnergyMedium
	case EnergyLow:
		return EnergyLow
	default:
		return EnergyNone
	}
}

// Label returns the display name used in reports.
func (e EnergyLevel) Label() string {
	switch e {
	case EnergyHigh:
		return "高"
	case EnergyMedium:
		return "中"
	case EnergyLow:
		return "低"
	default:
		return "-"
	}
}

// FlagAmbiguous marks an item the classifier was unsure about.
const FlagAmbiguous = "ambiguous"

// Item is one classified sub-activity of the day.
type Item struct {
	Name        string   `json:"name"`
	DurationMin int      `json:"duration_min"`
	Slot        TimeSlot `json:"time_slot,omitempty"`
	Category    Category `json:"category"`
	Flag        string   `json:"flag,omitempty"`
}

// EnergyEntry is the self-reported state for one time slot.
type EnergyEntry struct {
	Slot  TimeSlot    `json:"time_slot"`
	Level EnergyLevel `json:"energy_level,omitempty"`
	Mood  string      `json:"mood,omitempty"`
}

// Todos is the todo completion pair for the day.
type Todos struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Data is the validated classifier envelope.
type Data struct {
	TotalDurationMin int           `json:"total_duration_min"`
	Items            []Item        `json:"items"`
	Todos            Todos         `json:"todos"`
	EnergyLog        []EnergyEntry `json:"energy_log"`
}

// Empty returns the canonical empty envelope.
func Empty() Data {
	return Data{
		Items:     []Item{},
		EnergyLog: []EnergyEntry{},
	}
}

// ItemsDuration sums the durations of all items.
func (d Data) ItemsDuration() int {
	total := 0
	for _, it := range d.Items {
		total += it.DurationMin
	}
	return total
}
