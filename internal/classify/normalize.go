package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tier identifies which fallback stage produced a Parsed value.
type Tier int

const (
	TierDirect    Tier = iota + 1 // whole text decoded as the envelope
	TierExtracted                 // first {...} span decoded as the envelope
	TierEmpty                     // nothing decodable, canonical empty envelope
)

func (t Tier) String() string {
	switch t {
	case TierDirect:
		return "direct"
	case TierExtracted:
		return "extracted"
	case TierEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Parsed is the outcome of normalizing raw classifier output.
type Parsed struct {
	Data    Data
	Tier    Tier
	Warning string // set only when Tier is TierEmpty
}

// Parse turns raw classifier text into a validated Data value. It never fails:
// the trimmed text is tried first, then the widest {...} span inside it, and
// if neither decodes the canonical empty envelope is returned with a warning.
func Parse(raw string) Parsed {
	text := strings.TrimSpace(raw)

	d, err := decode([]byte(text))
	if err == nil {
		return Parsed{Data: d, Tier: TierDirect}
	}
	firstErr := err

	if span, ok := braceSpan(text); ok {
		d, err = decode([]byte(span))
		if err == nil {
			return Parsed{Data: d, Tier: TierExtracted}
		}
	}

	return Parsed{
		Data:    Empty(),
		Tier:    TierEmpty,
		Warning: fmt.Sprintf("unparseable classifier output (%d bytes): %v", len(raw), firstErr),
	}
}

// braceSpan returns the greedy span from the first '{' to the last '}'.
func braceSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// --- Wire types ---

type wireEnvelope struct {
	TotalDurationMin flexInt      `json:"total_duration_min"`
	Items            []wireItem   `json:"items"`
	Todos            *wireTodos   `json:"todos"`
	EnergyLog        []wireEnergy `json:"energy_log"`
}

type wireItem struct {
	Name        flexString `json:"name"`
	DurationMin flexInt    `json:"duration_min"`
	TimeSlot    flexString `json:"time_slot"`
	Category    flexString `json:"category"`
	Flag        flexString `json:"flag"`
}

type wireTodos struct {
	Completed flexInt `json:"completed"`
	Total     flexInt `json:"total"`
}

type wireEnergy struct {
	TimeSlot    flexString `json:"time_slot"`
	EnergyLevel flexString `json:"energy_level"`
	Mood        flexString `json:"mood"`
}

func decode(b []byte) (Data, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return Data{}, fmt.Errorf("not a JSON object")
	}

	var env wireEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Data{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env.toData(), nil
}

func (env wireEnvelope) toData() Data {
	d := Empty()
	d.TotalDurationMin = nonNegative(int(env.TotalDurationMin))

	for _, wi := range env.Items {
		flag := ""
		if normalizeKey(string(wi.Flag)) == FlagAmbiguous {
			flag = FlagAmbiguous
		}
		d.Items = append(d.Items, Item{
			Name:        strings.TrimSpace(string(wi.Name)),
			DurationMin: nonNegative(int(wi.DurationMin)),
			Slot:        ParseSlot(string(wi.TimeSlot)),
			Category:    ParseCategory(string(wi.Category)),
			Flag:        flag,
		})
	}

	if env.Todos != nil {
		d.Todos = Todos{
			Completed: nonNegative(int(env.Todos.Completed)),
			Total:     nonNegative(int(env.Todos.Total)),
		}
	}

	// At most one entry per known slot; the first one wins.
	seen := make(map[TimeSlot]bool)
	for _, we := range env.EnergyLog {
		slot := ParseSlot(string(we.TimeSlot))
		if slot != SlotNone {
			if seen[slot] {
				continue
			}
			seen[slot] = true
		}
		d.EnergyLog = append(d.EnergyLog, EnergyEntry{
			Slot:  slot,
			Level: ParseEnergy(string(we.EnergyLevel)),
			Mood:  strings.TrimSpace(string(we.Mood)),
		})
	}

	return d
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// flexInt accepts a JSON number, a numeric string, or null.
// Fractional values are rounded to the nearest integer.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid integer %s", string(b))
	}
	if v > math.MaxInt32 {
		v = math.MaxInt32
	}
	*f = flexInt(math.Round(v))
	return nil
}

// flexString accepts a JSON string, a number, or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*f = ""
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*f = flexString(str)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexString(s)
		return nil
	}
	return fmt.Errorf("invalid string %s", s)
}
