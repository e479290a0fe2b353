package classify

import "strings"

// Category is a semantic tag assigned to an activity by the classifier.
// The known set is closed; other values are carried through verbatim.
type Category string

const (
	DeepFocus            Category = "deep_focus"
	Recharge             Category = "recharge"
	BodyMaintenance      Category = "body_maintenance"
	RoutineLife          Category = "routine_life"
	SocialDuty           Category = "social_duty"
	SelfReflection       Category = "self_reflection"
	InstantGratification Category = "instant_gratification"
	Dissolved            Category = "dissolved"
)

// Group is the semantic group a category counts toward in light-quality ratios.
type Group int

const (
	GroupPassive Group = iota
	GroupActive
	GroupNeutral
)

// Meta is the display and grouping information for a category.
type Meta struct {
	Label string
	Icon  string
	Group Group
}

var categories = map[Category]Meta{
	DeepFocus:            {Label: "深度专注", Icon: "🎯", Group: GroupActive},
	Recharge:             {Label: "主动充能", Icon: "🔋", Group: GroupActive},
	BodyMaintenance:      {Label: "身体维护", Icon: "🛌", Group: GroupNeutral},
	RoutineLife:          {Label: "生活事务", Icon: "🏠", Group: GroupNeutral},
	SocialDuty:           {Label: "社交义务", Icon: "🤝", Group: GroupPassive},
	SelfReflection:       {Label: "自我觉察", Icon: "🪞", Group: GroupActive},
	InstantGratification: {Label: "即时满足", Icon: "📱", Group: GroupPassive},
	Dissolved:            {Label: "消散时间", Icon: "🌫", Group: GroupPassive},
}

var unknownMeta = Meta{Label: "未知类别", Icon: "❔", Group: GroupPassive}

// ParseCategory normalizes a wire value. Empty input maps to Dissolved;
// unrecognized non-empty input is kept so it can be reported, not dropped.
func ParseCategory(s string) Category {
	key := normalizeKey(s)
	if key == "" {
		return Dissolved
	}
	return Category(key)
}

// Known reports whether c belongs to the closed category set.
func (c Category) Known() bool {
	_, ok := categories[c]
	return ok
}

// Lookup returns the metadata for c, falling back to a generic entry
// for categories outside the known set.
func Lookup(c Category) Meta {
	if m, ok := categories[c]; ok {
		return m
	}
	return unknownMeta
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "-", "_")
}
