package bsdata

import "strings"

// DetachmentType is the coarse classification of a detachment template.
type DetachmentType string

const (
	DetachmentPrimary   DetachmentType = "Primary"
	DetachmentAuxiliary DetachmentType = "Auxiliary"
	DetachmentApex      DetachmentType = "Apex"
	DetachmentLordOfWar DetachmentType = "Lord of War"
	DetachmentAllied    DetachmentType = "Allied"
	DetachmentOther     DetachmentType = "Other"
)

// ClassifyDetachment derives the coarse type from name substrings.
// Warlord detachments count as Primary for composition purposes.
func ClassifyDetachment(name string) DetachmentType {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "primary"), strings.Contains(n, "warlord"):
		return DetachmentPrimary
	case strings.Contains(n, "apex"):
		return DetachmentApex
	case strings.Contains(n, "auxiliary"), strings.Contains(n, "tercio"):
		return DetachmentAuxiliary
	case strings.Contains(n, "lord of war"):
		return DetachmentLordOfWar
	case strings.Contains(n, "allied"):
		return DetachmentAllied
	default:
		return DetachmentOther
	}
}

// DetachmentCosts is the budget cost of including a detachment.
type DetachmentCosts struct {
	Auxiliary int `json:"auxiliary,omitempty"`
	Apex      int `json:"apex,omitempty"`
}

// ModifierEffect is the effect type of a modifier rule.
type ModifierEffect string

const (
	EffectIncrement ModifierEffect = "increment"
	EffectSet       ModifierEffect = "set"
)

// Comparison operators used by modifier conditions.
const (
	CondEqualTo     = "equalTo"
	CondLessThan    = "lessThan"
	CondAtLeast     = "atLeast"
	CondGreaterThan = "greaterThan"
	CondInstanceOf  = "instanceOf"
)

// ModifierCondition gates a modifier rule on roster state.
type ModifierCondition struct {
	Type    string  `json:"type"`
	Value   float64 `json:"value"`
	Field   string  `json:"field,omitempty"`
	Scope   string  `json:"scope,omitempty"`
	ChildID string  `json:"child_id"`
}

// ModifierRepeat scales a rule's value by the count of selections
// matching ChildID, Weight per match.
type ModifierRepeat struct {
	ChildID string `json:"child_id"`
	Weight  int    `json:"weight"`
}

// ModifierRule is a declarative, conditionally-triggered adjustment to
// a slot limit or a detachment cost.
type ModifierRule struct {
	Effect     ModifierEffect      `json:"effect"`
	Field      string              `json:"field"` // constraint id or cost-type id
	Value      float64             `json:"value"`
	Conditions []ModifierCondition `json:"conditions,omitempty"`
	Repeats    []ModifierRepeat    `json:"repeats,omitempty"`
}

// ModifierSet is a detachment's normalized modifier rules plus the map
// from opaque constraint field ids back to slot-table keys.
type ModifierSet struct {
	Rules   []ModifierRule    `json:"rules"`
	FieldTo map[string]string `json:"constraint_id_map"`
}

// DetachmentTemplate is the load-time result of parsing one force
// entry: the shape persisted as a schema.Detachment record.
type DetachmentTemplate struct {
	SourceID         string
	Name             string
	Type             DetachmentType
	ParentID         string
	FactionID        string
	Slots            map[string]SlotLimits
	UnitRestrictions map[string]string
	Costs            DetachmentCosts
	Modifiers        *ModifierSet
}
