package bsdata

import "strings"

// restrictionSep separates a slot name from its free-text unit
// restriction in raw category names, e.g.
// "Armour - Leman Russ Strike or Leman Russ Assault units only".
const restrictionSep = " - "

// Slot is a normalized (slot name, restriction clause) pair parsed from
// a raw category name. Downstream code works with this type and never
// re-parses the raw string.
type Slot struct {
	// Name is the bare slot name (the half before " - ").
	Name string
	// Restriction is the free-text unit restriction, empty when the
	// raw name carries none.
	Restriction string
	// raw is the full category name as it appeared in the data.
	raw string
}

// ParseSlot splits a raw category name on the first " - " separator.
func ParseSlot(raw string) Slot {
	name, restriction, found := strings.Cut(raw, restrictionSep)
	s := Slot{Name: strings.TrimSpace(name), raw: raw}
	if found {
		s.Restriction = strings.TrimSpace(restriction)
	}
	return s
}

// Key returns the slot-table key: the bare name for unrestricted slots,
// the full raw name when a restriction is present. This keeps a
// restricted slot from colliding with an unrestricted slot of the same
// base name.
func (s Slot) Key() string {
	if s.Restriction != "" {
		return s.raw
	}
	return s.Name
}

// SlotLimits bounds how many units may occupy a slot.
type SlotLimits struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// UnlimitedMax stands in for "no max constraint declared".
const UnlimitedMax = 999

// DetachmentInstancesKey is the reserved slot key for forceEntry-level
// "max instances of this whole detachment" constraints.
const DetachmentInstancesKey = "__detachment_instances__"
