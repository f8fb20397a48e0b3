package rules

import (
	"fmt"
	"strings"

	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// SlotEntry is one roster entry as the FOC validator sees it: the
// native slot it occupies and its unit name.
type SlotEntry struct {
	Slot     string
	UnitName string
}

// SlotStatus reports one slot's fill state for UI display.
type SlotStatus struct {
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Filled      int    `json:"filled"`
	Restriction string `json:"restriction,omitempty"`
}

// FOCValidator checks one detachment's entries against its evaluated
// slot table and unit restrictions.
type FOCValidator struct {
	name         string
	slots        map[string]bsdata.SlotLimits
	restrictions map[string]string
}

// NewFOCValidator creates a validator for one detachment. Callers pass
// the evaluated slot table so dynamic adjustments are already applied.
func NewFOCValidator(
	name string,
	slots map[string]bsdata.SlotLimits,
	restrictions map[string]string,
) *FOCValidator {
	return &FOCValidator{name: name, slots: slots, restrictions: restrictions}
}

// ValidateEntries checks slot min/max counts, rejects entries in slots
// the detachment does not offer, and enforces unit-name restrictions.
func (v *FOCValidator) ValidateEntries(entries []SlotEntry) []string {
	var errs []string

	counts := map[string]int{}
	for _, entry := range entries {
		counts[entry.Slot]++
	}

	for slot, limits := range v.slots {
		count := counts[slot]
		if count < limits.Min {
			errs = append(errs, fmt.Sprintf(
				"[%s] %s: minimum %d required, found %d",
				v.name, slot, limits.Min, count))
		}
		if count > limits.Max {
			errs = append(errs, fmt.Sprintf(
				"[%s] %s: maximum %d allowed, found %d",
				v.name, slot, limits.Max, count))
		}
	}

	for slot, count := range counts {
		if _, ok := v.slots[slot]; !ok {
			errs = append(errs, fmt.Sprintf(
				"[%s] %s: %d unit(s) not allowed in this detachment",
				v.name, slot, count))
		}
	}

	for _, entry := range entries {
		restriction := v.restrictions[entry.Slot]
		if restriction == "" {
			continue
		}
		if !MatchesRestriction(entry.UnitName, restriction) {
			errs = append(errs, fmt.Sprintf(
				"[%s] %s: not allowed in %s slot (restricted to: %s)",
				v.name, entry.UnitName, entry.Slot, restriction))
		}
	}

	return errs
}

// SlotStatuses reports the fill state of every slot.
func (v *FOCValidator) SlotStatuses(entries []SlotEntry) map[string]SlotStatus {
	counts := map[string]int{}
	for _, entry := range entries {
		counts[entry.Slot]++
	}

	res := make(map[string]SlotStatus, len(v.slots))
	for slot, limits := range v.slots {
		res[slot] = SlotStatus{
			Min:         limits.Min,
			Max:         limits.Max,
			Filled:      counts[slot],
			Restriction: v.restrictions[slot],
		}
	}
	return res
}

// MatchesRestriction checks a unit name against a free-text slot
// restriction like "Leman Russ Strike, Leman Russ Assault or Malcador
// Heavy tank units only". Matching is case-insensitive and accepts a
// substring hit in either direction.
func MatchesRestriction(unitName, restriction string) bool {
	clean := strings.ToLower(restriction)
	clean = strings.ReplaceAll(clean, " units only", "")
	clean = strings.ReplaceAll(clean, " only", "")
	clean = strings.ReplaceAll(clean, " or ", ", ")

	unit := strings.ToLower(unitName)
	for _, part := range strings.Split(clean, ", ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(unit, part) || strings.Contains(part, unit) {
			return true
		}
	}
	return false
}
