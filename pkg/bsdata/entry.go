// Package bsdata provides the domain model for BattleScribe catalogue
// data: transient parsed entries, detachment templates and the static
// identifier tables that drive budget and modifier evaluation.
package bsdata

import "strings"

// EntryKind is the declared type of a selection entry.
type EntryKind string

const (
	KindUnit    EntryKind = "unit"
	KindModel   EntryKind = "model"
	KindUpgrade EntryKind = "upgrade"
)

// Cost name aliases used by the data for the canonical points value.
const (
	CostNamePoints    = "Points"
	CostNamePointsAlt = "Point(s)"
)

// CatalogueEntry is the transient result of parsing one selectionEntry
// element. It is constructed fresh on every visit, never mutated, and
// always translated into a schema record before persistence.
type CatalogueEntry struct {
	ID            string
	Name          string
	Kind          EntryKind
	Hidden        bool
	Costs         map[string]float64
	Profiles      []Profile
	Rules         []Rule
	Constraints   []Constraint
	CategoryLinks []CategoryLink
	EntryLinks    []EntryLink
	Groups        []OptionGroup
}

// Points returns the canonical points cost, falling back between the
// "Point(s)" and "Points" aliases.
func (e *CatalogueEntry) Points() int {
	return PointsFrom(e.Costs)
}

// PointsFrom extracts the canonical points value from a cost table.
func PointsFrom(costs map[string]float64) int {
	if v, ok := costs[CostNamePointsAlt]; ok && v != 0 {
		return int(v)
	}
	return int(costs[CostNamePoints])
}

// Profile is a stat line (unit characteristics, weapon stats).
type Profile struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	TypeName        string            `json:"type"`
	Hidden          bool              `json:"hidden,omitempty"`
	Characteristics map[string]string `json:"characteristics"`
}

// IsWeapon reports whether the profile type marks a weapon stat line.
func (p Profile) IsWeapon() bool {
	return containsFold(p.TypeName, "weapon")
}

// Rule is a named special rule with its description text.
type Rule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Hidden      bool   `json:"hidden,omitempty"`
	Description string `json:"description,omitempty"`
}

// Constraint is a min/max limit on an entry or group. The ID is what
// modifier rules target via their field attribute.
type Constraint struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"` // "min" or "max"
	Value float64 `json:"value"`
	Field string  `json:"field"` // typically "selections"
	Scope string  `json:"scope"`
}

// CategoryLink associates an entry with a force-organization category.
type CategoryLink struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TargetID string `json:"target_id"`
	Primary  bool   `json:"primary"`
}

// EntryLink is a reference from one entry to another by id.
type EntryLink struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TargetID string `json:"target_id"`
	Type     string `json:"type"`
	Import   bool   `json:"import"`
	Hidden   bool   `json:"hidden"`
}

// OptionGroup is a constrained choice set of entry links and inline
// entries. Groups nest arbitrarily deep.
type OptionGroup struct {
	ID          string
	Name        string
	Hidden      bool
	DefaultID   string
	Constraints []Constraint
	EntryLinks  []EntryLink
}

// UpgradeLink is one resolved equipment choice produced by the upgrade
// extractor. Inline-materialized choices carry the record to insert.
type UpgradeLink struct {
	UpgradeID   string
	UpgradeName string
	GroupName   string
	IsInline    bool
	Inline      *InlineUpgrade
	MinQuantity int
	MaxQuantity int
}

// InlineUpgrade is an equipment option defined directly within a unit's
// definition rather than referenced from a shared catalogue.
type InlineUpgrade struct {
	SourceID string
	Name     string
	Cost     int
	Kind     string // "Weapon" or "Wargear"
	Profiles []Profile
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
