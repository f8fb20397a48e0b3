// Package schema provides database schema models for rosterdb.
// Catalogue records are write-once at load time; roster records are
// mutable and carry cached totals recomputed on every mutation.
package schema

import "time"

// Unit is a buildable unit resolved from the faction catalogue.
type Unit struct {
	ID uint `gorm:"primaryKey"`

	// SourceID is the BattleScribe entry id, globally unique.
	SourceID string `gorm:"uniqueIndex;size:64;not null"`

	Name string `gorm:"index;size:255;not null"`

	// Slot is the catalogue's native force-organization category.
	Slot string `gorm:"index;size:255;not null"`

	// BaseCost is the unit's own direct cost plus the cost of all
	// mandatory child sub-entries, fixed at catalogue-load time.
	BaseCost int `gorm:"not null"`

	// Profiles holds serialized stat profiles (JSON).
	Profiles string `gorm:"type:text"`

	// Rules holds serialized special rules (JSON).
	Rules string `gorm:"type:text"`

	// BudgetCategories holds serialized budget category ids (JSON).
	BudgetCategories string `gorm:"type:text"`

	// TercioCategories holds serialized dynamic category ids used by
	// modifier evaluation (JSON).
	TercioCategories string `gorm:"type:text"`

	// ModelMin and ModelMax bound the selectable model count. A nil
	// ModelMax means unbounded.
	ModelMin int  `gorm:"not null;default:1"`
	ModelMax *int

	// IsLegacy flags Legacy/Expanded variant units.
	IsLegacy bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Weapon is a weapon entry from the shared Weapons catalogue.
type Weapon struct {
	ID uint `gorm:"primaryKey"`

	SourceID string `gorm:"uniqueIndex;size:64;not null"`
	Name     string `gorm:"index;size:255;not null"`
	Cost     int    `gorm:"not null"`

	RangeValue string `gorm:"size:50"`
	Strength   string `gorm:"size:50"`
	AP         string `gorm:"size:50;column:ap"`
	WeaponType string `gorm:"size:100"`

	// SpecialRules holds serialized rule names (JSON).
	SpecialRules string `gorm:"type:text"`

	// Profile holds the serialized stat profiles (JSON).
	Profile string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Upgrade is a selectable equipment option. An Upgrade may be
// synthesized from a Weapon when a unit links to a weapon-type entry
// directly; the unique SourceID keeps that materialization idempotent.
type Upgrade struct {
	ID uint `gorm:"primaryKey"`

	SourceID string `gorm:"uniqueIndex;size:64;not null"`
	Name     string `gorm:"index;size:255;not null"`
	Cost     int    `gorm:"not null"`

	// Kind is "Weapon" or "Wargear", inferred from the entry's stat
	// profile type.
	Kind string `gorm:"size:20;not null;default:Wargear"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnitUpgrade links a Unit to an Upgrade it may take. Upgrades sharing
// a GroupName for one unit form a single mutually-constrained choice
// set bounded by MinQuantity/MaxQuantity.
type UnitUpgrade struct {
	ID uint `gorm:"primaryKey"`

	UnitID    uint `gorm:"uniqueIndex:idx_unit_upgrade;not null"`
	UpgradeID uint `gorm:"uniqueIndex:idx_unit_upgrade;not null"`

	Unit    Unit    `gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE"`
	Upgrade Upgrade `gorm:"foreignKey:UpgradeID;constraint:OnDelete:CASCADE"`

	MinQuantity int    `gorm:"not null;default:0"`
	MaxQuantity int    `gorm:"not null;default:1"`
	GroupName   string `gorm:"size:500"`
}

// Detachment is a force-organization template from the game-system
// file.
type Detachment struct {
	ID uint `gorm:"primaryKey"`

	SourceID string `gorm:"uniqueIndex;size:64;not null"`
	Name     string `gorm:"index;size:255;not null"`

	// Type is the coarse classification (Primary, Auxiliary, Apex,
	// Lord of War, Allied, Other).
	Type string `gorm:"size:20;not null"`

	ParentID  string `gorm:"size:64"`
	FactionID string `gorm:"size:64"`

	// Slots holds the serialized slot table, slot key -> {min,max}
	// (JSON).
	Slots string `gorm:"type:text"`

	// UnitRestrictions holds serialized slot key -> restriction clause
	// (JSON).
	UnitRestrictions string `gorm:"type:text"`

	// Costs holds the serialized auxiliary/apex budget cost (JSON).
	Costs string `gorm:"type:text"`

	// Modifiers holds the serialized modifier rule set (JSON); empty
	// when the template has no dynamic rules.
	Modifiers string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Roster is a user-built army list.
type Roster struct {
	ID uint `gorm:"primaryKey"`

	UUID        string `gorm:"uniqueIndex;size:36;not null"`
	Name        string `gorm:"size:255;not null;default:'Unnamed List'"`
	PointsLimit int    `gorm:"not null"`

	// DoctrineID is the active Cohort Doctrine category id, empty when
	// none is selected.
	DoctrineID string `gorm:"size:64"`

	// TotalPoints is the cached roster cost, recomputed on every
	// mutation.
	TotalPoints int `gorm:"not null;default:0"`

	// IsValid caches the last validation outcome.
	IsValid bool `gorm:"not null;default:false"`

	// ValidationErrors holds the serialized error list (JSON).
	ValidationErrors string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RosterDetachment is one detachment instance within a roster.
type RosterDetachment struct {
	ID uint `gorm:"primaryKey"`

	RosterID     uint `gorm:"index;not null"`
	DetachmentID uint `gorm:"not null"`

	Roster     Roster     `gorm:"foreignKey:RosterID;constraint:OnDelete:CASCADE"`
	Detachment Detachment `gorm:"foreignKey:DetachmentID"`

	// Position preserves the user's detachment ordering.
	Position int `gorm:"not null;default:0"`
}

// RosterEntry is one unit selection within a roster detachment.
type RosterEntry struct {
	ID uint `gorm:"primaryKey"`

	RosterDetachmentID uint `gorm:"index;not null"`
	UnitID             uint `gorm:"not null"`

	RosterDetachment RosterDetachment `gorm:"foreignKey:RosterDetachmentID;constraint:OnDelete:CASCADE"`
	Unit             Unit             `gorm:"foreignKey:UnitID"`

	Quantity int `gorm:"not null;default:1"`

	// Upgrades holds the serialized selected upgrades, each an
	// {upgrade_id, quantity} pair (JSON).
	Upgrades string `gorm:"type:text"`

	// TotalCost caches (unit cost + upgrades) x quantity.
	TotalCost int `gorm:"not null;default:0"`
}
