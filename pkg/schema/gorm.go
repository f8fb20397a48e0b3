package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate, in an
// order that satisfies foreign-key dependencies.
func AllModels() []interface{} {
	return []interface{}{
		&Unit{},
		&Weapon{},
		&Upgrade{},
		&UnitUpgrade{},
		&Detachment{},
		&Roster{},
		&RosterDetachment{},
		&RosterEntry{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
