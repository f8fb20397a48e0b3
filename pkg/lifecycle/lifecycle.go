// Package lifecycle defines the contracts for the rosterdb database
// lifecycle: schema management, rules-data fetch and catalogue
// population.
package lifecycle

import (
	"context"

	"github.com/hhlist/rosterdb/pkg/config"
)

// SchemaManager handles database schema management. It uses GORM
// AutoMigrate for both initial creation and migrations; both are
// idempotent and safe to re-run.
type SchemaManager interface {
	// Create creates the initial database schema. If tables already
	// exist, behavior depends on the force flag handled by the CLI.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the database schema to the latest version.
	Migrate(ctx context.Context, cfg *config.Config) error
}

// Fetcher manages the local checkout of the rules-data repository.
type Fetcher interface {
	// Fetch clones the rules repository if absent, otherwise updates
	// it.
	Fetch(ctx context.Context) error

	// CataloguePath returns the path to a catalogue file by name.
	CataloguePath(name string) (string, error)

	// GameSystemPath returns the path to the game-system file.
	GameSystemPath() (string, error)
}

// Populator imports catalogue data into the database. The whole load
// runs inside a single transaction so a failed reload never leaves the
// catalogue half-updated. Re-running is idempotent.
type Populator interface {
	Populate(ctx context.Context) error
}
