// Package ioschema implements lifecycle.SchemaManager. This is an
// impure I/O package that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/hhlist/rosterdb/pkg/config"
	"github.com/hhlist/rosterdb/pkg/db"
	"github.com/hhlist/rosterdb/pkg/lifecycle"
	"github.com/hhlist/rosterdb/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements lifecycle.SchemaManager using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using GORM AutoMigrate.
func (m *manager) Create(ctx context.Context, cfg *config.Config) error {
	return m.migrate(ctx, true)
}

// Migrate updates the database schema to the latest version using GORM
// AutoMigrate.
func (m *manager) Migrate(ctx context.Context, cfg *config.Config) error {
	return m.migrate(ctx, false)
}

func (m *manager) migrate(ctx context.Context, create bool) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		if create {
			return CreateSchemaError(err)
		}
		return MigrateSchemaError(err)
	}

	return nil
}
