package ioschema

import (
	"fmt"

	"github.com/hhlist/rosterdb/pkg/errcode"
)

// NotConnectedError is returned when schema management is attempted
// without a database connection.
func NotConnectedError() error {
	return errcode.New(errcode.DBNotConnectedError,
		fmt.Errorf("not connected to database"),
		"schema operation attempted without database connection")
}

// GORMConnectionError is returned when GORM cannot wrap the existing
// connection pool.
func GORMConnectionError(err error) error {
	return errcode.New(errcode.SchemaGORMConnectionError, err,
		"failed to open GORM connection")
}

// CreateSchemaError is returned when schema creation fails.
func CreateSchemaError(err error) error {
	return errcode.New(errcode.SchemaCreateError, err,
		"failed to create database schema")
}

// MigrateSchemaError is returned when schema migration fails.
func MigrateSchemaError(err error) error {
	return errcode.New(errcode.SchemaMigrateError, err,
		"failed to migrate database schema")
}
