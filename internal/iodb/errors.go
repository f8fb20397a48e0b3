package iodb

import (
	"fmt"

	"github.com/hhlist/rosterdb/pkg/errcode"
)

// ConnectionError is returned when the database connection fails.
func ConnectionError(host string, port int, database string, err error) error {
	return errcode.New(errcode.DBConnectionError, err,
		"failed to connect to %s:%d/%s", host, port, database)
}

// NotConnectedError is returned when an operation is attempted without
// a database connection.
func NotConnectedError() error {
	return errcode.New(errcode.DBNotConnectedError,
		fmt.Errorf("not connected to database"),
		"operation attempted without database connection")
}

// QueryError wraps a failed database query.
func QueryError(op string, err error) error {
	return errcode.New(errcode.DBQueryError, err, "database query failed: %s", op)
}
