// Package errcode defines coded errors for rosterdb.
// Every error surfaced by an internal/io* package carries a code so the
// CLI can distinguish fatal load failures from recoverable ones.
package errcode

import "fmt"

// ErrorCode identifies a class of failure.
type ErrorCode int

const (
	UnknownError ErrorCode = iota

	// File system errors
	CreateDirError
	ReadFileError

	// Rules-repository errors
	RepoCloneError
	RepoUpdateError
	RepoMissingError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBQueryError
	DBTxError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Catalogue errors
	CatalogueReadError
	CatalogueParseError
	CatalogueNotFoundError
	GameSystemNotFoundError

	// Populate errors
	PopulateUnitsError
	PopulateUpgradesError
	PopulateDetachmentsError
	PopulateRulesError
	PopulateCancelledError

	// Roster errors
	RosterNotFoundError
	RosterValidationError
)

// Error is a coded error. Msg is the user-facing message, Err the
// underlying cause.
type Error struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with a formatted message.
func New(code ErrorCode, err error, format string, vars ...any) error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, vars...),
		Err:  err,
	}
}
