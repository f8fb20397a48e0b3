package ioroster

import "github.com/hhlist/rosterdb/pkg/errcode"

// ValidationError is a rule violation that rejects a roster mutation.
func ValidationError(reason string) error {
	return errcode.New(errcode.RosterValidationError, nil, "%s", reason)
}
