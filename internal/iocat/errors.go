package iocat

import (
	"fmt"

	"github.com/hhlist/rosterdb/pkg/errcode"
)

// ReadError is returned when a rules file cannot be read or parsed.
// This is fatal for the surrounding load.
func ReadError(path string, err error) error {
	return errcode.New(errcode.CatalogueReadError, err,
		"cannot read rules file %s", path)
}

// EmptyDocumentError is returned when a rules file has no root
// element.
func EmptyDocumentError(path string) error {
	return errcode.New(errcode.CatalogueReadError,
		fmt.Errorf("document has no root element"),
		"rules file %s is empty", path)
}

// MalformedEntryError is returned for a selection entry missing its id
// or name. Callers log and skip the entry.
func MalformedEntryError(name, id string) error {
	return errcode.New(errcode.CatalogueParseError,
		fmt.Errorf("missing id or name"),
		"malformed selection entry (name=%q, id=%q)", name, id)
}
