package ioshared

import (
	"github.com/hhlist/rosterdb/pkg/errcode"
)

// NotFoundError is returned when a shared catalogue cannot be loaded.
// Callers log and continue; a missing shared catalogue never aborts
// the whole load.
func NotFoundError(name string, err error) error {
	return errcode.New(errcode.CatalogueNotFoundError, err,
		"shared catalogue %q not found", name)
}
