package iopopulate

import "github.com/hhlist/rosterdb/pkg/errcode"

// CancelledError indicates the population run was interrupted before
// any database write.
func CancelledError(err error) error {
	return errcode.New(errcode.PopulateCancelledError, err,
		"catalogue population cancelled")
}

// DetachmentEncodeError indicates a parsed detachment template could
// not be serialized for storage.
func DetachmentEncodeError(name string, err error) error {
	return errcode.New(errcode.PopulateDetachmentsError, err,
		"cannot serialize detachment %s", name)
}

// UnitEncodeError indicates a unit entry could not be serialized for
// storage.
func UnitEncodeError(name string, err error) error {
	return errcode.New(errcode.PopulateUnitsError, err,
		"cannot serialize unit %s", name)
}
