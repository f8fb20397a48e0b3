package iodetach

import "github.com/hhlist/rosterdb/pkg/errcode"

// WriteRulesError wraps a failure to write the composition-rules file.
func WriteRulesError(path string, err error) error {
	return errcode.New(errcode.PopulateRulesError, err,
		"cannot write composition rules to %s", path)
}
