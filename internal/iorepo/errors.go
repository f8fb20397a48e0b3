package iorepo

import (
	"strings"

	"github.com/hhlist/rosterdb/pkg/errcode"
)

func CreateDirError(dir string, err error) error {
	return errcode.New(errcode.CreateDirError, err,
		"cannot create directory %s", dir)
}

func CloneError(url string, err error, output string) error {
	return errcode.New(errcode.RepoCloneError, err,
		"git clone of %s failed: %s", url, strings.TrimSpace(output))
}

func UpdateError(dir string, err error, output string) error {
	return errcode.New(errcode.RepoUpdateError, err,
		"git pull in %s failed: %s", dir, strings.TrimSpace(output))
}

func MissingError(dir string) error {
	return errcode.New(errcode.RepoMissingError, nil,
		"rules repository checkout not found at %s, run fetch first", dir)
}

func CatalogueNotFoundError(name string) error {
	return errcode.New(errcode.CatalogueNotFoundError, nil,
		"catalogue %q not found in checkout", name)
}

func GameSystemNotFoundError(name string) error {
	return errcode.New(errcode.GameSystemNotFoundError, nil,
		"game system file for %q not found in checkout", name)
}
