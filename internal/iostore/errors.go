package iostore

import "github.com/hhlist/rosterdb/pkg/errcode"

func TxError(err error) error {
	return errcode.New(errcode.DBTxError, err, "transaction failed")
}

func QueryError(query string, err error) error {
	return errcode.New(errcode.DBQueryError, err, "query failed: %s", query)
}

func CopyError(table string, err error) error {
	return errcode.New(errcode.DBQueryError, err,
		"bulk insert into %s failed", table)
}

func RosterNotFoundError(id string) error {
	return errcode.New(errcode.RosterNotFoundError, nil,
		"roster %s not found", id)
}
