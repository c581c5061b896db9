package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	dberr "github.com/mstgnz/sqldb/err"
)

// mapError translates a driver error into the closed sqldb error-kind
// set, covering the BUSY/CONSTRAINT/MISUSE/SCHEMA step-loop outcomes
// a SQLite connection can report.
func mapError(kind dberr.Kind, message string, cause error) error {
	if cause == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(cause, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy:
			return dberr.New(dberr.QueryTimedOut, message, cause)
		case sqlite3.ErrConstraint:
			return dberr.New(dberr.ConstraintViolation, message, cause)
		case sqlite3.ErrMisuse:
			return dberr.New(dberr.DatabaseMisuse, message, cause)
		case sqlite3.ErrSchema:
			return dberr.New(dberr.SchemaChanged, message, cause)
		case sqlite3.ErrMismatch:
			return dberr.New(dberr.Mismatch, message, cause)
		default:
			return dberr.New(dberr.DatabaseError, message, cause)
		}
	}
	return dberr.New(kind, message, cause)
}

// isBusy reports whether err is a SQLITE_BUSY response, the signal a
// transaction begin should retry rather than fail outright.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy
	}
	return false
}
