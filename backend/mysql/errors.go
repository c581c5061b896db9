package mysql

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	dberr "github.com/mstgnz/sqldb/err"
)

// isGoneAway reports whether err is MySQL error 2006 ("server has gone
// away"), the signal a prepare should retry once against a fresh
// connection instead of failing outright.
func isGoneAway(err error) bool {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 2006
	}
	return false
}

// mapError translates a driver error into the closed sqldb error-kind
// set: 1062 (duplicate key) maps to CONSTRAINT_VIOLATION, 2006 (server
// gone away) to CONNECTION_FAILED, 1146 (no such table) to
// SCHEMA_CHANGED, and any other MySQL error to DATABASE_ERROR. A cause
// that is not a MySQL error is wrapped with kind.
func mapError(kind dberr.Kind, message string, cause error) error {
	if cause == nil {
		return nil
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(cause, &myErr) {
		switch myErr.Number {
		case 1062:
			return dberr.New(dberr.ConstraintViolation, message, cause)
		case 2006:
			return dberr.New(dberr.ConnectionFailed, message, cause)
		case 1146:
			return dberr.New(dberr.SchemaChanged, message, cause)
		default:
			return dberr.New(dberr.DatabaseError, message, cause)
		}
	}
	return dberr.New(kind, message, cause)
}
