package odbc

import dberr "github.com/mstgnz/sqldb/err"

// mapError wraps cause in kind. Unlike backend/sqlite and
// backend/mysql, no specific ODBC driver is imported here to inspect
// for native error codes — the driver is registered externally by the
// embedding application, so error classification stays generic.
func mapError(kind dberr.Kind, message string, cause error) error {
	if cause == nil {
		return nil
	}
	return dberr.New(kind, message, cause)
}
