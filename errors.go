package sqldb

import (
	"fmt"

	dberr "github.com/mstgnz/sqldb/err"
)

// Error re-exports the shared error type so callers don't need to
// import the err package directly for type assertions.
type Error = dberr.Error

// Kind re-exports the closed error-kind enumeration.
type Kind = dberr.Kind

const (
	InitFailed          = dberr.InitFailed
	ConnectionFailed    = dberr.ConnectionFailed
	OpenFailed          = dberr.OpenFailed
	PrepareFailed       = dberr.PrepareFailed
	ExecuteFailed       = dberr.ExecuteFailed
	BindFailed          = dberr.BindFailed
	QueryTimedOut       = dberr.QueryTimedOut
	DatabaseErrorKind    = dberr.DatabaseError
	DatabaseMisuse      = dberr.DatabaseMisuse
	SchemaChanged       = dberr.SchemaChanged
	BadBindIndex        = dberr.BadBindIndex
	BadColumnIndex      = dberr.BadColumnIndex
	GetFailed           = dberr.GetFailed
	CommitFailed        = dberr.CommitFailed
	RollbackFailed      = dberr.RollbackFailed
	ConstraintViolation = dberr.ConstraintViolation
	Mismatch            = dberr.Mismatch
	ReadOnly            = dberr.ReadOnly
)

// NewError constructs a new tagged error.
func NewError(kind Kind, message string, cause error) *Error {
	return dberr.New(kind, message, cause)
}

// ErrBadColumnIndex reports an out-of-range column index passed to a
// setter (getters never error on a bad index — they return the
// caller's default instead).
func ErrBadColumnIndex(i int) error {
	return dberr.New(dberr.BadColumnIndex, fmt.Sprintf("column index %d out of range", i), nil)
}

// ErrBadBindIndex reports an out-of-range bind index.
func ErrBadBindIndex(i int) error {
	return dberr.New(dberr.BadBindIndex, fmt.Sprintf("bind index %d out of range", i), nil)
}

// ErrReadOnly reports a mutating call against a read-only backend.
func ErrReadOnly(operation string) error {
	return dberr.New(dberr.ReadOnly, operation+" is not supported on a read-only table", nil)
}
