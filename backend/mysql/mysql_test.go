package mysql

import (
	"errors"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	dberr "github.com/mstgnz/sqldb/err"
	"github.com/stretchr/testify/assert"
)

func TestSniffIsQuery(t *testing.T) {
	cases := map[string]bool{
		"SELECT * FROM t":      true,
		"  show tables ":       true,
		"DESCRIBE t":           true,
		"INSERT INTO t VALUES (1)": false,
		"UPDATE t SET a=1":         false,
		"":                        false,
	}
	for sql, want := range cases {
		assert.Equal(t, want, sniffIsQuery(sql), "sniffIsQuery(%q)", sql)
	}
}

func TestMapError_DuplicateKeyIsConstraintViolation(t *testing.T) {
	err := mapError(dberr.DatabaseError, "insert", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	assert.True(t, dberr.IsConstraintViolation(err))
}

func TestMapError_ServerGoneAwayIsConnectionFailed(t *testing.T) {
	err := mapError(dberr.DatabaseError, "ping", &mysqldriver.MySQLError{Number: 2006, Message: "server has gone away"})
	assert.True(t, dberr.IsConnectionFailed(err))
}

func TestMapError_UnknownNativeErrorFallsBackToDatabaseError(t *testing.T) {
	err := mapError(dberr.DatabaseError, "query", &mysqldriver.MySQLError{Number: 9999, Message: "weird"})
	assert.True(t, dberr.Is(err, dberr.DatabaseError))
}

func TestMapError_NonMySQLErrorUsesProvidedKind(t *testing.T) {
	err := mapError(dberr.PrepareFailed, "prepare", errors.New("generic failure"))
	assert.True(t, dberr.Is(err, dberr.PrepareFailed))
}

func TestIsGoneAway(t *testing.T) {
	assert.True(t, isGoneAway(&mysqldriver.MySQLError{Number: 2006}))
	assert.False(t, isGoneAway(&mysqldriver.MySQLError{Number: 1062}))
	assert.False(t, isGoneAway(errors.New("other")))
}
