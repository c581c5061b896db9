// Package odbc implements sqldb.Connection and sqldb.SQLStatement over
// database/sql using a driver registered under the name "odbc", taking
// a DSN, username, and password. This package does not import a cgo
// ODBC driver itself: the embedding application is responsible for
// calling sql.Register("odbc", ...) with a real implementation
// (e.g. a cgo unixODBC binding) before calling Open. This is a design
// sketch sharing the same contract as the mysql backend, not a
// production driver.
package odbc

import (
	"database/sql"
	"fmt"

	"github.com/mstgnz/sqldb"
	"github.com/mstgnz/sqldb/db"
	dberr "github.com/mstgnz/sqldb/err"
)

// Connection wraps a *sql.DB opened against the "odbc" driver.
type Connection struct {
	db *sql.DB
	tx *sql.Tx
}

// Open builds a connection string from cfg's DSN, username and
// password and opens it through the externally registered "odbc"
// driver.
func Open(cfg db.Config) (*Connection, error) {
	dsn := fmt.Sprintf("DSN=%s;UID=%s;PWD=%s", cfg.Database, cfg.Username, cfg.Password)
	sqlDB, err := sql.Open("odbc", dsn)
	if err != nil {
		return nil, dberr.New(dberr.OpenFailed, "open odbc connection", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, mapError(dberr.ConnectionFailed, "ping odbc data source", err)
	}

	return &Connection{db: sqlDB}, nil
}

func (c *Connection) execer() interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Prepare(query string) (*sql.Stmt, error)
} {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

func (c *Connection) Prepare(query string) (sqldb.SQLStatement, error) {
	stmt, err := c.execer().Prepare(query)
	if err != nil {
		return nil, mapError(dberr.PrepareFailed, "prepare statement", err)
	}
	return newStatement(stmt, query), nil
}

func (c *Connection) Execute(query string) (int64, error) {
	result, err := c.execer().Exec(query)
	if err != nil {
		return 0, mapError(dberr.ExecuteFailed, "execute statement", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// Begin starts a database/sql transaction, the same approach
// backend/mysql takes in place of the original's SQLSetConnectAttr
// autocommit toggling.
func (c *Connection) Begin() error {
	tx, err := c.db.Begin()
	if err != nil {
		return mapError(dberr.ExecuteFailed, "begin transaction", err)
	}
	c.tx = tx
	return nil
}

func (c *Connection) Commit() error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return mapError(dberr.CommitFailed, "commit transaction", err)
	}
	return nil
}

func (c *Connection) Rollback() error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil {
		return mapError(dberr.RollbackFailed, "rollback transaction", err)
	}
	return nil
}

func (c *Connection) Close() error { return c.db.Close() }

func (c *Connection) Quote(value string) string { return sqldb.QuoteText(value) }
func (c *Connection) QuoteNull() string         { return sqldb.QuoteNullLiteral() }

var _ sqldb.Connection = (*Connection)(nil)
