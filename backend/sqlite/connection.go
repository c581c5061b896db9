// Package sqlite implements sqldb.Connection and sqldb.SQLStatement
// over github.com/mattn/go-sqlite3, the CGo SQLite driver the corpus's
// sqldef teacher also drives through database/sql.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/mstgnz/sqldb"
	"github.com/mstgnz/sqldb/db"
	dberr "github.com/mstgnz/sqldb/err"
	"github.com/mstgnz/sqldb/logger"
)

const (
	maxBusyRetries = 3
	busyRetryDelay = 50 * time.Millisecond
)

var registerOnce sync.Once

const driverName = "sqldb-sqlite3"

// registerDriver installs a sqlite3 driver variant whose every
// connection carries the NOCASE collation from collation.go, registered
// immediately after the connection opens.
func registerDriver() {
	registerOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterCollation("NOCASE", latin1Compare)
			},
		})
	})
}

// Connection wraps a *sql.DB opened against a single SQLite file (or
// :memory:), implementing sqldb.Connection.
type Connection struct {
	db       *sql.DB
	readOnly bool
	log      *logger.Logger
}

// Open opens path with the given config (only cfg.Timeout is read, as
// the busy timeout) and read-only flag. SQLite's locking model means only one
// writer connection may be in flight at a time, so the pool is capped
// at one connection regardless of cfg.MaxOpenConns — otherwise
// Begin/Commit issued as plain SQL over a pooled *sql.DB could be
// routed to different underlying connections and silently lose
// transactional semantics.
func Open(path string, readOnly bool, cfg db.Config) (*Connection, error) {
	registerDriver()

	mode := "rwc"
	if readOnly {
		mode = "ro"
	}
	busyTimeout := 1000
	if cfg.Timeout > 0 {
		busyTimeout = int(cfg.Timeout.Milliseconds())
	}
	dsn := fmt.Sprintf("file:%s?mode=%s&_busy_timeout=%d&_foreign_keys=on", path, mode, busyTimeout)

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, dberr.New(dberr.OpenFailed, "open sqlite database", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, mapError(dberr.ConnectionFailed, "ping sqlite database", err)
	}

	return &Connection{db: sqlDB, readOnly: readOnly, log: logger.Discard()}, nil
}

// SetLogger attaches a logger used for busy-retry diagnostics.
func (c *Connection) SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.Discard()
	}
	c.log = l
}

func (c *Connection) Prepare(query string) (sqldb.SQLStatement, error) {
	stmt, err := c.db.Prepare(query)
	if err != nil {
		return nil, mapError(dberr.PrepareFailed, "prepare statement", err)
	}
	return newStatement(stmt, query), nil
}

func (c *Connection) Execute(query string) (int64, error) {
	return sqldb.ExecutePrepared(c, query)
}

// Begin issues BEGIN IMMEDIATE, retrying a bounded number of times on
// SQLITE_BUSY before giving up — the pool cap of one connection avoids
// intra-process contention, but an external writer against the same
// file can still collide with the _busy_timeout window.
func (c *Connection) Begin() error {
	var err error
	for attempt := 0; attempt <= maxBusyRetries; attempt++ {
		_, err = c.db.Exec("BEGIN IMMEDIATE")
		if err == nil {
			return nil
		}
		if !isBusy(err) || attempt == maxBusyRetries {
			break
		}
		c.log.Warn("sqlite busy, retrying transaction begin", map[string]interface{}{
			"attempt": attempt + 1,
		})
		time.Sleep(busyRetryDelay)
	}
	return mapError(dberr.ExecuteFailed, "begin transaction", err)
}

func (c *Connection) Commit() error {
	_, err := c.db.Exec("COMMIT")
	if err != nil {
		return mapError(dberr.CommitFailed, "commit transaction", err)
	}
	return nil
}

func (c *Connection) Rollback() error {
	_, err := c.db.Exec("ROLLBACK")
	if err != nil {
		return mapError(dberr.RollbackFailed, "rollback transaction", err)
	}
	return nil
}

func (c *Connection) Close() error {
	return c.db.Close()
}

func (c *Connection) Quote(value string) string { return sqldb.QuoteText(value) }
func (c *Connection) QuoteNull() string         { return sqldb.QuoteNullLiteral() }

var _ sqldb.Connection = (*Connection)(nil)
