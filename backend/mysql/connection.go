// Package mysql implements sqldb.Connection and sqldb.SQLStatement
// over github.com/go-sql-driver/mysql as a runtime backend.
package mysql

import (
	"database/sql"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/mstgnz/sqldb"
	"github.com/mstgnz/sqldb/db"
	dberr "github.com/mstgnz/sqldb/err"
	"github.com/mstgnz/sqldb/logger"
)

// Connection wraps a ConnectionManager-supervised *sql.DB against a
// MySQL server, implementing sqldb.Connection. Begin/Commit/Rollback
// start and close a real database/sql transaction rather than issuing
// textual BEGIN/COMMIT statements, so autocommit state always matches
// the driver's own connection bookkeeping.
type Connection struct {
	cm   *db.ConnectionManager
	name string
	tx   *sql.Tx
	log  *logger.Logger
}

// Open registers cfg under a dedicated ConnectionManager, which owns
// pool sizing, connect retries and a periodic health check that
// reconnects the pool if the server drops it. ClientFoundRows is set
// on the DSN so UPDATE reports matched rather than changed rows. SET
// NAMES utf8mb4 runs once after the first successful connect so text
// columns round-trip full Unicode regardless of the server's default
// charset.
func Open(cfg db.Config) (*Connection, error) {
	cfg.Driver = "mysql"
	if cfg.ConnectionString == "" {
		cfg.ConnectionString = dsn(cfg)
	}

	name := fmt.Sprintf("%s@tcp(%s:%d)/%s", cfg.Username, cfg.Host, cfg.Port, cfg.Database)

	cm := db.NewConnectionManager()
	log := logger.Discard()
	cm.SetLogger(log)

	if err := cm.RegisterConnection(name, cfg); err != nil {
		return nil, mapError(dberr.OpenFailed, "register mysql connection", err)
	}

	sqlDB, err := cm.GetConnection(name)
	if err != nil {
		return nil, mapError(dberr.ConnectionFailed, "open mysql connection", err)
	}

	if _, err := sqlDB.Exec("SET NAMES utf8mb4"); err != nil {
		cm.Close()
		return nil, mapError(dberr.ConnectionFailed, "set connection charset", err)
	}

	return &Connection{cm: cm, name: name, log: log}, nil
}

// SetLogger attaches a logger used for prepare-retry and
// reconnect-on-gone-away diagnostics, forwarding to the underlying
// ConnectionManager's own health-check logging.
func (c *Connection) SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.Discard()
	}
	c.log = l
	c.cm.SetLogger(l)
}

// dsn builds a go-sql-driver/mysql DSN from cfg's host, port and
// credentials.
func dsn(cfg db.Config) string {
	mysqlCfg := mysqldriver.NewConfig()
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ClientFoundRows = true
	mysqlCfg.ParseTime = true
	mysqlCfg.Collation = "utf8mb4_general_ci"
	return mysqlCfg.FormatDSN()
}

// execer returns the active transaction if one is open, else asks the
// ConnectionManager for the current pool, which may be a freshly
// reconnected one if a background health check replaced it.
func (c *Connection) execer() (interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Prepare(query string) (*sql.Stmt, error)
}, error) {
	if c.tx != nil {
		return c.tx, nil
	}
	sqlDB, err := c.cm.GetConnection(c.name)
	if err != nil {
		return nil, err
	}
	return sqlDB, nil
}

func (c *Connection) Prepare(query string) (sqldb.SQLStatement, error) {
	stmt, err := c.retryingPrepare(query)
	if err != nil {
		return nil, mapError(dberr.PrepareFailed, "prepare statement", err)
	}
	return newStatement(stmt, query), nil
}

// retryingPrepare re-prepares once on error 2006 instead of failing the
// caller for a connection the server has already dropped.
func (c *Connection) retryingPrepare(query string) (*sql.Stmt, error) {
	execer, err := c.execer()
	if err != nil {
		return nil, err
	}
	stmt, err := execer.Prepare(query)
	if err != nil && isGoneAway(err) {
		c.log.Warn("mysql prepare hit a gone-away connection, retrying once", map[string]interface{}{
			"connection": c.name,
		})
		execer, retryErr := c.execer()
		if retryErr != nil {
			return nil, retryErr
		}
		stmt, err = execer.Prepare(query)
	}
	return stmt, err
}

func (c *Connection) Execute(query string) (int64, error) {
	execer, err := c.execer()
	if err != nil {
		return 0, mapError(dberr.ExecuteFailed, "execute statement", err)
	}
	result, err := execer.Exec(query)
	if err != nil {
		return 0, mapError(dberr.ExecuteFailed, "execute statement", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// Begin disables autocommit on the pooled connection by starting a
// database/sql transaction.
func (c *Connection) Begin() error {
	sqlDB, err := c.cm.GetConnection(c.name)
	if err != nil {
		return mapError(dberr.ExecuteFailed, "begin transaction", err)
	}
	tx, err := sqlDB.Begin()
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

func (c *Connection) Close() error { return c.cm.Close() }

func (c *Connection) Quote(value string) string { return sqldb.QuoteText(value) }
func (c *Connection) QuoteNull() string         { return sqldb.QuoteNullLiteral() }

var _ sqldb.Connection = (*Connection)(nil)
