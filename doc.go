/*
Package sqldb provides a polymorphic, embeddable table abstraction over a
range of storage backends: SQLite and MySQL over database/sql, an
in-memory table, and read-only CSV, DBase4 and audio-tag backends.

The table backends (memory, CSV, DBase4, audio) implement Table and
Cursor; the SQL backends (SQLite, MySQL, ODBC) implement Connection and
SQLStatement. Cursor and SQLStatement both embed DataStream, so
row-access code written against DataStream's getters and setters works
on a table cursor and on a SQL statement alike.

Basic Usage:

	import "github.com/mstgnz/sqldb"
	import "github.com/mstgnz/sqldb/backend/memory"

	table := memory.NewTable([]sqldb.ColumnType{sqldb.INT64})
	table.AddColumn("name", sqldb.VARCHAR, false, 0)

	cur, err := table.Insert(sqldb.NewKeyInt(1))
	if err != nil {
		// handle error
	}
	cur.SetText(0, "alice", true)
	if _, err := cur.Execute(); err != nil {
		// handle error
	}

Keys:

Rows are identified by a Key, a small tuple of integer and text
components grouped into columns. Keys compare, hash and serialize to
text deterministically, which makes them safe to use as map indices and
to persist across backends:

	key := sqldb.NewKeyInts2(7, 42)
	text := key.SerializeToText()
	back := sqldb.KeyFromText(text)

Appending Between Tables:

The package-level Append function copies every row of one Table into
another, adopting the destination's schema from the source when the
destination starts out empty, and merging the source's change Log into
the destination's:

	err := sqldb.Append(dst, src)

Error Handling:

All operations that can fail return an error as the last return value.
The err subpackage defines a closed set of error kinds; use its Is*
helpers to branch on them:

	if err != nil {
		switch {
		case err.IsConnectionFailed(cause):
			// handle connection error
		case err.IsReadOnly(cause):
			// handle read-only backend
		default:
			// handle other errors
		}
	}

Logging:

Backends that can report a retry or detection event take a structured
logger from the logger subpackage and default to a discard logger when
none is attached, so logging is opt-in and nil-safe: backend/mysql's
Connection logs a gone-away prepare retry, backend/sqlite's Connection
logs a SQLITE_BUSY transaction-begin retry, and backend/csv's Open logs
when delimiter detection falls back to a single Content column.

	import "github.com/mstgnz/sqldb/logger"

	log := logger.NewLogger(logger.Config{Level: logger.INFO})
	conn, err := mysql.Open(cfg)
	conn.SetLogger(log)

Configuration:

SQL backends are configured through db.Config. backend/mysql.Open
registers its config with a db.ConnectionManager, which owns pool
sizing, connect retries and a periodic health check that reconnects if
the server drops the pool; backend/odbc takes a db.Config directly for
its pool-size fields and backend/sqlite reads only its Timeout (as the
busy timeout); both manage their own connection lifecycle:

	config := db.Config{
		Host:     "localhost",
		Port:     3306,
		Database: "app",
	}

Thread Safety:

A Table's Log is safe for concurrent use. Individual backends document
their own concurrency guarantees; MemoryTable serializes schema and
data mutation behind a single mutex.
*/
package sqldb
