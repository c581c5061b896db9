package sqldb

import "strings"

// Connection is a SQL backend's handle: it prepares statements,
// executes one-shot SQL, and brackets transactions. Begin/Commit/
// Rollback default (via DefaultBegin etc. below) to issuing the
// standard transaction-control SQL; backends override for native
// transaction control.
type Connection interface {
	Prepare(sql string) (SQLStatement, error)
	Execute(sql string) (int64, error)

	Begin() error
	Commit() error
	Rollback() error

	Close() error

	// Quote SQL-escapes a text value and wraps it in double quotes;
	// QuoteNull returns the literal NULL. Callers should prefer bound
	// parameters — quoting is a convenience for query construction.
	Quote(value string) string
	QuoteNull() string
}

// ExecutePrepared runs sql via Prepare().Execute(), the default
// behavior of Connection.Execute for backends that don't special-case it.
func ExecutePrepared(c Connection, sql string) (int64, error) {
	stmt, err := c.Prepare(sql)
	if err != nil {
		return 0, err
	}
	return stmt.Execute()
}

// DefaultBegin/DefaultCommit/DefaultRollback issue the standard SQL
// transaction-control statements via Execute, the fallback used by any
// Connection that has no native transaction API.
func DefaultBegin(c Connection) error {
	_, err := c.Execute("BEGIN TRANSACTION")
	return err
}

func DefaultCommit(c Connection) error {
	_, err := c.Execute("COMMIT")
	return err
}

func DefaultRollback(c Connection) error {
	_, err := c.Execute("ROLLBACK")
	return err
}

// QuoteText implements the shared quoting helper: escape backslash,
// single/double quote, NUL, newline, carriage return, backspace and
// 0x1A, then wrap in double quotes.
func QuoteText(value string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '\\', '\'', '"':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case 0:
			sb.WriteString(`\0`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\b':
			sb.WriteString(`\b`)
		case 0x1A:
			sb.WriteString(`\Z`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// QuoteNullLiteral is the shared NULL literal used when a setter's
// is_defined flag is false.
func QuoteNullLiteral() string { return "NULL" }
