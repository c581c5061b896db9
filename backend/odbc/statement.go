package odbc

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/mstgnz/sqldb"
	dberr "github.com/mstgnz/sqldb/err"
)

// Statement implements sqldb.SQLStatement over a prepared *sql.Stmt,
// following the same query/exec split as backend/sqlite and
// backend/mysql: a row-fetch loop for queries, a bare affected-rows
// count otherwise.
type Statement struct {
	stmt  *sql.Stmt
	query string

	isQuery  bool
	executed bool

	rows    *sql.Rows
	colName []string
	current []interface{}
	hasRow  bool

	bindArgs []interface{}
	binder   sqldb.BindCounter

	affected int64
}

func newStatement(stmt *sql.Stmt, query string) *Statement {
	return &Statement{stmt: stmt, query: query, isQuery: sniffIsQuery(query)}
}

func sniffIsQuery(query string) bool {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return false
	}
	fields := strings.Fields(trimmed)
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "SHOW", "EXPLAIN", "WITH":
		return true
	default:
		return false
	}
}

func (s *Statement) Execute() (int64, error) {
	if s.executed {
		return s.affected, nil
	}
	s.executed = true

	if s.isQuery {
		rows, err := s.stmt.Query(s.bindArgs...)
		if err != nil {
			return 0, mapError(dberr.ExecuteFailed, "execute query", err)
		}
		s.rows = rows
		cols, err := rows.Columns()
		if err != nil {
			return 0, mapError(dberr.ExecuteFailed, "read result columns", err)
		}
		s.colName = cols
		return 0, nil
	}

	result, err := s.stmt.Exec(s.bindArgs...)
	if err != nil {
		return 0, mapError(dberr.ExecuteFailed, "execute statement", err)
	}
	if n, err := result.RowsAffected(); err == nil {
		s.affected = n
	}
	return s.affected, nil
}

func (s *Statement) Next() (bool, error) {
	if !s.executed {
		if _, err := s.Execute(); err != nil {
			return false, err
		}
	}
	if !s.isQuery || s.rows == nil {
		s.hasRow = false
		return false, nil
	}
	if !s.rows.Next() {
		s.hasRow = false
		if err := s.rows.Err(); err != nil {
			return false, mapError(dberr.GetFailed, "iterate result rows", err)
		}
		return false, nil
	}
	dest := make([]interface{}, len(s.colName))
	ptrs := make([]interface{}, len(s.colName))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return false, mapError(dberr.GetFailed, "scan result row", err)
	}
	s.current = dest
	s.hasRow = true
	return true, nil
}

func (s *Statement) ResultsAvailable() bool { return s.hasRow }
func (s *Statement) GetAffectedRows() int64 { return s.affected }
func (s *Statement) GetNumWarnings() int    { return 0 }

// GetLastInsertId is unsupported over plain database/sql+ODBC: most
// ODBC drivers expose identity retrieval only via a follow-up query
// (e.g. SELECT @@IDENTITY), not a generic result attribute.
func (s *Statement) GetLastInsertId() int64 { return 0 }

func (s *Statement) IsNull(i int) bool {
	if i < 0 || i >= len(s.current) {
		return true
	}
	return s.current[i] == nil
}

func (s *Statement) GetNumFields() int { return len(s.colName) }

func (s *Statement) GetColumnName(i int) string {
	if i < 0 || i >= len(s.colName) {
		return ""
	}
	return s.colName[i]
}

func (s *Statement) GetColumnType(i int) sqldb.ColumnType {
	if i < 0 || i >= len(s.colName) {
		return sqldb.UNDEF
	}
	return sqldb.TEXT
}

func (s *Statement) cell(i int) interface{} {
	if i < 0 || i >= len(s.current) {
		return nil
	}
	return s.current[i]
}

func (s *Statement) text(i int) (string, bool) {
	switch v := s.cell(i).(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		return "", false
	}
}

func (s *Statement) GetBool(i int, d bool) bool {
	if v, ok := s.cell(i).(int64); ok {
		return v != 0
	}
	text, ok := s.text(i)
	if !ok {
		return d
	}
	switch text {
	case "0", "":
		return false
	case "1":
		return true
	default:
		return d
	}
}

func (s *Statement) GetInt(i int, d int) int {
	if v, ok := s.cell(i).(int64); ok {
		return int(v)
	}
	text, ok := s.text(i)
	if !ok {
		return d
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return d
	}
	return n
}

func (s *Statement) GetLongLong(i int, d int64) int64 {
	if v, ok := s.cell(i).(int64); ok {
		return v
	}
	text, ok := s.text(i)
	if !ok {
		return d
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return d
	}
	return n
}

func (s *Statement) GetFloat(i int, d float32) float32 {
	if v, ok := s.cell(i).(float64); ok {
		return float32(v)
	}
	text, ok := s.text(i)
	if !ok {
		return d
	}
	n, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return d
	}
	return float32(n)
}

func (s *Statement) GetDouble(i int, d float64) float64 {
	if v, ok := s.cell(i).(float64); ok {
		return v
	}
	text, ok := s.text(i)
	if !ok {
		return d
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return d
	}
	return n
}

func (s *Statement) GetText(i int, d string) string {
	text, ok := s.text(i)
	if !ok {
		return d
	}
	return text
}

func (s *Statement) GetBlob(i int) []byte {
	switch v := s.cell(i).(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

func (s *Statement) GetVector(i int) []float32 { return nil }

func (s *Statement) GetKey(i int) sqldb.Key { return sqldb.KeyFromColumn(s, i) }

func (s *Statement) setArg(i int, v interface{}, isDefined bool) error {
	if i < 0 {
		return sqldb.ErrBadColumnIndex(i)
	}
	for len(s.bindArgs) <= i {
		s.bindArgs = append(s.bindArgs, nil)
	}
	if !isDefined {
		s.bindArgs[i] = nil
		return nil
	}
	s.bindArgs[i] = v
	return nil
}

func (s *Statement) SetBool(i int, v bool, defined bool) error { return s.setArg(i, v, defined) }
func (s *Statement) SetInt(i int, v int, defined bool) error   { return s.setArg(i, int64(v), defined) }
func (s *Statement) SetLongLong(i int, v int64, defined bool) error {
	return s.setArg(i, v, defined)
}
func (s *Statement) SetFloat(i int, v float32, defined bool) error {
	return s.setArg(i, float64(v), defined)
}
func (s *Statement) SetDouble(i int, v float64, defined bool) error {
	return s.setArg(i, v, defined)
}
func (s *Statement) SetText(i int, v string, defined bool) error { return s.setArg(i, v, defined) }
func (s *Statement) SetBlob(i int, v []byte, defined bool) error { return s.setArg(i, v, defined) }
func (s *Statement) SetVector(i int, v []float32, defined bool) error {
	return dberr.New(dberr.Mismatch, "odbc backend does not bind vector parameters", nil)
}
func (s *Statement) SetKey(i int, v sqldb.Key, defined bool) error {
	if !defined {
		return s.setArg(i, nil, false)
	}
	return sqldb.SetKeyDispatch(s, i, v)
}

func (s *Statement) Bind(value interface{}) error {
	return sqldb.BindDispatch(s, s.binder.Next(), value)
}

func (s *Statement) Reset() {
	s.binder.ResetCounter()
	s.bindArgs = nil
	s.executed = false
	s.hasRow = false
	s.current = nil
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
	}
}

var _ sqldb.SQLStatement = (*Statement)(nil)
