package csv

import (
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/mstgnz/sqldb"
	dberr "github.com/mstgnz/sqldb/err"
	"golang.org/x/text/unicode/norm"
)

// Cursor iterates rows of a Table over its own *os.File handle.
type Cursor struct {
	table *Table
	file  *os.File

	buf      []byte
	bufStart int64 // absolute file offset of buf[0]

	nextRow       int
	currentRowIdx int
	currentRow    []string
}

var _ sqldb.Cursor = (*Cursor)(nil)

func (c *Cursor) GetRowKey() sqldb.Key { return sqldb.NewKeyInt(int64(c.currentRowIdx)) }

// Next reads the next record, normalizes each field to NFC, and caches
// its byte offset on the table for future seeks.
func (c *Cursor) Next() (bool, error) {
	rowStart := c.bufStart
	line, consumed, ok, err := readRecord(c.file, &c.buf)
	if err != nil {
		return false, dberr.New(dberr.GetFailed, "read csv record", err)
	}
	if !ok {
		c.currentRow = nil
		return false, nil
	}
	c.bufStart += int64(consumed)

	fields := splitFields(line, c.table.delimiter)
	for i, field := range fields {
		if !utf8.ValidString(field) {
			return false, dberr.New(dberr.Mismatch, "csv field is not valid UTF-8", nil)
		}
		fields[i] = norm.NFC.String(field)
	}

	c.table.mu.Lock()
	c.table.recordOffsetLocked(c.nextRow, rowStart)
	c.table.mu.Unlock()

	c.currentRow = fields
	c.currentRowIdx = c.nextRow
	c.nextRow++
	return true, nil
}

func (c *Cursor) Execute() (int64, error) {
	if c.currentRow != nil {
		return 1, nil
	}
	return 0, nil
}

func (c *Cursor) cellText(i int) (string, bool) {
	if i < 0 || i >= len(c.currentRow) {
		return "", false
	}
	return c.currentRow[i], true
}

func (c *Cursor) IsNull(i int) bool {
	s, ok := c.cellText(i)
	return !ok || s == ""
}

func (c *Cursor) GetNumFields() int          { return c.table.GetNumFields() }
func (c *Cursor) GetColumnName(i int) string { return c.table.GetColumnName(i) }
func (c *Cursor) GetColumnType(i int) sqldb.ColumnType {
	return c.table.GetColumnType(i)
}

func (c *Cursor) GetBool(i int, d bool) bool {
	s, ok := c.cellText(i)
	if !ok || s == "" {
		return d
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return d
	}
	return n != 0
}

func (c *Cursor) GetInt(i int, d int) int {
	s, ok := c.cellText(i)
	if !ok || s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

func (c *Cursor) GetLongLong(i int, d int64) int64 {
	s, ok := c.cellText(i)
	if !ok || s == "" {
		return d
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return d
	}
	return n
}

func (c *Cursor) GetFloat(i int, d float32) float32 {
	s, ok := c.cellText(i)
	if !ok || s == "" {
		return d
	}
	n, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return d
	}
	return float32(n)
}

func (c *Cursor) GetDouble(i int, d float64) float64 {
	s, ok := c.cellText(i)
	if !ok || s == "" {
		return d
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return d
	}
	return n
}

func (c *Cursor) GetText(i int, d string) string {
	s, ok := c.cellText(i)
	if !ok {
		return d
	}
	return s
}

func (c *Cursor) GetBlob(i int) []byte {
	s, ok := c.cellText(i)
	if !ok {
		return nil
	}
	return []byte(s)
}

// GetVector is unsupported: CSV cells are always text.
func (c *Cursor) GetVector(i int) []float32 { return nil }

func (c *Cursor) GetKey(i int) sqldb.Key { return sqldb.KeyFromColumn(c, i) }

func (c *Cursor) SetBool(i int, v bool, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetBool")
}
func (c *Cursor) SetInt(i int, v int, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetInt")
}
func (c *Cursor) SetLongLong(i int, v int64, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetLongLong")
}
func (c *Cursor) SetFloat(i int, v float32, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetFloat")
}
func (c *Cursor) SetDouble(i int, v float64, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetDouble")
}
func (c *Cursor) SetText(i int, v string, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetText")
}
func (c *Cursor) SetBlob(i int, v []byte, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetBlob")
}
func (c *Cursor) SetVector(i int, v []float32, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetVector")
}
func (c *Cursor) SetKey(i int, v sqldb.Key, defined bool) error {
	return sqldb.ErrReadOnly("csv.Cursor.SetKey")
}

func (c *Cursor) AssignKey(i int, key sqldb.Key) error {
	return sqldb.ErrReadOnly("csv.Cursor.AssignKey")
}

func (c *Cursor) Update(key sqldb.Key) (int64, error) {
	return 0, sqldb.ErrReadOnly("csv.Cursor.Update")
}

func (c *Cursor) Bind(value interface{}) error { return sqldb.ErrReadOnly("csv.Cursor.Bind") }
func (c *Cursor) Reset()                       {}
