package dbase4

import (
	"github.com/mstgnz/sqldb"
)

// Cursor is positioned at a single row of a Table. Unlike csv.Cursor
// it carries no file handle of its own: dbfFile reads are random
// access (os.File.ReadAt), so every Cursor can share the Table's
// single open file safely.
type Cursor struct {
	table *Table
	row   int
}

var _ sqldb.Cursor = (*Cursor)(nil)

// GetRowKey returns either the configured primary-key column's text
// value as a single-component Key, or (0, row) otherwise.
func (c *Cursor) GetRowKey() sqldb.Key {
	if c.table.primaryKeyColumn >= 0 {
		return sqldb.NewKeyText(c.table.dbf.getText(c.row, c.table.primaryKeyColumn))
	}
	return sqldb.NewKeyInts2(0, int64(c.row))
}

func (c *Cursor) Next() (bool, error) {
	if c.row+1 >= c.table.dbf.numRecords {
		c.row = c.table.dbf.numRecords
		return false, nil
	}
	c.row++
	return true, nil
}

func (c *Cursor) Execute() (int64, error) {
	if c.row >= 0 && c.row < c.table.dbf.numRecords {
		return 1, nil
	}
	return 0, nil
}

func (c *Cursor) IsNull(i int) bool { return c.table.dbf.isNull(c.row, i) }

func (c *Cursor) GetNumFields() int          { return c.table.GetNumFields() }
func (c *Cursor) GetColumnName(i int) string { return c.table.GetColumnName(i) }
func (c *Cursor) GetColumnType(i int) sqldb.ColumnType {
	return c.table.GetColumnType(i)
}

func (c *Cursor) GetBool(i int, d bool) bool { return c.table.dbf.getBool(c.row, i, d) }
func (c *Cursor) GetInt(i int, d int) int    { return c.table.dbf.getInt(c.row, i, d) }
func (c *Cursor) GetLongLong(i int, d int64) int64 {
	return int64(c.table.dbf.getInt(c.row, i, int(d)))
}
func (c *Cursor) GetFloat(i int, d float32) float32 {
	return float32(c.table.dbf.getDouble(c.row, i, float64(d)))
}
func (c *Cursor) GetDouble(i int, d float64) float64 {
	return c.table.dbf.getDouble(c.row, i, d)
}
func (c *Cursor) GetText(i int, d string) string {
	if c.table.dbf.isNull(c.row, i) {
		return d
	}
	return c.table.dbf.getText(c.row, i)
}
func (c *Cursor) GetBlob(i int) []byte {
	if c.table.dbf.isNull(c.row, i) {
		return nil
	}
	return []byte(c.table.dbf.getText(c.row, i))
}

// GetVector is unsupported: DBF IV has no vector field type.
func (c *Cursor) GetVector(i int) []float32 { return nil }

func (c *Cursor) GetKey(i int) sqldb.Key { return sqldb.KeyFromColumn(c, i) }

func (c *Cursor) SetBool(i int, v bool, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetBool")
}
func (c *Cursor) SetInt(i int, v int, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetInt")
}
func (c *Cursor) SetLongLong(i int, v int64, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetLongLong")
}
func (c *Cursor) SetFloat(i int, v float32, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetFloat")
}
func (c *Cursor) SetDouble(i int, v float64, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetDouble")
}
func (c *Cursor) SetText(i int, v string, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetText")
}
func (c *Cursor) SetBlob(i int, v []byte, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetBlob")
}
func (c *Cursor) SetVector(i int, v []float32, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetVector")
}
func (c *Cursor) SetKey(i int, v sqldb.Key, defined bool) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.SetKey")
}

func (c *Cursor) AssignKey(i int, key sqldb.Key) error {
	return sqldb.ErrReadOnly("dbase4.Cursor.AssignKey")
}

func (c *Cursor) Update(key sqldb.Key) (int64, error) {
	return 0, sqldb.ErrReadOnly("dbase4.Cursor.Update")
}

func (c *Cursor) Bind(value interface{}) error { return sqldb.ErrReadOnly("dbase4.Cursor.Bind") }
func (c *Cursor) Reset()                       {}
