package memory

import (
	"strconv"

	"github.com/mstgnz/sqldb"
)

type cursorMode int

const (
	modeIterate cursorMode = iota
	modeInsert
	modeIncrement
	modeAssign
)

// Cursor is a DataStream/Cursor positioned either over an existing row
// (iterate mode) or over a pending write (insert/increment/assign
// mode) against a Table.
type Cursor struct {
	table *Table
	mode  cursorMode

	key       sqldb.Key
	row       *row
	iterIndex int

	assignColumns []int
	pending       map[int]string

	lastInsertID int64
	binder       sqldb.BindCounter
}

var _ sqldb.Cursor = (*Cursor)(nil)

func (c *Cursor) realColumn(i int) int {
	if c.mode == modeAssign {
		if i < 0 || i >= len(c.assignColumns) {
			return -1
		}
		return c.assignColumns[i]
	}
	return i
}

func (c *Cursor) cellText(i int) string {
	real := c.realColumn(i)
	if real < 0 {
		return ""
	}
	if v, ok := c.pending[i]; ok {
		return v
	}
	if c.row != nil && real < len(c.row.cells) {
		return c.row.cells[real]
	}
	return ""
}

// GetRowKey returns the key of the current (or pending) row.
func (c *Cursor) GetRowKey() sqldb.Key { return c.key }

// GetLastInsertId returns the auto-generated key assigned by InsertAuto.
func (c *Cursor) GetLastInsertId() int64 { return c.lastInsertID }

// Execute commits a pending insert or increment; iteration cursors
// treat it as a no-op probe of whether a row is currently materialized.
func (c *Cursor) Execute() (int64, error) {
	switch c.mode {
	case modeIterate:
		if c.row != nil {
			return 1, nil
		}
		return 0, nil
	case modeInsert:
		return c.executeInsert()
	case modeIncrement:
		return c.executeIncrement()
	default: // modeAssign commits via Update, not Execute
		return 0, nil
	}
}

func (c *Cursor) executeInsert() (int64, error) {
	t := c.table
	t.mu.Lock()
	mk := c.key.MapKey()
	existing, found := t.rows[mk]
	if found {
		for idx, v := range c.pending {
			growCells(&existing.cells, idx+1)
			existing.cells[idx] = v
		}
		c.row = existing
	} else {
		r := &row{cells: make([]string, t.numFieldsLocked())}
		for idx, v := range c.pending {
			growCells(&r.cells, idx+1)
			r.cells[idx] = v
		}
		t.rows[mk] = r
		t.insertKeyLocked(c.key)
		c.row = r
	}
	t.mu.Unlock()

	t.log.RecordAdd(c.key)
	c.pending = map[int]string{}
	return 1, nil
}

func (c *Cursor) executeIncrement() (int64, error) {
	t := c.table
	t.mu.Lock()
	mk := c.key.MapKey()
	existing, found := t.rows[mk]
	if !found {
		existing = &row{cells: make([]string, t.numFieldsLocked())}
		t.rows[mk] = existing
		t.insertKeyLocked(c.key)
	}
	for idx, v := range c.pending {
		growCells(&existing.cells, idx+1)
		cur := existing.cells[idx]
		switch {
		case cur == "":
			existing.cells[idx] = v
		case idx < len(t.columns) && sqldb.IsNumeric(t.columns[idx].Type):
			existing.cells[idx] = numericCellAdd(t.columns[idx].Type, cur, v)
		}
	}
	c.row = existing
	t.mu.Unlock()

	t.log.RecordAdd(c.key)
	c.pending = map[int]string{}
	return 1, nil
}

// Update applies the cursor's pending values to the row at key. In
// assign mode, every projected column not present in pending is
// cleared; in other modes, only the pending columns are written.
func (c *Cursor) Update(key sqldb.Key) (int64, error) {
	t := c.table
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, found := t.rows[key.MapKey()]
	if !found {
		c.pending = map[int]string{}
		return 0, nil
	}

	if c.mode == modeAssign {
		for i, col := range c.assignColumns {
			growCells(&existing.cells, col+1)
			if v, ok := c.pending[i]; ok {
				existing.cells[col] = v
			} else {
				existing.cells[col] = ""
			}
		}
	} else {
		for idx, v := range c.pending {
			growCells(&existing.cells, idx+1)
			existing.cells[idx] = v
		}
	}

	c.key = key
	c.row = existing
	c.pending = map[int]string{}
	t.log.RecordAdd(key)
	return 1, nil
}

// Next advances an iteration cursor to the next row, skipping rows
// that fail the table's advisory filters.
func (c *Cursor) Next() (bool, error) {
	if c.mode != modeIterate {
		return false, nil
	}
	t := c.table
	t.mu.Lock()
	defer t.mu.Unlock()

	// Re-resolve the position from the current key so rows inserted or
	// removed since the last step do not shift this cursor.
	if idx, found := t.findIndexLocked(c.key); found {
		c.iterIndex = idx
	} else {
		c.iterIndex = idx - 1
	}

	for {
		c.iterIndex++
		if c.iterIndex >= len(t.keys) {
			c.row = nil
			return false, nil
		}
		key := t.keys[c.iterIndex]
		r := t.rows[key.MapKey()]
		if t.rowMatchesFiltersLocked(key, r) {
			c.key = key
			c.row = r
			return true, nil
		}
	}
}

func (c *Cursor) IsNull(i int) bool { return c.cellText(i) == "" }

func (c *Cursor) GetNumFields() int {
	if c.mode == modeAssign {
		return len(c.assignColumns)
	}
	return c.table.GetNumFields()
}

func (c *Cursor) GetColumnName(i int) string {
	return c.table.GetColumnName(c.realColumn(i))
}

func (c *Cursor) GetColumnType(i int) sqldb.ColumnType {
	return c.table.GetColumnType(c.realColumn(i))
}

func (c *Cursor) GetBool(i int, defaultValue bool) bool {
	s := c.cellText(i)
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultValue
	}
	return v != 0
}

func (c *Cursor) GetInt(i int, defaultValue int) int {
	s := c.cellText(i)
	if s == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return v
}

func (c *Cursor) GetLongLong(i int, defaultValue int64) int64 {
	s := c.cellText(i)
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func (c *Cursor) GetFloat(i int, defaultValue float32) float32 {
	s := c.cellText(i)
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return defaultValue
	}
	return float32(v)
}

func (c *Cursor) GetDouble(i int, defaultValue float64) float64 {
	s := c.cellText(i)
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func (c *Cursor) GetText(i int, defaultValue string) string {
	s := c.cellText(i)
	if s == "" {
		return defaultValue
	}
	return s
}

func (c *Cursor) GetBlob(i int) []byte {
	s := c.cellText(i)
	if s == "" {
		return nil
	}
	return []byte(s)
}

// GetVector is unsupported by the memory backend: cells are stored as
// decimal/text strings, with no encoding reserved for float vectors.
func (c *Cursor) GetVector(i int) []float32 { return nil }

func (c *Cursor) GetKey(i int) sqldb.Key { return sqldb.KeyFromColumn(c, i) }

func (c *Cursor) setCell(i int, value string, isDefined bool) error {
	real := c.realColumn(i)
	if real < 0 {
		return sqldb.ErrBadColumnIndex(i)
	}
	if !isDefined {
		delete(c.pending, i)
		return nil
	}
	c.pending[i] = value
	return nil
}

func (c *Cursor) SetBool(i int, value bool, isDefined bool) error {
	v := "0"
	if value {
		v = "1"
	}
	return c.setCell(i, v, isDefined)
}

func (c *Cursor) SetInt(i int, value int, isDefined bool) error {
	return c.setCell(i, strconv.Itoa(value), isDefined)
}

func (c *Cursor) SetLongLong(i int, value int64, isDefined bool) error {
	return c.setCell(i, strconv.FormatInt(value, 10), isDefined)
}

func (c *Cursor) SetFloat(i int, value float32, isDefined bool) error {
	return c.setCell(i, strconv.FormatFloat(float64(value), 'g', -1, 32), isDefined)
}

func (c *Cursor) SetDouble(i int, value float64, isDefined bool) error {
	return c.setCell(i, strconv.FormatFloat(value, 'g', -1, 64), isDefined)
}

func (c *Cursor) SetText(i int, value string, isDefined bool) error {
	return c.setCell(i, value, isDefined)
}

func (c *Cursor) SetBlob(i int, data []byte, isDefined bool) error {
	return c.setCell(i, string(data), isDefined)
}

// SetVector is unsupported by the memory backend (see GetVector).
func (c *Cursor) SetVector(i int, value []float32, isDefined bool) error {
	return sqldb.NewError(sqldb.Mismatch, "memory backend does not store vector cells", nil)
}

func (c *Cursor) SetKey(i int, value sqldb.Key, isDefined bool) error {
	if !isDefined {
		return c.SetText(i, "", false)
	}
	return sqldb.SetKeyDispatch(c, i, value)
}

// AssignKey is the Cursor-level Key-decomposing convenience setter.
func (c *Cursor) AssignKey(i int, key sqldb.Key) error {
	return sqldb.SetKeyDispatch(c, i, key)
}

func (c *Cursor) Bind(value interface{}) error {
	return sqldb.BindDispatch(c, c.binder.Next(), value)
}

func (c *Cursor) Reset() {
	c.binder.ResetCounter()
	c.pending = map[int]string{}
}
