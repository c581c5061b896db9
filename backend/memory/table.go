// Package memory implements sqldb.Table over an in-process ordered map
// keyed by sqldb.Key, the backend used for scratch tables and as the
// default destination of sqldb.Append in tests.
package memory

import (
	"sort"
	"strconv"
	"sync"

	"github.com/mstgnz/sqldb"
	dberr "github.com/mstgnz/sqldb/err"
)

// row is a sparse sequence of cell strings; numeric values are stored
// as decimal text. An empty string means the cell is unset (NULL).
type row struct {
	cells []string
}

func growCells(cells *[]string, n int) {
	if len(*cells) >= n {
		return
	}
	grown := make([]string, n)
	copy(grown, *cells)
	*cells = grown
}

// Table is an in-memory sqldb.Table. A single mutex guards schema,
// data, and the auto-increment counter.
type Table struct {
	mu sync.Mutex

	columns []sqldb.Column
	keyType []sqldb.ColumnType

	keys []sqldb.Key        // sorted ascending by Key.Less
	rows map[string]*row    // Key.MapKey() -> row

	autoIncrement int64
	sortHint      sqldb.SortHint
	filters       map[int][]sqldb.Key

	log *sqldb.Log
}

// NewTable returns an empty Table with the given primary-key shape.
func NewTable(keyType []sqldb.ColumnType) *Table {
	return &Table{
		keyType: append([]sqldb.ColumnType(nil), keyType...),
		rows:    make(map[string]*row),
		filters: make(map[int][]sqldb.Key),
		log:     sqldb.NewLog(),
	}
}

// SetKeyType adopts a new primary-key shape; used by sqldb.Append to
// give an empty Table the same key type as its source (sqldb.SchemaAdopter).
func (t *Table) SetKeyType(keyType []sqldb.ColumnType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keyType = append([]sqldb.ColumnType(nil), keyType...)
}

func (t *Table) findIndexLocked(key sqldb.Key) (idx int, found bool) {
	idx = sort.Search(len(t.keys), func(i int) bool { return !t.keys[i].Less(key) })
	found = idx < len(t.keys) && t.keys[idx].Equal(key)
	return
}

func (t *Table) insertKeyLocked(key sqldb.Key) {
	idx, found := t.findIndexLocked(key)
	if found {
		return
	}
	t.keys = append(t.keys, sqldb.Key{})
	copy(t.keys[idx+1:], t.keys[idx:])
	t.keys[idx] = key
}

func (t *Table) removeKeyLocked(key sqldb.Key) {
	idx, found := t.findIndexLocked(key)
	if !found {
		return
	}
	t.keys = append(t.keys[:idx], t.keys[idx+1:]...)
}

func (t *Table) numFieldsLocked() int { return len(t.columns) }

func (t *Table) rowMatchesFiltersLocked(key sqldb.Key, r *row) bool {
	for col, allowed := range t.filters {
		if len(allowed) == 0 {
			continue
		}
		var text string
		if col >= 0 && col < len(r.cells) {
			text = r.cells[col]
		}
		ok := false
		for _, fk := range allowed {
			if fk.SerializeToText() == text {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// SeekBegin returns a Cursor at the first row in key order, or nil if
// the table is empty.
func (t *Table) SeekBegin() (sqldb.Cursor, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, key := range t.keys {
		r := t.rows[key.MapKey()]
		if t.rowMatchesFiltersLocked(key, r) {
			return &Cursor{table: t, mode: modeIterate, key: key, row: r, iterIndex: i}, nil
		}
	}
	return nil, nil
}

// Seek returns a Cursor positioned at key, or nil if absent.
func (t *Table) Seek(key sqldb.Key) (sqldb.Cursor, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, found := t.findIndexLocked(key)
	if !found {
		return nil, nil
	}
	r := t.rows[key.MapKey()]
	if !t.rowMatchesFiltersLocked(key, r) {
		return nil, nil
	}
	return &Cursor{table: t, mode: modeIterate, key: key, row: r, iterIndex: idx}, nil
}

// Insert opens a pending insert-or-overwrite cursor at key.
func (t *Table) Insert(key sqldb.Key) (sqldb.Cursor, error) {
	if key.Empty() {
		return nil, dberr.New(dberr.Mismatch, "insert requires a non-empty key", nil)
	}
	return &Cursor{table: t, mode: modeInsert, key: key, pending: map[int]string{}}, nil
}

// InsertAuto assigns the next auto-increment counter value as the row
// key and opens an insert cursor at it.
func (t *Table) InsertAuto() (sqldb.Cursor, error) {
	t.mu.Lock()
	t.autoIncrement++
	id := t.autoIncrement
	t.mu.Unlock()
	key := sqldb.NewKeyInt(id)
	cur, err := t.Insert(key)
	if err != nil {
		return nil, err
	}
	cur.(*Cursor).lastInsertID = id
	return cur, nil
}

// Increment opens a pending additive-merge cursor at key.
func (t *Table) Increment(key sqldb.Key) (sqldb.Cursor, error) {
	if key.Empty() {
		return nil, dberr.New(dberr.Mismatch, "increment requires a non-empty key", nil)
	}
	return &Cursor{table: t, mode: modeIncrement, key: key, pending: map[int]string{}}, nil
}

// Assign opens a pending cursor whose fields map positionally onto columns.
func (t *Table) Assign(columns []int) (sqldb.Cursor, error) {
	return &Cursor{table: t, mode: modeAssign, assignColumns: append([]int(nil), columns...), pending: map[int]string{}}, nil
}

// Remove deletes the row at key and records a REMOVE event.
func (t *Table) Remove(key sqldb.Key) error {
	t.mu.Lock()
	_, found := t.rows[key.MapKey()]
	if found {
		delete(t.rows, key.MapKey())
		t.removeKeyLocked(key)
	}
	t.mu.Unlock()
	if found {
		t.log.RecordRemove(key)
	}
	return nil
}

// Clear removes every row, leaving schema and Log intact.
func (t *Table) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = make(map[string]*row)
	t.keys = nil
	return nil
}

// AddColumn appends a column to the schema.
func (t *Table) AddColumn(name string, ct sqldb.ColumnType, unique bool, decimals int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.columns = append(t.columns, sqldb.Column{Name: name, Type: ct, Unique: unique, Decimals: decimals})
	return nil
}

func (t *Table) GetNumFields() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.columns)
}

func (t *Table) GetColumnName(i int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.columns) {
		return ""
	}
	return t.columns[i].Name
}

func (t *Table) GetColumnType(i int) sqldb.ColumnType {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.columns) {
		return sqldb.ANY
	}
	return t.columns[i].Type
}

func (t *Table) GetSchema() sqldb.Schema {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sqldb.Schema{
		Columns: append([]sqldb.Column(nil), t.columns...),
		KeyType: append([]sqldb.ColumnType(nil), t.keyType...),
	}
}

func (t *Table) SetSortHint(hint sqldb.SortHint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sortHint = hint
}

func (t *Table) HasFilter(column int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.filters[column]) > 0
}

func (t *Table) SetFilter(column int, keys []sqldb.Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filters[column] = append([]sqldb.Key(nil), keys...)
}

func (t *Table) GetLog() *sqldb.Log { return t.log }

// Begin/Commit/Rollback are no-ops: MemoryTable has no transaction log
// of its own.
func (t *Table) Begin() error    { return nil }
func (t *Table) Commit() error   { return nil }
func (t *Table) Rollback() error { return nil }

var _ sqldb.Table = (*Table)(nil)
var _ sqldb.SchemaAdopter = (*Table)(nil)

// numericCellAdd parses two decimal cell strings as the given column
// type and returns their sum re-encoded as decimal text.
func numericCellAdd(ct sqldb.ColumnType, a, b string) string {
	if ct == sqldb.FLOAT || ct == sqldb.DOUBLE {
		av, _ := strconv.ParseFloat(a, 64)
		bv, _ := strconv.ParseFloat(b, 64)
		return strconv.FormatFloat(av+bv, 'g', -1, 64)
	}
	av, _ := strconv.ParseInt(a, 10, 64)
	bv, _ := strconv.ParseInt(b, 10, 64)
	return strconv.FormatInt(av+bv, 10)
}
