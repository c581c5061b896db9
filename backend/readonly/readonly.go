// Package readonly supplies the seven mutating Table methods shared by
// every read-only backend (CSV, DBase4, Audio): each simply reports
// sqldb.ReadOnly rather than every backend re-implementing the same
// stubs.
package readonly

import (
	"github.com/mstgnz/sqldb"
)

// Table is embedded by a read-only backend's Table implementation to
// supply Insert/InsertAuto/Increment/Assign/Remove/Clear/AddColumn as
// sqldb.ReadOnly errors, and Begin/Commit/Rollback and the sort/filter
// hint methods as no-ops. Name identifies the
// embedding backend in the error message (e.g. "csv.Table").
type Table struct {
	Name string
}

func (t Table) Insert(key sqldb.Key) (sqldb.Cursor, error) {
	return nil, sqldb.ErrReadOnly(t.Name + ".Insert")
}

func (t Table) InsertAuto() (sqldb.Cursor, error) {
	return nil, sqldb.ErrReadOnly(t.Name + ".InsertAuto")
}

func (t Table) Increment(key sqldb.Key) (sqldb.Cursor, error) {
	return nil, sqldb.ErrReadOnly(t.Name + ".Increment")
}

func (t Table) Assign(columns []int) (sqldb.Cursor, error) {
	return nil, sqldb.ErrReadOnly(t.Name + ".Assign")
}

func (t Table) Remove(key sqldb.Key) error {
	return sqldb.ErrReadOnly(t.Name + ".Remove")
}

func (t Table) Clear() error {
	return sqldb.ErrReadOnly(t.Name + ".Clear")
}

func (t Table) AddColumn(name string, ct sqldb.ColumnType, unique bool, decimals int) error {
	return sqldb.ErrReadOnly(t.Name + ".AddColumn")
}

// Begin/Commit/Rollback are no-ops: bracketing a transaction around
// read-only queries is harmless even though there is nothing to commit.
func (t Table) Begin() error    { return nil }
func (t Table) Commit() error   { return nil }
func (t Table) Rollback() error { return nil }

func (t Table) SetSortHint(hint sqldb.SortHint) {}
func (t Table) HasFilter(column int) bool       { return false }
func (t Table) SetFilter(column int, keys []sqldb.Key) {}
