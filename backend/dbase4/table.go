// Package dbase4 implements sqldb.Table as a read-only view over a
// DBF IV file. Records are fixed width, so unlike the csv package no
// offset cache is needed — any row can be located directly from the
// header and record size.
package dbase4

import (
	"github.com/mstgnz/sqldb"
	"github.com/mstgnz/sqldb/backend/readonly"
	dberr "github.com/mstgnz/sqldb/err"
)

// Table is a read-only sqldb.Table backed by a single DBF IV file.
type Table struct {
	readonly.Table

	dbf *dbfFile

	// primaryKeyColumn, when >= 0, names the field whose text value is
	// used as each row's key instead of its row index.
	primaryKeyColumn int

	// primaryKeyMapping resolves a Key's MapKey() form to a row index.
	// Seek-by-primary-key only works once this has been set: Seek
	// always falls back to treating the key as a (0, row) pair when no
	// mapping is installed, even when primaryKeyColumn is set.
	primaryKeyMapping map[string]int
}

// Open parses a DBF IV file's header and field descriptors. primaryKey
// is the index of the field to expose as each row's key (GetRowKey
// then returns a single-component text Key), or -1 to key rows by
// their plain row index instead.
func Open(path string, primaryKey int) (*Table, error) {
	dbf, err := openDBF(path)
	if err != nil {
		return nil, err
	}
	if primaryKey < -1 || primaryKey >= dbf.getNumFields() {
		dbf.close()
		return nil, dberr.New(dberr.OpenFailed, "dbase4 primary key column out of range", nil)
	}
	return &Table{
		Table:            readonly.Table{Name: "dbase4.Table"},
		dbf:              dbf,
		primaryKeyColumn: primaryKey,
	}, nil
}

// SetPrimaryKeyMapping installs an explicit Key.MapKey() -> row index
// lookup table, enabling Seek by primary-key text. Without it, Seek
// only accepts (0, row) integer-pair keys regardless of whether a
// primary key column is configured.
func (t *Table) SetPrimaryKeyMapping(mapping map[string]int) {
	t.primaryKeyMapping = mapping
}

func (t *Table) GetNumFields() int          { return t.dbf.getNumFields() }
func (t *Table) GetColumnName(i int) string { return t.dbf.getColumnName(i) }
func (t *Table) GetColumnType(i int) sqldb.ColumnType {
	return t.dbf.getColumnType(i)
}

func (t *Table) GetSchema() sqldb.Schema {
	cols := make([]sqldb.Column, t.dbf.getNumFields())
	for i := range cols {
		cols[i] = sqldb.Column{Name: t.dbf.getColumnName(i), Type: t.dbf.getColumnType(i)}
	}
	keyType := []sqldb.ColumnType{sqldb.INT, sqldb.INT}
	if t.primaryKeyColumn >= 0 {
		keyType = []sqldb.ColumnType{sqldb.VARCHAR}
	}
	return sqldb.Schema{Columns: cols, KeyType: keyType}
}

func (t *Table) GetLog() *sqldb.Log { return sqldb.NewLog() }

func (t *Table) SeekBegin() (sqldb.Cursor, error) {
	return t.seekRow(0)
}

// Seek accepts either a mapped primary-key text Key (if
// SetPrimaryKeyMapping has been called) or a two-component (0, row)
// integer Key.
func (t *Table) Seek(key sqldb.Key) (sqldb.Cursor, error) {
	if len(t.primaryKeyMapping) > 0 {
		row, ok := t.primaryKeyMapping[key.MapKey()]
		if !ok {
			return nil, nil
		}
		return t.seekRow(row)
	}
	if key.Size() != 2 {
		return nil, dberr.New(dberr.Mismatch, "dbase4 seek requires a (0, row) key unless a primary-key mapping is set", nil)
	}
	return t.seekRow(int(key.GetLongLong(1)))
}

func (t *Table) seekRow(row int) (sqldb.Cursor, error) {
	if row < 0 || row >= t.dbf.numRecords {
		return nil, nil
	}
	return &Cursor{table: t, row: row}, nil
}

var _ sqldb.Table = (*Table)(nil)
