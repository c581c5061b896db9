// Package csv implements sqldb.Table as a read-only view over a
// delimited text file using a streaming record splitter.
package csv

import (
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/mstgnz/sqldb"
	"github.com/mstgnz/sqldb/backend/readonly"
	dberr "github.com/mstgnz/sqldb/err"
	"github.com/mstgnz/sqldb/logger"
)

// Table is a read-only sqldb.Table backed by a CSV/TSV file opened
// once to sniff the delimiter and header row; every Cursor derived
// from it opens its own *os.File so two cursors can scan independently
// without corrupting each other's read position.
type Table struct {
	readonly.Table

	path      string
	delimiter byte
	header    []string
	log       *logger.Logger

	// dataStart is the byte offset of the first data row (past the
	// header line, if any).
	dataStart int64

	mu         sync.Mutex
	rowOffsets []int64 // rowOffsets[i] is the byte offset of row i's start
}

// Option configures optional behavior passed to Open.
type Option func(*Table)

// WithLogger attaches a logger used to report delimiter-detection
// fallbacks. A nil logger is ignored, leaving the default discard
// logger in place.
func WithLogger(l *logger.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.log = l
		}
	}
}

// Open sniffs the delimiter (',', ';', '\t', picking whichever splits
// the first line into the most fields) and, if hasHeader, consumes
// that line as column names instead of the first data row.
func Open(path string, hasHeader bool, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dberr.New(dberr.OpenFailed, "open csv file", err)
	}
	defer f.Close()

	var buf []byte
	firstLine, consumed, ok, err := readRecord(f, &buf)
	if err != nil {
		return nil, dberr.New(dberr.OpenFailed, "read csv header", err)
	}
	if !ok {
		firstLine = ""
	}

	delimiter := detectDelimiter(firstLine)
	var fields []string
	if delimiter == delimiterNone {
		fields = []string{firstLine}
	} else {
		fields = splitFields(firstLine, delimiter)
	}

	t := &Table{
		Table:     readonly.Table{Name: "csv.Table"},
		path:      path,
		delimiter: delimiter,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if hasHeader {
		if delimiter == delimiterNone {
			t.header = []string{"Content"}
			t.log.Warn("csv: no delimiter detected in header row, falling back to a single Content column", map[string]interface{}{
				"path": path,
			})
		} else {
			t.header = fields
		}
		t.dataStart = int64(consumed)
	} else {
		t.header = make([]string, len(fields))
		for i := range t.header {
			t.header[i] = columnName(i)
		}
		t.dataStart = 0
	}

	return t, nil
}

func columnName(i int) string {
	return "column" + strconv.Itoa(i)
}

func (t *Table) recordOffsetLocked(idx int, offset int64) {
	if idx == len(t.rowOffsets) {
		t.rowOffsets = append(t.rowOffsets, offset)
	}
}

func (t *Table) GetNumFields() int { return len(t.header) }

func (t *Table) GetColumnName(i int) string {
	if i < 0 || i >= len(t.header) {
		return ""
	}
	return t.header[i]
}

func (t *Table) GetColumnType(i int) sqldb.ColumnType {
	if i < 0 || i >= len(t.header) {
		return sqldb.ANY
	}
	return sqldb.TEXT
}

func (t *Table) GetSchema() sqldb.Schema {
	cols := make([]sqldb.Column, len(t.header))
	for i, name := range t.header {
		cols[i] = sqldb.Column{Name: name, Type: sqldb.TEXT}
	}
	return sqldb.Schema{Columns: cols, KeyType: []sqldb.ColumnType{sqldb.INT64}}
}

func (t *Table) GetLog() *sqldb.Log { return sqldb.NewLog() }

// SeekBegin opens a cursor positioned at row 0.
func (t *Table) SeekBegin() (sqldb.Cursor, error) {
	return t.seekRow(0)
}

// Seek interprets key as a single integer row index.
func (t *Table) Seek(key sqldb.Key) (sqldb.Cursor, error) {
	return t.seekRow(int(key.GetLongLong(0)))
}

// seekRow positions a fresh cursor at row, reusing the cached offset
// when known and otherwise replaying forward from the closest cached
// row (or the start of data), recording newly discovered offsets as it
// goes.
func (t *Table) seekRow(row int) (sqldb.Cursor, error) {
	if row < 0 {
		return nil, nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		return nil, dberr.New(dberr.OpenFailed, "open csv file", err)
	}

	t.mu.Lock()
	var startOffset int64
	var startRow int
	switch {
	case row < len(t.rowOffsets):
		startOffset, startRow = t.rowOffsets[row], row
	case len(t.rowOffsets) > 0:
		startRow = len(t.rowOffsets) - 1
		startOffset = t.rowOffsets[startRow]
	default:
		startOffset, startRow = t.dataStart, 0
	}
	t.mu.Unlock()

	if _, err := f.Seek(startOffset, io.SeekStart); err != nil {
		f.Close()
		return nil, dberr.New(dberr.GetFailed, "seek csv file", err)
	}

	cur := &Cursor{table: t, file: f, bufStart: startOffset, nextRow: startRow, currentRowIdx: -1}

	for {
		ok, err := cur.Next()
		if err != nil {
			f.Close()
			return nil, err
		}
		if !ok || cur.currentRowIdx >= row {
			break
		}
	}
	if cur.currentRowIdx != row {
		f.Close()
		return nil, nil
	}
	return cur, nil
}

var _ sqldb.Table = (*Table)(nil)
