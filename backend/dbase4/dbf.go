package dbase4

import (
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mstgnz/sqldb"
	dberr "github.com/mstgnz/sqldb/err"
	"golang.org/x/text/unicode/norm"
)

// field describes one column of a DBF IV field descriptor: an 11-byte
// name, a 1-byte type code, and length/decimal-count bytes.
type field struct {
	name     string
	typ      byte
	length   int
	decimals int
}

// dbfFile is a random-access reader over a DBF IV file: a 32-byte
// header, a field descriptor array terminated by 0x0D, then
// fixed-width records (a 1-byte deletion flag followed by each field's
// fixed-width text).
type dbfFile struct {
	f          *os.File
	numRecords int
	headerSize int
	recordSize int
	fields     []field
}

func openDBF(path string) (*dbfFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dberr.New(dberr.OpenFailed, "open dbase4 file", err)
	}

	var header [32]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		f.Close()
		return nil, dberr.New(dberr.OpenFailed, "read dbase4 header", err)
	}
	numRecords := int(binary.LittleEndian.Uint32(header[4:8]))
	headerSize := int(binary.LittleEndian.Uint16(header[8:10]))
	recordSize := int(binary.LittleEndian.Uint16(header[10:12]))

	numFields := (headerSize - 32 - 1) / 32
	fields := make([]field, 0, numFields)
	for i := 0; i < numFields; i++ {
		var desc [32]byte
		if _, err := io.ReadFull(f, desc[:]); err != nil {
			f.Close()
			return nil, dberr.New(dberr.OpenFailed, "read dbase4 field descriptor", err)
		}
		fields = append(fields, field{
			name:     strings.TrimRight(string(desc[0:11]), "\x00 "),
			typ:      desc[11],
			length:   int(desc[16]),
			decimals: int(desc[17]),
		})
	}

	return &dbfFile{f: f, numRecords: numRecords, headerSize: headerSize, recordSize: recordSize, fields: fields}, nil
}

func (d *dbfFile) close() error { return d.f.Close() }

func (d *dbfFile) getNumFields() int { return len(d.fields) }

func (d *dbfFile) getColumnName(i int) string {
	if i < 0 || i >= len(d.fields) {
		return ""
	}
	return d.fields[i].name
}

// getColumnType maps a DBF field type to the closed ColumnType set.
func (d *dbfFile) getColumnType(i int) sqldb.ColumnType {
	if i < 0 || i >= len(d.fields) {
		return sqldb.ANY
	}
	f := d.fields[i]
	switch f.typ {
	case 'N':
		if f.decimals == 0 {
			return sqldb.INT
		}
		return sqldb.DOUBLE
	case 'F':
		return sqldb.DOUBLE
	case 'L':
		return sqldb.BOOL
	case 'C', 'D', 'M':
		return sqldb.VARCHAR
	default:
		return sqldb.ANY
	}
}

func (d *dbfFile) fieldOffset(col int) int {
	off := 1 // deletion flag byte
	for i := 0; i < col; i++ {
		off += d.fields[i].length
	}
	return off
}

func (d *dbfFile) rawField(row, col int) (string, error) {
	if row < 0 || row >= d.numRecords || col < 0 || col >= len(d.fields) {
		return "", nil
	}
	recordOffset := int64(d.headerSize) + int64(row)*int64(d.recordSize)
	off := d.fieldOffset(col)
	length := d.fields[col].length
	buf := make([]byte, length)
	if _, err := d.f.ReadAt(buf, recordOffset+int64(off)); err != nil {
		return "", dberr.New(dberr.GetFailed, "read dbase4 field", err)
	}
	return strings.TrimSpace(strings.TrimRight(string(buf), "\x00")), nil
}

func (d *dbfFile) isNull(row, col int) bool {
	if row < 0 || row >= d.numRecords {
		return true
	}
	raw, err := d.rawField(row, col)
	return err != nil || raw == ""
}

// getText reads and NFC-normalizes a field's text. Invalid UTF-8 falls
// back to the empty string rather than erroring, since DataStream's
// GetText has no error return — the original throws here.
func (d *dbfFile) getText(row, col int) string {
	raw, err := d.rawField(row, col)
	if err != nil || raw == "" {
		return ""
	}
	if !utf8.ValidString(raw) {
		return ""
	}
	return norm.NFC.String(raw)
}

func (d *dbfFile) getInt(row, col int, defaultValue int) int {
	if d.isNull(row, col) {
		return defaultValue
	}
	raw, err := d.rawField(row, col)
	if err != nil {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func (d *dbfFile) getDouble(row, col int, defaultValue float64) float64 {
	if d.isNull(row, col) {
		return defaultValue
	}
	raw, err := d.rawField(row, col)
	if err != nil {
		return defaultValue
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func (d *dbfFile) getBool(row, col int, defaultValue bool) bool {
	if d.isNull(row, col) {
		return defaultValue
	}
	raw, err := d.rawField(row, col)
	if err != nil || raw == "" {
		return defaultValue
	}
	switch raw[0] {
	case 'T', 't', 'Y', 'y':
		return true
	case 'F', 'f', 'N', 'n':
		return false
	default:
		return defaultValue
	}
}
