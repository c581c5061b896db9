package dbase4

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/mstgnz/sqldb"
	dberr "github.com/mstgnz/sqldb/err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempDBF hand-assembles a minimal DBF IV file with two fields,
// NAME (C,10) and AGE (N,3,0), and the given rows.
func writeTempDBF(t *testing.T, rows [][2]string) string {
	t.Helper()

	type fieldSpec struct {
		name     string
		typ      byte
		length   byte
		decimals byte
	}
	fields := []fieldSpec{
		{name: "NAME", typ: 'C', length: 10},
		{name: "AGE", typ: 'N', length: 3},
	}

	recordSize := 1
	for _, f := range fields {
		recordSize += int(f.length)
	}
	headerSize := 32 + 32*len(fields) + 1

	buf := make([]byte, 0, headerSize+recordSize*len(rows))

	header := make([]byte, 32)
	header[0] = 0x03
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(rows)))
	binary.LittleEndian.PutUint16(header[8:10], uint16(headerSize))
	binary.LittleEndian.PutUint16(header[10:12], uint16(recordSize))
	buf = append(buf, header...)

	for _, f := range fields {
		desc := make([]byte, 32)
		copy(desc[0:11], f.name)
		desc[11] = f.typ
		desc[16] = f.length
		desc[17] = f.decimals
		buf = append(buf, desc...)
	}
	buf = append(buf, 0x0D)

	padRight := func(s string, n int) string {
		if len(s) >= n {
			return s[:n]
		}
		return s + string(make([]byte, n-len(s)))
	}
	padLeft := func(s string, n int) string {
		if len(s) >= n {
			return s[:n]
		}
		pad := make([]byte, n-len(s))
		for i := range pad {
			pad[i] = ' '
		}
		return string(pad) + s
	}

	for _, row := range rows {
		buf = append(buf, ' ') // not deleted
		buf = append(buf, []byte(padRight(row[0], int(fields[0].length)))...)
		buf = append(buf, []byte(padLeft(row[1], int(fields[1].length)))...)
	}

	path := filepath.Join(t.TempDir(), "people.dbf")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestOpen_ParsesHeaderAndFields(t *testing.T) {
	path := writeTempDBF(t, [][2]string{{"Alice", "25"}, {"Bob", "17"}})
	tbl, err := Open(path, -1)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.GetNumFields())
	assert.Equal(t, "NAME", tbl.GetColumnName(0))
	assert.Equal(t, "AGE", tbl.GetColumnName(1))
	assert.Equal(t, sqldb.VARCHAR, tbl.GetColumnType(0))
	assert.Equal(t, sqldb.INT, tbl.GetColumnType(1))
}

func TestTable_SeekBeginAndNext(t *testing.T) {
	path := writeTempDBF(t, [][2]string{{"Alice", "25"}, {"Bob", "17"}})
	tbl, err := Open(path, -1)
	require.NoError(t, err)

	cur, err := tbl.SeekBegin()
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "Alice", cur.GetText(0, ""))
	assert.Equal(t, 25, cur.GetInt(1, -1))
	assert.True(t, cur.GetRowKey().Equal(sqldb.NewKeyInts2(0, 0)))

	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bob", cur.GetText(0, ""))
	assert.Equal(t, 17, cur.GetInt(1, -1))

	ok, err = cur.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTable_SeekByRowIndex(t *testing.T) {
	path := writeTempDBF(t, [][2]string{{"Alice", "25"}, {"Bob", "17"}, {"Carol", "40"}})
	tbl, err := Open(path, -1)
	require.NoError(t, err)

	cur, err := tbl.Seek(sqldb.NewKeyInts2(0, 2))
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "Carol", cur.GetText(0, ""))

	missing, err := tbl.Seek(sqldb.NewKeyInts2(0, 99))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTable_SeekRejectsWrongShapedKeyWithoutMapping(t *testing.T) {
	path := writeTempDBF(t, [][2]string{{"Alice", "25"}})
	tbl, err := Open(path, -1)
	require.NoError(t, err)

	_, err = tbl.Seek(sqldb.NewKeyText("Alice"))
	assert.True(t, dberr.Is(err, dberr.Mismatch))
}

func TestTable_PrimaryKeyColumnDrivesRowKeyAndMapping(t *testing.T) {
	path := writeTempDBF(t, [][2]string{{"Alice", "25"}, {"Bob", "17"}})
	tbl, err := Open(path, 0)
	require.NoError(t, err)
	assert.Equal(t, []sqldb.ColumnType{sqldb.VARCHAR}, tbl.GetSchema().KeyType)

	cur, err := tbl.SeekBegin()
	require.NoError(t, err)
	assert.True(t, cur.GetRowKey().Equal(sqldb.NewKeyText("Alice")))

	tbl.SetPrimaryKeyMapping(map[string]int{
		sqldb.NewKeyText("Bob").MapKey(): 1,
	})
	found, err := tbl.Seek(sqldb.NewKeyText("Bob"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Bob", found.GetText(0, ""))
}

func TestCursor_MutationsAreReadOnly(t *testing.T) {
	path := writeTempDBF(t, [][2]string{{"Alice", "25"}})
	tbl, err := Open(path, -1)
	require.NoError(t, err)
	cur, err := tbl.SeekBegin()
	require.NoError(t, err)

	err = cur.SetText(0, "x", true)
	assert.True(t, dberr.IsReadOnly(err))

	_, err = tbl.Insert(sqldb.NewKeyInts2(0, 1))
	assert.True(t, dberr.IsReadOnly(err))

	err = tbl.Remove(sqldb.NewKeyInts2(0, 0))
	assert.True(t, dberr.IsReadOnly(err))
}

var _ sqldb.Table = (*Table)(nil)
