package sqldb_test

import (
	"testing"

	"github.com/mstgnz/sqldb"
	"github.com/mstgnz/sqldb/backend/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPopulatedTable(t *testing.T) *memory.Table {
	t.Helper()
	tbl := memory.NewTable([]sqldb.ColumnType{sqldb.INT64})
	require.NoError(t, tbl.AddColumn("name", sqldb.VARCHAR, false, 0))
	require.NoError(t, tbl.AddColumn("score", sqldb.INT64, false, 0))

	for i, row := range []struct {
		name  string
		score int64
	}{
		{"alice", 10},
		{"bob", 20},
		{"carol", 30},
	} {
		cur, err := tbl.Insert(sqldb.NewKeyInt(int64(i + 1)))
		require.NoError(t, err)
		require.NoError(t, cur.SetText(0, row.name, true))
		require.NoError(t, cur.SetLongLong(1, row.score, true))
		_, err = cur.Execute()
		require.NoError(t, err)
	}
	return tbl
}

func TestAppend_AdoptsSchemaIntoEmptyDestination(t *testing.T) {
	src := newPopulatedTable(t)
	dst := memory.NewTable(nil)

	require.NoError(t, sqldb.Append(dst, src))

	assert.Equal(t, src.GetNumFields(), dst.GetNumFields())
	assert.Equal(t, src.GetSchema().KeyType, dst.GetSchema().KeyType)

	cur, err := dst.Seek(sqldb.NewKeyInt(2))
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "bob", cur.GetText(0, ""))
	assert.Equal(t, int64(20), cur.GetLongLong(1, 0))
}

func TestAppend_MergesLog(t *testing.T) {
	src := newPopulatedTable(t)
	dst := memory.NewTable([]sqldb.ColumnType{sqldb.INT64})
	require.NoError(t, dst.AddColumn("name", sqldb.VARCHAR, false, 0))
	require.NoError(t, dst.AddColumn("score", sqldb.INT64, false, 0))

	require.NoError(t, sqldb.Append(dst, src))

	// Each copied row logs its own ADD against dst (Insert().Execute()
	// is an ordinary mutating op), and src's log is then merged on top
	// — so dst ends up with both.
	assert.Equal(t, src.GetLog().Size()*2, dst.GetLog().Size())
}

func TestAppend_PreservesExistingRowsWhenNotOverlapping(t *testing.T) {
	src := newPopulatedTable(t)
	dst := memory.NewTable([]sqldb.ColumnType{sqldb.INT64})
	require.NoError(t, dst.AddColumn("name", sqldb.VARCHAR, false, 0))
	require.NoError(t, dst.AddColumn("score", sqldb.INT64, false, 0))

	cur, err := dst.Insert(sqldb.NewKeyInt(100))
	require.NoError(t, err)
	require.NoError(t, cur.SetText(0, "zed", true))
	require.NoError(t, cur.SetLongLong(1, 1, true))
	_, err = cur.Execute()
	require.NoError(t, err)

	require.NoError(t, sqldb.Append(dst, src))

	found, err := dst.Seek(sqldb.NewKeyInt(100))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "zed", found.GetText(0, ""))

	cur, err = dst.SeekBegin()
	require.NoError(t, err)
	count := 0
	for cur != nil {
		count++
		ok, nextErr := cur.Next()
		require.NoError(t, nextErr)
		if !ok {
			break
		}
	}
	assert.Equal(t, 4, count)
}
