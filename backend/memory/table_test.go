package memory

import (
	"testing"

	"github.com/mstgnz/sqldb"
	"github.com/mstgnz/sqldb/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable([]sqldb.ColumnType{sqldb.INT64})
	require.NoError(t, tbl.AddColumn("name", sqldb.VARCHAR, false, 0))
	require.NoError(t, tbl.AddColumn("score", sqldb.INT64, false, 0))
	return tbl
}

func TestTable_InsertAndSeek(t *testing.T) {
	tbl := newTestTable(t)

	cur, err := tbl.Insert(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NoError(t, cur.SetText(0, "alice", true))
	require.NoError(t, cur.SetLongLong(1, 10, true))
	affected, err := cur.Execute()
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	found, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.GetText(0, ""))
	assert.Equal(t, int64(10), found.GetLongLong(1, 0))
	assert.True(t, found.GetRowKey().Equal(sqldb.NewKeyInt(1)))

	missing, err := tbl.Seek(sqldb.NewKeyInt(2))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTable_InsertOverwritePreservesUnsetCells(t *testing.T) {
	tbl := newTestTable(t)

	cur, err := tbl.Insert(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NoError(t, cur.SetText(0, "alice", true))
	require.NoError(t, cur.SetLongLong(1, 10, true))
	_, err = cur.Execute()
	require.NoError(t, err)

	cur2, err := tbl.Insert(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NoError(t, cur2.SetLongLong(1, 99, true))
	_, err = cur2.Execute()
	require.NoError(t, err)

	found, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.Equal(t, "alice", found.GetText(0, ""))
	assert.Equal(t, int64(99), found.GetLongLong(1, 0))
}

func TestTable_InsertAutoAssignsMonotonicKey(t *testing.T) {
	tbl := newTestTable(t)

	cur1, err := tbl.InsertAuto()
	require.NoError(t, err)
	require.NoError(t, cur1.SetText(0, "first", true))
	_, err = cur1.Execute()
	require.NoError(t, err)

	cur2, err := tbl.InsertAuto()
	require.NoError(t, err)
	_, err = cur2.Execute()
	require.NoError(t, err)

	assert.True(t, cur1.GetRowKey().Less(cur2.GetRowKey()))
}

func TestTable_Increment(t *testing.T) {
	tbl := newTestTable(t)

	cur, err := tbl.Insert(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NoError(t, cur.SetText(0, "alice", true))
	require.NoError(t, cur.SetLongLong(1, 10, true))
	_, err = cur.Execute()
	require.NoError(t, err)

	inc, err := tbl.Increment(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NoError(t, inc.SetLongLong(1, 5, true))
	require.NoError(t, inc.SetText(0, "ignored", true))
	_, err = inc.Execute()
	require.NoError(t, err)

	found, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(15), found.GetLongLong(1, 0))
	assert.Equal(t, "alice", found.GetText(0, ""), "non-numeric column should not be overwritten when already set")
}

func TestTable_IncrementFillsEmptySlotOnNewRow(t *testing.T) {
	tbl := newTestTable(t)

	inc, err := tbl.Increment(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NoError(t, inc.SetLongLong(1, 5, true))
	_, err = inc.Execute()
	require.NoError(t, err)

	found, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(5), found.GetLongLong(1, 0))
}

func TestTable_AssignAndUpdate(t *testing.T) {
	tbl := newTestTable(t)

	cur, err := tbl.Insert(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NoError(t, cur.SetText(0, "alice", true))
	require.NoError(t, cur.SetLongLong(1, 10, true))
	_, err = cur.Execute()
	require.NoError(t, err)

	assignCur, err := tbl.Assign([]int{1})
	require.NoError(t, err)
	require.NoError(t, assignCur.SetLongLong(0, 42, true))
	affected, err := assignCur.Update(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	found, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(42), found.GetLongLong(1, 0))
	assert.Equal(t, "alice", found.GetText(0, ""))

	assignCur2, err := tbl.Assign([]int{0})
	require.NoError(t, err)
	affected2, err := assignCur2.Update(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected2)

	found2, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.True(t, found2.IsNull(0), "projected column left unmentioned should be cleared")
}

func TestTable_UpdateMissingKeyReturnsZero(t *testing.T) {
	tbl := newTestTable(t)
	assignCur, err := tbl.Assign([]int{0})
	require.NoError(t, err)
	affected, err := assignCur.Update(sqldb.NewKeyInt(404))
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestTable_Remove(t *testing.T) {
	tbl := newTestTable(t)
	cur, err := tbl.Insert(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	_, err = cur.Execute()
	require.NoError(t, err)

	require.NoError(t, tbl.Remove(sqldb.NewKeyInt(1)))

	found, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.Nil(t, found)

	events := tbl.GetLog().GetEvents(0)
	require.Len(t, events, 2)
	assert.Equal(t, sqldb.REMOVE, events[1].Event)
}

func TestTable_SeekBeginIteratesInKeyOrder(t *testing.T) {
	tbl := newTestTable(t)
	for _, k := range []int64{3, 1, 2} {
		cur, err := tbl.Insert(sqldb.NewKeyInt(k))
		require.NoError(t, err)
		_, err = cur.Execute()
		require.NoError(t, err)
	}

	var order []int64
	cur, err := tbl.SeekBegin()
	require.NoError(t, err)
	for cur != nil {
		order = append(order, cur.GetRowKey().GetLongLong(0))
		ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, order)
}

func TestTable_SeekBeginEmptyReturnsNil(t *testing.T) {
	tbl := newTestTable(t)
	cur, err := tbl.SeekBegin()
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestTable_Filter(t *testing.T) {
	tbl := newTestTable(t)
	for i, name := range []string{"alice", "bob", "carol"} {
		cur, err := tbl.Insert(sqldb.NewKeyInt(int64(i + 1)))
		require.NoError(t, err)
		require.NoError(t, cur.SetText(0, name, true))
		_, err = cur.Execute()
		require.NoError(t, err)
	}

	tbl.SetFilter(0, []sqldb.Key{sqldb.NewKeyText("bob")})
	assert.True(t, tbl.HasFilter(0))

	var names []string
	cur, err := tbl.SeekBegin()
	require.NoError(t, err)
	for cur != nil {
		names = append(names, cur.GetText(0, ""))
		ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
	}
	assert.Equal(t, []string{"bob"}, names)
}

func TestTable_Clear(t *testing.T) {
	tbl := newTestTable(t)
	cur, err := tbl.Insert(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	_, err = cur.Execute()
	require.NoError(t, err)

	require.NoError(t, tbl.Clear())

	found, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestTable_InsertRejectsEmptyKey(t *testing.T) {
	tbl := newTestTable(t)
	_, err := tbl.Insert(sqldb.NewKey())
	assert.Error(t, err)
}

func TestTable_SeedFromTOMLFixture(t *testing.T) {
	fx, err := testutil.LoadFixture(`
[[column]]
name = "name"
type = "VARCHAR"

[[column]]
name = "score"
type = "INT64"

[[row]]
cells = ["alice", "10"]

[[row]]
cells = ["bob", "20"]
`)
	require.NoError(t, err)

	tbl := NewTable([]sqldb.ColumnType{sqldb.INT64})
	for _, col := range fx.Columns {
		require.NoError(t, tbl.AddColumn(col.Name, col.Type, false, 0))
	}
	for i, row := range fx.Rows {
		cur, err := tbl.Insert(sqldb.NewKeyInt(int64(i)))
		require.NoError(t, err)
		require.NoError(t, cur.SetText(0, row[0], true))
		require.NoError(t, cur.SetText(1, row[1], true))
		_, err = cur.Execute()
		require.NoError(t, err)
	}

	found, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "bob", found.GetText(0, ""))
	assert.Equal(t, int64(20), found.GetLongLong(1, 0))
}

var _ sqldb.Table = (*Table)(nil)
