package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Construction(t *testing.T) {
	t.Run("int key", func(t *testing.T) {
		k := NewKeyInt(42)
		assert.Equal(t, 1, k.Size())
		assert.Equal(t, int64(42), k.GetLongLong(0))
		assert.Equal(t, INT64, k.GetType(0))
	})

	t.Run("text key", func(t *testing.T) {
		k := NewKeyText("hello")
		assert.Equal(t, 1, k.Size())
		assert.Equal(t, "hello", k.GetText(0))
		assert.Equal(t, VARCHAR, k.GetType(0))
	})

	t.Run("int followed by key", func(t *testing.T) {
		other := NewKeyInts2(2, 3)
		k := NewKeyIntKey(1, other)
		assert.Equal(t, 3, k.Size())
		assert.Equal(t, 2, k.NumColumns())
		assert.Equal(t, []KeyComponent{intComponent(1)}, k.GetColumn(0))
	})

	t.Run("keys concatenated as groups", func(t *testing.T) {
		a := NewKeyInt(1)
		b := NewKeyText("x")
		k := NewKeyFromKeys2(a, b)
		assert.Equal(t, 2, k.NumColumns())
		assert.Equal(t, int64(1), k.GetLongLong(0))
		assert.Equal(t, "x", k.GetText(1))
	})

	t.Run("four ints", func(t *testing.T) {
		k := NewKeyInts4(1, 2, 3, 4)
		assert.Equal(t, 4, k.NumColumns())
		for i := int64(0); i < 4; i++ {
			assert.Equal(t, i+1, k.GetLongLong(int(i)))
		}
	})
}

func TestKey_Empty(t *testing.T) {
	var k Key
	assert.True(t, k.Empty())
	assert.Equal(t, 0, k.Size())
}

func TestKey_Mutators(t *testing.T) {
	t.Run("add and start column", func(t *testing.T) {
		var k Key
		k.AddComponentInt(1)
		k.StartColumn()
		k.AddComponentText("a")
		k.AddComponentText("b")
		assert.Equal(t, 2, k.NumColumns())
		assert.Equal(t, 3, k.Size())
		assert.Len(t, k.GetColumn(1), 2)
	})

	t.Run("resize grows and shrinks", func(t *testing.T) {
		k := NewKeyInts2(1, 2)
		k.Resize(4)
		assert.Equal(t, 4, k.Size())
		assert.Equal(t, int64(0), k.GetLongLong(3))

		k.Resize(1)
		assert.Equal(t, 1, k.Size())
		assert.Equal(t, 1, k.NumColumns())
	})

	t.Run("shift drops first component", func(t *testing.T) {
		k := NewKeyInts2(1, 2)
		k.Shift()
		assert.Equal(t, 1, k.Size())
		assert.Equal(t, int64(2), k.GetLongLong(0))
	})

	t.Run("unshift prepends a group", func(t *testing.T) {
		k := NewKeyInt(2)
		k.Unshift(1)
		assert.Equal(t, 2, k.NumColumns())
		assert.Equal(t, int64(1), k.GetLongLong(0))
		assert.Equal(t, int64(2), k.GetLongLong(1))
	})

	t.Run("pop back drops last component", func(t *testing.T) {
		k := NewKeyInts2(1, 2)
		k.PopBack()
		assert.Equal(t, 1, k.Size())
		assert.Equal(t, 1, k.NumColumns())
	})

	t.Run("clear empties the key", func(t *testing.T) {
		k := NewKeyInts2(1, 2)
		k.Clear()
		assert.True(t, k.Empty())
	})
}

func TestKey_Ordering(t *testing.T) {
	tests := []struct {
		name string
		a, b Key
		less bool
	}{
		{"equal ints", NewKeyInt(1), NewKeyInt(1), false},
		{"smaller int", NewKeyInt(1), NewKeyInt(2), true},
		{"int before text", NewKeyInt(1), NewKeyText("1"), true},
		{"shorter prefix first", NewKeyInt(1), NewKeyInts2(1, 2), true},
		{"text order", NewKeyText("a"), NewKeyText("b"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.less, tc.a.Less(tc.b))
			if tc.a.Equal(tc.b) {
				assert.False(t, tc.a.Less(tc.b))
				assert.False(t, tc.b.Less(tc.a))
			} else {
				assert.NotEqual(t, tc.a.Less(tc.b), tc.b.Less(tc.a))
			}
		})
	}
}

func TestKey_Hash(t *testing.T) {
	a := NewKeyInts2(1, 2)
	b := NewKeyInts2(1, 2)
	c := NewKeyInts2(2, 1)
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Equal(b))
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestKey_SerializeRoundTrip(t *testing.T) {
	k := NewKeyInts2(7, 42)
	text := k.SerializeToText()
	assert.Equal(t, "7|42", text)

	back := KeyFromText(text)
	assert.Equal(t, int64(7), back.GetLongLong(0))
	assert.Equal(t, int64(42), back.GetLongLong(1))

	textKey := NewKeyText("007")
	back2 := KeyFromText(textKey.SerializeToText())
	assert.Equal(t, "007", back2.GetText(0))
}

func TestKey_MapKeyDistinguishesDelimiterCollision(t *testing.T) {
	a := NewKeyText("a|b")
	b := NewKeyFromKeys2(NewKeyText("a"), NewKeyText("b"))

	assert.Equal(t, a.SerializeToText(), b.SerializeToText())
	assert.NotEqual(t, a.MapKey(), b.MapKey())
}

func TestKey_GetSubKeyAndParent(t *testing.T) {
	k := NewKeyInts4(1, 2, 3, 4)

	sub := k.GetSubKey(1, 2)
	assert.Equal(t, 2, sub.Size())
	assert.Equal(t, int64(2), sub.GetLongLong(0))
	assert.Equal(t, int64(3), sub.GetLongLong(1))

	parent := k.GetParentKey()
	assert.Equal(t, 3, parent.Size())

	single := NewKeyInt(1)
	assert.True(t, single.GetParentKey().Equal(single))
}
