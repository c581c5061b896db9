package sqldb

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"strings"
)

// KeyComponent is a single element of a Key: either a signed 64-bit
// integer or a UTF-8 string, never both.
type KeyComponent struct {
	isText bool
	i      int64
	s      string
}

func intComponent(v int64) KeyComponent   { return KeyComponent{i: v} }
func textComponent(v string) KeyComponent { return KeyComponent{isText: true, s: v} }

// Key is a structured composite value used both as row identity and as
// a column cell: an ordered, finite sequence of components, grouped
// into an ordered sequence of column groups.
type Key struct {
	components []KeyComponent
	groupSizes []int
}

// NewKey returns the empty Key.
func NewKey() Key { return Key{} }

// NewKeyInt returns a single-component, single-group Key holding i.
func NewKeyInt(i int64) Key {
	return Key{components: []KeyComponent{intComponent(i)}, groupSizes: []int{1}}
}

// NewKeyText returns a single-component, single-group Key holding s.
func NewKeyText(s string) Key {
	return Key{components: []KeyComponent{textComponent(s)}, groupSizes: []int{1}}
}

// NewKeyIntKey prepends i as its own group, then appends other's
// components flattened into a second group.
func NewKeyIntKey(i int64, other Key) Key {
	k := Key{}
	k.startGroup()
	k.components = append(k.components, intComponent(i))
	k.groupSizes[0] = 1
	k.startGroup()
	k.components = append(k.components, other.components...)
	k.groupSizes[len(k.groupSizes)-1] = len(other.components)
	return k
}

// NewKeyFromKeys2 concatenates a and b, each flattened into its own group.
func NewKeyFromKeys2(a, b Key) Key {
	return concatKeysAsGroups(a, b)
}

// NewKeyFromKeys3 concatenates a, b, c, each flattened into its own group.
func NewKeyFromKeys3(a, b, c Key) Key {
	return concatKeysAsGroups(a, b, c)
}

// NewKeyFromKeys4 concatenates a, b, c, d, each flattened into its own group.
func NewKeyFromKeys4(a, b, c, d Key) Key {
	return concatKeysAsGroups(a, b, c, d)
}

func concatKeysAsGroups(keys ...Key) Key {
	k := Key{}
	for _, other := range keys {
		k.startGroup()
		k.components = append(k.components, other.components...)
		k.groupSizes[len(k.groupSizes)-1] = len(other.components)
	}
	return k
}

// NewKeyInts2 returns a two-group Key, one integer component per group.
func NewKeyInts2(i1, i2 int64) Key {
	k := Key{}
	k.AddComponentInt(i1)
	k.StartColumn()
	k.AddComponentInt(i2)
	return k
}

// NewKeyInts4 returns a four-group Key, one integer component per group.
func NewKeyInts4(i1, i2, i3, i4 int64) Key {
	k := Key{}
	k.AddComponentInt(i1)
	k.StartColumn()
	k.AddComponentInt(i2)
	k.StartColumn()
	k.AddComponentInt(i3)
	k.StartColumn()
	k.AddComponentInt(i4)
	return k
}

// KeyFromText decodes the canonical `|`-joined textual form produced
// by SerializeToText, re-inferring integer-vs-text per component using
// strict decimal round-trip (so "007" stays text, "7" becomes an
// integer). All components land in a single group, since the grouping
// structure is not preserved across serialization.
func KeyFromText(s string) Key {
	k := Key{}
	if s == "" {
		return k
	}
	k.startGroup()
	parts := strings.Split(s, "|")
	for _, p := range parts {
		if v, err := strconv.ParseInt(p, 10, 64); err == nil && strconv.FormatInt(v, 10) == p {
			k.components = append(k.components, intComponent(v))
		} else {
			k.components = append(k.components, textComponent(p))
		}
	}
	k.groupSizes[0] = len(parts)
	return k
}

func (k *Key) startGroup() {
	k.groupSizes = append(k.groupSizes, 0)
}

// StartColumn opens a new, initially empty column group; subsequent
// AddComponent calls append into it.
func (k *Key) StartColumn() {
	k.startGroup()
}

func (k *Key) ensureGroup() {
	if len(k.groupSizes) == 0 {
		k.startGroup()
	}
}

// AddComponentInt appends an integer component to the current group.
func (k *Key) AddComponentInt(v int64) {
	k.ensureGroup()
	k.components = append(k.components, intComponent(v))
	k.groupSizes[len(k.groupSizes)-1]++
}

// AddComponentText appends a text component to the current group.
func (k *Key) AddComponentText(v string) {
	k.ensureGroup()
	k.components = append(k.components, textComponent(v))
	k.groupSizes[len(k.groupSizes)-1]++
}

// Size returns the total number of components across all groups.
func (k Key) Size() int { return len(k.components) }

// Empty reports whether the Key holds no components.
func (k Key) Empty() bool { return len(k.components) == 0 }

// Clear removes every component and group.
func (k *Key) Clear() {
	k.components = nil
	k.groupSizes = nil
}

// Resize truncates or extends the component list to exactly n
// components, belonging to the last group (zero-value integers are
// appended when growing).
func (k *Key) Resize(n int) {
	if n < 0 {
		n = 0
	}
	cur := len(k.components)
	if n == cur {
		return
	}
	if n == 0 {
		k.Clear()
		return
	}
	if n < cur {
		dropped := cur - n
		k.components = k.components[:n]
		for dropped > 0 && len(k.groupSizes) > 0 {
			last := len(k.groupSizes) - 1
			if k.groupSizes[last] <= dropped {
				dropped -= k.groupSizes[last]
				k.groupSizes = k.groupSizes[:last]
			} else {
				k.groupSizes[last] -= dropped
				dropped = 0
			}
		}
		return
	}
	k.ensureGroup()
	for cur < n {
		k.components = append(k.components, intComponent(0))
		k.groupSizes[len(k.groupSizes)-1]++
		cur++
	}
}

// Shift drops the first component, shrinking (or removing) its group.
func (k *Key) Shift() {
	if len(k.components) == 0 {
		return
	}
	k.components = k.components[1:]
	if len(k.groupSizes) > 0 {
		k.groupSizes[0]--
		if k.groupSizes[0] == 0 {
			k.groupSizes = k.groupSizes[1:]
		}
	}
}

// Unshift prepends an integer as a new first group of size 1.
func (k *Key) Unshift(i int64) {
	k.components = append([]KeyComponent{intComponent(i)}, k.components...)
	k.groupSizes = append([]int{1}, k.groupSizes...)
}

// PopBack removes the last component, shrinking (or removing) its group.
func (k *Key) PopBack() {
	n := len(k.components)
	if n == 0 {
		return
	}
	k.components = k.components[:n-1]
	last := len(k.groupSizes) - 1
	if last >= 0 {
		k.groupSizes[last]--
		if k.groupSizes[last] == 0 {
			k.groupSizes = k.groupSizes[:last]
		}
	}
}

// GetColumn returns the sub-sequence of components belonging to group i.
func (k Key) GetColumn(i int) []KeyComponent {
	if i < 0 || i >= len(k.groupSizes) {
		return nil
	}
	start := 0
	for g := 0; g < i; g++ {
		start += k.groupSizes[g]
	}
	return k.components[start : start+k.groupSizes[i]]
}

// NumColumns returns the number of column groups.
func (k Key) NumColumns() int { return len(k.groupSizes) }

// GetType returns the dynamic type of component i: INT64 for an
// integer component, VARCHAR for a text component, ANY if i is out of
// range.
func (k Key) GetType(i int) ColumnType {
	if i < 0 || i >= len(k.components) {
		return ANY
	}
	if k.components[i].isText {
		return VARCHAR
	}
	return INT64
}

// GetLongLong returns component i as an integer: the component's
// value directly if it is an integer, or a best-effort signed decimal
// parse if it is text (0 on parse failure or out-of-range index).
func (k Key) GetLongLong(i int) int64 {
	if i < 0 || i >= len(k.components) {
		return 0
	}
	c := k.components[i]
	if !c.isText {
		return c.i
	}
	v, err := strconv.ParseInt(strings.TrimSpace(c.s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// GetText returns component i as text: the component's string value
// directly if it is text, or the empty string if it is an integer or
// the index is out of range.
func (k Key) GetText(i int) string {
	if i < 0 || i >= len(k.components) {
		return ""
	}
	c := k.components[i]
	if c.isText {
		return c.s
	}
	return ""
}

// Less implements a total order over Keys: lexicographic
// over components, comparing same-kind components by value and
// differing-kind components by kind (integer < text), with a shorter
// prefix ordering before a longer Key that agrees on the shared prefix.
func (k Key) Less(other Key) bool {
	n := len(k.components)
	if len(other.components) < n {
		n = len(other.components)
	}
	for i := 0; i < n; i++ {
		a, b := k.components[i], other.components[i]
		if a.isText != b.isText {
			return !a.isText // integers sort before text
		}
		if a.isText {
			if a.s != b.s {
				return a.s < b.s
			}
		} else {
			if a.i != b.i {
				return a.i < b.i
			}
		}
	}
	return len(k.components) < len(other.components)
}

// Equal reports componentwise equality.
func (k Key) Equal(other Key) bool {
	if len(k.components) != len(other.components) {
		return false
	}
	for i, a := range k.components {
		b := other.components[i]
		if a.isText != b.isText || a.i != b.i || a.s != b.s {
			return false
		}
	}
	return true
}

func componentHash(c KeyComponent) uint64 {
	if c.isText {
		h := fnv.New64a()
		_, _ = h.Write([]byte(c.s))
		return h.Sum64()
	}
	return uint64(c.i)
}

// Hash folds every component's hash with a boost-style hash_combine, so
// Hash(a) == Hash(b) whenever a.Equal(b).
func (k Key) Hash() uint64 {
	var h uint64
	for _, c := range k.components {
		v := componentHash(c)
		h ^= v + 0x9e3779b9 + (h << 6) + (h >> 2)
	}
	return h
}

// SerializeToText renders the canonical `|`-joined textual form:
// integers as decimal, text as-is.
func (k Key) SerializeToText() string {
	parts := make([]string, len(k.components))
	for i, c := range k.components {
		if c.isText {
			parts[i] = c.s
		} else {
			parts[i] = strconv.FormatInt(c.i, 10)
		}
	}
	return strings.Join(parts, "|")
}

// GetSubKey returns the components [from, from+n) (or [from, end) if n
// is omitted), with group boundaries clipped to the new range.
func (k Key) GetSubKey(from int, n ...int) Key {
	end := len(k.components)
	if len(n) > 0 {
		if from+n[0] < end {
			end = from + n[0]
		}
	}
	if from < 0 {
		from = 0
	}
	if from > len(k.components) {
		from = len(k.components)
	}
	if end < from {
		end = from
	}
	if end > len(k.components) {
		end = len(k.components)
	}

	r := Key{}
	pos := 0
	for _, size := range k.groupSizes {
		gstart, gend := pos, pos+size
		pos = gend
		lo, hi := gstart, gend
		if lo < from {
			lo = from
		}
		if hi > end {
			hi = end
		}
		if lo >= hi {
			continue
		}
		r.startGroup()
		r.components = append(r.components, k.components[lo:hi]...)
		r.groupSizes[len(r.groupSizes)-1] = hi - lo
	}
	return r
}

// GetParentKey drops the last component if Size() >= 2, otherwise
// returns a copy of k unchanged.
func (k Key) GetParentKey() Key {
	if k.Size() < 2 {
		return k
	}
	parent := k
	parent.components = append([]KeyComponent(nil), k.components[:len(k.components)-1]...)
	parent.groupSizes = append([]int(nil), k.groupSizes...)
	last := len(parent.groupSizes) - 1
	parent.groupSizes[last]--
	if parent.groupSizes[last] == 0 {
		parent.groupSizes = parent.groupSizes[:last]
	}
	return parent
}

// MapKey returns a comparable representation of k suitable for use as
// a Go map key (Key itself holds slices and is not comparable). Unlike
// SerializeToText, each component is self-delimiting (length-prefixed
// text, fixed-width integers), so two distinct Keys never collide even
// when a text component contains the `|` used by SerializeToText.
func (k Key) MapKey() string {
	var sb strings.Builder
	var buf [8]byte
	for _, c := range k.components {
		if c.isText {
			sb.WriteByte('s')
			sb.WriteString(strconv.Itoa(len(c.s)))
			sb.WriteByte(':')
			sb.WriteString(c.s)
		} else {
			sb.WriteByte('i')
			binary.BigEndian.PutUint64(buf[:], uint64(c.i))
			sb.Write(buf[:])
		}
	}
	return sb.String()
}
