package sqldb

import (
	"strconv"
	"strings"

	dberr "github.com/mstgnz/sqldb/err"
)

// DataStream is the base contract shared by every row-oriented view
// over a backend: typed getters and setters over the current row, NULL
// probing, column metadata, and a 0-based bind-index counter used by
// the Bind convenience method.
type DataStream interface {
	// Execute commits pending writes (insert/update) or steps the
	// statement once, returning the number of affected rows.
	Execute() (int64, error)
	// Next advances to the next row; false at end.
	Next() (bool, error)

	IsNull(columnIndex int) bool
	GetNumFields() int
	GetColumnName(columnIndex int) string
	GetColumnType(columnIndex int) ColumnType

	GetBool(columnIndex int, defaultValue bool) bool
	GetInt(columnIndex int, defaultValue int) int
	GetLongLong(columnIndex int, defaultValue int64) int64
	GetFloat(columnIndex int, defaultValue float32) float32
	GetDouble(columnIndex int, defaultValue float64) float64
	GetText(columnIndex int, defaultValue string) string
	GetBlob(columnIndex int) []byte
	GetVector(columnIndex int) []float32
	GetKey(columnIndex int) Key

	SetBool(columnIndex int, value bool, isDefined bool) error
	SetInt(columnIndex int, value int, isDefined bool) error
	SetLongLong(columnIndex int, value int64, isDefined bool) error
	SetFloat(columnIndex int, value float32, isDefined bool) error
	SetDouble(columnIndex int, value float64, isDefined bool) error
	SetText(columnIndex int, value string, isDefined bool) error
	SetBlob(columnIndex int, data []byte, isDefined bool) error
	SetVector(columnIndex int, value []float32, isDefined bool) error
	SetKey(columnIndex int, value Key, isDefined bool) error

	// Bind sets the value at the current bind-index counter and
	// advances it; Reset clears the counter back to 0.
	Bind(value interface{}) error
	Reset()
}

// BindCounter implements the 0-based bind-index bookkeeping shared by
// every backend; embed it and call Next()/ResetCounter() from Bind/Reset.
type BindCounter struct {
	next int
}

// Next returns the current bind index and advances the counter.
func (b *BindCounter) Next() int {
	i := b.next
	b.next++
	return i
}

// ResetCounter rewinds the bind-index counter to 0.
func (b *BindCounter) ResetCounter() {
	b.next = 0
}

// BindDispatch implements DataStream.Bind in terms of the typed Set*
// methods; every backend's Bind method delegates to it with its own
// bind-index counter.
func BindDispatch(ds DataStream, idx int, value interface{}) error {
	return bindDispatch(ds, idx, value)
}

func bindDispatch(ds DataStream, idx int, value interface{}) error {
	switch v := value.(type) {
	case nil:
		return ds.SetText(idx, "", false)
	case bool:
		return ds.SetBool(idx, v, true)
	case int:
		return ds.SetInt(idx, v, true)
	case int64:
		return ds.SetLongLong(idx, v, true)
	case float32:
		return ds.SetFloat(idx, v, true)
	case float64:
		return ds.SetDouble(idx, v, true)
	case string:
		return ds.SetText(idx, v, true)
	case []byte:
		return ds.SetBlob(idx, v, true)
	case []float32:
		return ds.SetVector(idx, v, true)
	case Key:
		return ds.SetKey(idx, v, true)
	default:
		return dberr.New(dberr.BindFailed, "unsupported bind value type", nil)
	}
}

// coerceInt parses a text cell into an int, defaulting on failure: a
// non-native numeric type coerces from its text representation via
// decimal parsing.
func coerceInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return v
}

func coerceLongLong(s string, defaultValue int64) int64 {
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func coerceFloat(s string, defaultValue float32) float32 {
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return defaultValue
	}
	return float32(v)
}

func coerceDouble(s string, defaultValue float64) float64 {
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func coerceBool(s string, defaultValue bool) bool {
	return coerceInt(s, boolToInt(defaultValue)) != 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// KeyFromColumn implements the getKey dynamic-typing rule: ANY tries
// integer-then-text, numeric types read an integer, everything else
// reads text.
func KeyFromColumn(ds DataStream, columnIndex int) Key {
	t := ds.GetColumnType(columnIndex)
	if t == ANY {
		s := ds.GetText(columnIndex, "")
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewKeyInt(v)
		}
		return NewKeyText(s)
	}
	if IsNumeric(t) {
		return NewKeyInt(ds.GetLongLong(columnIndex, 0))
	}
	return NewKeyText(ds.GetText(columnIndex, ""))
}

// SetKeyDispatch implements the Key-decomposing setter rule: empty ->
// NULL; single component -> by its type; multi-component ->
// SerializeToText().
func SetKeyDispatch(ds DataStream, columnIndex int, key Key) error {
	switch {
	case key.Empty():
		return ds.SetText(columnIndex, "", false)
	case key.Size() >= 2:
		return ds.SetText(columnIndex, key.SerializeToText(), true)
	case IsNumeric(key.GetType(0)):
		return ds.SetLongLong(columnIndex, key.GetLongLong(0), true)
	default:
		return ds.SetText(columnIndex, key.GetText(0), true)
	}
}
