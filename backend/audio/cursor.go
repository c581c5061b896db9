package audio

import (
	"strconv"

	"github.com/mstgnz/sqldb"
)

// Cursor exposes one decoded frame range of a Table as a single row.
// next() always returns false: like the original, an audio track is a
// one-row virtual table, not a stream of rows.
type Cursor struct {
	table *Table

	track  int
	ranged bool
	from   int64
	to     int64

	decoded bool
	samples []float32
}

var _ sqldb.Cursor = (*Cursor)(nil)

func (c *Cursor) GetRowKey() sqldb.Key {
	if !c.ranged {
		return sqldb.NewKeyInt(int64(c.track))
	}
	k := sqldb.NewKeyInt(int64(c.track))
	k.AddComponentInt(c.from)
	k.AddComponentInt(c.to)
	return k
}

func (c *Cursor) Next() (bool, error) { return false, nil }

func (c *Cursor) Execute() (int64, error) { return 1, nil }

func (c *Cursor) IsNull(i int) bool { return i < 0 || i >= c.table.GetNumFields() }

func (c *Cursor) GetNumFields() int          { return c.table.GetNumFields() }
func (c *Cursor) GetColumnName(i int) string { return c.table.GetColumnName(i) }
func (c *Cursor) GetColumnType(i int) sqldb.ColumnType {
	return c.table.GetColumnType(i)
}

func (c *Cursor) GetBool(i int, d bool) bool {
	return c.GetInt(i, boolToInt(d)) != 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (c *Cursor) GetInt(i int, d int) int {
	switch i {
	case ColChannels:
		return c.table.wav.channels()
	case ColSampleRate:
		return c.table.wav.sampleRate()
	default:
		return d
	}
}

func (c *Cursor) GetLongLong(i int, d int64) int64 { return int64(c.GetInt(i, int(d))) }
func (c *Cursor) GetFloat(i int, d float32) float32 {
	return float32(c.GetInt(i, int(d)))
}
func (c *Cursor) GetDouble(i int, d float64) float64 {
	return float64(c.GetInt(i, int(d)))
}

// GetText only carries real data for the Channels/SampleRate columns;
// the Title column always returns the caller's default since no title
// metadata is extracted from the WAV file.
func (c *Cursor) GetText(i int, d string) string {
	switch i {
	case ColChannels, ColSampleRate:
		return strconv.Itoa(c.GetInt(i, 0))
	default:
		return d
	}
}

func (c *Cursor) GetBlob(i int) []byte { return nil }

// GetVector decodes the requested frame range on first access and
// caches it for the lifetime of the cursor.
func (c *Cursor) GetVector(i int) []float32 {
	if i != ColAudio {
		return nil
	}
	if !c.decoded {
		c.decoded = true
		if c.ranged {
			samples, err := c.table.wav.read(c.from, c.to-c.from)
			if err == nil {
				c.samples = samples
			}
		} else {
			samples, err := c.table.wav.read(0, c.table.wav.frameCount())
			if err == nil {
				c.samples = samples
			}
		}
	}
	return c.samples
}

func (c *Cursor) GetKey(i int) sqldb.Key { return sqldb.NewKeyText(c.GetText(i, "")) }

func (c *Cursor) SetBool(i int, v bool, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetBool")
}
func (c *Cursor) SetInt(i int, v int, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetInt")
}
func (c *Cursor) SetLongLong(i int, v int64, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetLongLong")
}
func (c *Cursor) SetFloat(i int, v float32, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetFloat")
}
func (c *Cursor) SetDouble(i int, v float64, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetDouble")
}
func (c *Cursor) SetText(i int, v string, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetText")
}
func (c *Cursor) SetBlob(i int, v []byte, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetBlob")
}
func (c *Cursor) SetVector(i int, v []float32, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetVector")
}
func (c *Cursor) SetKey(i int, v sqldb.Key, defined bool) error {
	return sqldb.ErrReadOnly("audio.Cursor.SetKey")
}

func (c *Cursor) AssignKey(i int, key sqldb.Key) error {
	return sqldb.ErrReadOnly("audio.Cursor.AssignKey")
}

func (c *Cursor) Update(key sqldb.Key) (int64, error) {
	return 0, sqldb.ErrReadOnly("audio.Cursor.Update")
}

func (c *Cursor) Bind(value interface{}) error { return sqldb.ErrReadOnly("audio.Cursor.Bind") }
func (c *Cursor) Reset()                       {}
