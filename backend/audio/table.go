// Package audio implements sqldb.Table as a read-only, one-track view
// over an uncompressed WAV file.
package audio

import (
	"github.com/mstgnz/sqldb"
	"github.com/mstgnz/sqldb/backend/readonly"
	dberr "github.com/mstgnz/sqldb/err"
)

const (
	ColTitle      = 0
	ColAudio      = 1
	ColChannels   = 2
	ColSampleRate = 3
)

var columnNames = [...]string{"Title", "Audio", "Channels", "Sample Rate"}
var columnTypes = [...]sqldb.ColumnType{sqldb.VARCHAR, sqldb.VECTOR, sqldb.INT, sqldb.INT}

// Table is a read-only sqldb.Table exposing one WAV file's channel
// count, sample rate and decoded samples as a single virtual row.
type Table struct {
	readonly.Table

	wav *wavFile
}

// Open parses path's RIFF/WAVE header. Only PCM and IEEE-float linear
// encodings are supported.
func Open(path string) (*Table, error) {
	wav, err := openWAV(path)
	if err != nil {
		return nil, err
	}
	return &Table{Table: readonly.Table{Name: "audio.Table"}, wav: wav}, nil
}

func (t *Table) GetNumFields() int { return len(columnNames) }

func (t *Table) GetColumnName(i int) string {
	if i < 0 || i >= len(columnNames) {
		return ""
	}
	return columnNames[i]
}

func (t *Table) GetColumnType(i int) sqldb.ColumnType {
	if i < 0 || i >= len(columnTypes) {
		return sqldb.ANY
	}
	return columnTypes[i]
}

func (t *Table) GetSchema() sqldb.Schema {
	cols := make([]sqldb.Column, len(columnNames))
	for i := range cols {
		cols[i] = sqldb.Column{Name: columnNames[i], Type: columnTypes[i]}
	}
	return sqldb.Schema{Columns: cols, KeyType: []sqldb.ColumnType{sqldb.INT64}}
}

func (t *Table) GetLog() *sqldb.Log { return sqldb.NewLog() }

// SeekBegin returns a cursor over the entire track, track index 0.
func (t *Table) SeekBegin() (sqldb.Cursor, error) {
	return &Cursor{table: t, track: 0}, nil
}

// Seek accepts either a single-component (track) key, which decodes
// the whole track, or a three-component (track, from, to) key, which
// decodes only frames [from, to).
func (t *Table) Seek(key sqldb.Key) (sqldb.Cursor, error) {
	switch key.Size() {
	case 1:
		track := key.GetLongLong(0)
		if track != 0 {
			return nil, nil
		}
		return &Cursor{table: t, track: int(track)}, nil
	case 3:
		track := key.GetLongLong(0)
		if track != 0 {
			return nil, nil
		}
		return &Cursor{table: t, track: int(track), ranged: true, from: key.GetLongLong(1), to: key.GetLongLong(2)}, nil
	default:
		return nil, dberr.New(dberr.Mismatch, "audio seek requires a (track) or (track, from, to) key", nil)
	}
}

var _ sqldb.Table = (*Table)(nil)
