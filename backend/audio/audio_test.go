package audio

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

// writeTempWAV builds a minimal mono 16-bit PCM WAV file from raw
// int16 sample values.
func writeTempWAV(t *testing.T, sampleRate int, samples []int16) string {
	t.Helper()

	dataSize := len(samples) * 2
	buf := make([]byte, 0, 44+dataSize)

	buf = append(buf, "RIFF"...)
	buf = appendUint32(buf, uint32(36+dataSize))
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = appendUint32(buf, 16)
	buf = appendUint16(buf, 1) // PCM
	buf = appendUint16(buf, 1) // mono
	buf = appendUint32(buf, uint32(sampleRate))
	byteRate := sampleRate * 1 * 2
	buf = appendUint32(buf, uint32(byteRate))
	buf = appendUint16(buf, 2) // block align
	buf = appendUint16(buf, 16) // bits per sample

	buf = append(buf, "data"...)
	buf = appendUint32(buf, uint32(dataSize))
	for _, s := range samples {
		buf = appendUint16(buf, uint16(s))
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func TestOpen_ParsesFormatAndFrameCount(t *testing.T) {
	path := writeTempWAV(t, 44100, []int16{0, 16384, -16384, 32767})
	tbl, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.GetNumFields())
	assert.Equal(t, "Title", tbl.GetColumnName(ColTitle))
	assert.Equal(t, sqldb.VECTOR, tbl.GetColumnType(ColAudio))
	assert.Equal(t, int64(4), tbl.wav.frameCount())
}

func TestCursor_SeekBeginDecodesWholeTrack(t *testing.T) {
	path := writeTempWAV(t, 8000, []int16{0, 16384, -16384, 32767})
	tbl, err := Open(path)
	require.NoError(t, err)

	cur, err := tbl.SeekBegin()
	require.NoError(t, err)
	assert.Equal(t, 1, cur.GetInt(ColChannels, -1))
	assert.Equal(t, 8000, cur.GetInt(ColSampleRate, -1))

	samples := cur.GetVector(ColAudio)
	require.Len(t, samples, 4)
	assert.InDelta(t, 0.0, samples[0], 1e-6)
	assert.InDelta(t, 0.5, samples[1], 1e-3)
	assert.InDelta(t, -0.5, samples[2], 1e-3)
	assert.InDelta(t, 1.0, samples[3], 1e-3)

	ok, err := cur.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTable_SeekFrameRange(t *testing.T) {
	path := writeTempWAV(t, 8000, []int16{0, 16384, -16384, 32767})
	tbl, err := Open(path)
	require.NoError(t, err)

	k := sqldb.NewKeyInt(0)
	k.AddComponentInt(1)
	k.AddComponentInt(3)
	cur, err := tbl.Seek(k)
	require.NoError(t, err)
	require.NotNil(t, cur)

	samples := cur.GetVector(ColAudio)
	require.Len(t, samples, 2)
}

func TestTable_SeekRejectsWrongTrack(t *testing.T) {
	path := writeTempWAV(t, 8000, []int16{0})
	tbl, err := Open(path)
	require.NoError(t, err)

	cur, err := tbl.Seek(sqldb.NewKeyInt(1))
	require.NoError(t, err)
	assert.Nil(t, cur)

	_, err = tbl.Seek(sqldb.NewKey())
	assert.True(t, dberr.Is(err, dberr.Mismatch))
}

func TestCursor_MutationsAreReadOnly(t *testing.T) {
	path := writeTempWAV(t, 8000, []int16{0})
	tbl, err := Open(path)
	require.NoError(t, err)
	cur, err := tbl.SeekBegin()
	require.NoError(t, err)

	err = cur.SetInt(ColChannels, 2, true)
	assert.True(t, dberr.IsReadOnly(err))

	_, err = tbl.Insert(sqldb.NewKeyInt(0))
	assert.True(t, dberr.IsReadOnly(err))
}

var _ sqldb.Table = (*Table)(nil)
