package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_RecordAndSnapshot(t *testing.T) {
	l := NewLog()
	l.RecordAdd(NewKeyInt(1))
	l.RecordAdd(NewKeyInt(2))
	l.RecordRemove(NewKeyInt(1))

	assert.Equal(t, 3, l.Size())
	assert.Equal(t, ADD, l.GetEvent(0).Event)
	assert.Equal(t, REMOVE, l.GetEvent(2).Event)
	assert.True(t, l.GetEvent(2).Key.Equal(NewKeyInt(1)))

	events := l.GetEvents(1)
	assert.Len(t, events, 2)
	assert.Equal(t, REMOVE, events[1].Event)
}

func TestLog_GetEventOutOfRange(t *testing.T) {
	l := NewLog()
	assert.Equal(t, LogEntry{}, l.GetEvent(0))
	assert.Nil(t, l.GetEvents(5))
}

func TestLog_Append(t *testing.T) {
	dst := NewLog()
	dst.RecordAdd(NewKeyInt(1))

	src := NewLog()
	src.RecordAdd(NewKeyInt(2))
	src.RecordRemove(NewKeyInt(3))

	dst.Append(src)

	assert.Equal(t, 3, dst.Size())
	assert.Equal(t, ADD, dst.GetEvent(0).Event)
	assert.Equal(t, ADD, dst.GetEvent(1).Event)
	assert.Equal(t, REMOVE, dst.GetEvent(2).Event)
}

func TestLog_AppendNilIsNoop(t *testing.T) {
	dst := NewLog()
	dst.RecordAdd(NewKeyInt(1))
	dst.Append(nil)
	assert.Equal(t, 1, dst.Size())
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "ADD", ADD.String())
	assert.Equal(t, "REMOVE", REMOVE.String())
}
