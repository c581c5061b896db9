package sqldb

// Cursor is a DataStream positioned at a row of a Table, additionally
// exposing that row's primary key and a way to flush pending setters
// into a different row (used by the Assign projection).
type Cursor interface {
	DataStream

	// GetRowKey returns the primary key of the current row.
	GetRowKey() Key

	// Update writes pending setters into the row identified by key,
	// using the cursor's column projection, and returns the number of
	// rows affected (0 if key does not exist).
	Update(key Key) (int64, error)

	// AssignKey is the Key-decomposing convenience setter: empty key ->
	// NULL, single component -> by its type, multi-component ->
	// SerializeToText().
	AssignKey(columnIndex int, key Key) error
}
