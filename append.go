package sqldb

import dberr "github.com/mstgnz/sqldb/err"

const appendBatchSize = 4096

// SchemaAdopter is implemented by backends whose key type can be set
// after construction; Append uses it to adopt src's key type into an
// empty dst.
type SchemaAdopter interface {
	SetKeyType(keyType []ColumnType)
}

// Append copies every row of src into dst, batching writes into
// transactions of appendBatchSize rows and appending src's Log to
// dst's Log.
//
// If dst currently has no columns, it adopts src's schema (columns and,
// when dst implements SchemaAdopter, key type) before copying rows.
func Append(dst, src Table) error {
	if dst.GetNumFields() == 0 {
		srcSchema := src.GetSchema()
		for _, col := range srcSchema.Columns {
			if err := dst.AddColumn(col.Name, col.Type, col.Unique, col.Decimals); err != nil {
				return err
			}
		}
		if adopter, ok := dst.(SchemaAdopter); ok {
			adopter.SetKeyType(srcSchema.KeyType)
		}
	}

	cur, err := src.SeekBegin()
	if err != nil {
		return err
	}

	if err := dst.Begin(); err != nil {
		return err
	}

	count := 0
	for cur != nil {
		rowKey := cur.GetRowKey()
		dstCur, err := dst.Insert(rowKey)
		if err != nil {
			_ = dst.Rollback()
			return err
		}

		n := cur.GetNumFields()
		for i := 0; i < n; i++ {
			if err := appendColumn(dstCur, cur, i); err != nil {
				_ = dst.Rollback()
				return err
			}
		}

		if _, err := dstCur.Execute(); err != nil {
			_ = dst.Rollback()
			return err
		}

		count++
		if count%appendBatchSize == 0 {
			if err := dst.Commit(); err != nil {
				return err
			}
			if err := dst.Begin(); err != nil {
				return err
			}
		}

		ok, err := cur.Next()
		if err != nil {
			_ = dst.Rollback()
			return err
		}
		if !ok {
			break
		}
	}

	if err := dst.Commit(); err != nil {
		return err
	}

	dst.GetLog().Append(src.GetLog())
	return nil
}

// appendColumn dispatches a single column copy by its ColumnType.
// BLOB/VECTOR columns are currently written as empty/NULL; copying
// binary and vector payloads between backends is not yet implemented.
func appendColumn(dst Cursor, src Cursor, i int) error {
	defined := !src.IsNull(i)
	switch src.GetColumnType(i) {
	case INT, BOOL, ENUM:
		return dst.SetInt(i, src.GetInt(i, 0), defined)
	case INT64, DATETIME, DATE:
		return dst.SetLongLong(i, src.GetLongLong(i, 0), defined)
	case DOUBLE:
		return dst.SetDouble(i, src.GetDouble(i, 0), defined)
	case FLOAT:
		return dst.SetFloat(i, src.GetFloat(i, 0), defined)
	case ANY, TEXT, URL, TEXT_KEY, BINARY_KEY, CHAR, VARCHAR:
		return dst.SetText(i, src.GetText(i, ""), defined)
	case BLOB, VECTOR:
		return dst.SetText(i, "", false)
	default:
		return dberr.New(dberr.Mismatch, "unhandled column type in append dispatch", nil)
	}
}
