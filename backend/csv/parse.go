package csv

import (
	"io"
	"os"
)

// readRecord extracts the next newline-delimited record from f,
// buffering unread bytes in buf between calls. A backslash escapes the
// following byte and a double quote toggles a quoted span during which
// an unescaped newline does not end the record. It returns the record
// text (without the trailing newline), the number of bytes consumed
// including that newline, and false at end of file.
func readRecord(f *os.File, buf *[]byte) (string, int, bool, error) {
	for {
		quoted := false
		for i := 0; i < len(*buf); i++ {
			c := (*buf)[i]
			switch {
			case !quoted && c == '"':
				quoted = true
			case c == '\\':
				i++
			case quoted && c == '"':
				quoted = false
			case !quoted && c == '\n':
				rec := string((*buf)[:i])
				consumed := i + 1
				*buf = (*buf)[consumed:]
				return rec, consumed, true, nil
			}
		}

		chunk := make([]byte, 4096)
		n, err := f.Read(chunk)
		if n > 0 {
			*buf = append(*buf, chunk[:n]...)
			continue
		}
		if err != nil && err != io.EOF {
			return "", 0, false, err
		}
		return "", 0, false, nil
	}
}

// splitFields splits line on delimiter, honoring the same quote/escape
// rules as readRecord. Trailing carriage returns are trimmed first so
// CRLF files read the same as LF ones.
func splitFields(line string, delimiter byte) []string {
	n := len(line)
	for n >= 1 && line[n-1] == '\r' {
		n--
	}
	if n == 0 {
		return nil
	}

	var fields []string
	var current []byte
	inQuote := false
	for i := 0; i < n; i++ {
		c := line[i]
		switch {
		case !inQuote && c == '"':
			inQuote = true
		case c == '\\':
			i++
			if i < n {
				current = append(current, line[i])
			}
		case inQuote && c == '"':
			inQuote = false
		case inQuote:
			current = append(current, c)
		case c == delimiter:
			fields = append(fields, string(current))
			current = nil
		default:
			current = append(current, c)
		}
	}
	fields = append(fields, string(current))
	return fields
}

// delimiterNone signals that none of the candidate delimiters split
// line into more than one field, so the row has no real delimiter.
const delimiterNone = 0

// detectDelimiter picks whichever of comma, semicolon or tab splits
// line into the most fields. If every candidate produces only one
// field, it returns delimiterNone instead of guessing comma for data
// that isn't actually delimited.
func detectDelimiter(line string) byte {
	best := 1
	delimiter := byte(delimiterNone)
	for _, d := range []byte{',', ';', '\t'} {
		if n := len(splitFields(line, d)); n > best {
			best = n
			delimiter = d
		}
	}
	return delimiter
}
