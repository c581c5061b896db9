package sqlite

// latin1Order ranks a byte for a NOCASE collation: letters fold to a
// shared rank 1..26, the three Swedish/German accented letters sort
// immediately after Z (å/Å=27, ä/Ä=28, ö/Ö=29), everything else keeps
// its raw byte value.
func latin1Order(c byte) int {
	switch {
	case c >= 'A' && c <= 'Z':
		return 1 + int(c-'A')
	case c >= 'a' && c <= 'z':
		return 1 + int(c-'a')
	case c == 0xc5 || c == 0xe5: // Å / å
		return 27
	case c == 0xc4 || c == 0xe4: // Ä / ä
		return 28
	case c == 0xd6 || c == 0xf6: // Ö / ö
		return 29
	default:
		return int(c)
	}
}

// latin1Compare implements the NOCASE collation registered on every
// connection: compares byte-by-byte via latin1Order, then by length.
func latin1Compare(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		oa, ob := latin1Order(a[i]), latin1Order(b[i])
		if oa < ob {
			return -1
		}
		if oa > ob {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
