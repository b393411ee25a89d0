package utils

import "bytes"

// FixedToString - Returns the text stored in a fixed width, NUL padded field
func FixedToString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	return string(field)
}

// StringToFixed - Writes s into a fixed width field and pads the remainder with NUL bytes.
// It returns false, leaving field untouched, if s plus a terminating NUL does not fit or s contains a NUL.
func StringToFixed(field []byte, s string) bool {
	if len(s) >= len(field) || bytes.IndexByte([]byte(s), 0) >= 0 {
		return false
	}

	n := copy(field, s)
	clear(field[n:])

	return true
}

// FitsFixed - Returns true if s can be stored in a fixed width field of the given length
func FitsFixed(s string, length int64) bool {
	return int64(len(s)) < length && bytes.IndexByte([]byte(s), 0) < 0
}
