package doctree

import "unicode/utf8"

// The service measures text in UTF-16 code units; Go strings are UTF-8.

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s string) int64 {
	var n int64
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// ByteOffset converts an offset in UTF-16 code units into a byte offset in s.
// Offsets past the end clamp to len(s); an offset that splits a surrogate
// pair rounds up to the end of that rune.
func ByteOffset(s string, units int64) int {
	if units <= 0 {
		return 0
	}
	var seen int64
	for i, r := range s {
		if seen >= units {
			return i
		}
		seen += runeUnits(r)
	}
	return len(s)
}

func runeUnits(r rune) int64 {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
