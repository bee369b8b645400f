package agg

import (
	"encoding/binary"
	"math/bits"
)

var (
	patternSemi = compilePattern(';')
	patternNl   = compilePattern('\n')
)

// compilePattern broadcasts a byte into all eight lanes of a uint64, see
// https://richardstartin.github.io/posts/finding-bytes
func compilePattern(b byte) uint64 {
	pattern := uint64(b)
	return pattern |
		(pattern << 8) |
		(pattern << 16) |
		(pattern << 24) |
		(pattern << 32) |
		(pattern << 40) |
		(pattern << 48) |
		(pattern << 56)
}

// firstMatch returns the index (0..7) of the first byte of word equal to
// the broadcast pattern, or 8 when none matches.
func firstMatch(word, pattern uint64) int {
	input := word ^ pattern
	tmp := (input & 0x7F7F7F7F7F7F7F7F) + 0x7F7F7F7F7F7F7F7F
	tmp = ^(tmp | input | 0x7F7F7F7F7F7F7F7F)
	return bits.LeadingZeros64(tmp) >> 3
}

// indexOfByte is a word-at-a-time IndexByte over a broadcast pattern.
func indexOfByte(haystack []byte, pattern uint64) int {
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		if idx := firstMatch(binary.BigEndian.Uint64(haystack[i:i+8]), pattern); idx != 8 {
			return i + idx
		}
	}
	target := byte(pattern)
	for ; i < len(haystack); i++ {
		if haystack[i] == target {
			return i
		}
	}
	return -1
}

// record is one parsed key;value line. Key borrows from the input buffer.
type record struct {
	key  []byte
	hash uint64
	val  int32
}

// scanRecord parses the record starting at off, which must be a record
// start. It returns the record and the offset of the next record.
func scanRecord(buf []byte, off int, hasher Hasher) (record, int, error) {
	var rec record
	if off >= len(buf) {
		return rec, off, malformed(off, "scan past end of input")
	}
	sep := -1
	if hasher == HashFNV {
		h := uint32(fnvOffset32)
		for i := off; i < len(buf); i++ {
			b := buf[i]
			if b == ';' {
				sep = i
				break
			}
			if b == '\n' {
				return rec, off, malformed(off, "no field delimiter in record")
			}
			h ^= uint32(b)
			h *= fnvPrime32
		}
		rec.hash = uint64(h)
	} else {
		if i := indexOfByte(buf[off:], patternSemi); i >= 0 {
			sep = off + i
		}
		if sep >= 0 {
			if nl := indexOfByte(buf[off:sep], patternNl); nl >= 0 {
				return rec, off, malformed(off, "no field delimiter in record")
			}
		}
	}
	if sep < 0 {
		return rec, off, malformed(off, "no field delimiter before end of input")
	}
	rec.key = buf[off:sep]
	if hasher == HashXXH3 {
		rec.hash = hasher.hashKey(rec.key)
	}
	val, next, err := parseTenths(buf, sep+1)
	if err != nil {
		return rec, off, err
	}
	rec.val = val
	return rec, next, nil
}

// parseTenths reads a signed fixed-point decimal with one or two integer
// digits and exactly one fractional digit, returning the value in tenths
// and the offset one past the terminating newline (or the buffer end).
func parseTenths(buf []byte, off int) (int32, int, error) {
	i := off
	neg := false
	if i < len(buf) && buf[i] == '-' {
		neg = true
		i++
	}
	if i >= len(buf) || buf[i] < '0' || buf[i] > '9' {
		return 0, 0, malformed(i, "expected integer digit")
	}
	n := int32(buf[i] - '0')
	i++
	if i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		n = n*10 + int32(buf[i]-'0')
		i++
	}
	if i >= len(buf) || buf[i] != '.' {
		return 0, 0, malformed(i, "expected decimal point")
	}
	i++
	if i >= len(buf) || buf[i] < '0' || buf[i] > '9' {
		return 0, 0, malformed(i, "expected fractional digit")
	}
	n = n*10 + int32(buf[i]-'0')
	i++
	if neg {
		n = -n
	}
	if i < len(buf) {
		if buf[i] != '\n' {
			return 0, 0, malformed(i, "expected record separator")
		}
		i++
	}
	return n, i, nil
}

// skipRecord advances past the next newline, for the skip-malformed policy.
func skipRecord(buf []byte, off int) int {
	if i := indexOfByte(buf[off:], patternNl); i >= 0 {
		return off + i + 1
	}
	return len(buf)
}
