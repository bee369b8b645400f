package agg

import "github.com/zeebo/xxh3"

// Hasher selects how key bytes are hashed during the scan.
type Hasher uint8

const (
	// HashFNV computes a 32-bit FNV-1a hash byte-by-byte in the same pass
	// that locates the field delimiter.
	HashFNV Hasher = iota
	// HashXXH3 locates the delimiter with the SWAR search first, then
	// hashes the whole key with xxh3.
	HashXXH3
)

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// fnv1a is the reference hash for tests and for merge-time hashing of
// keys that arrive without a precomputed hash.
func fnv1a(key []byte) uint32 {
	h := uint32(fnvOffset32)
	for _, b := range key {
		h ^= uint32(b)
		h *= fnvPrime32
	}
	return h
}

func (h Hasher) hashKey(key []byte) uint64 {
	if h == HashXXH3 {
		return xxh3.Hash(key)
	}
	return uint64(fnv1a(key))
}
