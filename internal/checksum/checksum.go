// Package checksum computes the integrity digests used by guardstack.
//
// A Hasher feeds fixed-width words and length-prefixed strings into an xxhash
// digest so that two logically different field sets never encode to the same
// byte stream.
package checksum

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hasher accumulates words into a 64-bit xxhash digest. The zero value is not
// ready for use; call Reset first.
type Hasher struct {
	d   xxhash.Digest
	buf [8]byte
}

// Reset clears the digest.
func (h *Hasher) Reset() { h.d.Reset() }

// Word appends v as 8 little-endian bytes.
func (h *Hasher) Word(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

// Int appends a signed integer as a word.
func (h *Hasher) Int(v int) { h.Word(uint64(v)) }

// String appends the length of s followed by its bytes.
func (h *Hasher) String(s string) {
	h.Int(len(s))
	_, _ = h.d.WriteString(s)
}

// Sum64 returns the current digest.
func (h *Hasher) Sum64() uint64 { return h.d.Sum64() }

// Words returns the digest of vs encoded with Word, prefixed by len(vs).
func Words[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr](vs []T) uint64 {
	var h Hasher
	h.Reset()
	h.Int(len(vs))
	for _, v := range vs {
		h.Word(uint64(v))
	}
	return h.Sum64()
}
