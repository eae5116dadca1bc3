package checksum

import "testing"

func TestWords_DetectsSingleBitFlip(t *testing.T) {
	a := []int32{1, 2, 3, 4}
	b := []int32{1, 2, 3, 4 ^ 1}
	if Words(a) == Words(b) {
		t.Fatalf("expected different digests for %v and %v", a, b)
	}
}

func TestWords_LengthPrefixed(t *testing.T) {
	if Words([]uint8{}) == Words([]uint8{0}) {
		t.Fatalf("empty and single-zero ranges must not collide")
	}
}

func TestHasher_StringBoundaries(t *testing.T) {
	var h Hasher
	h.Reset()
	h.String("ab")
	h.String("c")
	x := h.Sum64()

	h.Reset()
	h.String("a")
	h.String("bc")
	if y := h.Sum64(); x == y {
		t.Fatalf("length prefix should separate %q|%q from %q|%q", "ab", "c", "a", "bc")
	}
}

func TestHasher_ResetIsDeterministic(t *testing.T) {
	var h Hasher
	h.Reset()
	h.Word(42)
	h.Int(-1)
	first := h.Sum64()
	h.Reset()
	h.Word(42)
	h.Int(-1)
	if second := h.Sum64(); first != second {
		t.Fatalf("digest not reproducible: %x vs %x", first, second)
	}
}
