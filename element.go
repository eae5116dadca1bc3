package guardstack

import "strconv"

// Word is the set of fixed-width element types a Stack can hold. Every Word
// converts losslessly to a 64-bit pattern for checksumming.
type Word interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// FormatFunc renders one element for diagnostics by appending to dst and
// returning the extended slice. dst has ElemWidth bytes of capacity; output
// beyond that is truncated by the reporter.
type FormatFunc[T Word] func(dst []byte, v T) []byte

// FormatDecimal is the default FormatFunc.
func FormatDecimal[T Word](dst []byte, v T) []byte {
	var zero T
	if zero-1 < zero {
		return strconv.AppendInt(dst, int64(v), 10)
	}
	return strconv.AppendUint(dst, uint64(v), 10)
}

// poisonOf returns the Poison byte pattern truncated to the width of T.
func poisonOf[T Word]() T {
	p := poisonWord
	return T(p)
}
