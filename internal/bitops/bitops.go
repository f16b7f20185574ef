// Package bitops provides the small set of masked bit operations the x86_64
// codec needs when pulling fields out of prefix and addressing bytes. Every
// operation is explicit about its width so that sign-extension of a narrow
// value never leaks into a wider one by accident.
package bitops

// And8 masks x with m, both treated as unsigned 8-bit values.
func And8(x, m uint8) uint8 { return x & m }

// Or8 combines x and m, both treated as unsigned 8-bit values.
func Or8(x, m uint8) uint8 { return x | m }

// Shl8 shifts x left by n bits, discarding bits that overflow 8 bits.
func Shl8(x uint8, n uint) uint8 { return x << n }

// Shr8 shifts x right by n bits. The shift is logical: vacated high bits are
// filled with zero. The codec never needs an arithmetic right shift on a raw
// byte.
func Shr8(x uint8, n uint) uint8 { return x >> n }

// And32 masks x with m, both treated as unsigned 32-bit values.
func And32(x, m uint32) uint32 { return x & m }

// Or32 combines x and m, both treated as unsigned 32-bit values.
func Or32(x, m uint32) uint32 { return x | m }

// Shl32 shifts x left by n bits, discarding bits that overflow 32 bits.
func Shl32(x uint32, n uint) uint32 { return x << n }

// Shr32 shifts x right by n bits, logically.
func Shr32(x uint32, n uint) uint32 { return x >> n }

// Bit reports whether bit index i (0 = least significant) is set in x.
func Bit(x uint8, i uint) bool { return (x>>i)&1 == 1 }

// SignExtend widens a value that is only meaningful in its low fromWidth
// bits to a full int64, replicating the sign bit upward. fromWidth must be
// one of 8, 16, 32 or 64; any other width returns value unchanged.
func SignExtend(value int64, fromWidth int) int64 {
	switch fromWidth {
	case 8:
		return int64(int8(value))
	case 16:
		return int64(int16(value))
	case 32:
		return int64(int32(value))
	default:
		return value
	}
}

// MinSignedWidth returns the smallest of {8, 16, 32, 64} whose signed range
// can represent value without change, used to pick a canonical displacement
// or immediate width when the caller did not declare one explicitly.
func MinSignedWidth(value int64) int {
	switch {
	case value >= -128 && value <= 127:
		return 8
	case value >= -32768 && value <= 32767:
		return 16
	case value >= -2147483648 && value <= 2147483647:
		return 32
	default:
		return 64
	}
}
