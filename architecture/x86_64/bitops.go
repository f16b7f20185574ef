package x86_64

import "github.com/corvid-systems/x64codec/internal/bitops"

// Thin re-exports of internal/bitops so the rest of this package can read
// prefix and addressing bytes without a bitops. qualifier on every line.

func And8(x, m uint8) uint8 { return bitops.And8(x, m) }
func Or8(x, m uint8) uint8  { return bitops.Or8(x, m) }
func Shl8(x uint8, n uint) uint8 { return bitops.Shl8(x, n) }
func Shr8(x uint8, n uint) uint8 { return bitops.Shr8(x, n) }
func Bit(x uint8, i uint) bool   { return bitops.Bit(x, i) }

func SignExtend(value int64, fromWidth int) int64 { return bitops.SignExtend(value, fromWidth) }
func MinSignedWidth(value int64) int              { return bitops.MinSignedWidth(value) }
