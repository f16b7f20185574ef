package x86_64

// EvexPrefix is the four-byte EVEX escape (0x62 + three payload bytes)
// used by AVX-512 forms: it extends VEX3's register-extension and
// vector-length fields and adds an opmask selector plus broadcast/merge
// control bits.
type EvexPrefix struct {
	R  bool
	X  bool
	B  bool
	Rp bool // R', high bit of ModRM.reg extension
	M  byte // opcode map select, 3 bits
	W  bool
	V  byte // ~vvvv, 4 bits, un-inverted
	P  byte
	Z  bool // zeroing-merge vs merge-merge
	Lp bool // L', high bit of vector length
	L  bool
	Bp bool // b', broadcast/rounding control
	Vp bool // V', high bit of vvvv
	A  byte // opmask register selector, 3 bits
}

const evexEscape = 0x62

// ParseEvex decodes the three payload bytes following a 0x62 escape. It
// returns an InvalidPrefixFieldError if either of the two fixed reserved
// bits does not hold its required value.
func ParseEvex(p0, p1, p2 byte, offset int) (EvexPrefix, error) {
	if Bit(p0, 3) {
		return EvexPrefix{}, &InvalidPrefixFieldError{Prefix: "EVEX", Field: "P0.bit3", Value: 1, offset: offset}
	}
	if !Bit(p1, 2) {
		return EvexPrefix{}, &InvalidPrefixFieldError{Prefix: "EVEX", Field: "P1.bit2", Value: 0, offset: offset}
	}

	return EvexPrefix{
		R:  !Bit(p0, 7),
		X:  !Bit(p0, 6),
		B:  !Bit(p0, 5),
		Rp: !Bit(p0, 4),
		M:  And8(p0, 0x07),
		W:  Bit(p1, 7),
		V:  And8(^Shr8(p1, 3), 0x0F),
		P:  And8(p1, 0x03),
		Z:  Bit(p2, 7),
		Lp: Bit(p2, 6),
		L:  Bit(p2, 5),
		Bp: Bit(p2, 4),
		Vp: !Bit(p2, 3),
		A:  And8(p2, 0x07),
	}, nil
}

// Encode synthesizes the 0x62 escape and its three payload bytes.
func (e EvexPrefix) Encode() [4]byte {
	p0 := And8(e.M, 0x07)
	if !e.R {
		p0 = Or8(p0, 1<<7)
	}
	if !e.X {
		p0 = Or8(p0, 1<<6)
	}
	if !e.B {
		p0 = Or8(p0, 1<<5)
	}
	if !e.Rp {
		p0 = Or8(p0, 1<<4)
	}

	p1 := And8(e.P, 0x03)
	if e.W {
		p1 = Or8(p1, 1<<7)
	}
	p1 = Or8(p1, Shl8(And8(^e.V, 0x0F), 3))
	p1 = Or8(p1, 1<<2)

	p2 := And8(e.A, 0x07)
	if e.Z {
		p2 = Or8(p2, 1<<7)
	}
	if e.Lp {
		p2 = Or8(p2, 1<<6)
	}
	if e.L {
		p2 = Or8(p2, 1<<5)
	}
	if e.Bp {
		p2 = Or8(p2, 1<<4)
	}
	if !e.Vp {
		p2 = Or8(p2, 1<<3)
	}

	return [4]byte{evexEscape, p0, p1, p2}
}

// VectorLength reports the EVEX vector width in bits selected by L'L: 128,
// 256 or 512. L'L = 11 is reserved for future use; callers that need to
// reject it should do so explicitly, since a rounding-control form can
// legally set both bits with Bp (b') in play instead.
func (e EvexPrefix) VectorLength() int {
	switch {
	case !e.Lp && !e.L:
		return 128
	case !e.Lp && e.L:
		return 256
	case e.Lp && !e.L:
		return 512
	default:
		return 0
	}
}
