package x86_64

// RexPrefix is the single optional REX byte (0x40-0x4F) that extends the
// register-encoding space from 8 to 16 entries and selects 64-bit operand
// size. Present distinguishes a decoded "REX.W=0,R=0,X=0,B=0" byte (0x40)
// from no REX byte at all, since the two are not equivalent: a bare 0x40
// still unlocks SPL/BPL/SIL/DIL in the ModR/M reg field.
type RexPrefix struct {
	Present bool
	W       bool
	R       bool
	X       bool
	B       bool
}

const rexBase = 0x40

// IsRexByte reports whether b falls in the REX range 0x40-0x4F.
func IsRexByte(b byte) bool {
	return b&0xF0 == rexBase
}

// ParseRex decodes a single REX byte. The caller must already have verified
// IsRexByte(data[0]).
func ParseRex(b byte) RexPrefix {
	return RexPrefix{
		Present: true,
		W:       Bit(b, 3),
		R:       Bit(b, 2),
		X:       Bit(b, 1),
		B:       Bit(b, 0),
	}
}

// Encode synthesizes the REX byte. Callers should only emit it when
// Present is true, or when one of the four bits is set, or when an
// operand forces SPL/BPL/SIL/DIL disambiguation.
func (r RexPrefix) Encode() byte {
	b := byte(rexBase)
	if r.W {
		b = Or8(b, 1<<3)
	}
	if r.R {
		b = Or8(b, 1<<2)
	}
	if r.X {
		b = Or8(b, 1<<1)
	}
	if r.B {
		b = Or8(b, 1<<0)
	}
	return b
}

// RequiresRex reports whether r carries any bit that cannot be silently
// dropped: W, R, X or B set.
func (r RexPrefix) RequiresRex() bool {
	return r.W || r.R || r.X || r.B
}
