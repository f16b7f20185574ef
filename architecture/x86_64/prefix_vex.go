package x86_64

// Vex2Prefix is the two-byte VEX escape (0xC5 + one payload byte). It can
// only reach the "no B/X extension, no W, no 5-bit map" subset of what
// VEX3/EVEX can express; any of those needs a Vex3Prefix instead.
type Vex2Prefix struct {
	R bool // inverted ModRM.reg extension
	V byte // ~vvvv, 4 bits: the second source register, already un-inverted
	L bool // 256-bit vector length
	P byte // implied legacy prefix: 0=none,1=0x66,2=0xF3,3=0xF2
}

const vex2Escape = 0xC5

// ParseVex2 decodes the single payload byte following a 0xC5 escape.
func ParseVex2(b byte) Vex2Prefix {
	return Vex2Prefix{
		R: !Bit(b, 7),
		V: And8(^Shr8(b, 3), 0x0F),
		L: Bit(b, 2),
		P: And8(b, 0x03),
	}
}

// Encode synthesizes the 0xC5 escape and its payload byte.
func (v Vex2Prefix) Encode() [2]byte {
	payload := byte(0)
	if !v.R {
		payload = Or8(payload, 1<<7)
	}
	payload = Or8(payload, Shl8(And8(^v.V, 0x0F), 3))
	if v.L {
		payload = Or8(payload, 1<<2)
	}
	payload = Or8(payload, And8(v.P, 0x03))
	return [2]byte{vex2Escape, payload}
}

// Vex3Prefix is the three-byte VEX escape (0xC4 + two payload bytes), used
// whenever X, B or W must be expressed, or the opcode map is not 0x0F.
type Vex3Prefix struct {
	R bool
	X bool
	B bool
	M byte // opcode map select, 5 bits
	W bool
	V byte // ~vvvv, 4 bits, un-inverted
	L bool
	P byte
}

const vex3Escape = 0xC4

// ParseVex3 decodes the two payload bytes following a 0xC4 escape. It only
// extracts the raw 5-bit m field; neither it nor DecodePrefixes checks m
// against DefinedOpcodeMaps.
func ParseVex3(b1, b2 byte) Vex3Prefix {
	return Vex3Prefix{
		R: !Bit(b1, 7),
		X: !Bit(b1, 6),
		B: !Bit(b1, 5),
		M: And8(b1, 0x1F),
		W: Bit(b2, 7),
		V: And8(^Shr8(b2, 3), 0x0F),
		L: Bit(b2, 2),
		P: And8(b2, 0x03),
	}
}

// Encode synthesizes the 0xC4 escape and its two payload bytes.
func (v Vex3Prefix) Encode() [3]byte {
	b1 := And8(v.M, 0x1F)
	if !v.R {
		b1 = Or8(b1, 1<<7)
	}
	if !v.X {
		b1 = Or8(b1, 1<<6)
	}
	if !v.B {
		b1 = Or8(b1, 1<<5)
	}

	b2 := And8(v.P, 0x03)
	if v.W {
		b2 = Or8(b2, 1<<7)
	}
	b2 = Or8(b2, Shl8(And8(^v.V, 0x0F), 3))
	if v.L {
		b2 = Or8(b2, 1<<2)
	}

	return [3]byte{vex3Escape, b1, b2}
}

// DefinedOpcodeMaps enumerates the VEX3 map-select values with assigned
// meaning: 1 = 0F, 2 = 0F38, 3 = 0F3A. Every other value in the field's
// full 0..0x1F range is reserved.
var DefinedOpcodeMaps = map[byte]string{
	1: "0F",
	2: "0F38",
	3: "0F3A",
}
