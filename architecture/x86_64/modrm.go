package x86_64

// ModRM is the pure bit decomposition of a ModR/M byte into its three
// fields. It carries no semantics of its own: whether rm selects a
// register or the start of a memory addressing form is a decision made by
// the caller that already knows the instruction's operand shape, not by
// this type.
type ModRM struct {
	Mod byte // 2 bits: 0b00, 0b01, 0b10 or 0b11
	Reg byte // 3 bits: ModRM.reg, combined with REX.R/EVEX.R' to select a register
	Rm  byte // 3 bits: ModRM.rm, combined with REX.B/EVEX.X' to select a register or addressing base
}

// DecodeModRM splits a raw ModR/M byte into its Mod/Reg/Rm fields.
func DecodeModRM(b byte) ModRM {
	return ModRM{
		Mod: Shr8(b, 6),
		Reg: And8(Shr8(b, 3), 0x07),
		Rm:  And8(b, 0x07),
	}
}

// Encode reassembles a raw ModR/M byte from its three fields.
func (m ModRM) Encode() byte {
	b := Shl8(And8(m.Mod, 0x03), 6)
	b = Or8(b, Shl8(And8(m.Reg, 0x07), 3))
	b = Or8(b, And8(m.Rm, 0x07))
	return b
}

// NeedsSIB reports whether this ModR/M form is followed by a SIB byte:
// Mod != 0b11 and Rm == 0b100 (RSP's encoding), the escape that always
// means "address via SIB" regardless of which base register is actually
// referenced.
func (m ModRM) NeedsSIB() bool {
	return m.Mod != 0b11 && m.Rm == 0b100
}

// IsRIPRelative reports whether this ModR/M form is the RIP-relative
// addressing escape: Mod == 0b00 and Rm == 0b101. With Mod == 0b01 or 0b10
// the same Rm instead names rbp/r13 as a base with an 8- or 32-bit
// displacement.
func (m ModRM) IsRIPRelative() bool {
	return m.Mod == 0b00 && m.Rm == 0b101
}

// DisplacementWidthForMod reports how many displacement bytes follow the ModR/M
// (and SIB, if any) for the given mod field: 0, 1 or 4.
func DisplacementWidthForMod(mod byte) int {
	switch mod {
	case 0b01:
		return 1
	case 0b10:
		return 4
	default:
		return 0
	}
}

// SIB is the pure bit decomposition of a SIB byte.
type SIB struct {
	ScaleField byte // 2 bits: scale = 1 << ScaleField
	Index      byte // 3 bits: combined with REX.X/EVEX.X' to select an index register; 0b100 means "no index" when not extended
	Base       byte // 3 bits: combined with REX.B/EVEX.B' to select a base register; 0b101 with Mod==0b00 means "no base, disp32 follows"
}

// DecodeSIB splits a raw SIB byte into its Scale/Index/Base fields.
func DecodeSIB(b byte) SIB {
	return SIB{
		ScaleField: Shr8(b, 6),
		Index:      And8(Shr8(b, 3), 0x07),
		Base:       And8(b, 0x07),
	}
}

// Encode reassembles a raw SIB byte from its three fields.
func (s SIB) Encode() byte {
	b := Shl8(And8(s.ScaleField, 0x03), 6)
	b = Or8(b, Shl8(And8(s.Index, 0x07), 3))
	b = Or8(b, And8(s.Base, 0x07))
	return b
}

// Scale returns the SIB's scale factor: 1, 2, 4 or 8.
func (s SIB) Scale() byte { return 1 << s.ScaleField }

// ScaleFieldFor returns the 2-bit scale field encoding a scale factor of 1,
// 2, 4 or 8. The caller must have already validated scale is one of those.
func ScaleFieldFor(scale byte) byte {
	switch scale {
	case 2:
		return 0b01
	case 4:
		return 0b10
	case 8:
		return 0b11
	default:
		return 0b00
	}
}

// HasNoIndex reports whether the SIB's index field selects "no index
// register," which requires the index extension bit (REX.X / EVEX.X') to
// also be unset: index 0b100 with an extension bit set instead selects
// R12 as a genuine index register.
func (s SIB) HasNoIndex(indexExtension bool) bool {
	return s.Index == 0b100 && !indexExtension
}

// HasNoBase reports whether the SIB's base field selects "no base, disp32
// follows," which only applies when Mod == 0b00: base 0b101 with Mod ==
// 0b01 or 0b10 instead selects RBP/R13 as a genuine base register with an
// 8- or 32-bit displacement.
func (s SIB) HasNoBase(mod byte) bool {
	return s.Base == 0b101 && mod == 0b00
}
