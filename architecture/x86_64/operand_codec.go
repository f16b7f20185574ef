package x86_64

// operand_codec.go holds the shared ModR/M + SIB + displacement logic used
// by every opcode family whose operand is "register or memory": MOV,
// CMOVcc, CMP, LEA, CALL/JMP rm, MOVZX/MOVSX. Each opcode family supplies
// its own mnemonic and byte-sequence handling and delegates here for the
// part that is identical across all of them.

// decodeModRMOperands reads a ModR/M byte (and, for memory forms, SIB and
// displacement bytes) from the front of data and returns the register-field
// operand and the rm-field operand. regFamily is the register family for
// both the reg field and any register rm resolves to; MOVZX/MOVSX, whose two
// fields use different families, go through decodeModRMOperandsMixed instead.
func decodeModRMOperands(data []byte, regFamily Family, rex RexPrefix, offset int) (regOp Operand, rmOp Operand, consumed int, err error) {
	return decodeModRMOperandsWithAddressFamily(data, regFamily, rex, FamilyR64, offset)
}

// decodeModRMOperandsWithAddressFamily is decodeModRMOperands with an
// explicit address-size family, for callers that have already consumed a
// 0x67 address-size override prefix.
func decodeModRMOperandsWithAddressFamily(data []byte, regFamily Family, rex RexPrefix, addressFamily Family, offset int) (regOp Operand, rmOp Operand, consumed int, err error) {
	if len(data) < 1 {
		return nil, nil, 0, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	modrm := DecodeModRM(data[0])
	regOp = FromCode(regFamily, modrm.Reg, rex.R, false)

	if modrm.Mod == 0b11 {
		rmOp = FromCode(regFamily, modrm.Rm, rex.B, false)
		return regOp, rmOp, 1, nil
	}

	mem, memConsumed, err := decodeMemoryOperand(data[1:], modrm, rex, addressFamily, offset+1)
	if err != nil {
		return nil, nil, 0, err
	}
	return regOp, mem, 1 + memConsumed, nil
}

// decodeMemoryOperand decodes the SIB (if any) and displacement bytes that
// follow a ModR/M byte whose mod/rm selected a memory form. addressFamily
// is the register family used for base/index registers: FamilyR64 under
// default 64-bit addressing, FamilyR32 when an address-size override is in
// effect.
func decodeMemoryOperand(data []byte, modrm ModRM, rex RexPrefix, addressFamily Family, offset int) (IndirectOperand, int, error) {
	builder := NewIndirectOperandBuilder()
	consumed := 0

	if modrm.IsRIPRelative() {
		if len(data) < 4 {
			return IndirectOperand{}, 0, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		rip := RIP
		if addressFamily == FamilyR32 {
			rip = EIP
		}
		builder, _ = builder.SetIndex(rip)
		disp := int64(int32(decodeLE32(data[:4])))
		builder, _ = builder.SetDisplacement(NewImmediate(disp, 32))
		op, err := builder.Build()
		return op, 4, err
	}

	if modrm.NeedsSIB() {
		if len(data) < 1 {
			return IndirectOperand{}, 0, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		sib := DecodeSIB(data[0])
		consumed++
		data = data[1:]

		if !sib.HasNoIndex(rex.X) {
			idx := FromCode(addressFamily, sib.Index, rex.X, false)
			builder, _ = builder.SetIndex(idx)
			builder, _ = builder.SetScale(sib.Scale())
		}

		forcedDisp32 := sib.HasNoBase(modrm.Mod)
		if !forcedDisp32 {
			base := FromCode(addressFamily, sib.Base, rex.B, false)
			if sib.HasNoIndex(rex.X) && modrm.Mod == 0b00 {
				// A lone register behind a SIB byte ([rsp]/[r12]) is the
				// simple [index] form.
				builder, _ = builder.SetIndex(base)
			} else {
				builder, _ = builder.SetBase(base)
			}
		}

		dispWidth := DisplacementWidthForMod(modrm.Mod) * 8
		if forcedDisp32 {
			dispWidth = 32
		}
		n, err := decodeDisplacementInto(builder, data, dispWidth, offset+consumed)
		if err != nil {
			return IndirectOperand{}, 0, err
		}
		consumed += n
		op, err := builder.Build()
		return op, consumed, err
	}

	// No SIB: rm directly names a base (mod 01/10) or a simple index (mod 00).
	if modrm.Mod == 0b00 {
		idx := FromCode(addressFamily, modrm.Rm, rex.B, false)
		builder, _ = builder.SetIndex(idx)
		op, err := builder.Build()
		return op, 0, err
	}

	base := FromCode(addressFamily, modrm.Rm, rex.B, false)
	builder, _ = builder.SetBase(base)
	n, err := decodeDisplacementInto(builder, data, DisplacementWidthForMod(modrm.Mod)*8, offset)
	if err != nil {
		return IndirectOperand{}, 0, err
	}
	op, err := builder.Build()
	return op, n, err
}

func decodeDisplacementInto(builder *IndirectOperandBuilder, data []byte, width int, offset int) (int, error) {
	switch width {
	case 0:
		return 0, nil
	case 8:
		if len(data) < 1 {
			return 0, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		_, err := builder.SetDisplacement(NewImmediate(int64(int8(data[0])), 8))
		return 1, err
	case 32:
		if len(data) < 4 {
			return 0, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		_, err := builder.SetDisplacement(NewImmediate(int64(int32(decodeLE32(data[:4]))), 32))
		return 4, err
	default:
		return 0, nil
	}
}

// encodeModRMOperands encodes opcodeBytes followed by REX (synthesized
// from regOperand/rmOperand) and the ModR/M/SIB/displacement
// bytes for a reg/rm instruction form where regOperand always occupies the
// ModR/M.reg field and rmOperand the ModR/M.rm field (or memory addressing).
func encodeModRMOperands(opcodeBytes []byte, regOperand Register, rmOperand Operand, sink ByteSink) error {
	return encodeOpcodeWithRegAndRM(opcodeBytes, ToCode(regOperand), RequiresRexExtension(regOperand), rmOperand, wBitFor(regOperand), sink)
}

func wBitFor(r Register) bool {
	return r.Family == FamilyR64
}

// encodeOpcodeWithRegAndRM is the shared tail end of every reg/rm encoding:
// REX synthesis, opcode bytes, ModR/M, and (for memory operands) SIB and
// displacement.
func encodeOpcodeWithRegAndRM(opcodeBytes []byte, regField byte, regExt bool, rmOperand Operand, w bool, sink ByteSink) error {
	switch rm := rmOperand.(type) {
	case Register:
		rex := RexPrefix{W: w, R: regExt, B: RequiresRexExtension(rm)}
		if rex.RequiresRex() {
			sink.AppendByte(rex.Encode())
		}
		sink.AppendBytes(opcodeBytes)
		sink.AppendByte(ModRM{Mod: 0b11, Reg: regField, Rm: ToCode(rm)}.Encode())
		return nil
	case IndirectOperand:
		return encodeOpcodeWithIndirectOperandAndReg(opcodeBytes, regField, regExt, w, rm, sink)
	default:
		return &InvalidOperandShapeError{Message: "register-or-memory operand must be a Register or IndirectOperand"}
	}
}

// encodeOpcodeWithIndirectOperand encodes a register-less rm-only form
// (CALL/JMP rm) where the ModR/M.reg field is a fixed opcode-extension
// digit rather than a real register.
func encodeOpcodeWithIndirectOperand(opcode byte, ext byte, mem IndirectOperand, extraPrefixBytes []byte, sink ByteSink) error {
	return encodeOpcodeWithIndirectOperandAndReg([]byte{opcode}, ext, false, false, mem, sink)
}

func encodeOpcodeWithIndirectOperandAndReg(opcodeBytes []byte, regField byte, regExt bool, w bool, mem IndirectOperand, sink ByteSink) error {
	modrm, sib, disp, x, b, needsAddressSizeOverride, err := planMemoryEncoding(mem)
	if err != nil {
		return err
	}
	modrm.Reg = regField

	if seg, ok := mem.Segment(); ok {
		if pb, ok := segmentOverridePrefixByte(seg); ok {
			sink.AppendByte(pb)
		}
	}
	if needsAddressSizeOverride {
		sink.AppendByte(rawPrefixAddressSize)
	}

	rex := RexPrefix{W: w, R: regExt, X: x, B: b}
	if rex.RequiresRex() {
		sink.AppendByte(rex.Encode())
	}
	sink.AppendBytes(opcodeBytes)
	sink.AppendByte(modrm.Encode())
	if sib != nil {
		sink.AppendByte(sib.Encode())
	}
	sink.AppendBytes(disp)
	return nil
}

// planMemoryEncoding derives the ModR/M, optional SIB, and displacement
// bytes for mem, along with the REX.X/REX.B extension
// bits the base/index registers require and whether an address-size
// override is needed (index or base is a 32-bit register).
func planMemoryEncoding(mem IndirectOperand) (modrm ModRM, sib *SIB, disp []byte, x bool, b bool, addrSizeOverride bool, err error) {
	base, hasBase := mem.Base()
	index, hasIndex := mem.Index()
	scale := mem.Scale()
	displacement, hasDisp := mem.Displacement()

	if hasIndex && index.Family == FamilyR32 {
		addrSizeOverride = true
	}
	if hasBase && base.Family == FamilyR32 {
		addrSizeOverride = true
	}

	if hasIndex && (index == RIP || index == EIP) && !hasBase {
		disp32 := int32(0)
		if hasDisp {
			disp32 = displacement.AsInt()
		}
		return ModRM{Mod: 0b00, Rm: 0b101}, nil, encodeLE32(uint32(disp32)), false, false, addrSizeOverride, nil
	}

	if !hasBase && !hasIndex {
		if !hasDisp {
			return ModRM{}, nil, nil, false, false, false, &InvalidOperandShapeError{Message: "memory operand needs a base, index or displacement"}
		}
		s := SIB{ScaleField: 0b00, Index: 0b100, Base: 0b101}
		return ModRM{Mod: 0b00, Rm: 0b100}, &s, encodeLE32(uint32(displacement.AsInt())), false, false, addrSizeOverride, nil
	}

	if mem.IsSimple() {
		// Simple [index] form: the register sits in ModR/M.rm (or SIB.base),
		// so its extension bit is REX.B.
		b := ToCode(index)
		ext := RequiresRexExtension(index)
		if b == 0b100 {
			// [rsp]/[esp]: rm=100 would mean SIB follows, so force SIB=0x24.
			s := SIB{ScaleField: 0b00, Index: 0b100, Base: 0b100}
			return ModRM{Mod: 0b00, Rm: 0b100}, &s, nil, false, ext, addrSizeOverride, nil
		}
		if b == 0b101 {
			// [rbp]/[r13]: rm=101,mod=00 means RIP-relative, so force mod=01 disp8=0.
			return ModRM{Mod: 0b01, Rm: b}, nil, []byte{0x00}, false, ext, addrSizeOverride, nil
		}
		return ModRM{Mod: 0b00, Rm: b}, nil, nil, false, ext, addrSizeOverride, nil
	}

	if !hasBase {
		// Scaled index and/or displacement with no base: SIB base=101 under
		// mod=00, which always carries a 32-bit displacement.
		disp32 := int32(0)
		if hasDisp {
			disp32 = displacement.AsInt()
		}
		s := SIB{ScaleField: ScaleFieldFor(scale), Index: ToCode(index), Base: 0b101}
		return ModRM{Mod: 0b00, Rm: 0b100}, &s, encodeLE32(uint32(disp32)), RequiresRexExtension(index), false, addrSizeOverride, nil
	}

	baseCode := ToCode(base)
	baseExt := RequiresRexExtension(base)

	if hasIndex || baseCode == 0b100 {
		scaleField := ScaleFieldFor(scale)
		if scale != 0 {
			switch scale {
			case 1, 2, 4, 8:
			default:
				return ModRM{}, nil, nil, false, false, false, &InvalidOperandShapeError{Message: "scale must be one of 1, 2, 4, 8"}
			}
		}
		idxField := byte(0b100)
		if hasIndex {
			idxField = ToCode(index)
			x = RequiresRexExtension(index)
		}
		mod, d := modAndDisplacementFor(baseCode, displacement, hasDisp)
		s := SIB{ScaleField: scaleField, Index: idxField, Base: baseCode}
		return ModRM{Mod: mod, Rm: 0b100}, &s, d, x, baseExt, addrSizeOverride, nil
	}

	mod, d := modAndDisplacementFor(baseCode, displacement, hasDisp)
	return ModRM{Mod: mod, Rm: baseCode}, nil, d, false, baseExt, addrSizeOverride, nil
}

// modAndDisplacementFor picks mod ∈ {00,01,10} and the displacement bytes
// for a base register, forcing mod=01 disp8=0 when base is RBP/R13 with no
// declared displacement (rm=101,mod=00 would otherwise mean RIP-relative).
func modAndDisplacementFor(baseCode byte, displacement Immediate, hasDisp bool) (byte, []byte) {
	if !hasDisp {
		if baseCode == 0b101 {
			return 0b01, []byte{0x00}
		}
		return 0b00, nil
	}
	if displacement.Bits() == 8 {
		return 0b01, []byte{byte(displacement.AsByte())}
	}
	return 0b10, encodeLE32(uint32(displacement.AsInt()))
}
