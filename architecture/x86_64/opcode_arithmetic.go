package x86_64

const (
	opAddRM8  = 0x00
	opAddRM   = 0x01
	opCmpRM8  = 0x38
	opCmpRM   = 0x39
	opCmpImm8 = 0x80 // /7, rm8, imm8
	opCmpImmW = 0x81 // /7, rm32/64, imm32
	opCmpImmS = 0x83 // /7, rm32/64, imm8 sign-extended

	modrmExtCmp = 7
)

func decodeAddRM(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 {
		return Instruction{}, 0, false, nil
	}
	var family Family
	switch data[0] {
	case opAddRM8:
		family = FamilyR8
	case opAddRM:
		family = FamilyR32
		if rex.W {
			family = FamilyR64
		}
	default:
		return Instruction{}, 0, false, nil
	}
	src, dest, n, err := decodeModRMOperands(data[1:], family, rex, offset+1)
	if err != nil {
		return Instruction{}, 0, true, err
	}
	instr, err := buildTwoOperandInstruction("add", dest, src)
	return instr, 1 + n, true, err
}

func encodeAddRM(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "add" {
		return false, nil
	}
	dest, ok1 := instr.Operand(0)
	src, ok2 := instr.Operand(1)
	if !ok1 || !ok2 {
		return false, nil
	}
	srcReg, ok := src.(Register)
	if !ok {
		return false, nil
	}
	opcode := byte(opAddRM)
	if srcReg.Family == FamilyR8 {
		opcode = opAddRM8
	}
	return true, encodeModRMOperands([]byte{opcode}, srcReg, dest, sink)
}

// decodeCmpRM decodes `cmp r/m, r` (0x38 8-bit, 0x39 32/64-bit).
func decodeCmpRM(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 {
		return Instruction{}, 0, false, nil
	}
	var family Family
	switch data[0] {
	case opCmpRM8:
		family = FamilyR8
	case opCmpRM:
		family = FamilyR32
		if rex.W {
			family = FamilyR64
		}
	default:
		return Instruction{}, 0, false, nil
	}
	src, dest, n, err := decodeModRMOperands(data[1:], family, rex, offset+1)
	if err != nil {
		return Instruction{}, 0, true, err
	}
	instr, err := buildTwoOperandInstruction("cmp", dest, src)
	return instr, 1 + n, true, err
}

func encodeCmpRM(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "cmp" {
		return false, nil
	}
	dest, ok1 := instr.Operand(0)
	src, ok2 := instr.Operand(1)
	if !ok1 || !ok2 {
		return false, nil
	}
	srcReg, ok := src.(Register)
	if !ok {
		return false, nil
	}
	opcode := byte(opCmpRM)
	if srcReg.Family == FamilyR8 {
		opcode = opCmpRM8
	}
	return true, encodeModRMOperands([]byte{opcode}, srcReg, dest, sink)
}

// decodeCmpImm decodes `cmp r/m, imm` (0x80/0x81/0x83, ModR/M extension
// digit 7).
func decodeCmpImm(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 {
		return Instruction{}, 0, false, nil
	}
	var family Family
	var immWidth int
	switch data[0] {
	case opCmpImm8:
		family, immWidth = FamilyR8, 8
	case opCmpImmW:
		family, immWidth = FamilyR32, 32
		if rex.W {
			family = FamilyR64
		}
	case opCmpImmS:
		family, immWidth = FamilyR32, 8
		if rex.W {
			family = FamilyR64
		}
	default:
		return Instruction{}, 0, false, nil
	}
	if len(data) < 1 {
		return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	modrm := DecodeModRM(data[1])
	if modrm.Reg != modrmExtCmp {
		return Instruction{}, 0, false, nil
	}

	var rm Operand
	var n int
	var err error
	if modrm.Mod == 0b11 {
		rm = FromCode(family, modrm.Rm, rex.B, false)
		n = 1
	} else {
		var mem IndirectOperand
		mem, n, err = decodeMemoryOperand(data[2:], modrm, rex, FamilyR64, offset+2)
		if err != nil {
			return Instruction{}, 0, true, err
		}
		n++
		rm = mem
	}

	rest := data[1+n:]
	var value int64
	switch immWidth {
	case 8:
		if len(rest) < 1 {
			return Instruction{}, 0, true, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		value = int64(int8(rest[0]))
	case 32:
		if len(rest) < 4 {
			return Instruction{}, 0, true, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		value = int64(int32(decodeLE32(rest[:4])))
	}

	instr, err := buildTwoOperandInstruction("cmp", rm, NewImmediate(value, immWidth))
	return instr, 1 + n + immWidth/8, true, err
}

func encodeCmpImm(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "cmp" {
		return false, nil
	}
	dest, ok1 := instr.Operand(0)
	src, ok2 := instr.Operand(1)
	if !ok1 || !ok2 {
		return false, nil
	}
	imm, ok := src.(Immediate)
	if !ok {
		return false, nil
	}

	var family Family
	switch v := dest.(type) {
	case Register:
		family = v.Family
	case IndirectOperand:
		if v.PointerSize() == 0 {
			return true, &InvalidOperandShapeError{Message: "cmp r/m, imm requires an explicit pointer size on a bare memory destination"}
		}
		family = familyForBits(v.PointerSize())
	default:
		return true, &InvalidOperandShapeError{Message: "cmp destination must be a register or memory operand"}
	}

	var opcode byte
	switch {
	case family == FamilyR8:
		opcode = opCmpImm8
	case imm.Bits() == 8:
		opcode = opCmpImmS
	default:
		opcode = opCmpImmW
	}

	w := family == FamilyR64
	if err := encodeOpcodeWithRegAndRM([]byte{opcode}, modrmExtCmp, false, dest, w, sink); err != nil {
		return true, err
	}
	switch opcode {
	case opCmpImm8, opCmpImmS:
		sink.AppendByte(byte(imm.AsByte()))
	default:
		sink.AppendBytes(encodeLE32(uint32(imm.AsInt())))
	}
	return true, nil
}

func familyForBits(bits int) Family {
	switch bits {
	case 8:
		return FamilyR8
	case 16:
		return FamilyR16
	case 64:
		return FamilyR64
	default:
		return FamilyR32
	}
}
