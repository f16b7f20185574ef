package x86_64

const (
	opMovRMReg8  = 0x88
	opMovRMReg   = 0x89
	opMovRegImm8 = 0xB0 // +r
	opMovRegImm  = 0xB8 // +r
	opMovzx8     = 0xB6 // preceded by 0x0F
	opMovzx16    = 0xB7 // preceded by 0x0F
	opMovsx8     = 0xBE // preceded by 0x0F
	opMovsx16    = 0xBF // preceded by 0x0F
	opLea        = 0x8D
	opPushReg    = 0x50 // +r
	opPopReg     = 0x58 // +r
	opPushImm32  = 0x68
	opPushImm8   = 0x6A
	opXchgR8     = 0x86
	opXchgR      = 0x87
)

const (
	opMovRegRM8 = 0x8A // mov r8, r/m8 (reverse direction of 0x88)
	opMovRegRM  = 0x8B // mov r, r/m (reverse direction of 0x89)
)

// decodeMovRMReg decodes `mov r/m, r` (0x88/0x89: ModR/M.reg is the source,
// ModR/M.rm the destination) and `mov r, r/m` (0x8A/0x8B: the reverse),
// honoring an address-size override on the memory side of either.
func decodeMovRMReg(data []byte, rex RexPrefix, addressSizeOverride bool, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 {
		return Instruction{}, 0, false, nil
	}
	addressFamily := FamilyR64
	if addressSizeOverride {
		addressFamily = FamilyR32
	}

	var family Family
	reversed := false
	switch data[0] {
	case opMovRMReg8:
		family = FamilyR8
	case opMovRMReg:
		family = FamilyR32
		if rex.W {
			family = FamilyR64
		}
	case opMovRegRM8:
		family = FamilyR8
		reversed = true
	case opMovRegRM:
		family = FamilyR32
		if rex.W {
			family = FamilyR64
		}
		reversed = true
	default:
		return Instruction{}, 0, false, nil
	}
	reg, rm, n, err := decodeModRMOperandsWithAddressFamily(data[1:], family, rex, addressFamily, offset+1)
	if err != nil {
		return Instruction{}, 0, true, err
	}
	var instr Instruction
	if reversed {
		instr, err = buildTwoOperandInstruction("mov", reg, rm)
	} else {
		instr, err = buildTwoOperandInstruction("mov", rm, reg)
	}
	return instr, 1 + n, true, err
}

func encodeMovRMReg(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "mov" {
		return false, nil
	}
	dest, ok1 := instr.Operand(0)
	src, ok2 := instr.Operand(1)
	if !ok1 || !ok2 {
		return false, nil
	}

	if srcReg, ok := src.(Register); ok {
		opcode := byte(opMovRMReg)
		if srcReg.Family == FamilyR8 {
			opcode = opMovRMReg8
		}
		return true, encodeModRMOperands([]byte{opcode}, srcReg, dest, sink)
	}

	if _, ok := src.(IndirectOperand); ok {
		destReg, ok := dest.(Register)
		if !ok {
			return false, nil
		}
		opcode := byte(opMovRegRM)
		if destReg.Family == FamilyR8 {
			opcode = opMovRegRM8
		}
		return true, encodeModRMOperands([]byte{opcode}, destReg, src, sink)
	}

	return false, nil
}

// decodeMovRegImm decodes `mov r, imm` (0xB0+r for 8-bit imm8, 0xB8+r for
// 32/64-bit imm).
func decodeMovRegImm(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 {
		return Instruction{}, 0, false, nil
	}
	op := data[0]
	switch {
	case op >= opMovRegImm8 && op < opMovRegImm8+8:
		if len(data) < 2 {
			return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		reg := FromCode(FamilyR8, op-opMovRegImm8, rex.B, false)
		instr, err := buildTwoOperandInstruction("mov", reg, NewImmediate(int64(int8(data[1])), 8))
		return instr, 2, true, err
	case op >= opMovRegImm && op < opMovRegImm+8:
		width := 32
		family := FamilyR32
		if rex.W {
			width = 64
			family = FamilyR64
		}
		n := width / 8
		if len(data) < 1+n {
			return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		reg := FromCode(family, op-opMovRegImm, rex.B, false)
		var value int64
		if width == 32 {
			value = int64(int32(decodeLE32(data[1:5])))
		} else {
			value = decodeLE64(data[1:9])
		}
		instr, err := buildTwoOperandInstruction("mov", reg, NewImmediate(value, width))
		return instr, 1 + n, true, err
	default:
		return Instruction{}, 0, false, nil
	}
}

func encodeMovRegImm(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "mov" {
		return false, nil
	}
	dest, ok1 := instr.Operand(0)
	src, ok2 := instr.Operand(1)
	if !ok1 || !ok2 {
		return false, nil
	}
	destReg, ok := dest.(Register)
	if !ok {
		return false, nil
	}
	imm, ok := src.(Immediate)
	if !ok {
		return false, nil
	}
	rex := RexPrefix{B: RequiresRexExtension(destReg)}
	switch destReg.Family {
	case FamilyR8:
		if rex.RequiresRex() {
			sink.AppendByte(rex.Encode())
		}
		sink.AppendByte(opMovRegImm8 + ToCode(destReg))
		sink.AppendByte(byte(imm.AsByte()))
		return true, nil
	case FamilyR32:
		if rex.RequiresRex() {
			sink.AppendByte(rex.Encode())
		}
		sink.AppendByte(opMovRegImm + ToCode(destReg))
		sink.AppendBytes(encodeLE32(uint32(imm.AsInt())))
		return true, nil
	case FamilyR64:
		rex.W = true
		sink.AppendByte(rex.Encode())
		sink.AppendByte(opMovRegImm + ToCode(destReg))
		sink.AppendBytes(encodeLE64(uint64(imm.AsLong())))
		return true, nil
	default:
		return true, &InvalidOperandShapeError{Message: "mov reg,imm destination must be a general-purpose register"}
	}
}

func decodeLE64(b []byte) int64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return int64(v)
}

func encodeLE64(v uint64) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}

// decodeMovzxMovsx decodes MOVZX/MOVSX (0x0F 0xB6/0xB7/0xBE/0xBF /r): the
// source is narrower than the destination and never sign/zero-extends
// beyond what the opcode already selects.
func decodeMovzxMovsx(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 2 || data[0] != 0x0F {
		return Instruction{}, 0, false, nil
	}
	var mnemonic string
	var srcFamily Family
	switch data[1] {
	case opMovzx8:
		mnemonic, srcFamily = "movzx", FamilyR8
	case opMovzx16:
		mnemonic, srcFamily = "movzx", FamilyR16
	case opMovsx8:
		mnemonic, srcFamily = "movsx", FamilyR8
	case opMovsx16:
		mnemonic, srcFamily = "movsx", FamilyR16
	default:
		return Instruction{}, 0, false, nil
	}
	destFamily := FamilyR32
	if rex.W {
		destFamily = FamilyR64
	}
	destOp, srcOp, n, err := decodeModRMOperandsMixed(data[2:], destFamily, srcFamily, rex, offset+2)
	if err != nil {
		return Instruction{}, 0, true, err
	}
	instr, err := buildTwoOperandInstruction(mnemonic, destOp, srcOp)
	return instr, 2 + n, true, err
}

// decodeModRMOperandsMixed is decodeModRMOperands for the MOVZX/MOVSX
// shape, where the reg field (destination) and rm field (source) are
// different register families.
func decodeModRMOperandsMixed(data []byte, regFamily, rmFamily Family, rex RexPrefix, offset int) (regOp Operand, rmOp Operand, consumed int, err error) {
	if len(data) < 1 {
		return nil, nil, 0, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	modrm := DecodeModRM(data[0])
	regOp = FromCode(regFamily, modrm.Reg, rex.R, false)
	if modrm.Mod == 0b11 {
		rmOp = FromCode(rmFamily, modrm.Rm, rex.B, false)
		return regOp, rmOp, 1, nil
	}
	mem, n, err := decodeMemoryOperand(data[1:], modrm, rex, FamilyR64, offset+1)
	if err != nil {
		return nil, nil, 0, err
	}
	return regOp, mem, 1 + n, nil
}

func encodeMovzxMovsx(instr Instruction, sink ByteSink) (bool, error) {
	var opcode byte
	switch instr.Mnemonic() {
	case "movzx":
		opcode = opMovzx8
	case "movsx":
		opcode = opMovsx8
	default:
		return false, nil
	}
	dest, ok1 := instr.Operand(0)
	src, ok2 := instr.Operand(1)
	if !ok1 || !ok2 {
		return true, &InvalidOperandShapeError{Message: instr.Mnemonic() + " requires two operands"}
	}
	destReg, ok := dest.(Register)
	if !ok {
		return true, &InvalidOperandShapeError{Message: instr.Mnemonic() + " destination must be a register"}
	}
	if srcReg, ok := src.(Register); ok && srcReg.Family == FamilyR16 {
		opcode++
	}
	return true, encodeModRMOperands([]byte{0x0F, opcode}, destReg, src, sink)
}

// decodeLea decodes LEA (0x8D /r): the source must be memory, never a
// register, since LEA computes an address rather than dereferencing one.
func decodeLea(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 || data[0] != opLea {
		return Instruction{}, 0, false, nil
	}
	family := FamilyR32
	if rex.W {
		family = FamilyR64
	}
	dest, src, n, err := decodeModRMOperands(data[1:], family, rex, offset+1)
	if err != nil {
		return Instruction{}, 0, true, err
	}
	if _, ok := src.(IndirectOperand); !ok {
		return Instruction{}, 0, true, &InvalidOperandShapeError{Message: "lea source must be a memory operand"}
	}
	instr, err := buildTwoOperandInstruction("lea", dest, src)
	return instr, 1 + n, true, err
}

func encodeLea(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "lea" {
		return false, nil
	}
	dest, ok1 := instr.Operand(0)
	src, ok2 := instr.Operand(1)
	if !ok1 || !ok2 {
		return true, &InvalidOperandShapeError{Message: "lea requires two operands"}
	}
	destReg, ok := dest.(Register)
	if !ok {
		return true, &InvalidOperandShapeError{Message: "lea destination must be a register"}
	}
	if _, ok := src.(IndirectOperand); !ok {
		return true, &InvalidOperandShapeError{Message: "lea source must be a memory operand"}
	}
	return true, encodeModRMOperands([]byte{opLea}, destReg, src, sink)
}

// decodePushPop decodes PUSH/POP reg64 (0x50+r / 0x58+r) and PUSH imm.
func decodePushPop(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 {
		return Instruction{}, 0, false, nil
	}
	op := data[0]
	switch {
	case op >= opPushReg && op < opPushReg+8:
		reg := FromCode(FamilyR64, op-opPushReg, rex.B, false)
		instr, err := buildSimpleInstruction("push", reg)
		return instr, 1, true, err
	case op >= opPopReg && op < opPopReg+8:
		reg := FromCode(FamilyR64, op-opPopReg, rex.B, false)
		instr, err := buildSimpleInstruction("pop", reg)
		return instr, 1, true, err
	case op == opPushImm8:
		if len(data) < 2 {
			return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		instr, err := buildSimpleInstruction("push", NewImmediate(int64(int8(data[1])), 8))
		return instr, 2, true, err
	case op == opPushImm32:
		if len(data) < 5 {
			return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
		}
		instr, err := buildSimpleInstruction("push", NewImmediate(int64(int32(decodeLE32(data[1:5]))), 32))
		return instr, 5, true, err
	default:
		return Instruction{}, 0, false, nil
	}
}

func encodePushPop(instr Instruction, sink ByteSink) (bool, error) {
	switch instr.Mnemonic() {
	case "push":
		op, ok := instr.Operand(0)
		if !ok {
			return true, &InvalidOperandShapeError{Message: "push requires one operand"}
		}
		switch v := op.(type) {
		case Register:
			rex := RexPrefix{B: RequiresRexExtension(v)}
			if rex.RequiresRex() {
				sink.AppendByte(rex.Encode())
			}
			sink.AppendByte(opPushReg + ToCode(v))
			return true, nil
		case Immediate:
			if v.Bits() == 8 {
				sink.AppendByte(opPushImm8)
				sink.AppendByte(byte(v.AsByte()))
			} else {
				sink.AppendByte(opPushImm32)
				sink.AppendBytes(encodeLE32(uint32(v.AsInt())))
			}
			return true, nil
		default:
			return true, &InvalidOperandShapeError{Message: "push operand must be a register or immediate"}
		}
	case "pop":
		op, ok := instr.Operand(0)
		if !ok {
			return true, &InvalidOperandShapeError{Message: "pop requires one operand"}
		}
		reg, ok := op.(Register)
		if !ok {
			return true, &InvalidOperandShapeError{Message: "pop operand must be a register"}
		}
		rex := RexPrefix{B: RequiresRexExtension(reg)}
		if rex.RequiresRex() {
			sink.AppendByte(rex.Encode())
		}
		sink.AppendByte(opPopReg + ToCode(reg))
		return true, nil
	default:
		return false, nil
	}
}

// decodeXchg decodes XCHG r/m, r (0x86 for 8-bit, 0x87 for 32/64-bit).
func decodeXchg(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 {
		return Instruction{}, 0, false, nil
	}
	var family Family
	switch data[0] {
	case opXchgR8:
		family = FamilyR8
	case opXchgR:
		family = FamilyR32
		if rex.W {
			family = FamilyR64
		}
	default:
		return Instruction{}, 0, false, nil
	}
	reg, rm, n, err := decodeModRMOperands(data[1:], family, rex, offset+1)
	if err != nil {
		return Instruction{}, 0, true, err
	}
	instr, err := buildTwoOperandInstruction("xchg", rm, reg)
	return instr, 1 + n, true, err
}

func encodeXchg(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "xchg" {
		return false, nil
	}
	dest, ok1 := instr.Operand(0)
	src, ok2 := instr.Operand(1)
	if !ok1 || !ok2 {
		return true, &InvalidOperandShapeError{Message: "xchg requires two operands"}
	}
	srcReg, ok := src.(Register)
	if !ok {
		return true, &InvalidOperandShapeError{Message: "xchg second operand must be a register"}
	}
	opcode := byte(opXchgR)
	if srcReg.Family == FamilyR8 {
		opcode = opXchgR8
	}
	return true, encodeModRMOperands([]byte{opcode}, srcReg, dest, sink)
}
