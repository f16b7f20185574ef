package x86_64

// Control-flow opcode forms: Jcc, JMP, CALL, CMOVcc. These are the forms
// the conditional jump and call/jmp-through-register/memory forms plus CMOVcc's register/memory source form.

const (
	opJccRel8Base  = 0x70
	opJccRel32Base = 0x80 // preceded by 0x0F
	opJmpRel8      = 0xEB
	opJmpRel32     = 0xE9
	opCallRel32    = 0xE8
	opCallOrJmpRM  = 0xFF
	opCMOVccBase   = 0x40 // preceded by 0x0F

	modrmExtCallRM = 2
	modrmExtJmpRM  = 4
)

func mnemonicForJcc(c Condition) string  { return "j" + c.Suffix() }
func mnemonicForCMOVcc(c Condition) string { return "cmov" + c.Suffix() }

// decodeJccRel8 attempts a Jcc-with-8-bit-displacement decode at data[0].
func decodeJccRel8(data []byte, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 || data[0]&0xF0 != opJccRel8Base {
		return Instruction{}, 0, false, nil
	}
	if len(data) < 2 {
		return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	cc := Condition(data[0] & 0x0F)
	rel := int64(int8(data[1]))
	instr, err := buildSimpleInstruction(mnemonicForJcc(cc), NewRelativeOffset(rel, 8))
	return instr, 2, true, err
}

// decodeJccRel32 attempts a Jcc-with-32-bit-displacement decode at data[0:2]
// == 0x0F 0x80+cc.
func decodeJccRel32(data []byte, offset int) (Instruction, int, bool, error) {
	if len(data) < 2 || data[0] != 0x0F || data[1]&0xF0 != opJccRel32Base {
		return Instruction{}, 0, false, nil
	}
	if len(data) < 6 {
		return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	cc := Condition(data[1] & 0x0F)
	rel := int64(int32(decodeLE32(data[2:6])))
	instr, err := buildSimpleInstruction(mnemonicForJcc(cc), NewRelativeOffset(rel, 32))
	return instr, 6, true, err
}

func decodeJmpRel8(data []byte, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 || data[0] != opJmpRel8 {
		return Instruction{}, 0, false, nil
	}
	if len(data) < 2 {
		return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	rel := int64(int8(data[1]))
	instr, err := buildSimpleInstruction("jmp", NewRelativeOffset(rel, 8))
	return instr, 2, true, err
}

func decodeJmpRel32(data []byte, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 || data[0] != opJmpRel32 {
		return Instruction{}, 0, false, nil
	}
	if len(data) < 5 {
		return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	rel := int64(int32(decodeLE32(data[1:5])))
	instr, err := buildSimpleInstruction("jmp", NewRelativeOffset(rel, 32))
	return instr, 5, true, err
}

func decodeCallRel32(data []byte, offset int) (Instruction, int, bool, error) {
	if len(data) < 1 || data[0] != opCallRel32 {
		return Instruction{}, 0, false, nil
	}
	if len(data) < 5 {
		return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	rel := int64(int32(decodeLE32(data[1:5])))
	instr, err := buildSimpleInstruction("call", NewRelativeOffset(rel, 32))
	return instr, 5, true, err
}

// decodeCallOrJmpRM decodes the 0xFF /2 (CALL) and 0xFF /4 (JMP) indirect
// forms.
func decodeCallOrJmpRM(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	if len(data) < 2 || data[0] != opCallOrJmpRM {
		return Instruction{}, 0, false, nil
	}
	modrm := DecodeModRM(data[1])
	var mnemonic string
	switch modrm.Reg {
	case modrmExtCallRM:
		mnemonic = "call"
	case modrmExtJmpRM:
		mnemonic = "jmp"
	default:
		return Instruction{}, 0, false, nil
	}

	var op Operand
	n := 1
	if modrm.Mod == 0b11 {
		op = FromCode(FamilyR64, modrm.Rm, rex.B, false)
	} else {
		mem, consumed, err := decodeMemoryOperand(data[2:], modrm, rex, FamilyR64, offset+2)
		if err != nil {
			return Instruction{}, 0, true, err
		}
		op = mem
		n += consumed
	}
	instr, err := buildSimpleInstruction(mnemonic, op)
	return instr, 1 + n, true, err
}

func buildSimpleInstruction(mnemonic string, op Operand) (Instruction, error) {
	b, err := NewInstructionBuilder().SetMnemonic(mnemonic)
	if err != nil {
		return Instruction{}, err
	}
	b, err = b.AddOperand(op)
	if err != nil {
		return Instruction{}, err
	}
	return b.Build()
}

func decodeLE32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func encodeLE32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// encodeJcc encodes a Jcc instruction, choosing the rel8 or rel32 form by
// the operand's declared width.
func encodeJcc(instr Instruction, sink ByteSink) (bool, error) {
	cc, ok := conditionFromSuffix(trimPrefix(instr.Mnemonic(), "j"))
	if !ok {
		return false, nil
	}
	op, ok := instr.Operand(0)
	if !ok {
		return true, &InvalidOperandShapeError{Message: "jcc requires a relative offset operand"}
	}
	rel, ok := op.(RelativeOffset)
	if !ok {
		return true, &InvalidOperandShapeError{Message: "jcc operand must be a relative offset"}
	}
	switch rel.Bits() {
	case 8:
		sink.AppendByte(byte(opJccRel8Base) | byte(cc))
		sink.AppendByte(byte(int8(rel.Value())))
	case 32:
		sink.AppendByte(0x0F)
		sink.AppendByte(byte(opJccRel32Base) | byte(cc))
		sink.AppendBytes(encodeLE32(uint32(int32(rel.Value()))))
	default:
		return true, &InvalidOperandShapeError{Message: "relative offset must be 8 or 32 bits"}
	}
	return true, nil
}

func encodeJmp(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "jmp" {
		return false, nil
	}
	op, ok := instr.Operand(0)
	if !ok {
		return true, &InvalidOperandShapeError{Message: "jmp requires one operand"}
	}
	if rel, ok := op.(RelativeOffset); ok {
		switch rel.Bits() {
		case 8:
			sink.AppendByte(opJmpRel8)
			sink.AppendByte(byte(int8(rel.Value())))
		case 32:
			sink.AppendByte(opJmpRel32)
			sink.AppendBytes(encodeLE32(uint32(int32(rel.Value()))))
		default:
			return true, &InvalidOperandShapeError{Message: "relative offset must be 8 or 32 bits"}
		}
		return true, nil
	}
	return true, encodeCallOrJmpIndirectForm(op, modrmExtJmpRM, sink)
}

func encodeCall(instr Instruction, sink ByteSink) (bool, error) {
	if instr.Mnemonic() != "call" {
		return false, nil
	}
	op, ok := instr.Operand(0)
	if !ok {
		return true, &InvalidOperandShapeError{Message: "call requires one operand"}
	}
	if rel, ok := op.(RelativeOffset); ok {
		if rel.Bits() != 32 {
			return true, &InvalidOperandShapeError{Message: "call relative offset must be 32 bits"}
		}
		sink.AppendByte(opCallRel32)
		sink.AppendBytes(encodeLE32(uint32(int32(rel.Value()))))
		return true, nil
	}
	return true, encodeCallOrJmpIndirectForm(op, modrmExtCallRM, sink)
}

// encodeCallOrJmpIndirectForm encodes the 0xFF /2 (CALL) or 0xFF /4 (JMP)
// register-or-memory form.
func encodeCallOrJmpIndirectForm(op Operand, ext byte, sink ByteSink) error {
	rex := RexPrefix{}
	switch v := op.(type) {
	case Register:
		if v.Family != FamilyR64 {
			return &InvalidOperandShapeError{Message: "call/jmp rm operand must be a 64-bit register"}
		}
		rex.B = RequiresRexExtension(v)
		if rex.RequiresRex() {
			sink.AppendByte(rex.Encode())
		}
		sink.AppendByte(opCallOrJmpRM)
		sink.AppendByte(ModRM{Mod: 0b11, Reg: ext, Rm: ToCode(v)}.Encode())
		return nil
	case IndirectOperand:
		return encodeOpcodeWithIndirectOperand(opCallOrJmpRM, ext, v, nil, sink)
	default:
		return &InvalidOperandShapeError{Message: "call/jmp rm operand must be a register or memory"}
	}
}

func trimPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}

// decodeCMOVcc attempts a CMOVcc (0x0F 0x40+cc /r) decode, consuming an
// optional REX byte that the caller has already stripped and reports via
// rex/rexLen.
func decodeCMOVcc(data []byte, rex RexPrefix, rexLen int, offset int) (Instruction, int, bool, error) {
	if len(data) < 2 || data[0] != 0x0F || data[1]&0xF0 != opCMOVccBase {
		return Instruction{}, 0, false, nil
	}
	cc := Condition(data[1] & 0x0F)
	rest := data[2:]
	if len(rest) < 1 {
		return Instruction{}, 0, false, &UnknownOpcodeError{Bytes: data, offset: offset}
	}
	family := FamilyR32
	if rex.W {
		family = FamilyR64
	}
	destOp, srcOp, consumed, err := decodeModRMOperands(rest, family, rex, offset+rexLen+2)
	if err != nil {
		return Instruction{}, 0, true, err
	}
	instr, err := buildTwoOperandInstruction(mnemonicForCMOVcc(cc), destOp, srcOp)
	return instr, rexLen + 2 + consumed, true, err
}

func encodeCMOVcc(instr Instruction, sink ByteSink) (bool, error) {
	cc, ok := conditionFromSuffix(trimPrefix(instr.Mnemonic(), "cmov"))
	if !ok {
		return false, nil
	}
	dest, ok := instr.Operand(0)
	if !ok {
		return true, &InvalidOperandShapeError{Message: "cmovcc requires two operands"}
	}
	src, ok := instr.Operand(1)
	if !ok {
		return true, &InvalidOperandShapeError{Message: "cmovcc requires two operands"}
	}
	destReg, ok := dest.(Register)
	if !ok || (destReg.Family != FamilyR32 && destReg.Family != FamilyR64) {
		return true, &InvalidOperandShapeError{Message: "cmovcc destination must be a 32- or 64-bit register"}
	}
	return true, encodeModRMOperands([]byte{0x0F, opCMOVccBase | byte(cc)}, destReg, src, sink)
}

func buildTwoOperandInstruction(mnemonic string, dest, src Operand) (Instruction, error) {
	b, err := NewInstructionBuilder().SetMnemonic(mnemonic)
	if err != nil {
		return Instruction{}, err
	}
	b, err = b.AddOperand(dest)
	if err != nil {
		return Instruction{}, err
	}
	b, err = b.AddOperand(src)
	if err != nil {
		return Instruction{}, err
	}
	return b.Build()
}
