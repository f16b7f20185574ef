package x86_64

// decodeAttempt is one opcode family's decode function. It returns
// matched=false (with a nil error) when the bytes at data[0] do not belong
// to that family, letting DecodeInstruction fall through to the next one.
type decodeAttempt func(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error)

// buildDecodeAttempts lists every wired opcode family, tried in order.
// Order only matters where two families could otherwise both claim the
// same leading byte; each attempt already disambiguates on a second byte
// or a ModR/M extension digit before claiming a match. It is built fresh
// per call so families that need the legacy-prefix record (currently only
// the MOV r/m,r and r,r/m forms, which honor the 0x67 address-size
// override) can close over it instead of widening decodeAttempt's
// signature for everyone.
func buildDecodeAttempts(legacy LegacyPrefixes) []decodeAttempt {
	return []decodeAttempt{
		func(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
			return decodeJccRel8(data, offset)
		},
		func(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
			return decodeJccRel32(data, offset)
		},
		func(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
			return decodeJmpRel8(data, offset)
		},
		func(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
			return decodeJmpRel32(data, offset)
		},
		func(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
			return decodeCallRel32(data, offset)
		},
		decodeCMOVccAdapter,
		decodeCallOrJmpRM,
		func(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
			return decodeMovRMReg(data, rex, legacy.AddressSize, offset)
		},
		decodeMovRegImm,
		decodeMovzxMovsx,
		decodeLea,
		decodePushPop,
		decodeXchg,
		decodeAddRM,
		decodeCmpImm,
		decodeCmpRM,
	}
}

// decodeCMOVccAdapter adapts decodeCMOVcc's (data, rex, rexLen, offset)
// signature to the shared decodeAttempt shape; rexLen is always 0 here
// because by this point the caller has already stripped the REX byte from
// data.
func decodeCMOVccAdapter(data []byte, rex RexPrefix, offset int) (Instruction, int, bool, error) {
	return decodeCMOVcc(data, rex, 0, offset)
}

// DecodeInstruction decodes one instruction starting at offset 0 of data,
// returning the decoded Instruction and the number of bytes consumed. The
// caller is responsible for advancing past consumed bytes to decode the
// next instruction.
func DecodeInstruction(data []byte) (Instruction, int, error) {
	// Fixed forms whose bytes begin with a prefix-looking byte (cdqe's REX.W,
	// endbr64's 0xF3) are matched against the raw input first.
	if f, ok := matchFixedForm(data); ok {
		instr, err := buildFixedInstruction(f, LegacyPrefixes{})
		return instr, len(f.bytes), err
	}

	legacy, n := ParseLegacyPrefixes(data)
	offset := n
	rest := data[n:]

	var rex RexPrefix
	if len(rest) > 0 && IsRexByte(rest[0]) {
		rex = ParseRex(rest[0])
		rest = rest[1:]
		n++
		offset++
	}

	if len(rest) == 0 {
		return Instruction{}, 0, &UnknownOpcodeError{Bytes: data, offset: offset}
	}

	if f, ok := matchFixedForm(rest); ok {
		instr, err := buildFixedInstruction(f, legacy)
		return instr, n + len(f.bytes), err
	}

	for _, attempt := range buildDecodeAttempts(legacy) {
		instr, consumed, matched, err := attempt(rest, rex, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		if matched {
			instr = withLegacyPrefix(instr, legacy.Group1)
			return instr, n + consumed, nil
		}
	}

	return Instruction{}, 0, &UnknownOpcodeError{Bytes: rest, offset: offset}
}

func buildFixedInstruction(f fixedForm, legacy LegacyPrefixes) (Instruction, error) {
	b, err := NewInstructionBuilder().SetMnemonic(f.mnemonic)
	if err != nil {
		return Instruction{}, err
	}
	b, err = b.SetLegacyPrefix(legacy.Group1)
	if err != nil {
		return Instruction{}, err
	}
	return b.Build()
}

func withLegacyPrefix(instr Instruction, prefix LegacyPrefixKind) Instruction {
	if prefix == LegacyPrefixNone {
		return instr
	}
	b, err := NewInstructionBuilder().SetMnemonic(instr.Mnemonic())
	if err != nil {
		return instr
	}
	b, err = b.SetLegacyPrefix(prefix)
	if err != nil {
		return instr
	}
	for i := 0; i < instr.OperandCount(); i++ {
		op, _ := instr.Operand(i)
		b, err = b.AddOperand(op)
		if err != nil {
			return instr
		}
	}
	if mask, ok := instr.DestMask(); ok {
		b, err = b.SetDestMask(mask)
		if err != nil {
			return instr
		}
		b, err = b.SetZeroMerging(instr.ZeroMerging())
		if err != nil {
			return instr
		}
	}
	rebuilt, err := b.Build()
	if err != nil {
		return instr
	}
	return rebuilt
}
