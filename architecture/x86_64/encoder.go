package x86_64

// encodeAttempt is one opcode family's encoder. matched=false (nil error)
// means the instruction's mnemonic/operand shape does not belong to this
// family.
type encodeAttempt func(instr Instruction, sink ByteSink) (matched bool, err error)

var encodeAttempts = []encodeAttempt{
	encodeJcc,
	encodeJmp,
	encodeCall,
	encodeCMOVcc,
	encodeMovRMReg,
	encodeMovRegImm,
	encodeMovzxMovsx,
	encodeLea,
	encodePushPop,
	encodeXchg,
	encodeAddRM,
	encodeCmpImm,
	encodeCmpRM,
}

// EncodeInstruction encodes instr to its byte sequence in prefix-emission
// order: legacy group 1, then whatever the opcode family's
// own encoder emits (segment override, address-size override,
// operand-size override, REX, opcode, ModR/M, SIB, displacement,
// immediate — steps 2 through 10 are each family's responsibility since
// they depend on operand shape).
func EncodeInstruction(instr Instruction) ([]byte, error) {
	sink := NewSliceByteSink()
	if err := EncodeInstructionInto(instr, sink); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// EncodeInstructionInto is EncodeInstruction against a caller-supplied
// ByteSink, the form the core's external interface actually exposes:
// the encoder never allocates its own output buffer when the caller wants
// to append into a larger stream.
func EncodeInstructionInto(instr Instruction, sink ByteSink) error {
	if pb, ok := legacyPrefixByte(instr.LegacyPrefix()); ok {
		sink.AppendByte(pb)
	}

	if f, ok := fixedFormByMnemonic(instr.Mnemonic()); ok {
		sink.AppendBytes(f.bytes)
		return nil
	}

	for _, attempt := range encodeAttempts {
		matched, err := attempt(instr, sink)
		if err != nil {
			return err
		}
		if matched {
			return nil
		}
	}

	return &UnknownOpcodeError{Bytes: []byte(instr.Mnemonic()), offset: 0}
}

func legacyPrefixByte(p LegacyPrefixKind) (byte, bool) {
	if p == LegacyPrefixNone {
		return 0, false
	}
	return byte(p), true
}
