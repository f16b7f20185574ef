package x86_64

// maxOperands is the largest positional operand count any instruction form
// in this codec's opcode table uses.
const maxOperands = 4

// Instruction is an immutable, fully-decoded x86-64 instruction: a
// mnemonic, an optional legacy group-1 prefix, an optional AVX-512
// destination mask with its zero/merge mode, and up to four positional
// operands. Operand i+1 is only meaningful if operand i is present — the
// operand list has no gaps.
type Instruction struct {
	legacyPrefix LegacyPrefixKind
	mnemonic     string
	destMask     *Register
	zeroMerging  bool
	operands     [maxOperands]Operand
	operandCount int
}

// Mnemonic returns the instruction's mnemonic, e.g. "mov" or "ja".
func (i Instruction) Mnemonic() string { return i.mnemonic }

// LegacyPrefix returns the instruction's group-1 legacy prefix, if any.
func (i Instruction) LegacyPrefix() LegacyPrefixKind { return i.legacyPrefix }

// DestMask returns the AVX-512 opmask register gating the destination, if
// any.
func (i Instruction) DestMask() (Register, bool) {
	if i.destMask == nil {
		return Register{}, false
	}
	return *i.destMask, true
}

// ZeroMerging reports whether an instruction carrying a destination mask
// zeroes (true) or merges (false) masked-out elements. It is meaningless
// when DestMask is absent.
func (i Instruction) ZeroMerging() bool { return i.zeroMerging }

// OperandCount returns how many of the instruction's positional operands
// are present, 0 through 4.
func (i Instruction) OperandCount() int { return i.operandCount }

// Operand returns the i'th positional operand (0-indexed). ok is false if
// i is out of range for this instruction's operand count.
func (i Instruction) Operand(idx int) (Operand, bool) {
	if idx < 0 || idx >= i.operandCount {
		return nil, false
	}
	return i.operands[idx], true
}

// InstructionBuilder constructs an Instruction step by step. Like
// IndirectOperandBuilder, it is single-use: setting the same field twice,
// or calling Build twice, is a BuilderMisuseError. Operands can only be
// appended in order, which is what keeps the "no gaps" invariant
// structurally true rather than merely checked after the fact.
type InstructionBuilder struct {
	instruction      Instruction
	mnemonicSet      bool
	legacyPrefixSet  bool
	destMaskSet      bool
	zeroMergingSet   bool
	built            bool
}

// NewInstructionBuilder returns an empty builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{}
}

// SetMnemonic sets the instruction's mnemonic. Required before Build.
func (b *InstructionBuilder) SetMnemonic(mnemonic string) (*InstructionBuilder, error) {
	if b.mnemonicSet {
		return nil, &BuilderMisuseError{Message: "mnemonic already set"}
	}
	b.mnemonicSet = true
	b.instruction.mnemonic = mnemonic
	return b, nil
}

// SetLegacyPrefix sets the instruction's group-1 legacy prefix.
func (b *InstructionBuilder) SetLegacyPrefix(p LegacyPrefixKind) (*InstructionBuilder, error) {
	if b.legacyPrefixSet {
		return nil, &BuilderMisuseError{Message: "legacy prefix already set"}
	}
	b.legacyPrefixSet = true
	b.instruction.legacyPrefix = p
	return b, nil
}

// SetDestMask sets the instruction's destination opmask register. r must
// have Family == FamilyMask; this is checked at Build time, not here.
func (b *InstructionBuilder) SetDestMask(r Register) (*InstructionBuilder, error) {
	if b.destMaskSet {
		return nil, &BuilderMisuseError{Message: "destination mask already set"}
	}
	b.destMaskSet = true
	b.instruction.destMask = &r
	return b, nil
}

// SetZeroMerging sets the zero/merge mode for a destination-masked
// instruction.
func (b *InstructionBuilder) SetZeroMerging(zero bool) (*InstructionBuilder, error) {
	if b.zeroMergingSet {
		return nil, &BuilderMisuseError{Message: "zero-merging mode already set"}
	}
	b.zeroMergingSet = true
	b.instruction.zeroMerging = zero
	return b, nil
}

// AddOperand appends the next positional operand. Operands must be added
// in order; a fifth call is rejected since no opcode form in this codec
// uses more than four.
func (b *InstructionBuilder) AddOperand(op Operand) (*InstructionBuilder, error) {
	if b.instruction.operandCount >= maxOperands {
		return nil, &BuilderMisuseError{Message: "instruction already has the maximum of 4 operands"}
	}
	b.instruction.operands[b.instruction.operandCount] = op
	b.instruction.operandCount++
	return b, nil
}

// Build validates and returns the constructed Instruction. Build rejects
// double-build, a missing mnemonic, a destination mask of the wrong
// register family, and a zero-merging flag set without a destination
// mask.
func (b *InstructionBuilder) Build() (Instruction, error) {
	if b.built {
		return Instruction{}, &BuilderMisuseError{Message: "build called twice"}
	}
	b.built = true

	if !b.mnemonicSet {
		return Instruction{}, &BuilderMisuseError{Message: "mnemonic is required"}
	}
	if b.instruction.destMask != nil && b.instruction.destMask.Family != FamilyMask {
		return Instruction{}, &InvalidOperandShapeError{Message: "destination mask must be a mask-family register"}
	}
	if b.instruction.destMask == nil && b.zeroMergingSet {
		return Instruction{}, &InvalidOperandShapeError{Message: "zero-merging flag requires a destination mask"}
	}

	return b.instruction, nil
}
