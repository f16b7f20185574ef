package x86_64

// Family identifies one of the closed register families the codec knows
// about. Every Register carries exactly one Family; the family determines
// how many bits to_code needs, whether REX/EVEX extension applies, and how
// the renderer spells the register's name.
type Family int

const (
	FamilyR8 Family = iota
	FamilyR16
	FamilyR32
	FamilyR64
	FamilyMMX
	FamilyXMM
	FamilyYMM
	FamilyZMM
	FamilyMask
	FamilySegment
)

// Register is an immutable value object identifying one member of a
// register family. There is no allocation involved in obtaining one: every
// register the codec can name is a package-level var built at init time, the
// same way the teacher's global register singletons worked.
type Register struct {
	Family Family
	// code is the full 0..31 encoding (0..7 for most families, 0..5 for
	// segments, 0..7 for mask registers). ToCode returns code&0x7.
	code byte
	name string
	// highByte marks the legacy AH/CH/DH/BH encodings: 8-bit registers with
	// code in 4..7 that are only reachable when no REX prefix is present.
	highByte bool
	// addressOnly marks RIP/RIZ/EIZ: pseudo-registers that may only appear
	// as the base or index of an indirect operand, never as a write target.
	addressOnly bool
}

// Name returns the register's lowercase Intel-syntax spelling.
func (r Register) Name() string { return r.name }

// ToCode returns the 3-bit encoding used directly in ModR/M.reg, ModR/M.rm,
// SIB.base, SIB.index or an opcode's embedded register field. Registers
// numbered 8 and above (reached via REX or EVEX extension) share the same
// low 3 bits as their unextended counterpart.
func ToCode(r Register) byte { return r.code & 0x7 }

// RequiresRexExtension reports whether encoding r demands the REX.R/X/B (or
// VEX-equivalent) extension bit be set, i.e. the register's code is >= 8.
// RIP and RIZ never require extension: they are not REX-addressable.
func RequiresRexExtension(r Register) bool {
	if r.addressOnly {
		return false
	}
	return r.code >= 8
}

// RequiresEvexExtension reports whether encoding r demands the EVEX
// high-extension bit (R'/X'/V') be set, i.e. the register's code is >= 16.
// Only XMM/YMM/ZMM registers reach that far; every other family answers
// false unconditionally.
func RequiresEvexExtension(r Register) bool {
	if r.Family != FamilyXMM && r.Family != FamilyYMM && r.Family != FamilyZMM {
		return false
	}
	return r.code >= 16
}

// IsHighByteForm reports whether r is one of the legacy AH/CH/DH/BH 8-bit
// registers that only exist in the absence of a REX prefix.
func (r Register) IsHighByteForm() bool { return r.highByte }

// IsAddressOnly reports whether r is a pseudo-register (RIP, RIZ, EIZ) that
// may only be used as the base or index of an indirect operand.
func (r Register) IsAddressOnly() bool { return r.addressOnly }

// FromCode reconstructs a register of the given family from its 3-bit wire
// code plus the REX/VEX extension bit and, for vector families, the EVEX
// high-extension bit. For FamilyR8 this assumes no REX prefix is present
// when extensionBit is false and code falls in 4..7; use R8FromCode when the
// REX-present/absent distinction must be made explicitly, since a REX prefix
// with extensionBit=false still selects SPL/BPL/SIL/DIL rather than
// AH/CH/DH/BH.
func FromCode(family Family, code3 byte, extensionBit, evexExtensionBit bool) Register {
	if family == FamilyR8 && !extensionBit {
		return R8FromCode(code3, false)
	}
	full := code3 & 0x7
	if extensionBit {
		full |= 0x8
	}
	if evexExtensionBit {
		full |= 0x10
	}
	return registerByFamilyAndCode(family, full)
}

// R8FromCode resolves an 8-bit register from its 3-bit code and whether a
// REX prefix is present in the instruction, independent of whether that REX
// prefix's extension bit is set. Codes 0..3 are unambiguous (AL/CL/DL/BL).
// Codes 4..7 select AH/CH/DH/BH when rexPresent is false, and
// SPL/BPL/SIL/DIL when rexPresent is true.
func R8FromCode(code3 byte, rexPresent bool) Register {
	code3 &= 0x7
	if code3 >= 4 && !rexPresent {
		return r8HighByteTable[code3-4]
	}
	return r8LowByteTable[code3]
}

// registerByFamilyAndCode resolves a full (possibly REX/EVEX-extended) code
// within a family to its canonical Register value.
func registerByFamilyAndCode(family Family, full byte) Register {
	switch family {
	case FamilyR8:
		return r8LowByteTable[full]
	case FamilyR16:
		return r16Table[full]
	case FamilyR32:
		return r32Table[full]
	case FamilyR64:
		return r64Table[full]
	case FamilyMMX:
		return mmxTable[full&0x7]
	case FamilyXMM:
		return xmmTable[full]
	case FamilyYMM:
		return ymmTable[full]
	case FamilyZMM:
		return zmmTable[full]
	case FamilyMask:
		return maskTable[full&0x7]
	case FamilySegment:
		return segmentTable[full&0x7]
	default:
		panic("x86_64: unknown register family")
	}
}

// General purpose registers - 64-bit.
var (
	RAX = Register{Family: FamilyR64, code: 0, name: "rax"}
	RCX = Register{Family: FamilyR64, code: 1, name: "rcx"}
	RDX = Register{Family: FamilyR64, code: 2, name: "rdx"}
	RBX = Register{Family: FamilyR64, code: 3, name: "rbx"}
	RSP = Register{Family: FamilyR64, code: 4, name: "rsp"}
	RBP = Register{Family: FamilyR64, code: 5, name: "rbp"}
	RSI = Register{Family: FamilyR64, code: 6, name: "rsi"}
	RDI = Register{Family: FamilyR64, code: 7, name: "rdi"}
	R8  = Register{Family: FamilyR64, code: 8, name: "r8"}
	R9  = Register{Family: FamilyR64, code: 9, name: "r9"}
	R10 = Register{Family: FamilyR64, code: 10, name: "r10"}
	R11 = Register{Family: FamilyR64, code: 11, name: "r11"}
	R12 = Register{Family: FamilyR64, code: 12, name: "r12"}
	R13 = Register{Family: FamilyR64, code: 13, name: "r13"}
	R14 = Register{Family: FamilyR64, code: 14, name: "r14"}
	R15 = Register{Family: FamilyR64, code: 15, name: "r15"}

	// RIP and RIZ are address-only pseudo-registers: they may be the base or
	// index of an IndirectOperand but can never be a write target and never
	// require REX extension. RIP shares RBP's 3-bit code (mod=00,rm=101 is
	// repurposed as RIP-relative in 64-bit mode); RIZ shares RSP's code
	// (SIB.index=100 means "no index").
	RIP = Register{Family: FamilyR64, code: 5, name: "rip", addressOnly: true}
	RIZ = Register{Family: FamilyR64, code: 4, name: "riz", addressOnly: true}
)

// General purpose registers - 32-bit.
var (
	EAX  = Register{Family: FamilyR32, code: 0, name: "eax"}
	ECX  = Register{Family: FamilyR32, code: 1, name: "ecx"}
	EDX  = Register{Family: FamilyR32, code: 2, name: "edx"}
	EBX  = Register{Family: FamilyR32, code: 3, name: "ebx"}
	ESP  = Register{Family: FamilyR32, code: 4, name: "esp"}
	EBP  = Register{Family: FamilyR32, code: 5, name: "ebp"}
	ESI  = Register{Family: FamilyR32, code: 6, name: "esi"}
	EDI  = Register{Family: FamilyR32, code: 7, name: "edi"}
	R8D  = Register{Family: FamilyR32, code: 8, name: "r8d"}
	R9D  = Register{Family: FamilyR32, code: 9, name: "r9d"}
	R10D = Register{Family: FamilyR32, code: 10, name: "r10d"}
	R11D = Register{Family: FamilyR32, code: 11, name: "r11d"}
	R12D = Register{Family: FamilyR32, code: 12, name: "r12d"}
	R13D = Register{Family: FamilyR32, code: 13, name: "r13d"}
	R14D = Register{Family: FamilyR32, code: 14, name: "r14d"}
	R15D = Register{Family: FamilyR32, code: 15, name: "r15d"}

	EIP = Register{Family: FamilyR32, code: 5, name: "eip", addressOnly: true}
	EIZ = Register{Family: FamilyR32, code: 4, name: "eiz", addressOnly: true}
)

// General purpose registers - 16-bit.
var (
	AX   = Register{Family: FamilyR16, code: 0, name: "ax"}
	CX   = Register{Family: FamilyR16, code: 1, name: "cx"}
	DX   = Register{Family: FamilyR16, code: 2, name: "dx"}
	BX   = Register{Family: FamilyR16, code: 3, name: "bx"}
	SP   = Register{Family: FamilyR16, code: 4, name: "sp"}
	BP   = Register{Family: FamilyR16, code: 5, name: "bp"}
	SI   = Register{Family: FamilyR16, code: 6, name: "si"}
	DI   = Register{Family: FamilyR16, code: 7, name: "di"}
	R8W  = Register{Family: FamilyR16, code: 8, name: "r8w"}
	R9W  = Register{Family: FamilyR16, code: 9, name: "r9w"}
	R10W = Register{Family: FamilyR16, code: 10, name: "r10w"}
	R11W = Register{Family: FamilyR16, code: 11, name: "r11w"}
	R12W = Register{Family: FamilyR16, code: 12, name: "r12w"}
	R13W = Register{Family: FamilyR16, code: 13, name: "r13w"}
	R14W = Register{Family: FamilyR16, code: 14, name: "r14w"}
	R15W = Register{Family: FamilyR16, code: 15, name: "r15w"}
)

// General purpose registers - 8-bit, low byte (REX present or code 0..3).
var (
	AL   = Register{Family: FamilyR8, code: 0, name: "al"}
	CL   = Register{Family: FamilyR8, code: 1, name: "cl"}
	DL   = Register{Family: FamilyR8, code: 2, name: "dl"}
	BL   = Register{Family: FamilyR8, code: 3, name: "bl"}
	SPL  = Register{Family: FamilyR8, code: 4, name: "spl"}
	BPL  = Register{Family: FamilyR8, code: 5, name: "bpl"}
	SIL  = Register{Family: FamilyR8, code: 6, name: "sil"}
	DIL  = Register{Family: FamilyR8, code: 7, name: "dil"}
	R8B  = Register{Family: FamilyR8, code: 8, name: "r8b"}
	R9B  = Register{Family: FamilyR8, code: 9, name: "r9b"}
	R10B = Register{Family: FamilyR8, code: 10, name: "r10b"}
	R11B = Register{Family: FamilyR8, code: 11, name: "r11b"}
	R12B = Register{Family: FamilyR8, code: 12, name: "r12b"}
	R13B = Register{Family: FamilyR8, code: 13, name: "r13b"}
	R14B = Register{Family: FamilyR8, code: 14, name: "r14b"}
	R15B = Register{Family: FamilyR8, code: 15, name: "r15b"}
)

// General purpose registers - 8-bit, legacy high byte (no REX present).
var (
	AH = Register{Family: FamilyR8, code: 4, name: "ah", highByte: true}
	CH = Register{Family: FamilyR8, code: 5, name: "ch", highByte: true}
	DH = Register{Family: FamilyR8, code: 6, name: "dh", highByte: true}
	BH = Register{Family: FamilyR8, code: 7, name: "bh", highByte: true}
)

// Segment registers.
var (
	ES = Register{Family: FamilySegment, code: 0, name: "es"}
	CS = Register{Family: FamilySegment, code: 1, name: "cs"}
	SS = Register{Family: FamilySegment, code: 2, name: "ss"}
	DS = Register{Family: FamilySegment, code: 3, name: "ds"}
	FS = Register{Family: FamilySegment, code: 4, name: "fs"}
	GS = Register{Family: FamilySegment, code: 5, name: "gs"}
)

// MMX registers.
var (
	MM0 = Register{Family: FamilyMMX, code: 0, name: "mm0"}
	MM1 = Register{Family: FamilyMMX, code: 1, name: "mm1"}
	MM2 = Register{Family: FamilyMMX, code: 2, name: "mm2"}
	MM3 = Register{Family: FamilyMMX, code: 3, name: "mm3"}
	MM4 = Register{Family: FamilyMMX, code: 4, name: "mm4"}
	MM5 = Register{Family: FamilyMMX, code: 5, name: "mm5"}
	MM6 = Register{Family: FamilyMMX, code: 6, name: "mm6"}
	MM7 = Register{Family: FamilyMMX, code: 7, name: "mm7"}
)

// Mask (K) registers. K0 is a reserved encoding meaning "no mask" wherever a
// destination mask field is decoded; it remains nameable as a register.
var (
	K0 = Register{Family: FamilyMask, code: 0, name: "k0"}
	K1 = Register{Family: FamilyMask, code: 1, name: "k1"}
	K2 = Register{Family: FamilyMask, code: 2, name: "k2"}
	K3 = Register{Family: FamilyMask, code: 3, name: "k3"}
	K4 = Register{Family: FamilyMask, code: 4, name: "k4"}
	K5 = Register{Family: FamilyMask, code: 5, name: "k5"}
	K6 = Register{Family: FamilyMask, code: 6, name: "k6"}
	K7 = Register{Family: FamilyMask, code: 7, name: "k7"}
)

var (
	r8LowByteTable = [16]Register{
		AL, CL, DL, BL, SPL, BPL, SIL, DIL,
		R8B, R9B, R10B, R11B, R12B, R13B, R14B, R15B,
	}
	r8HighByteTable = [4]Register{AH, CH, DH, BH}
	r16Table        = [16]Register{
		AX, CX, DX, BX, SP, BP, SI, DI,
		R8W, R9W, R10W, R11W, R12W, R13W, R14W, R15W,
	}
	r32Table = [16]Register{
		EAX, ECX, EDX, EBX, ESP, EBP, ESI, EDI,
		R8D, R9D, R10D, R11D, R12D, R13D, R14D, R15D,
	}
	r64Table = [16]Register{
		RAX, RCX, RDX, RBX, RSP, RBP, RSI, RDI,
		R8, R9, R10, R11, R12, R13, R14, R15,
	}
	mmxTable     = [8]Register{MM0, MM1, MM2, MM3, MM4, MM5, MM6, MM7}
	maskTable    = [8]Register{K0, K1, K2, K3, K4, K5, K6, K7}
	segmentTable = [6]Register{ES, CS, SS, DS, FS, GS}
)

func vectorTable(family Family, prefix string) [32]Register {
	var table [32]Register
	for i := range table {
		table[i] = Register{Family: family, code: byte(i), name: vectorName(prefix, i)}
	}
	return table
}

func vectorName(prefix string, i int) string {
	const digits = "0123456789"
	if i < 10 {
		return prefix + string(digits[i])
	}
	return prefix + string(digits[i/10]) + string(digits[i%10])
}

var (
	xmmTable = vectorTable(FamilyXMM, "xmm")
	ymmTable = vectorTable(FamilyYMM, "ymm")
	zmmTable = vectorTable(FamilyZMM, "zmm")
)

// XMM0..XMM31, YMM0..YMM31 and ZMM0..ZMM31 are exposed individually so
// callers can refer to them the same way they refer to the fixed-size
// families above.
var (
	XMM0, XMM1, XMM2, XMM3, XMM4, XMM5, XMM6, XMM7         = xmmTable[0], xmmTable[1], xmmTable[2], xmmTable[3], xmmTable[4], xmmTable[5], xmmTable[6], xmmTable[7]
	XMM8, XMM9, XMM10, XMM11, XMM12, XMM13, XMM14, XMM15   = xmmTable[8], xmmTable[9], xmmTable[10], xmmTable[11], xmmTable[12], xmmTable[13], xmmTable[14], xmmTable[15]
	XMM16, XMM17, XMM18, XMM19, XMM20, XMM21, XMM22, XMM23 = xmmTable[16], xmmTable[17], xmmTable[18], xmmTable[19], xmmTable[20], xmmTable[21], xmmTable[22], xmmTable[23]
	XMM24, XMM25, XMM26, XMM27, XMM28, XMM29, XMM30, XMM31 = xmmTable[24], xmmTable[25], xmmTable[26], xmmTable[27], xmmTable[28], xmmTable[29], xmmTable[30], xmmTable[31]

	YMM0, YMM1, YMM2, YMM3, YMM4, YMM5, YMM6, YMM7         = ymmTable[0], ymmTable[1], ymmTable[2], ymmTable[3], ymmTable[4], ymmTable[5], ymmTable[6], ymmTable[7]
	YMM8, YMM9, YMM10, YMM11, YMM12, YMM13, YMM14, YMM15   = ymmTable[8], ymmTable[9], ymmTable[10], ymmTable[11], ymmTable[12], ymmTable[13], ymmTable[14], ymmTable[15]
	YMM16, YMM17, YMM18, YMM19, YMM20, YMM21, YMM22, YMM23 = ymmTable[16], ymmTable[17], ymmTable[18], ymmTable[19], ymmTable[20], ymmTable[21], ymmTable[22], ymmTable[23]
	YMM24, YMM25, YMM26, YMM27, YMM28, YMM29, YMM30, YMM31 = ymmTable[24], ymmTable[25], ymmTable[26], ymmTable[27], ymmTable[28], ymmTable[29], ymmTable[30], ymmTable[31]

	ZMM0, ZMM1, ZMM2, ZMM3, ZMM4, ZMM5, ZMM6, ZMM7         = zmmTable[0], zmmTable[1], zmmTable[2], zmmTable[3], zmmTable[4], zmmTable[5], zmmTable[6], zmmTable[7]
	ZMM8, ZMM9, ZMM10, ZMM11, ZMM12, ZMM13, ZMM14, ZMM15   = zmmTable[8], zmmTable[9], zmmTable[10], zmmTable[11], zmmTable[12], zmmTable[13], zmmTable[14], zmmTable[15]
	ZMM16, ZMM17, ZMM18, ZMM19, ZMM20, ZMM21, ZMM22, ZMM23 = zmmTable[16], zmmTable[17], zmmTable[18], zmmTable[19], zmmTable[20], zmmTable[21], zmmTable[22], zmmTable[23]
	ZMM24, ZMM25, ZMM26, ZMM27, ZMM28, ZMM29, ZMM30, ZMM31 = zmmTable[24], zmmTable[25], zmmTable[26], zmmTable[27], zmmTable[28], zmmTable[29], zmmTable[30], zmmTable[31]
)

// RegistersByName is a lookup table from lowercase Intel-syntax spelling to
// Register, for any caller parsing register names from text.
var RegistersByName = buildRegistersByName()

func buildRegistersByName() map[string]Register {
	m := make(map[string]Register, 16*4+8+8+6+32*3)
	add := func(regs ...Register) {
		for _, r := range regs {
			m[r.name] = r
		}
	}
	add(r64Table[:]...)
	add(r32Table[:]...)
	add(r16Table[:]...)
	add(r8LowByteTable[:]...)
	add(r8HighByteTable[:]...)
	add(segmentTable[:]...)
	add(mmxTable[:]...)
	add(maskTable[:]...)
	add(xmmTable[:]...)
	add(ymmTable[:]...)
	add(zmmTable[:]...)
	m["rip"] = RIP
	m["riz"] = RIZ
	m["eip"] = EIP
	m["eiz"] = EIZ
	return m
}

// BitWidth returns the operand-size in bits implied by a register's family,
// or 0 when the family has no fixed width (mask registers have no fixed width;
// querying a mask register's width is an error, signalled here by the ok
// return).
func BitWidth(family Family) (bits int, ok bool) {
	switch family {
	case FamilyR8:
		return 8, true
	case FamilyR16:
		return 16, true
	case FamilyR32:
		return 32, true
	case FamilyR64:
		return 64, true
	case FamilyMMX:
		return 64, true
	case FamilyXMM:
		return 128, true
	case FamilyYMM:
		return 256, true
	case FamilyZMM:
		return 512, true
	default:
		return 0, false
	}
}
