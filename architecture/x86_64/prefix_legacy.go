package x86_64

// LegacyPrefixKind identifies the group-1 instruction prefix carried by an
// Instruction: LOCK, REP or REPNZ. There is no "group 1 absent" sentinel
// value distinct from LegacyPrefixNone.
type LegacyPrefixKind byte

const (
	LegacyPrefixNone  LegacyPrefixKind = 0x00
	LegacyPrefixLock  LegacyPrefixKind = 0xF0
	LegacyPrefixRepNZ LegacyPrefixKind = 0xF2
	LegacyPrefixRep   LegacyPrefixKind = 0xF3
)

// Raw legacy prefix byte values, including the group-2/3/4 prefixes that
// never surface on Instruction itself but are recognized while decoding a
// byte stream and re-emitted by the encoder from operand shape.
const (
	rawPrefixLock        = 0xF0
	rawPrefixRepNZ        = 0xF2
	rawPrefixRep           = 0xF3
	rawPrefixCS            = 0x2E
	rawPrefixSS            = 0x36
	rawPrefixDS            = 0x3E
	rawPrefixES            = 0x26
	rawPrefixFS            = 0x64
	rawPrefixGS            = 0x65
	rawPrefixOperandSize = 0x66
	rawPrefixAddressSize = 0x67
)

// LegacyPrefixes is the decoder's intermediate record of every legacy
// (non-REX, non-VEX) prefix byte consumed ahead of the opcode: at most one
// from each of the four legacy prefix groups (lock/repeat, segment override, operand-size, address-size).
type LegacyPrefixes struct {
	Group1       LegacyPrefixKind
	SegmentOverride *Register // group 2
	OperandSize  bool         // group 3: 0x66 seen
	AddressSize  bool         // group 4: 0x67 seen
}

// ParseLegacyPrefixes greedily consumes legacy prefix bytes from the front
// of data, recording at most one value per group, stopping at the first byte that does not
// belong to any group (the REX byte, a VEX/EVEX escape, or the opcode
// itself). A later byte from a group already seen overwrites the earlier
// one, matching real hardware's last-prefix-wins behavior for redundant
// same-group prefixes.
func ParseLegacyPrefixes(data []byte) (LegacyPrefixes, int) {
	var p LegacyPrefixes
	i := 0
	for i < len(data) {
		switch data[i] {
		case rawPrefixLock:
			p.Group1 = LegacyPrefixLock
		case rawPrefixRepNZ:
			p.Group1 = LegacyPrefixRepNZ
		case rawPrefixRep:
			p.Group1 = LegacyPrefixRep
		case rawPrefixCS:
			reg := CS
			p.SegmentOverride = &reg
		case rawPrefixSS:
			reg := SS
			p.SegmentOverride = &reg
		case rawPrefixDS:
			reg := DS
			p.SegmentOverride = &reg
		case rawPrefixES:
			reg := ES
			p.SegmentOverride = &reg
		case rawPrefixFS:
			reg := FS
			p.SegmentOverride = &reg
		case rawPrefixGS:
			reg := GS
			p.SegmentOverride = &reg
		case rawPrefixOperandSize:
			p.OperandSize = true
		case rawPrefixAddressSize:
			p.AddressSize = true
		default:
			return p, i
		}
		i++
	}
	return p, i
}

// segmentOverridePrefixByte returns the raw prefix byte for a segment
// override register, used by the encoder.
func segmentOverridePrefixByte(r Register) (byte, bool) {
	switch r {
	case CS:
		return rawPrefixCS, true
	case SS:
		return rawPrefixSS, true
	case DS:
		return rawPrefixDS, true
	case ES:
		return rawPrefixES, true
	case FS:
		return rawPrefixFS, true
	case GS:
		return rawPrefixGS, true
	default:
		return 0, false
	}
}
