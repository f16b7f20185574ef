package x86_64

// PrefixKind identifies which register-extension escape, if any, follows
// an instruction's legacy prefixes.
type PrefixKind int

const (
	PrefixKindNone PrefixKind = iota
	PrefixKindRex
	PrefixKindVex2
	PrefixKindVex3
	PrefixKindEvex
)

// Prefixes is the full decoded prefix record for one instruction: the
// legacy groups plus whichever single register-extension escape (REX,
// VEX2, VEX3 or EVEX) precedes the opcode. At most one of Rex/Vex2/Vex3/Evex
// is meaningful, selected by Kind.
type Prefixes struct {
	Legacy LegacyPrefixes
	Kind   PrefixKind
	Rex    RexPrefix
	Vex2   Vex2Prefix
	Vex3   Vex3Prefix
	Evex   EvexPrefix
}

// DecodePrefixes consumes every legacy prefix byte and at most one
// register-extension escape from the front of data, returning the number
// of bytes consumed. A VEX/EVEX escape found where a REX byte has already
// been consumed (or vice versa) is not attempted: only one can precede an
// opcode, and the first one seen wins.
func DecodePrefixes(data []byte, offset int) (Prefixes, int, error) {
	legacy, n := ParseLegacyPrefixes(data)
	p := Prefixes{Legacy: legacy}
	rest := data[n:]

	if len(rest) == 0 {
		return p, n, nil
	}

	switch {
	case IsRexByte(rest[0]):
		p.Kind = PrefixKindRex
		p.Rex = ParseRex(rest[0])
		return p, n + 1, nil
	case rest[0] == vex2Escape:
		if len(rest) < 2 {
			return Prefixes{}, 0, &UnrecognizedPrefixError{Kind: "VEX2", offset: offset + n}
		}
		p.Kind = PrefixKindVex2
		p.Vex2 = ParseVex2(rest[1])
		return p, n + 2, nil
	case rest[0] == vex3Escape:
		if len(rest) < 3 {
			return Prefixes{}, 0, &UnrecognizedPrefixError{Kind: "VEX3", offset: offset + n}
		}
		p.Kind = PrefixKindVex3
		p.Vex3 = ParseVex3(rest[1], rest[2])
		return p, n + 3, nil
	case rest[0] == evexEscape:
		if len(rest) < 4 {
			return Prefixes{}, 0, &UnrecognizedPrefixError{Kind: "EVEX", offset: offset + n}
		}
		evex, err := ParseEvex(rest[1], rest[2], rest[3], offset+n)
		if err != nil {
			return Prefixes{}, 0, err
		}
		p.Kind = PrefixKindEvex
		p.Evex = evex
		return p, n + 4, nil
	default:
		return p, n, nil
	}
}
