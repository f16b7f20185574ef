package x86_64

import (
	"fmt"
	"strings"
)

// RenderIntel renders instr as an Intel-syntax string. It is total: every
// Instruction a builder accepts has a rendering, since operands whose
// Bits() is undefined are only consulted where size inference does not
// need them.
func RenderIntel(instr Instruction) string {
	var b strings.Builder

	if instr.LegacyPrefix() != LegacyPrefixNone {
		b.WriteString(legacyPrefixName(instr.LegacyPrefix()))
		b.WriteByte(' ')
	}

	b.WriteString(instr.Mnemonic())

	count := instr.OperandCount()
	if count == 0 {
		return b.String()
	}
	b.WriteByte(' ')

	sizeHint := pointerSizeHint(instr)
	suppressPtr := instr.Mnemonic() == "lea"

	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		op, _ := instr.Operand(i)
		rendered := renderOperand(op, sizeHint, suppressPtr)
		if i == 0 {
			if mask, ok := instr.DestMask(); ok {
				rendered += fmt.Sprintf("{%s}", mask.Name())
				if instr.ZeroMerging() {
					rendered += "{z}"
				}
			}
		}
		b.WriteString(rendered)
	}

	return b.String()
}

func legacyPrefixName(p LegacyPrefixKind) string {
	switch p {
	case LegacyPrefixLock:
		return "lock"
	case LegacyPrefixRep:
		return "rep"
	case LegacyPrefixRepNZ:
		return "repnz"
	default:
		return ""
	}
}

// pointerSizeHint looks at every register or immediate operand in instr
// and returns the first declared width found, used to pick a memory
// operand's PTR keyword when the memory operand itself carries no
// explicit pointer size.
func pointerSizeHint(instr Instruction) int {
	for i := 0; i < instr.OperandCount(); i++ {
		op, _ := instr.Operand(i)
		switch v := op.(type) {
		case Register:
			if bits, ok := BitWidth(v.Family); ok {
				return bits
			}
		case Immediate:
			return v.Bits()
		}
	}
	return 0
}

func renderOperand(op Operand, sizeHint int, suppressPtr bool) string {
	switch v := op.(type) {
	case Register:
		return v.Name()
	case Immediate:
		return formatSignedHex(v.AsLong())
	case RelativeOffset:
		return formatHex(v.Value())
	case IndirectOperand:
		return renderIndirect(v, sizeHint, suppressPtr)
	case SegmentedAddress:
		return fmt.Sprintf("%s:%s", v.Segment.Name(), formatHex(v.Offset.AsLong()))
	default:
		return ""
	}
}

func renderIndirect(ind IndirectOperand, sizeHint int, suppressPtr bool) string {
	var addr strings.Builder

	first := true
	if base, ok := ind.Base(); ok {
		addr.WriteString(base.Name())
		first = false
	}
	if index, ok := ind.Index(); ok {
		if !first {
			addr.WriteByte('+')
		}
		addr.WriteString(index.Name())
		if scale := ind.Scale(); scale > 1 {
			addr.WriteByte('*')
			addr.WriteString(fmt.Sprintf("%d", scale))
		}
		first = false
	}
	if disp, ok := ind.Displacement(); ok {
		value := disp.AsLong()
		if value < 0 {
			addr.WriteByte('-')
			addr.WriteString(formatHex(-value))
		} else {
			if !first {
				addr.WriteByte('+')
			}
			addr.WriteString(formatHex(value))
		}
		first = false
	}

	var prefix string
	if !suppressPtr {
		bits := ind.PointerSize()
		if bits == 0 {
			bits = sizeHint
		}
		if kw, ok := ptrKeyword(bits); ok {
			prefix = kw + " PTR "
		}
	}
	if seg, ok := ind.Segment(); ok {
		prefix = seg.Name() + ":" + prefix
	}

	return fmt.Sprintf("%s[%s]", prefix, addr.String())
}

func ptrKeyword(bits int) (string, bool) {
	switch bits {
	case 8:
		return "BYTE", true
	case 16:
		return "WORD", true
	case 32:
		return "DWORD", true
	case 64:
		return "QWORD", true
	case 128:
		return "XMMWORD", true
	case 256:
		return "YMMWORD", true
	case 512:
		return "ZMMWORD", true
	default:
		return "", false
	}
}

func formatHex(v int64) string {
	return fmt.Sprintf("0x%x", v)
}

func formatSignedHex(v int64) string {
	if v < 0 {
		return "-" + formatHex(-v)
	}
	return formatHex(v)
}
