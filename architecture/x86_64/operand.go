package x86_64

// Operand is a closed tagged variant covering every shape an instruction
// operand can take. The unexported operandTag marker method prevents types
// outside this package from satisfying the interface, which is what makes
// the set closed: dispatch is a type switch over the five concrete
// implementations listed below, never an open interface hierarchy.
//
//	Operand = Register | Immediate | IndirectOperand | RelativeOffset | SegmentedAddress
//
// Register doubles as the mask-register variant: a Register with
// Family == FamilyMask used as an Instruction's destination mask is not an
// Operand in the positional operand list, but a plain Register operand
// whose family happens to be FamilyMask is indistinguishable in shape from
// any other register operand and needs no separate case.
type Operand interface {
	operandTag()
}

func (Register) operandTag() {}

// Bits reports the operand's width: registers and
// immediates and relative offsets answer directly; mask registers and
// segmented addresses have no defined width and return ok=false.
func Bits(o Operand) (bits int, ok bool) {
	switch v := o.(type) {
	case Register:
		return BitWidth(v.Family)
	case Immediate:
		return v.Bits(), true
	case RelativeOffset:
		return v.Bits(), true
	case IndirectOperand:
		if v.pointerSize != 0 {
			return v.pointerSize, true
		}
		return 0, false
	case SegmentedAddress:
		return 0, false
	default:
		return 0, false
	}
}
