package x86_64

// Immediate carries a signed 64-bit value plus a declared width. The value
// is always stored as its full-width int64; the width only governs how
// As* reinterprets it and what Bits returns.
type Immediate struct {
	value int64
	width int // one of 8, 16, 32, 64
}

// NewImmediate builds an Immediate with an explicit width. width must be one
// of 8, 16, 32 or 64.
func NewImmediate(value int64, width int) Immediate {
	return Immediate{value: value, width: width}
}

// AsByte reinterprets the immediate as a signed 8-bit value.
func (i Immediate) AsByte() int8 { return int8(i.value) }

// AsShort reinterprets the immediate as a signed 16-bit value.
func (i Immediate) AsShort() int16 { return int16(i.value) }

// AsInt reinterprets the immediate as a signed 32-bit value.
func (i Immediate) AsInt() int32 { return int32(i.value) }

// AsLong reinterprets the immediate as a signed 64-bit value.
func (i Immediate) AsLong() int64 { return i.value }

// Bits returns the immediate's declared width.
func (i Immediate) Bits() int { return i.width }

func (Immediate) operandTag() {}

// RelativeOffset is a signed integer with a width of 8 or 32, used as the
// target of a PC-relative jump or call.
type RelativeOffset struct {
	value int64
	width int // 8 or 32
}

// NewRelativeOffset builds a RelativeOffset. width must be 8 or 32.
func NewRelativeOffset(value int64, width int) RelativeOffset {
	return RelativeOffset{value: value, width: width}
}

// Value returns the offset's signed value.
func (r RelativeOffset) Value() int64 { return r.value }

// Bits returns the offset's declared width (8 or 32).
func (r RelativeOffset) Bits() int { return r.width }

func (RelativeOffset) operandTag() {}

// SegmentedAddress pairs a segment register with an immediate offset, e.g.
// the target of a far jump. Bits() is intentionally undefined for this
// operand kind: callers that need the offset's width should inspect
// the Offset field's own declared width instead.
type SegmentedAddress struct {
	Segment Register
	Offset  Immediate
}

func (SegmentedAddress) operandTag() {}
