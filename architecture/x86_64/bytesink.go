package x86_64

// ByteSink is an append-only destination for encoded instruction bytes.
// The encoder never reads from it, seeks within it, or holds onto it past
// a single EncodeInstruction call.
type ByteSink interface {
	AppendByte(b byte)
	AppendBytes(bs []byte)
}

// SliceByteSink is a ByteSink backed by an in-memory slice, the only sink
// implementation this package needs: every caller either wants the bytes
// back directly (EncodeInstruction) or is assembling a longer stream out
// of several instructions in sequence.
type SliceByteSink struct {
	bytes []byte
}

// NewSliceByteSink returns an empty SliceByteSink.
func NewSliceByteSink() *SliceByteSink {
	return &SliceByteSink{}
}

// AppendByte appends a single byte.
func (s *SliceByteSink) AppendByte(b byte) {
	s.bytes = append(s.bytes, b)
}

// AppendBytes appends bs in order.
func (s *SliceByteSink) AppendBytes(bs []byte) {
	s.bytes = append(s.bytes, bs...)
}

// Bytes returns the accumulated byte sequence.
func (s *SliceByteSink) Bytes() []byte {
	return s.bytes
}
