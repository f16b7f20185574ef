package x86_64

import "testing"

func TestIndirectOperandBuilder(t *testing.T) {
	t.Run("builds a simple single-register form", func(t *testing.T) {
		op, err := NewIndirectOperandBuilder().mustSetIndex(t, RAX).Build()
		if err != nil {
			t.Fatalf("Build returned error: %v", err)
		}
		if !op.IsSimple() {
			t.Error("expected IsSimple() to be true for an index-only operand")
		}
		idx, ok := op.Index()
		if !ok || idx != RAX {
			t.Errorf("Index() = (%v, %v), want (rax, true)", idx, ok)
		}
	})

	t.Run("builds a base+index*scale+disp form", func(t *testing.T) {
		b := NewIndirectOperandBuilder()
		b, err := b.SetBase(RAX)
		if err != nil {
			t.Fatalf("SetBase: %v", err)
		}
		b, err = b.SetIndex(RCX)
		if err != nil {
			t.Fatalf("SetIndex: %v", err)
		}
		b, err = b.SetScale(4)
		if err != nil {
			t.Fatalf("SetScale: %v", err)
		}
		b, err = b.SetDisplacement(NewImmediate(0x10, 8))
		if err != nil {
			t.Fatalf("SetDisplacement: %v", err)
		}
		op, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if op.IsSimple() {
			t.Error("expected IsSimple() to be false when base is set")
		}
		if op.Scale() != 4 {
			t.Errorf("Scale() = %d, want 4", op.Scale())
		}
	})

	t.Run("rejects setting the same field twice", func(t *testing.T) {
		b := NewIndirectOperandBuilder()
		b, err := b.SetBase(RAX)
		if err != nil {
			t.Fatalf("first SetBase: %v", err)
		}
		_, err = b.SetBase(RCX)
		if err == nil {
			t.Fatal("expected BuilderMisuseError for double SetBase, got nil")
		}
		if _, ok := err.(*BuilderMisuseError); !ok {
			t.Errorf("error type = %T, want *BuilderMisuseError", err)
		}
	})

	t.Run("rejects Build called twice", func(t *testing.T) {
		b := NewIndirectOperandBuilder()
		b, _ = b.SetIndex(RAX)
		if _, err := b.Build(); err != nil {
			t.Fatalf("first Build: %v", err)
		}
		if _, err := b.Build(); err == nil {
			t.Fatal("expected BuilderMisuseError for double Build, got nil")
		}
	})

	t.Run("rejects an operand with neither index nor displacement", func(t *testing.T) {
		_, err := NewIndirectOperandBuilder().Build()
		if err == nil {
			t.Fatal("expected an error for an empty operand, got nil")
		}
	})

	t.Run("rejects a scale that is not a power of two in 1,2,4,8", func(t *testing.T) {
		b := NewIndirectOperandBuilder()
		b, _ = b.SetIndex(RAX)
		b, err := b.SetScale(3)
		if err != nil {
			t.Fatalf("SetScale should only validate at Build time: %v", err)
		}
		_, err = b.Build()
		if err == nil {
			t.Fatal("expected an error for scale=3, got nil")
		}
		if _, ok := err.(*InvalidOperandShapeError); !ok {
			t.Errorf("error type = %T, want *InvalidOperandShapeError", err)
		}
	})

	t.Run("rejects base and index being the same register", func(t *testing.T) {
		b := NewIndirectOperandBuilder()
		b, _ = b.SetBase(RAX)
		b, _ = b.SetIndex(RAX)
		_, err := b.Build()
		if err == nil {
			t.Fatal("expected an error for base == index, got nil")
		}
	})
}

func TestOperandBits(t *testing.T) {
	t.Run("registers report their family width", func(t *testing.T) {
		bits, ok := Bits(RAX)
		if !ok || bits != 64 {
			t.Errorf("Bits(rax) = (%d, %v), want (64, true)", bits, ok)
		}
	})

	t.Run("mask registers have no defined width", func(t *testing.T) {
		_, ok := Bits(K0)
		if ok {
			t.Error("Bits(k0) reported ok=true, want false")
		}
	})

	t.Run("immediates and relative offsets report their declared width", func(t *testing.T) {
		bits, ok := Bits(NewImmediate(1, 32))
		if !ok || bits != 32 {
			t.Errorf("Bits(imm32) = (%d, %v), want (32, true)", bits, ok)
		}
		bits, ok = Bits(NewRelativeOffset(1, 8))
		if !ok || bits != 8 {
			t.Errorf("Bits(rel8) = (%d, %v), want (8, true)", bits, ok)
		}
	})

	t.Run("an indirect operand with no declared pointer size has no defined width", func(t *testing.T) {
		op, _ := NewIndirectOperandBuilder().mustSetIndex(t, RAX).Build()
		_, ok := Bits(op)
		if ok {
			t.Error("Bits(mem) reported ok=true for an operand with no pointer size, want false")
		}
	})

	t.Run("segmented addresses have no defined width", func(t *testing.T) {
		_, ok := Bits(SegmentedAddress{Segment: CS, Offset: NewImmediate(0, 16)})
		if ok {
			t.Error("Bits(SegmentedAddress) reported ok=true, want false")
		}
	})
}

// mustSetIndex is a small test helper keeping the builder-chaining tests
// above from repeating the same error check on every call site.
func (b *IndirectOperandBuilder) mustSetIndex(t *testing.T, r Register) *IndirectOperandBuilder {
	t.Helper()
	b, err := b.SetIndex(r)
	if err != nil {
		t.Fatalf("SetIndex(%s): %v", r.Name(), err)
	}
	return b
}
