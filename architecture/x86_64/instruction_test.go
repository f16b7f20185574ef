package x86_64

import "testing"

func TestInstructionBuilder(t *testing.T) {
	t.Run("builds a mnemonic-only instruction", func(t *testing.T) {
		b, err := NewInstructionBuilder().SetMnemonic("nop")
		if err != nil {
			t.Fatalf("SetMnemonic: %v", err)
		}
		instr, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if instr.Mnemonic() != "nop" {
			t.Errorf("Mnemonic() = %q, want %q", instr.Mnemonic(), "nop")
		}
		if instr.OperandCount() != 0 {
			t.Errorf("OperandCount() = %d, want 0", instr.OperandCount())
		}
	})

	t.Run("appends operands in order with no gaps", func(t *testing.T) {
		b, err := NewInstructionBuilder().SetMnemonic("mov")
		if err != nil {
			t.Fatalf("SetMnemonic: %v", err)
		}
		b, err = b.AddOperand(RAX)
		if err != nil {
			t.Fatalf("AddOperand(rax): %v", err)
		}
		b, err = b.AddOperand(RBX)
		if err != nil {
			t.Fatalf("AddOperand(rbx): %v", err)
		}
		instr, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if instr.OperandCount() != 2 {
			t.Fatalf("OperandCount() = %d, want 2", instr.OperandCount())
		}
		op0, _ := instr.Operand(0)
		op1, _ := instr.Operand(1)
		if op0 != Operand(RAX) || op1 != Operand(RBX) {
			t.Errorf("operands = %v, %v, want rax, rbx", op0, op1)
		}
		if _, ok := instr.Operand(2); ok {
			t.Error("Operand(2) reported ok=true past the declared operand count")
		}
	})

	t.Run("rejects a fifth operand", func(t *testing.T) {
		b, _ := NewInstructionBuilder().SetMnemonic("x")
		for i := 0; i < maxOperands; i++ {
			var err error
			b, err = b.AddOperand(RAX)
			if err != nil {
				t.Fatalf("AddOperand #%d: %v", i, err)
			}
		}
		_, err := b.AddOperand(RAX)
		if err == nil {
			t.Fatal("expected BuilderMisuseError for a fifth operand, got nil")
		}
	})

	t.Run("rejects Build without a mnemonic", func(t *testing.T) {
		_, err := NewInstructionBuilder().Build()
		if err == nil {
			t.Fatal("expected an error for a missing mnemonic, got nil")
		}
	})

	t.Run("rejects Build called twice", func(t *testing.T) {
		b, _ := NewInstructionBuilder().SetMnemonic("nop")
		if _, err := b.Build(); err != nil {
			t.Fatalf("first Build: %v", err)
		}
		if _, err := b.Build(); err == nil {
			t.Fatal("expected BuilderMisuseError for double Build, got nil")
		}
	})

	t.Run("rejects a destination mask that is not a mask-family register", func(t *testing.T) {
		b, _ := NewInstructionBuilder().SetMnemonic("vaddps")
		b, err := b.SetDestMask(RAX)
		if err != nil {
			t.Fatalf("SetDestMask: %v", err)
		}
		_, err = b.Build()
		if err == nil {
			t.Fatal("expected an error for a non-mask destination mask, got nil")
		}
	})

	t.Run("accepts a valid destination mask with zero-merging", func(t *testing.T) {
		b, _ := NewInstructionBuilder().SetMnemonic("vaddps")
		b, err := b.SetDestMask(K1)
		if err != nil {
			t.Fatalf("SetDestMask: %v", err)
		}
		b, err = b.SetZeroMerging(true)
		if err != nil {
			t.Fatalf("SetZeroMerging: %v", err)
		}
		instr, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		mask, ok := instr.DestMask()
		if !ok || mask != K1 {
			t.Errorf("DestMask() = (%v, %v), want (k1, true)", mask, ok)
		}
		if !instr.ZeroMerging() {
			t.Error("ZeroMerging() = false, want true")
		}
	})

	t.Run("rejects a zero-merging flag with no destination mask", func(t *testing.T) {
		b, _ := NewInstructionBuilder().SetMnemonic("vaddps")
		b, err := b.SetZeroMerging(true)
		if err != nil {
			t.Fatalf("SetZeroMerging: %v", err)
		}
		_, err = b.Build()
		if err == nil {
			t.Fatal("expected an error for zero-merging without a destination mask, got nil")
		}
	})
}
