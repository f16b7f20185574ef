package x86_64

import "testing"

func encodeBytes(t *testing.T, instr Instruction) []byte {
	t.Helper()
	b, err := EncodeInstruction(instr)
	if err != nil {
		t.Fatalf("EncodeInstruction: %v", err)
	}
	return b
}

func TestEncodeInstructionFixedForms(t *testing.T) {
	cases := []struct {
		mnemonic string
		want     []byte
	}{
		{"nop", []byte{0x90}},
		{"cdqe", []byte{0x48, 0x98}},
		{"endbr64", []byte{0xF3, 0x0F, 0x1E, 0xFA}},
		{"ret", []byte{0xC3}},
		{"ud2", []byte{0x0F, 0x0B}},
	}
	for _, c := range cases {
		instr := mustInstruction(t, c.mnemonic)
		got := encodeBytes(t, instr)
		if !bytesEqual(got, c.want) {
			t.Errorf("EncodeInstruction(%s) = % x, want % x", c.mnemonic, got, c.want)
		}
	}
}

func TestEncodeJcc(t *testing.T) {
	t.Run("rel8 form", func(t *testing.T) {
		instr := mustInstruction(t, "ja", NewRelativeOffset(5, 8))
		got := encodeBytes(t, instr)
		want := []byte{0x77, 0x05}
		if !bytesEqual(got, want) {
			t.Errorf("EncodeInstruction = % x, want % x", got, want)
		}
	})

	t.Run("rel32 form", func(t *testing.T) {
		instr := mustInstruction(t, "ja", NewRelativeOffset(0, 32))
		got := encodeBytes(t, instr)
		want := []byte{0x0F, 0x87, 0x00, 0x00, 0x00, 0x00}
		if !bytesEqual(got, want) {
			t.Errorf("EncodeInstruction = % x, want % x", got, want)
		}
	})
}

func TestEncodeMovRegReg(t *testing.T) {
	instr := mustInstruction(t, "mov", RAX, RBX)
	got := encodeBytes(t, instr)
	want := []byte{0x48, 0x89, 0xD8}
	if !bytesEqual(got, want) {
		t.Errorf("EncodeInstruction = % x, want % x", got, want)
	}
}

func TestEncodeLockPrefix(t *testing.T) {
	b, _ := NewInstructionBuilder().SetMnemonic("add")
	b, _ = b.SetLegacyPrefix(LegacyPrefixLock)
	b, _ = b.AddOperand(RAX)
	b, _ = b.AddOperand(RBX)
	instr, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := encodeBytes(t, instr)
	want := []byte{0xF0, 0x48, 0x01, 0xD8}
	if !bytesEqual(got, want) {
		t.Errorf("EncodeInstruction = % x, want % x", got, want)
	}
}

func TestEncodeLeaWithScaledIndex(t *testing.T) {
	mem := mustIndirect(t, func(b *IndirectOperandBuilder) (*IndirectOperandBuilder, error) {
		b, err := b.SetIndex(RCX)
		if err != nil {
			return nil, err
		}
		b, err = b.SetScale(4)
		if err != nil {
			return nil, err
		}
		return b.SetDisplacement(NewImmediate(0x10, 8))
	})
	instr := mustInstruction(t, "lea", RAX, mem)
	got := encodeBytes(t, instr)
	want := []byte{0x48, 0x8D, 0x04, 0x8D, 0x10, 0x00, 0x00, 0x00}
	if !bytesEqual(got, want) {
		t.Errorf("EncodeInstruction = % x, want % x", got, want)
	}
}

func TestEncodeIndirectOperandSpecialCases(t *testing.T) {
	t.Run("[rsp] forces a SIB byte since rm=100 would otherwise mean SIB-follows", func(t *testing.T) {
		mem := mustIndirect(t, func(b *IndirectOperandBuilder) (*IndirectOperandBuilder, error) {
			return b.SetIndex(RSP)
		})
		instr := mustInstruction(t, "mov", RAX, mem)
		got := encodeBytes(t, instr)
		want := []byte{0x48, 0x8B, 0x04, 0x24}
		if !bytesEqual(got, want) {
			t.Errorf("EncodeInstruction = % x, want % x", got, want)
		}
	})

	t.Run("[rbp] forces mod=01 disp8=0 since mod=00,rm=101 means RIP-relative", func(t *testing.T) {
		mem := mustIndirect(t, func(b *IndirectOperandBuilder) (*IndirectOperandBuilder, error) {
			return b.SetIndex(RBP)
		})
		instr := mustInstruction(t, "mov", RAX, mem)
		got := encodeBytes(t, instr)
		want := []byte{0x48, 0x8B, 0x45, 0x00}
		if !bytesEqual(got, want) {
			t.Errorf("EncodeInstruction = % x, want % x", got, want)
		}
	})
}

func TestEncodeUnknownMnemonic(t *testing.T) {
	instr := mustInstruction(t, "frobnicate")
	_, err := EncodeInstruction(instr)
	if err == nil {
		t.Fatal("expected an error for an unrecognized mnemonic, got nil")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
