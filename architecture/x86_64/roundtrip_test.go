package x86_64

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestDecodeEncodeRoundTrip checks that decoding an instruction and
// re-encoding it reproduces the original bytes exactly, across the same
// scenarios the decoder's own scenario table exercises plus a few
// prefix-heavy forms.
func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		bytes []byte
	}{
		{"nop", []byte{0x90}},
		{"cdqe", []byte{0x48, 0x98}},
		{"endbr64", []byte{0xF3, 0x0F, 0x1E, 0xFA}},
		{"jmp rel8", []byte{0xEB, 0x05}},
		{"ja rel32", []byte{0x0F, 0x87, 0x00, 0x00, 0x00, 0x00}},
		{"mov rax,rbx", []byte{0x48, 0x89, 0xD8}},
		{"lea rax,[rcx*4+0x10]", []byte{0x48, 0x8D, 0x04, 0x8D, 0x10, 0x00, 0x00, 0x00}},
		{"mov eax,DWORD PTR [esp] address-size override", []byte{0x67, 0x8B, 0x04, 0x24}},
		{"mov rax,imm64", append([]byte{0x48, 0xB8}, []byte{0, 0, 0, 0, 0, 0, 0, 1}...)},
		{"cmovne eax,ecx", []byte{0x0F, 0x45, 0xC1}},
		{"movzx eax,cl", []byte{0x0F, 0xB6, 0xC1}},
		{"push r15", []byte{0x41, 0x57}},
		{"pop r15", []byte{0x41, 0x5F}},
		{"call rax", []byte{0xFF, 0xD0}},
		{"jmp [rax]", []byte{0xFF, 0x20}},
		{"cmp eax,imm8", []byte{0x83, 0xF8, 0x05}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			instr, consumed, err := DecodeInstruction(c.bytes)
			if err != nil {
				t.Fatalf("DecodeInstruction: %v", err)
			}
			if consumed != len(c.bytes) {
				t.Fatalf("consumed = %d, want %d (all input bytes)", consumed, len(c.bytes))
			}

			reencoded, err := EncodeInstruction(instr)
			if err != nil {
				t.Fatalf("EncodeInstruction: %v", err)
			}
			if diff := cmp.Diff(c.bytes, reencoded); diff != "" {
				t.Errorf("re-encoded bytes differ from the original (-want +got):\n%s", diff)
			}

			again, consumed2, err := DecodeInstruction(reencoded)
			if err != nil {
				t.Fatalf("DecodeInstruction(re-encoded): %v", err)
			}
			if consumed2 != len(reencoded) {
				t.Errorf("second decode consumed = %d, want %d", consumed2, len(reencoded))
			}
			if diff := cmp.Diff(RenderIntel(instr), RenderIntel(again)); diff != "" {
				t.Errorf("rendering is not stable across the second decode (-want +got):\n%s", diff)
			}
		})
	}
}

// TestEncodeInstructionRoundTripViaCmp re-checks one of the heavier scenarios
// with cmp.Diff against the decoded Instruction value itself, not just its
// rendering, since two structurally different operand trees could still
// render identically.
func TestEncodeInstructionRoundTripViaCmp(t *testing.T) {
	data := []byte{0x48, 0x8D, 0x04, 0x8D, 0x10, 0x00, 0x00, 0x00}
	first, _, err := DecodeInstruction(data)
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	reencoded, err := EncodeInstruction(first)
	if err != nil {
		t.Fatalf("EncodeInstruction: %v", err)
	}
	second, _, err := DecodeInstruction(reencoded)
	if err != nil {
		t.Fatalf("DecodeInstruction(re-encoded): %v", err)
	}
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Instruction{}, IndirectOperand{}, Register{}, Immediate{})); diff != "" {
		t.Errorf("decoded instruction is not stable across a re-encode (-want +got):\n%s", diff)
	}
}
