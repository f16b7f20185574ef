package x86_64

// fixedForm is a zero-operand instruction whose entire encoding is a
// constant byte sequence: no ModR/M, no immediate, no REX beyond what is
// baked into the bytes themselves.
type fixedForm struct {
	mnemonic string
	bytes    []byte
}

// fixedForms is the opcode table for every mnemonic the encoder emits as a
// literal byte sequence.
var fixedForms = []fixedForm{
	{"nop", []byte{0x90}},
	{"cdqe", []byte{0x48, 0x98}},
	{"ret", []byte{0xC3}},
	{"leave", []byte{0xC9}},
	{"int3", []byte{0xCC}},
	{"ud2", []byte{0x0F, 0x0B}},
	{"endbr64", []byte{0xF3, 0x0F, 0x1E, 0xFA}},
}

func fixedFormByMnemonic(mnemonic string) (fixedForm, bool) {
	for _, f := range fixedForms {
		if f.mnemonic == mnemonic {
			return f, true
		}
	}
	return fixedForm{}, false
}

// matchFixedForm reports the fixed form whose byte sequence is a prefix of
// data, longest match first so that e.g. "0x0F 0x1E 0xFA" (not a form here)
// never shadows a real match.
func matchFixedForm(data []byte) (fixedForm, bool) {
	var best fixedForm
	found := false
	for _, f := range fixedForms {
		if len(f.bytes) > len(data) {
			continue
		}
		match := true
		for i, b := range f.bytes {
			if data[i] != b {
				match = false
				break
			}
		}
		if match && (!found || len(f.bytes) > len(best.bytes)) {
			best = f
			found = true
		}
	}
	return best, found
}
