package x86_64

import "testing"

func TestModRMRoundTrip(t *testing.T) {
	t.Run("every byte value 0-255 round trips through Decode and Encode", func(t *testing.T) {
		for b := 0; b < 256; b++ {
			m := DecodeModRM(byte(b))
			if got := m.Encode(); got != byte(b) {
				t.Errorf("DecodeModRM(0x%02x).Encode() = 0x%02x, want 0x%02x", b, got, b)
			}
		}
	})

	t.Run("splits fields at the documented bit positions", func(t *testing.T) {
		m := DecodeModRM(0xD8) // 11 011 000
		if m.Mod != 0b11 {
			t.Errorf("Mod = %02b, want 11", m.Mod)
		}
		if m.Reg != 0b011 {
			t.Errorf("Reg = %03b, want 011", m.Reg)
		}
		if m.Rm != 0b000 {
			t.Errorf("Rm = %03b, want 000", m.Rm)
		}
	})
}

func TestModRMNeedsSIB(t *testing.T) {
	cases := []struct {
		b    byte
		want bool
	}{
		{0b00_000_100, true},  // mod=00, rm=100
		{0b01_000_100, true},  // mod=01, rm=100
		{0b11_000_100, false}, // mod=11 (register direct) never needs SIB
		{0b00_000_000, false}, // rm != 100
	}
	for _, c := range cases {
		if got := DecodeModRM(c.b).NeedsSIB(); got != c.want {
			t.Errorf("DecodeModRM(0x%02x).NeedsSIB() = %v, want %v", c.b, got, c.want)
		}
	}
}

func TestModRMIsRIPRelative(t *testing.T) {
	if !DecodeModRM(0b00_000_101).IsRIPRelative() {
		t.Error("mod=00,rm=101 should report IsRIPRelative")
	}
	if DecodeModRM(0b01_000_101).IsRIPRelative() {
		t.Error("mod=01,rm=101 (rbp+disp8) should not report IsRIPRelative")
	}
	if DecodeModRM(0b11_000_101).IsRIPRelative() {
		t.Error("mod=11,rm=101 (register direct) should not report IsRIPRelative")
	}
}

func TestDisplacementWidthForMod(t *testing.T) {
	cases := []struct {
		mod  byte
		want int
	}{
		{0b00, 0},
		{0b01, 1},
		{0b10, 4},
		{0b11, 0},
	}
	for _, c := range cases {
		if got := DisplacementWidthForMod(c.mod); got != c.want {
			t.Errorf("DisplacementWidthForMod(%02b) = %d, want %d", c.mod, got, c.want)
		}
	}
}

func TestSIBRoundTrip(t *testing.T) {
	t.Run("every byte value 0-255 round trips through Decode and Encode", func(t *testing.T) {
		for b := 0; b < 256; b++ {
			s := DecodeSIB(byte(b))
			if got := s.Encode(); got != byte(b) {
				t.Errorf("DecodeSIB(0x%02x).Encode() = 0x%02x, want 0x%02x", b, got, b)
			}
		}
	})
}

func TestSIBScale(t *testing.T) {
	cases := []struct {
		field byte
		want  byte
	}{
		{0b00, 1},
		{0b01, 2},
		{0b10, 4},
		{0b11, 8},
	}
	for _, c := range cases {
		s := SIB{ScaleField: c.field}
		if got := s.Scale(); got != c.want {
			t.Errorf("Scale(field=%02b) = %d, want %d", c.field, got, c.want)
		}
		if got := ScaleFieldFor(c.want); got != c.field {
			t.Errorf("ScaleFieldFor(%d) = %02b, want %02b", c.want, got, c.field)
		}
	}
}

func TestSIBHasNoIndex(t *testing.T) {
	s := SIB{Index: 0b100}
	if !s.HasNoIndex(false) {
		t.Error("index=100 with no REX.X should report HasNoIndex")
	}
	if s.HasNoIndex(true) {
		t.Error("index=100 with REX.X set selects r12 as a real index, should not report HasNoIndex")
	}
}

func TestSIBHasNoBase(t *testing.T) {
	s := SIB{Base: 0b101}
	if !s.HasNoBase(0b00) {
		t.Error("base=101 with mod=00 should report HasNoBase")
	}
	if s.HasNoBase(0b01) {
		t.Error("base=101 with mod=01 selects rbp/r13 with disp8, should not report HasNoBase")
	}
}
