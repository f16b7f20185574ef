package x86_64

import "testing"

func TestRexRoundTrip(t *testing.T) {
	t.Run("every combination of W/R/X/B round trips through Parse and Encode", func(t *testing.T) {
		for w := 0; w < 2; w++ {
			for r := 0; r < 2; r++ {
				for x := 0; x < 2; x++ {
					for b := 0; b < 2; b++ {
						want := RexPrefix{Present: true, W: w == 1, R: r == 1, X: x == 1, B: b == 1}
						encoded := want.Encode()
						if !IsRexByte(encoded) {
							t.Fatalf("Encode(%+v) = 0x%02x, not recognized as a REX byte", want, encoded)
						}
						got := ParseRex(encoded)
						if got != want {
							t.Errorf("ParseRex(Encode(%+v)) = %+v, want %+v", want, got, want)
						}
					}
				}
			}
		}
	})

	t.Run("a bare 0x40 still reports Present", func(t *testing.T) {
		got := ParseRex(0x40)
		if !got.Present {
			t.Error("ParseRex(0x40).Present = false, want true")
		}
		if got.RequiresRex() {
			t.Error("a zero-bits REX should not itself force re-emission via RequiresRex")
		}
	})

	t.Run("IsRexByte only matches the 0x40-0x4F range", func(t *testing.T) {
		if !IsRexByte(0x4F) {
			t.Error("IsRexByte(0x4F) = false, want true")
		}
		if IsRexByte(0x50) {
			t.Error("IsRexByte(0x50) = true, want false")
		}
		if IsRexByte(0x3F) {
			t.Error("IsRexByte(0x3F) = true, want false")
		}
	})
}

func TestVex2RoundTrip(t *testing.T) {
	cases := []Vex2Prefix{
		{R: false, V: 0x0, L: false, P: 0},
		{R: true, V: 0xF, L: true, P: 3},
		{R: false, V: 0x5, L: true, P: 1},
	}
	for _, want := range cases {
		bytes := want.Encode()
		if bytes[0] != vex2Escape {
			t.Fatalf("Encode() escape byte = 0x%02x, want 0x%02x", bytes[0], vex2Escape)
		}
		got := ParseVex2(bytes[1])
		if got != want {
			t.Errorf("ParseVex2(Encode(%+v)) = %+v, want %+v", want, got, want)
		}
	}
}

func TestVex3RoundTrip(t *testing.T) {
	cases := []Vex3Prefix{
		{R: false, X: false, B: false, M: 1, W: false, V: 0x0, L: false, P: 0},
		{R: true, X: true, B: true, M: 2, W: true, V: 0xF, L: true, P: 2},
		{R: false, X: true, B: false, M: 3, W: false, V: 0x3, L: false, P: 1},
	}
	for _, want := range cases {
		bytes := want.Encode()
		if bytes[0] != vex3Escape {
			t.Fatalf("Encode() escape byte = 0x%02x, want 0x%02x", bytes[0], vex3Escape)
		}
		got := ParseVex3(bytes[1], bytes[2])
		if got != want {
			t.Errorf("ParseVex3(Encode(%+v)) = %+v, want %+v", want, got, want)
		}
	}
}

func TestEvexRoundTrip(t *testing.T) {
	cases := []EvexPrefix{
		{R: false, X: false, B: false, Rp: false, M: 1, W: false, V: 0x0, P: 0, Z: false, Lp: false, L: false, Bp: false, Vp: false, A: 0},
		{R: true, X: true, B: true, Rp: true, M: 2, W: true, V: 0xF, P: 1, Z: true, Lp: false, L: true, Bp: true, Vp: true, A: 7},
		{R: false, X: true, B: false, Rp: false, M: 1, W: false, V: 0x5, P: 2, Z: false, Lp: true, L: false, Bp: false, Vp: true, A: 3},
	}
	for _, want := range cases {
		bytes := want.Encode()
		if bytes[0] != evexEscape {
			t.Fatalf("Encode() escape byte = 0x%02x, want 0x%02x", bytes[0], evexEscape)
		}
		got, err := ParseEvex(bytes[1], bytes[2], bytes[3], 0)
		if err != nil {
			t.Fatalf("ParseEvex returned error: %v", err)
		}
		if got != want {
			t.Errorf("ParseEvex(Encode(%+v)) = %+v, want %+v", want, got, want)
		}
	}

	t.Run("rejects a set P0.bit3 reserved field", func(t *testing.T) {
		_, err := ParseEvex(0x08, 0x04, 0x00, 0)
		if err == nil {
			t.Fatal("expected an error for P0.bit3 set, got nil")
		}
	})

	t.Run("rejects a clear P1.bit2 reserved field", func(t *testing.T) {
		_, err := ParseEvex(0x00, 0x00, 0x00, 0)
		if err == nil {
			t.Fatal("expected an error for P1.bit2 clear, got nil")
		}
	})

	t.Run("VectorLength reports 128/256/512 for L'L in 00/01/10", func(t *testing.T) {
		cases := []struct {
			lp, l bool
			want  int
		}{
			{false, false, 128},
			{false, true, 256},
			{true, false, 512},
			{true, true, 0},
		}
		for _, c := range cases {
			e := EvexPrefix{Lp: c.lp, L: c.l}
			if got := e.VectorLength(); got != c.want {
				t.Errorf("VectorLength(Lp=%v,L=%v) = %d, want %d", c.lp, c.l, got, c.want)
			}
		}
	})
}

func TestParseLegacyPrefixes(t *testing.T) {
	t.Run("consumes one prefix from each group and stops at the opcode", func(t *testing.T) {
		data := []byte{0xF0, 0x66, 0x67, 0x2E, 0x90}
		p, n := ParseLegacyPrefixes(data)
		if n != 4 {
			t.Fatalf("consumed %d bytes, want 4", n)
		}
		if p.Group1 != LegacyPrefixLock {
			t.Errorf("Group1 = %v, want LegacyPrefixLock", p.Group1)
		}
		if !p.OperandSize {
			t.Error("OperandSize = false, want true")
		}
		if !p.AddressSize {
			t.Error("AddressSize = false, want true")
		}
		if p.SegmentOverride == nil || *p.SegmentOverride != CS {
			t.Errorf("SegmentOverride = %v, want cs", p.SegmentOverride)
		}
	})

	t.Run("a later same-group prefix overwrites the earlier one", func(t *testing.T) {
		data := []byte{0xF2, 0xF3, 0x90}
		p, n := ParseLegacyPrefixes(data)
		if n != 2 {
			t.Fatalf("consumed %d bytes, want 2", n)
		}
		if p.Group1 != LegacyPrefixRep {
			t.Errorf("Group1 = %v, want LegacyPrefixRep (last prefix wins)", p.Group1)
		}
	})

	t.Run("returns zero prefixes consumed when the opcode has none", func(t *testing.T) {
		data := []byte{0x90}
		p, n := ParseLegacyPrefixes(data)
		if n != 0 {
			t.Fatalf("consumed %d bytes, want 0", n)
		}
		if p.Group1 != LegacyPrefixNone {
			t.Errorf("Group1 = %v, want LegacyPrefixNone", p.Group1)
		}
	})
}
