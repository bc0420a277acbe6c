package cpu

import "testing"

func TestGet8Set8(t *testing.T) {
	var rf Registers
	regs := []Reg8{A, F, B, C, D, E, H, L}
	for i, r := range regs {
		rf.Set8(r, uint8(0x10+i))
	}
	for i, r := range regs {
		if got := rf.Get8(r); got != uint8(0x10+i) {
			t.Errorf("%s = %02X, want %02X", r, got, 0x10+i)
		}
	}
}

// TestPairComposition verifies pairs are built from their two halves,
// high register first.
func TestPairComposition(t *testing.T) {
	tests := []struct {
		rr     Reg16
		hi, lo Reg8
	}{
		{BC, B, C},
		{DE, D, E},
		{HL, H, L},
		{AF, A, F},
	}
	for _, tc := range tests {
		var rf Registers
		rf.Set16(tc.rr, 0x1234)
		if rf.Get8(tc.hi) != 0x12 || rf.Get8(tc.lo) != 0x34 {
			t.Errorf("Set16(%s, 1234): %s=%02X %s=%02X", tc.rr, tc.hi, rf.Get8(tc.hi), tc.lo, rf.Get8(tc.lo))
		}

		rf.Set8(tc.hi, 0xAB)
		rf.Set8(tc.lo, 0xCD)
		if got := rf.Get16(tc.rr); got != 0xABCD {
			t.Errorf("Get16(%s) = %04X, want ABCD", tc.rr, got)
		}

		hi, lo := tc.rr.Halves()
		if hi != tc.hi || lo != tc.lo {
			t.Errorf("%s.Halves() = %s,%s want %s,%s", tc.rr, hi, lo, tc.hi, tc.lo)
		}
		if !tc.rr.IsPair() {
			t.Errorf("%s should be a pair", tc.rr)
		}
	}
}

func TestStackPointer(t *testing.T) {
	var rf Registers
	rf.Set16(SP, 0xFFFE)
	if got := rf.Get16(SP); got != 0xFFFE {
		t.Errorf("SP = %04X, want FFFE", got)
	}
	for _, r := range []Reg8{A, F, B, C, D, E, H, L} {
		if rf.Get8(r) != 0 {
			t.Errorf("writing SP changed %s", r)
		}
	}
	if SP.IsPair() {
		t.Error("SP is not a register pair")
	}
}

func TestRegisterNames(t *testing.T) {
	if s := HL.String(); s != "HL" {
		t.Errorf("HL.String() = %q", s)
	}
	if s := SP.String(); s != "SP" {
		t.Errorf("SP.String() = %q", s)
	}
	if s := A.String(); s != "A" {
		t.Errorf("A.String() = %q", s)
	}
	if s := Reg8(200).String(); s != "?" {
		t.Errorf("invalid Reg8 String() = %q", s)
	}
}

func TestFlagAccessors(t *testing.T) {
	var rf Registers
	for _, f := range AllFlags {
		rf.SetFlag(f)
		if !rf.Flag(f) {
			t.Errorf("flag %s should be set", f)
		}
		rf.ClearFlag(f)
		if rf.Flag(f) {
			t.Errorf("flag %s should be clear", f)
		}
		rf.PutFlag(f, true)
		if !rf.Flag(f) {
			t.Errorf("PutFlag(%s, true) did not set", f)
		}
		rf.PutFlag(f, false)
		if rf.Flag(f) {
			t.Errorf("PutFlag(%s, false) did not clear", f)
		}
	}
}

// TestFlagIndependence verifies touching one flag leaves the rest alone.
func TestFlagIndependence(t *testing.T) {
	for _, f := range AllFlags {
		var rf Registers
		rf.Set8(F, 0xFF)
		rf.ClearFlag(f)
		if got := rf.Get8(F); got != 0xFF&^uint8(f) {
			t.Errorf("ClearFlag(%s): F=%02X", f, got)
		}
		rf.Set8(F, 0x00)
		rf.SetFlag(f)
		if got := rf.Get8(F); got != uint8(f) {
			t.Errorf("SetFlag(%s): F=%02X", f, got)
		}
	}
}

func TestUpdateSZ53Flags(t *testing.T) {
	tests := []struct {
		v     uint8
		f     uint8 // F before
		wantF uint8
	}{
		{0x00, 0x00, uint8(FlagZ)},
		{0x80, 0x00, uint8(FlagS)},
		{0x28, 0x00, uint8(Flag5 | Flag3)},
		{0xFF, 0x00, uint8(FlagS | Flag5 | Flag3)},
		// H, P/V, N and C survive untouched
		{0x01, 0xFF, uint8(FlagH | FlagP | FlagN | FlagC)},
		{0x00, uint8(FlagH | FlagC), uint8(FlagZ | FlagH | FlagC)},
	}
	for _, tc := range tests {
		var rf Registers
		rf.Set8(F, tc.f)
		rf.UpdateSZ53Flags(tc.v)
		if got := rf.Get8(F); got != tc.wantF {
			t.Errorf("UpdateSZ53Flags(%02X) with F=%02X: got %02X want %02X", tc.v, tc.f, got, tc.wantF)
		}
	}
}
