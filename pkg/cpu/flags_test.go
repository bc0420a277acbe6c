package cpu

import "testing"

// TestFlagTables verifies our precomputed tables match expected values.
func TestFlagTables(t *testing.T) {
	// Verify zero has Z flag set
	if Sz53Table[0]&uint8(FlagZ) == 0 {
		t.Error("Sz53Table[0] should have Z flag")
	}
	if Sz53pTable[0]&uint8(FlagZ) == 0 {
		t.Error("Sz53pTable[0] should have Z flag")
	}

	// Verify 0x80 has S flag
	if Sz53Table[0x80]&uint8(FlagS) == 0 {
		t.Error("Sz53Table[0x80] should have S flag")
	}

	// Bits 5 and 3 mirror the value
	if Sz53Table[0x28] != uint8(Flag5|Flag3) {
		t.Errorf("Sz53Table[0x28] = %02X, want %02X", Sz53Table[0x28], uint8(Flag5|Flag3))
	}

	// Verify parity of 0x00 (even parity -> P flag set)
	if ParityTable[0]&uint8(FlagP) == 0 {
		t.Error("ParityTable[0] should have P flag (even parity)")
	}

	// Verify parity of 0x01 (odd parity -> P flag clear)
	if ParityTable[1]&uint8(FlagP) != 0 {
		t.Error("ParityTable[1] should NOT have P flag (odd parity)")
	}

	// Verify parity of 0xFF (even parity -> P flag set)
	if ParityTable[0xFF]&uint8(FlagP) == 0 {
		t.Error("ParityTable[0xFF] should have P flag")
	}
}

func TestFlagNames(t *testing.T) {
	var got string
	for _, f := range AllFlags {
		got += f.String()
	}
	if got != "SZ5H3PNC" {
		t.Errorf("flag names = %q, want SZ5H3PNC", got)
	}
	if FlagV != FlagP {
		t.Error("FlagV must share the parity bit")
	}
}

func TestFormatFlags(t *testing.T) {
	tests := []struct {
		f    uint8
		want string
	}{
		{0x00, "--------"},
		{0xFF, "SZ5H3PNC"},
		{0x41, "-Z-----C"},
		{0x94, "S--H-P--"},
	}
	for _, tc := range tests {
		if got := FormatFlags(tc.f); got != tc.want {
			t.Errorf("FormatFlags(%02X) = %q, want %q", tc.f, got, tc.want)
		}
	}
}
