package cpu

// Flag is a single bit of the F register.
type Flag uint8

// Z80 flag bit positions in the F register.
const (
	FlagC Flag = 0x01 // Carry
	FlagN Flag = 0x02 // Subtract
	FlagP Flag = 0x04 // Parity/Overflow
	FlagV      = FlagP // Overflow (same bit as Parity)
	Flag3 Flag = 0x08 // Undocumented bit 3
	FlagH Flag = 0x10 // Half-carry
	Flag5 Flag = 0x20 // Undocumented bit 5
	FlagZ Flag = 0x40 // Zero
	FlagS Flag = 0x80 // Sign
)

// AllFlags lists every flag from the most significant bit down.
var AllFlags = [8]Flag{FlagS, FlagZ, Flag5, FlagH, Flag3, FlagP, FlagN, FlagC}

func (f Flag) String() string {
	switch f {
	case FlagC:
		return "C"
	case FlagN:
		return "N"
	case FlagP:
		return "P"
	case Flag3:
		return "3"
	case FlagH:
		return "H"
	case Flag5:
		return "5"
	case FlagZ:
		return "Z"
	case FlagS:
		return "S"
	}
	return "?"
}

// FormatFlags renders F as "SZ5H3PNC" with cleared bits shown as '-'.
func FormatFlags(f uint8) string {
	buf := make([]byte, 0, len(AllFlags))
	for _, fl := range AllFlags {
		if f&uint8(fl) != 0 {
			buf = append(buf, fl.String()[0])
		} else {
			buf = append(buf, '-')
		}
	}
	return string(buf)
}

const (
	maskS  = uint8(FlagS)
	maskZ  = uint8(FlagZ)
	mask5  = uint8(Flag5)
	maskH  = uint8(FlagH)
	mask3  = uint8(Flag3)
	maskP  = uint8(FlagP)
	maskV  = maskP
	mask53 = mask5 | mask3
)

// Precomputed flag tables, ported from remogatto/z80.
var (
	// Sz53Table: S, Z, 5, 3 flags for each byte value
	Sz53Table [256]uint8
	// Sz53pTable: sz53 with parity flag included
	Sz53pTable [256]uint8
	// ParityTable: parity flag for each byte value
	ParityTable [256]uint8

	// Half-carry and overflow lookup tables (from remogatto/z80).
	// For 8-bit ops: index from bits 3 of {result, arg1, arg2}.
	// For 16-bit ops (ADC/SBC HL): index from bits 11 and 15, same tables.
	HalfcarryAddTable = [8]uint8{0, maskH, maskH, maskH, 0, 0, 0, maskH}
	HalfcarrySubTable = [8]uint8{0, 0, maskH, 0, maskH, 0, maskH, maskH}
	OverflowAddTable  = [8]uint8{0, 0, 0, maskV, maskV, 0, 0, 0}
	OverflowSubTable  = [8]uint8{0, maskV, 0, 0, 0, 0, maskV, 0}
)

func init() {
	for i := 0; i < 256; i++ {
		Sz53Table[i] = uint8(i) & (mask3 | mask5 | maskS)

		// Count parity (number of 1 bits)
		j := uint8(i)
		parity := uint8(0)
		for k := 0; k < 8; k++ {
			parity ^= j & 1
			j >>= 1
		}
		if parity == 0 {
			ParityTable[i] = maskP
		}
		Sz53pTable[i] = Sz53Table[i] | ParityTable[i]
	}
	// Zero flag for value 0
	Sz53Table[0] |= maskZ
	Sz53pTable[0] |= maskZ
}
