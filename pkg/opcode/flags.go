package opcode

import "github.com/oisee/z80core/pkg/cpu"

// Flag masks as raw bytes for the table-driven ALU helpers.
const (
	fC  = uint8(cpu.FlagC)
	fN  = uint8(cpu.FlagN)
	fP  = uint8(cpu.FlagP)
	fV  = fP
	f3  = uint8(cpu.Flag3)
	fH  = uint8(cpu.FlagH)
	f5  = uint8(cpu.Flag5)
	fZ  = uint8(cpu.FlagZ)
	fS  = uint8(cpu.FlagS)
	f53 = f5 | f3
)

// bsel returns a if cond is true, else b.
func bsel(cond bool, a, b uint8) uint8 {
	if cond {
		return a
	}
	return b
}

// operand8 reads the byte following the opcode.
func operand8(s *cpu.State) uint8 {
	return s.Read8(s.PC + 1)
}

// operand16 reads the little-endian word following the opcode.
func operand16(s *cpu.State) uint16 {
	return s.Read16(s.PC + 1)
}
