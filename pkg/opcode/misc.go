package opcode

import "github.com/oisee/z80core/pkg/cpu"

// BuildNOP builds NOP: four cycles, no effect.
func BuildNOP() *Opcode {
	return New("NOP", 1, 4, nil)
}

// Accumulator rotates keep S, Z and P/V, reset H and N, and copy bits 5
// and 3 from the new A.

// BuildRLCA builds RLCA.
func BuildRLCA() *Opcode {
	return New("RLCA", 1, 4, func(s *cpu.State) {
		a := s.Get8(cpu.A)
		a = a<<1 | a>>7
		s.Set8(cpu.A, a)
		s.Set8(cpu.F, s.Get8(cpu.F)&(fP|fZ|fS)|a&(fC|f53))
	})
}

// BuildRRCA builds RRCA.
func BuildRRCA() *Opcode {
	return New("RRCA", 1, 4, func(s *cpu.State) {
		old := s.Get8(cpu.A)
		a := old>>1 | old<<7
		s.Set8(cpu.A, a)
		s.Set8(cpu.F, s.Get8(cpu.F)&(fP|fZ|fS)|old&fC|a&f53)
	})
}

// BuildRLA builds RLA.
func BuildRLA() *Opcode {
	return New("RLA", 1, 4, func(s *cpu.State) {
		old := s.Get8(cpu.A)
		f := s.Get8(cpu.F)
		a := old<<1 | f&fC
		s.Set8(cpu.A, a)
		s.Set8(cpu.F, f&(fP|fZ|fS)|a&f53|old>>7)
	})
}

// BuildRRA builds RRA.
func BuildRRA() *Opcode {
	return New("RRA", 1, 4, func(s *cpu.State) {
		old := s.Get8(cpu.A)
		f := s.Get8(cpu.F)
		a := old>>1 | f<<7
		s.Set8(cpu.A, a)
		s.Set8(cpu.F, f&(fP|fZ|fS)|a&f53|old&fC)
	})
}

// BuildDAA builds DAA, the decimal adjust that consumes H and N.
func BuildDAA() *Opcode {
	return New("DAA", 1, 4, func(s *cpu.State) {
		a := s.Get8(cpu.A)
		f := s.Get8(cpu.F)
		var add uint8
		carry := f & fC
		if f&fH != 0 || a&0x0F > 9 {
			add = 6
		}
		if carry != 0 || a > 0x99 {
			add |= 0x60
		}
		if a > 0x99 {
			carry = fC
		}
		if f&fN != 0 {
			sub8(s, add)
		} else {
			add8(s, add)
		}
		s.Set8(cpu.F, s.Get8(cpu.F)&^(fC|fP)|carry|cpu.ParityTable[s.Get8(cpu.A)])
	})
}

// BuildCPL builds CPL.
func BuildCPL() *Opcode {
	return New("CPL", 1, 4, func(s *cpu.State) {
		a := s.Get8(cpu.A) ^ 0xFF
		s.Set8(cpu.A, a)
		s.Set8(cpu.F, s.Get8(cpu.F)&(fC|fP|fZ|fS)|a&f53|fN|fH)
	})
}

// BuildSCF builds SCF.
func BuildSCF() *Opcode {
	return New("SCF", 1, 4, func(s *cpu.State) {
		s.Set8(cpu.F, s.Get8(cpu.F)&(fP|fZ|fS)|s.Get8(cpu.A)&f53|fC)
	})
}

// BuildCCF builds CCF. H takes the old carry.
func BuildCCF() *Opcode {
	return New("CCF", 1, 4, func(s *cpu.State) {
		f := s.Get8(cpu.F)
		s.Set8(cpu.F, f&(fP|fZ|fS)|bsel(f&fC != 0, fH, fC)|s.Get8(cpu.A)&f53)
	})
}

// BuildNEG builds NEG (ED 44): A = 0 - A.
func BuildNEG() *Opcode {
	return New("NEG", 2, 8, func(s *cpu.State) {
		v := s.Get8(cpu.A)
		s.Set8(cpu.A, 0)
		sub8(s, v)
	})
}
