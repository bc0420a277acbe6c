package opcode

import (
	"fmt"

	"github.com/oisee/z80core/pkg/cpu"
)

// inc8 increments v and sets the flags for INC.
//
//	S, Z, 5, 3 - from the result.
//	H          - set if the low nibble of the result is 0.
//	P/V        - set if the result is 0x80.
//	N          - reset.
//	C          - not affected.
func inc8(rf *cpu.Registers, v uint8) uint8 {
	v++
	rf.UpdateSZ53Flags(v)
	rf.ClearFlag(cpu.FlagN)
	rf.PutFlag(cpu.FlagP, v == 0x80)
	rf.PutFlag(cpu.FlagH, v&0x0F == 0x00)
	return v
}

// dec8 decrements v and sets the flags for DEC.
//
//	S, Z, 5, 3 - from the result.
//	H          - set if the low nibble of the result is 0xF.
//	P/V        - set if the result is 0x7F.
//	N          - set.
//	C          - not affected.
func dec8(rf *cpu.Registers, v uint8) uint8 {
	v--
	rf.UpdateSZ53Flags(v)
	rf.SetFlag(cpu.FlagN)
	rf.PutFlag(cpu.FlagP, v == 0x7F)
	rf.PutFlag(cpu.FlagH, v&0x0F == 0x0F)
	return v
}

// BuildIncR builds INC r.
func BuildIncR(r cpu.Reg8) *Opcode {
	return New(fmt.Sprintf("INC %s", r), 1, 4, func(s *cpu.State) {
		s.Set8(r, inc8(&s.Registers, s.Get8(r)))
	})
}

// BuildDecR builds DEC r.
func BuildDecR(r cpu.Reg8) *Opcode {
	return New(fmt.Sprintf("DEC %s", r), 1, 4, func(s *cpu.State) {
		s.Set8(r, dec8(&s.Registers, s.Get8(r)))
	})
}

// BuildIncHL builds INC (HL).
func BuildIncHL() *Opcode {
	return New("INC (HL)", 1, 11, func(s *cpu.State) {
		addr := s.Get16(cpu.HL)
		s.Write8(addr, inc8(&s.Registers, s.Read8(addr)))
	})
}

// BuildDecHL builds DEC (HL).
func BuildDecHL() *Opcode {
	return New("DEC (HL)", 1, 11, func(s *cpu.State) {
		addr := s.Get16(cpu.HL)
		s.Write8(addr, dec8(&s.Registers, s.Read8(addr)))
	})
}

// BuildLdRR builds LD dst, src. LD r, r is a valid (no-op) instruction.
func BuildLdRR(dst, src cpu.Reg8) *Opcode {
	return New(fmt.Sprintf("LD %s, %s", dst, src), 1, 4, func(s *cpu.State) {
		s.Set8(dst, s.Get8(src))
	})
}

// BuildLdRN builds LD r, n.
func BuildLdRN(r cpu.Reg8) *Opcode {
	return New(fmt.Sprintf("LD %s, n", r), 2, 7, func(s *cpu.State) {
		s.Set8(r, operand8(s))
	})
}

// BuildLdRHL builds LD r, (HL).
func BuildLdRHL(r cpu.Reg8) *Opcode {
	return New(fmt.Sprintf("LD %s, (HL)", r), 1, 7, func(s *cpu.State) {
		s.Set8(r, s.Read8(s.Get16(cpu.HL)))
	})
}

// BuildLdHLR builds LD (HL), r.
func BuildLdHLR(r cpu.Reg8) *Opcode {
	return New(fmt.Sprintf("LD (HL), %s", r), 1, 7, func(s *cpu.State) {
		s.Write8(s.Get16(cpu.HL), s.Get8(r))
	})
}

// BuildLdHLN builds LD (HL), n.
func BuildLdHLN() *Opcode {
	return New("LD (HL), n", 2, 10, func(s *cpu.State) {
		s.Write8(s.Get16(cpu.HL), operand8(s))
	})
}

// BuildLdAInd builds LD A, (rr) for BC and DE.
func BuildLdAInd(rr cpu.Reg16) *Opcode {
	return New(fmt.Sprintf("LD A, (%s)", rr), 1, 7, func(s *cpu.State) {
		s.Set8(cpu.A, s.Read8(s.Get16(rr)))
	})
}

// BuildLdIndA builds LD (rr), A for BC and DE.
func BuildLdIndA(rr cpu.Reg16) *Opcode {
	return New(fmt.Sprintf("LD (%s), A", rr), 1, 7, func(s *cpu.State) {
		s.Write8(s.Get16(rr), s.Get8(cpu.A))
	})
}
