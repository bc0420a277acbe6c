package opcode

import (
	"fmt"

	"github.com/oisee/z80core/pkg/cpu"
)

// BuildAddHLrr builds ADD HL, rr. The sum wraps at 16 bits.
//
//	H    - carry from bit 11.
//	C    - carry from bit 15.
//	N    - reset.
//	5, 3 - bits 13 and 11 of the result (high byte bits 5 and 3).
//	S, Z, P/V - not affected.
func BuildAddHLrr(rr cpu.Reg16) *Opcode {
	return New(fmt.Sprintf("ADD HL, %s", rr), 1, 11, func(s *cpu.State) {
		hl := s.Get16(cpu.HL)
		v := s.Get16(rr)
		result := uint32(hl) + uint32(v)
		s.Set16(cpu.HL, uint16(result))

		f := s.Get8(cpu.F) & (fS | fZ | fP)
		f |= bsel((hl&0x0FFF)+(v&0x0FFF) > 0x0FFF, fH, 0)
		f |= bsel(result > 0xFFFF, fC, 0)
		f |= uint8(result>>8) & f53
		s.Set8(cpu.F, f)
	})
}

// BuildIncDecRR builds INC rr or DEC rr. No flags are affected.
func BuildIncDecRR(rr cpu.Reg16, inc bool) *Opcode {
	delta := uint16(0xFFFF)
	mnemonic := "DEC"
	if inc {
		delta = 1
		mnemonic = "INC"
	}
	return New(fmt.Sprintf("%s %s", mnemonic, rr), 1, 6, func(s *cpu.State) {
		s.Set16(rr, s.Get16(rr)+delta)
	})
}

// BuildAdcHLrr builds ADC HL, rr with full S, Z, H (bit 11), P/V, N=0, C.
func BuildAdcHLrr(rr cpu.Reg16) *Opcode {
	return New(fmt.Sprintf("ADC HL, %s", rr), 2, 15, func(s *cpu.State) {
		hl := uint(s.Get16(cpu.HL))
		value := uint(s.Get16(rr))
		carry := uint(s.Get8(cpu.F) & fC)
		result := hl + value + carry
		// bits 11 and 15 of hl, value, result -> 3-bit half-carry and overflow indices
		lookup := byte(((hl & 0x8800) >> 11) | ((value & 0x8800) >> 10) | ((result & 0x8800) >> 9))
		s.Set16(cpu.HL, uint16(result))
		h := uint8(result >> 8)
		s.Set8(cpu.F, bsel(result&0x10000 != 0, fC, 0)|
			cpu.OverflowAddTable[lookup>>4]|
			(h&(f53|fS))|
			cpu.HalfcarryAddTable[lookup&0x07]|
			bsel(uint16(result) != 0, 0, fZ))
	})
}

// BuildSbcHLrr builds SBC HL, rr with full S, Z, H (bit 11), P/V, N=1, C.
func BuildSbcHLrr(rr cpu.Reg16) *Opcode {
	return New(fmt.Sprintf("SBC HL, %s", rr), 2, 15, func(s *cpu.State) {
		hl := uint(s.Get16(cpu.HL))
		value := uint(s.Get16(rr))
		carry := uint(s.Get8(cpu.F) & fC)
		result := hl - value - carry
		lookup := byte(((hl & 0x8800) >> 11) | ((value & 0x8800) >> 10) | ((result & 0x8800) >> 9))
		s.Set16(cpu.HL, uint16(result))
		h := uint8(result >> 8)
		s.Set8(cpu.F, bsel(result&0x10000 != 0, fC, 0)|
			fN|
			cpu.OverflowSubTable[lookup>>4]|
			(h&(f53|fS))|
			cpu.HalfcarrySubTable[lookup&0x07]|
			bsel(uint16(result) != 0, 0, fZ))
	})
}

// BuildLdRRNN builds LD rr, nn.
func BuildLdRRNN(rr cpu.Reg16) *Opcode {
	return New(fmt.Sprintf("LD %s, nn", rr), 3, 10, func(s *cpu.State) {
		s.Set16(rr, operand16(s))
	})
}

// BuildExDEHL builds EX DE, HL.
func BuildExDEHL() *Opcode {
	return New("EX DE, HL", 1, 4, func(s *cpu.State) {
		de, hl := s.Get16(cpu.DE), s.Get16(cpu.HL)
		s.Set16(cpu.DE, hl)
		s.Set16(cpu.HL, de)
	})
}

// BuildLdSPHL builds LD SP, HL.
func BuildLdSPHL() *Opcode {
	return New("LD SP, HL", 1, 6, func(s *cpu.State) {
		s.Set16(cpu.SP, s.Get16(cpu.HL))
	})
}

// BuildPush builds PUSH rr for BC, DE, HL and AF.
func BuildPush(rr cpu.Reg16) *Opcode {
	return New(fmt.Sprintf("PUSH %s", rr), 1, 11, func(s *cpu.State) {
		sp := s.Get16(cpu.SP) - 2
		s.Write16(sp, s.Get16(rr))
		s.Set16(cpu.SP, sp)
	})
}

// BuildPop builds POP rr for BC, DE, HL and AF.
func BuildPop(rr cpu.Reg16) *Opcode {
	return New(fmt.Sprintf("POP %s", rr), 1, 10, func(s *cpu.State) {
		sp := s.Get16(cpu.SP)
		s.Set16(rr, s.Read16(sp))
		s.Set16(cpu.SP, sp+2)
	})
}
