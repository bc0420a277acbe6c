package opcode

import (
	"fmt"

	"github.com/oisee/z80core/pkg/cpu"
)

// ALUOp selects one of the eight accumulator operations. The value is the
// middle three bits of the opcode encoding.
type ALUOp uint8

const (
	ALUAdd ALUOp = iota
	ALUAdc
	ALUSub
	ALUSbc
	ALUAnd
	ALUXor
	ALUOr
	ALUCp
)

var aluNames = [8]string{"ADD", "ADC", "SUB", "SBC", "AND", "XOR", "OR", "CP"}

var aluPrefix = [8]string{"ADD A, ", "ADC A, ", "SUB ", "SBC A, ", "AND ", "XOR ", "OR ", "CP "}

var aluFuncs = [8]func(s *cpu.State, value uint8){
	ALUAdd: add8,
	ALUAdc: adc8,
	ALUSub: sub8,
	ALUSbc: sbc8,
	ALUAnd: and8,
	ALUXor: xor8,
	ALUOr:  or8,
	ALUCp:  cp8,
}

func (op ALUOp) String() string {
	return aluNames[op&7]
}

// BuildALU builds the register form, e.g. ADD A, B or CP L.
func BuildALU(op ALUOp, r cpu.Reg8) *Opcode {
	fn := aluFuncs[op]
	return New(aluPrefix[op]+r.String(), 1, 4, func(s *cpu.State) {
		fn(s, s.Get8(r))
	})
}

// BuildALUN builds the immediate form, e.g. ADD A, n.
func BuildALUN(op ALUOp) *Opcode {
	fn := aluFuncs[op]
	return New(aluPrefix[op]+"n", 2, 7, func(s *cpu.State) {
		fn(s, operand8(s))
	})
}

// BuildALUHL builds the memory form, e.g. XOR (HL).
func BuildALUHL(op ALUOp) *Opcode {
	fn := aluFuncs[op]
	return New(fmt.Sprintf("%s(HL)", aluPrefix[op]), 1, 7, func(s *cpu.State) {
		fn(s, s.Read8(s.Get16(cpu.HL)))
	})
}

// --- ALU helpers, ported from remogatto/z80 ---

func add8(s *cpu.State, value uint8) {
	a := s.Get8(cpu.A)
	addtemp := uint16(a) + uint16(value)
	lookup := ((a & 0x88) >> 3) | ((value & 0x88) >> 2) | uint8((addtemp&0x88)>>1)
	s.Set8(cpu.A, uint8(addtemp))
	s.Set8(cpu.F, bsel(addtemp&0x100 != 0, fC, 0)|
		cpu.HalfcarryAddTable[lookup&0x07]|
		cpu.OverflowAddTable[lookup>>4]|
		cpu.Sz53Table[uint8(addtemp)])
}

func adc8(s *cpu.State, value uint8) {
	a := s.Get8(cpu.A)
	adctemp := uint16(a) + uint16(value) + uint16(s.Get8(cpu.F)&fC)
	lookup := uint8(((uint16(a) & 0x88) >> 3) | ((uint16(value) & 0x88) >> 2) | ((adctemp & 0x88) >> 1))
	s.Set8(cpu.A, uint8(adctemp))
	s.Set8(cpu.F, bsel(adctemp&0x100 != 0, fC, 0)|
		cpu.HalfcarryAddTable[lookup&0x07]|
		cpu.OverflowAddTable[lookup>>4]|
		cpu.Sz53Table[uint8(adctemp)])
}

func sub8(s *cpu.State, value uint8) {
	a := s.Get8(cpu.A)
	subtemp := uint16(a) - uint16(value)
	lookup := ((a & 0x88) >> 3) | ((value & 0x88) >> 2) | uint8((subtemp&0x88)>>1)
	s.Set8(cpu.A, uint8(subtemp))
	s.Set8(cpu.F, bsel(subtemp&0x100 != 0, fC, 0)|fN|
		cpu.HalfcarrySubTable[lookup&0x07]|
		cpu.OverflowSubTable[lookup>>4]|
		cpu.Sz53Table[uint8(subtemp)])
}

func sbc8(s *cpu.State, value uint8) {
	a := s.Get8(cpu.A)
	sbctemp := uint16(a) - uint16(value) - uint16(s.Get8(cpu.F)&fC)
	lookup := ((a & 0x88) >> 3) | ((value & 0x88) >> 2) | uint8((sbctemp&0x88)>>1)
	s.Set8(cpu.A, uint8(sbctemp))
	s.Set8(cpu.F, bsel(sbctemp&0x100 != 0, fC, 0)|fN|
		cpu.HalfcarrySubTable[lookup&0x07]|
		cpu.OverflowSubTable[lookup>>4]|
		cpu.Sz53Table[uint8(sbctemp)])
}

func and8(s *cpu.State, value uint8) {
	a := s.Get8(cpu.A) & value
	s.Set8(cpu.A, a)
	s.Set8(cpu.F, fH|cpu.Sz53pTable[a])
}

func or8(s *cpu.State, value uint8) {
	a := s.Get8(cpu.A) | value
	s.Set8(cpu.A, a)
	s.Set8(cpu.F, cpu.Sz53pTable[a])
}

func xor8(s *cpu.State, value uint8) {
	a := s.Get8(cpu.A) ^ value
	s.Set8(cpu.A, a)
	s.Set8(cpu.F, cpu.Sz53pTable[a])
}

// cp8 compares without storing; bits 5 and 3 come from the operand.
func cp8(s *cpu.State, value uint8) {
	a := s.Get8(cpu.A)
	cptemp := uint16(a) - uint16(value)
	lookup := ((a & 0x88) >> 3) | ((value & 0x88) >> 2) | uint8((cptemp&0x88)>>1)
	s.Set8(cpu.F, bsel(cptemp&0x100 != 0, fC, bsel(cptemp != 0, 0, fZ))|
		fN|
		cpu.HalfcarrySubTable[lookup&0x07]|
		cpu.OverflowSubTable[lookup>>4]|
		(value&f53)|
		uint8(cptemp&uint16(fS)))
}
