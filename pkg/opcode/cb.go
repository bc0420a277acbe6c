package opcode

import (
	"fmt"

	"github.com/oisee/z80core/pkg/cpu"
)

// ShiftOp is one of the eight CB-page rotate and shift operations, in
// encoding order (bits 5-3 of the CB opcode for 0x00-0x3F).
type ShiftOp uint8

const (
	ShiftRLC ShiftOp = iota
	ShiftRRC
	ShiftRL
	ShiftRR
	ShiftSLA
	ShiftSRA
	ShiftSLL // undocumented: shifts left and sets bit 0
	ShiftSRL
)

var shiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}

// Each shift returns the new value and the carry it shifted out.
var shiftFuncs = [8]func(v, carryIn uint8) (uint8, uint8){
	ShiftRLC: func(v, _ uint8) (uint8, uint8) { return v<<1 | v>>7, v >> 7 },
	ShiftRRC: func(v, _ uint8) (uint8, uint8) { return v>>1 | v<<7, v & fC },
	ShiftRL:  func(v, c uint8) (uint8, uint8) { return v<<1 | c, v >> 7 },
	ShiftRR:  func(v, c uint8) (uint8, uint8) { return v>>1 | c<<7, v & fC },
	ShiftSLA: func(v, _ uint8) (uint8, uint8) { return v << 1, v >> 7 },
	ShiftSRA: func(v, _ uint8) (uint8, uint8) { return v&0x80 | v>>1, v & fC },
	ShiftSLL: func(v, _ uint8) (uint8, uint8) { return v<<1 | 0x01, v >> 7 },
	ShiftSRL: func(v, _ uint8) (uint8, uint8) { return v >> 1, v & fC },
}

func (op ShiftOp) String() string {
	return shiftNames[op&7]
}

// shift applies op to v and sets F: C from the bit shifted out, S, Z, 5, 3
// and parity from the result, H and N reset.
func shift(s *cpu.State, op ShiftOp, v uint8) uint8 {
	v, carry := shiftFuncs[op&7](v, s.Get8(cpu.F)&fC)
	s.Set8(cpu.F, carry|cpu.Sz53pTable[v])
	return v
}

// BuildShift builds a CB rotate or shift on a register, e.g. RLC B.
func BuildShift(op ShiftOp, r cpu.Reg8) *Opcode {
	return New(fmt.Sprintf("%s %s", op, r), 2, 8, func(s *cpu.State) {
		s.Set8(r, shift(s, op, s.Get8(r)))
	})
}

// BuildShiftHL builds a CB rotate or shift on (HL).
func BuildShiftHL(op ShiftOp) *Opcode {
	return New(fmt.Sprintf("%s (HL)", op), 2, 15, func(s *cpu.State) {
		addr := s.Get16(cpu.HL)
		s.Write8(addr, shift(s, op, s.Read8(addr)))
	})
}

// bit tests bit b of v.
//
//	Z, P/V - set if the bit is clear.
//	S      - set only for bit 7 when it is set.
//	H      - set.
//	N      - reset.
//	5, 3   - copied from v.
//	C      - not affected.
func bit(s *cpu.State, v, b uint8) {
	f := s.Get8(cpu.F)&fC | fH | v&f53
	if v&(1<<b) == 0 {
		f |= fP | fZ
	}
	if b == 7 && v&0x80 != 0 {
		f |= fS
	}
	s.Set8(cpu.F, f)
}

// BuildBit builds BIT b, r.
func BuildBit(b uint8, r cpu.Reg8) *Opcode {
	b &= 7
	return New(fmt.Sprintf("BIT %d, %s", b, r), 2, 8, func(s *cpu.State) {
		bit(s, s.Get8(r), b)
	})
}

// BuildBitHL builds BIT b, (HL). Bits 5 and 3 come from the memory value.
func BuildBitHL(b uint8) *Opcode {
	b &= 7
	return New(fmt.Sprintf("BIT %d, (HL)", b), 2, 12, func(s *cpu.State) {
		bit(s, s.Read8(s.Get16(cpu.HL)), b)
	})
}

// BuildRes builds RES b, r. Flags are not affected.
func BuildRes(b uint8, r cpu.Reg8) *Opcode {
	mask := ^uint8(1 << (b & 7))
	return New(fmt.Sprintf("RES %d, %s", b&7, r), 2, 8, func(s *cpu.State) {
		s.Set8(r, s.Get8(r)&mask)
	})
}

// BuildResHL builds RES b, (HL).
func BuildResHL(b uint8) *Opcode {
	mask := ^uint8(1 << (b & 7))
	return New(fmt.Sprintf("RES %d, (HL)", b&7), 2, 15, func(s *cpu.State) {
		addr := s.Get16(cpu.HL)
		s.Write8(addr, s.Read8(addr)&mask)
	})
}

// BuildSet builds SET b, r. Flags are not affected.
func BuildSet(b uint8, r cpu.Reg8) *Opcode {
	mask := uint8(1 << (b & 7))
	return New(fmt.Sprintf("SET %d, %s", b&7, r), 2, 8, func(s *cpu.State) {
		s.Set8(r, s.Get8(r)|mask)
	})
}

// BuildSetHL builds SET b, (HL).
func BuildSetHL(b uint8) *Opcode {
	mask := uint8(1 << (b & 7))
	return New(fmt.Sprintf("SET %d, (HL)", b&7), 2, 15, func(s *cpu.State) {
		addr := s.Get16(cpu.HL)
		s.Write8(addr, s.Read8(addr)|mask)
	})
}
