// Package verify decides whether two instruction sequences have the same
// effect on the CPU. Sequences run against a sandbox memory in which every
// address outside the current immediate operand aliases one data byte M,
// so (HL), (BC), (DE) and stack accesses are all observable.
package verify

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"

	"github.com/oisee/z80core/pkg/asm"
	"github.com/oisee/z80core/pkg/cpu"
)

// FlagMask indicates which flag bits are "dead" and ignored during
// equivalence checks. A set bit means that flag bit is ignored.
type FlagMask = uint8

const (
	DeadNone  FlagMask = 0x00 // Full equivalence
	DeadUndoc FlagMask = 0x28 // Undocumented flags (bits 5 and 3)
	DeadAll   FlagMask = 0xFF // Registers only
)

// ParseDeadFlags maps "none", "undoc" and "all" to a mask.
func ParseDeadFlags(s string) (FlagMask, error) {
	switch s {
	case "", "none":
		return DeadNone, nil
	case "undoc":
		return DeadUndoc, nil
	case "all":
		return DeadAll, nil
	}
	return 0, fmt.Errorf("dead flags %q: want none, undoc or all", s)
}

// Input is one starting point: registers plus the aliased memory byte.
type Input struct {
	Regs cpu.Registers
	M    uint8
}

// Output is what a sequence leaves behind, in the same shape as its Input.
type Output = Input

const origin = 0x3C00

// sandbox serves the current instruction's immediate at origin+1 and
// origin+2; everything else is the single cell m.
type sandbox struct {
	imm [2]uint8
	m   uint8
}

func (b *sandbox) Read(addr uint16) uint8 {
	switch addr {
	case origin + 1:
		return b.imm[0]
	case origin + 2:
		return b.imm[1]
	}
	return b.m
}

func (b *sandbox) Write(addr uint16, v uint8) {
	if addr != origin+1 && addr != origin+2 {
		b.m = v
	}
}

// Run executes seq from in and returns the result.
func Run(in Input, seq []asm.Instruction) Output {
	mem := &sandbox{m: in.M}
	s := cpu.State{Registers: in.Regs, Mem: mem}
	for _, ins := range seq {
		mem.imm = [2]uint8{uint8(ins.Imm), uint8(ins.Imm >> 8)}
		s.PC = origin
		ins.Entry.Op.Execute(&s)
	}
	return Output{Regs: s.Registers, M: mem.m}
}

func vec(a, f, b, c, d, e, h, l uint8, sp uint16, m uint8) Input {
	var in Input
	for _, p := range []struct {
		r cpu.Reg8
		v uint8
	}{{cpu.A, a}, {cpu.F, f}, {cpu.B, b}, {cpu.C, c}, {cpu.D, d}, {cpu.E, e}, {cpu.H, h}, {cpu.L, l}} {
		in.Regs.Set8(p.r, p.v)
	}
	in.Regs.Set16(cpu.SP, sp)
	in.M = m
	return in
}

// TestVectors are fixed inputs used by QuickCheck to reject almost all
// non-matches cheaply.
var TestVectors = []Input{
	vec(0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0000, 0x00),
	vec(0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFFFF, 0xFF),
	vec(0x01, 0x00, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x1234, 0x08),
	vec(0x80, 0x01, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x8000, 0x7F),
	vec(0x55, 0x00, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0x5555, 0xAA),
	vec(0xAA, 0x01, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0xAAAA, 0x55),
	vec(0x0F, 0x00, 0xF0, 0x0F, 0xF0, 0x0F, 0xF0, 0x0F, 0xFFFE, 0x80),
	vec(0x7F, 0x01, 0x80, 0x7F, 0x80, 0x7F, 0x80, 0x7F, 0x7FFF, 0x01),
	vec(0x99, 0x12, 0x3C, 0x00, 0x3C, 0x01, 0x00, 0x00, 0x0002, 0xFE),
}

// equalMasked compares two outputs, ignoring flag bits set in dead.
func equalMasked(a, b Output, dead FlagMask) bool {
	if dead != DeadNone {
		a.Regs.Set8(cpu.F, a.Regs.Get8(cpu.F)&^dead)
		b.Regs.Set8(cpu.F, b.Regs.Get8(cpu.F)&^dead)
	}
	return a == b
}

// QuickCheck tests two sequences against the test vectors.
func QuickCheck(target, candidate []asm.Instruction) bool {
	return QuickCheckMasked(target, candidate, DeadNone)
}

// QuickCheckMasked is QuickCheck ignoring dead flag bits.
func QuickCheckMasked(target, candidate []asm.Instruction, dead FlagMask) bool {
	for _, in := range TestVectors {
		if !equalMasked(Run(in, target), Run(in, candidate), dead) {
			return false
		}
	}
	return true
}

// FlagDiff returns the flag bits on which the two sequences disagree over
// the test vectors. It returns 0 if any non-flag output differs, since
// then masking flags cannot make them equivalent.
func FlagDiff(target, candidate []asm.Instruction) FlagMask {
	var diff FlagMask
	for _, in := range TestVectors {
		t, c := Run(in, target), Run(in, candidate)
		if !equalMasked(t, c, DeadAll) {
			return 0
		}
		diff |= t.Regs.Get8(cpu.F) ^ c.Regs.Get8(cpu.F)
	}
	return diff
}

// FingerprintSize is the number of bytes per output in a fingerprint:
// A F B C D E H L, SP high and low, M.
const FingerprintSize = 11

// Fingerprint hashes a sequence's outputs on the test vectors. Sequences
// with different fingerprints are guaranteed non-equivalent.
func Fingerprint(seq []asm.Instruction) uint64 {
	buf := make([]byte, 0, FingerprintSize*len(TestVectors))
	for _, in := range TestVectors {
		out := Run(in, seq)
		for _, r := range []cpu.Reg8{cpu.A, cpu.F, cpu.B, cpu.C, cpu.D, cpu.E, cpu.H, cpu.L} {
			buf = append(buf, out.Regs.Get8(r))
		}
		buf = binary.BigEndian.AppendUint16(buf, out.Regs.Get16(cpu.SP))
		buf = append(buf, out.M)
	}
	return xxhash.Sum64(buf)
}
