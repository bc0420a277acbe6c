package verify

import (
	"github.com/oisee/z80core/pkg/asm"
	"github.com/oisee/z80core/pkg/cpu"
)

// An input dimension beyond A and F that a sequence may depend on.
type dim uint8

const (
	dimB dim = iota
	dimC
	dimD
	dimE
	dimH
	dimL
	dimSP
	dimM
	numDims
)

var dimReg = [...]cpu.Reg8{dimB: cpu.B, dimC: cpu.C, dimD: cpu.D, dimE: cpu.E, dimH: cpu.H, dimL: cpu.L}

func (in *Input) get(d dim) uint16 {
	switch d {
	case dimSP:
		return in.Regs.Get16(cpu.SP)
	case dimM:
		return uint16(in.M)
	}
	return uint16(in.Regs.Get8(dimReg[d]))
}

func (in *Input) set(d dim, v uint16) {
	switch d {
	case dimSP:
		in.Regs.Set16(cpu.SP, v)
	case dimM:
		in.M = uint8(v)
	default:
		in.Regs.Set8(dimReg[d], uint8(v))
	}
}

// Representative values, most telling first so a prefix is still useful.
var repValues = []uint8{
	0x00, 0xFF, 0x80, 0x7F, 0x01, 0x0F, 0x10, 0xF0,
	0x02, 0x1F, 0x20, 0x3F, 0x40, 0x55, 0x7E, 0x81,
	0xAA, 0xBF, 0xC0, 0xD5, 0xE0, 0xEF, 0xF7, 0xFE,
	0x03, 0x07, 0x11, 0x33, 0x77, 0xBB, 0xDD, 0xEE,
}

var repSP = []uint16{
	0x0000, 0xFFFF, 0x8000, 0x7FFF, 0x0001, 0xFFFE, 0x00FF, 0x0100,
	0x7FFE, 0x8001, 0x1234, 0x5678, 0xABCD, 0xDEAD, 0xBEEF, 0xCAFE,
}

// flagValues covers carry, half carry and subtract, the flags any
// instruction reads.
var flagValues = []uint8{0x00, 0x01, 0x10, 0x02, 0x13, 0xFF}

var probes = []uint16{0x0000, 0x0001, 0x0080, 0x00FF, 0x005A, 0x8000, 0xFFFF}

// reads reports whether seq depends on input dimension d: changing d
// changes some output other than d passing through unchanged.
func reads(seq []asm.Instruction, d dim) bool {
	for _, v := range TestVectors {
		base := Run(v, seq)
		passThrough := base.get(d) == v.get(d)
		for _, x := range probes {
			if d != dimSP {
				x &= 0xFF
			}
			in := v
			in.set(d, x)
			want := base
			if passThrough {
				want.set(d, x)
			}
			if Run(in, seq) != want {
				return true
			}
		}
	}
	return false
}

func readDims(seqs ...[]asm.Instruction) []dim {
	var dims []dim
	for d := dim(0); d < numDims; d++ {
		for _, seq := range seqs {
			if reads(seq, d) {
				dims = append(dims, d)
				break
			}
		}
	}
	return dims
}

// sweepValues picks how many values each read dimension gets, shrinking
// as the number of dimensions grows.
func sweepValues(d dim, ndims int) []uint16 {
	n := 256
	switch {
	case ndims == 2:
		n = 32
	case ndims == 3:
		n = 16
	case ndims == 4:
		n = 8
	case ndims > 4:
		n = 4
	}
	var vals []uint16
	if d == dimSP {
		for _, v := range repSP[:min(n, len(repSP))] {
			vals = append(vals, v)
		}
		return vals
	}
	if n == 256 {
		for v := 0; v < 256; v++ {
			vals = append(vals, uint16(v))
		}
		return vals
	}
	for _, v := range repValues[:n] {
		vals = append(vals, uint16(v))
	}
	return vals
}

// ExhaustiveCheck verifies equivalence over all values of A, the
// interesting flag combinations and every other input the sequences read.
// With one extra input the sweep is complete; with more it falls back to
// representative values per input.
func ExhaustiveCheck(target, candidate []asm.Instruction) bool {
	return ExhaustiveCheckMasked(target, candidate, DeadNone)
}

// ExhaustiveCheckMasked is ExhaustiveCheck ignoring dead flag bits.
func ExhaustiveCheckMasked(target, candidate []asm.Instruction, dead FlagMask) bool {
	_, found := Counterexample(target, candidate, dead)
	return !found
}

// Counterexample returns the first swept input on which the sequences
// disagree.
func Counterexample(target, candidate []asm.Instruction, dead FlagMask) (Input, bool) {
	dims := readDims(target, candidate)
	values := make([][]uint16, len(dims))
	for i, d := range dims {
		values[i] = sweepValues(d, len(dims))
	}

	var aVals []uint8
	if len(dims) >= 3 {
		aVals = repValues
	} else {
		for a := 0; a < 256; a++ {
			aVals = append(aVals, uint8(a))
		}
	}

	var (
		bad   Input
		found bool
	)
	var sweep func(in Input, i int) bool
	sweep = func(in Input, i int) bool {
		if i == len(dims) {
			if !equalMasked(Run(in, target), Run(in, candidate), dead) {
				bad, found = in, true
				return false
			}
			return true
		}
		for _, v := range values[i] {
			next := in
			next.set(dims[i], v)
			if !sweep(next, i+1) {
				return false
			}
		}
		return true
	}

	for _, a := range aVals {
		for _, f := range flagValues {
			var in Input
			in.Regs.Set8(cpu.A, a)
			in.Regs.Set8(cpu.F, f)
			if !sweep(in, 0) {
				return bad, found
			}
		}
	}
	return Input{}, false
}
