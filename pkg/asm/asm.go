// Package asm converts between Z80 assembly text and machine code using
// the mnemonics of an opcode table.
package asm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/opcode"
)

var (
	ErrEmpty              = errors.New("no instructions")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrBadImmediate       = errors.New("bad immediate")
)

// SyntaxError wraps a failure to parse one instruction.
type SyntaxError struct {
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Text, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Instruction is a table entry together with its immediate operand.
type Instruction struct {
	Entry opcode.Entry
	Imm   uint16
}

// immSize is the number of immediate bytes after the encoding.
func (in Instruction) immSize() int {
	return in.Entry.Op.Bytes() - len(in.Entry.Encoding())
}

// Bytes returns the full machine code, immediate little endian.
func (in Instruction) Bytes() []byte {
	b := in.Entry.Encoding()
	switch in.immSize() {
	case 1:
		b = append(b, uint8(in.Imm))
	case 2:
		b = append(b, uint8(in.Imm), uint8(in.Imm>>8))
	}
	return b
}

func (in Instruction) String() string {
	return render(in.Entry.Op.Name(), in.immSize(), in.Imm)
}

// Parse splits text on ':' and resolves each instruction against t.
func Parse(t *opcode.Table, text string) ([]Instruction, error) {
	var seq []Instruction
	for _, part := range strings.Split(text, ":") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		in, err := parseOne(t, part)
		if err != nil {
			return nil, &SyntaxError{Text: part, Err: err}
		}
		seq = append(seq, in)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("%q: %w", text, ErrEmpty)
	}
	return seq, nil
}

// Assemble parses text and returns the concatenated machine code.
func Assemble(t *opcode.Table, text string) ([]byte, error) {
	seq, err := Parse(t, text)
	if err != nil {
		return nil, err
	}
	var code []byte
	for _, in := range seq {
		code = append(code, in.Bytes()...)
	}
	return code, nil
}

// Normalize upper-cases a mnemonic and puts exactly one space after each
// comma, matching the table's spelling.
func Normalize(text string) string {
	s := strings.Join(strings.Fields(strings.ToUpper(text)), " ")
	s = strings.ReplaceAll(s, " ,", ",")
	s = strings.ReplaceAll(s, ", ", ",")
	return strings.ReplaceAll(s, ",", ", ")
}

func parseOne(t *opcode.Table, text string) (Instruction, error) {
	norm := Normalize(text)
	if e, ok := t.ByName(norm); ok {
		if len(e.Encoding()) == e.Op.Bytes() {
			return Instruction{Entry: e}, nil
		}
	}

	// Immediate forms end with an "n" or "nn" placeholder.
	cut := strings.LastIndexAny(norm, " ,")
	if cut < 0 {
		return Instruction{}, ErrUnknownInstruction
	}
	head, arg := norm[:cut+1], norm[cut+1:]
	for _, ph := range []struct {
		suffix string
		bits   int
	}{{"n", 8}, {"nn", 16}} {
		e, ok := t.ByName(head + ph.suffix)
		if !ok {
			continue
		}
		v, err := ParseImmediate(arg, ph.bits)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Entry: e, Imm: v}, nil
	}
	return Instruction{}, ErrUnknownInstruction
}

// ParseImmediate accepts 0x-prefixed hex, h-suffixed hex or decimal, and
// negative decimals down to -2^(bits-1).
func ParseImmediate(s string, bits int) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty: %w", ErrBadImmediate)
	}
	var (
		v   int64
		err error
	)
	upper := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(upper, "0X"):
		v, err = strconv.ParseInt(upper[2:], 16, 32)
	case strings.HasSuffix(upper, "H"):
		v, err = strconv.ParseInt(upper[:len(upper)-1], 16, 32)
	default:
		v, err = strconv.ParseInt(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrBadImmediate)
	}
	if v < -(1<<(bits-1)) || v >= 1<<bits {
		return 0, fmt.Errorf("%q out of %d-bit range: %w", s, bits, ErrBadImmediate)
	}
	return uint16(v) & uint16(1<<bits-1), nil
}

// Disassemble renders the instruction at pc and returns its length.
// Encodings with no table entry render as a DB byte of length 1.
func Disassemble(t *opcode.Table, mem cpu.Memory, pc uint16) (string, int) {
	e := t.Decode(mem, pc)
	if e.Op == nil {
		return "DB " + string(appendHex8(nil, mem.Read(pc))), 1
	}
	n := len(e.Encoding())
	size := e.Op.Bytes()
	var imm uint16
	switch size - n {
	case 1:
		imm = uint16(mem.Read(pc + uint16(n)))
	case 2:
		imm = uint16(mem.Read(pc+uint16(n))) | uint16(mem.Read(pc+uint16(n)+1))<<8
	}
	return render(e.Op.Name(), size-n, imm), size
}

// Listing disassembles code loaded at org, one line per instruction.
func Listing(t *opcode.Table, code []byte, org uint16) []string {
	ram := cpu.NewRAM()
	ram.Load(org, code)
	var lines []string
	for off := 0; off < len(code); {
		pc := org + uint16(off)
		text, size := Disassemble(t, ram, pc)
		lines = append(lines, fmt.Sprintf("%04X  %s", pc, text))
		off += size
	}
	return lines
}

func render(name string, immSize int, imm uint16) string {
	switch immSize {
	case 1:
		return replaceTail(name, "n", appendHex8(nil, uint8(imm)))
	case 2:
		return replaceTail(name, "nn", appendHex16(nil, imm))
	}
	return name
}

func replaceTail(name, placeholder string, value []byte) string {
	if !strings.HasSuffix(name, placeholder) {
		return name
	}
	return name[:len(name)-len(placeholder)] + string(value)
}

// appendHex8 writes v as assembler hex ("7Fh", "0A5h").
func appendHex8(buf []byte, v uint8) []byte {
	const hex = "0123456789ABCDEF"
	if v >= 0xA0 {
		buf = append(buf, '0')
	}
	return append(buf, hex[v>>4], hex[v&0x0F], 'h')
}

func appendHex16(buf []byte, v uint16) []byte {
	const hex = "0123456789ABCDEF"
	if v>>12 >= 0xA {
		buf = append(buf, '0')
	}
	return append(buf, hex[v>>12], hex[(v>>8)&0x0F], hex[(v>>4)&0x0F], hex[v&0x0F], 'h')
}
