package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/opcode"
)

var table = opcode.NewTable()

func TestAssemble(t *testing.T) {
	tests := []struct {
		text string
		want []byte
	}{
		{"NOP", []byte{0x00}},
		{"ld a,b", []byte{0x78}},
		{"LD A, 7Fh : INC A", []byte{0x3E, 0x7F, 0x3C}},
		{"ld hl, 0x1234", []byte{0x21, 0x34, 0x12}},
		{"LD (HL), 255", []byte{0x36, 0xFF}},
		{"SUB 0FFh", []byte{0xD6, 0xFF}},
		{"add a, -1", []byte{0xC6, 0xFF}},
		{"XOR A : NEG : RLC (HL)", []byte{0xAF, 0xED, 0x44, 0xCB, 0x06}},
		{"ADD HL , DE", []byte{0x19}},
		{"INC A :: DEC A :", []byte{0x3C, 0x3D}},
	}
	for _, tc := range tests {
		got, err := Assemble(table, tc.text)
		require.NoError(t, err, tc.text)
		assert.Equal(t, tc.want, got, tc.text)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		text string
		want error
	}{
		{"", ErrEmpty},
		{" : ", ErrEmpty},
		{"JP 1234h", ErrUnknownInstruction},
		{"FROB", ErrUnknownInstruction},
		{"LD A, 256", ErrBadImmediate},
		{"LD A, zz", ErrBadImmediate},
		{"LD BC, 10000h", ErrBadImmediate},
	}
	for _, tc := range tests {
		_, err := Assemble(table, tc.text)
		assert.ErrorIs(t, err, tc.want, tc.text)
	}

	_, err := Assemble(table, "INC A : FROB")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "FROB", se.Text)
	assert.Equal(t, `cannot parse "FROB": unknown instruction`, se.Error())
}

func TestParseImmediate(t *testing.T) {
	tests := []struct {
		in   string
		bits int
		want uint16
	}{
		{"0", 8, 0},
		{"127", 8, 127},
		{"0x7f", 8, 0x7F},
		{"0XFF", 8, 0xFF},
		{"7Fh", 8, 0x7F},
		{"0A5H", 8, 0xA5},
		{"-128", 8, 0x80},
		{"65535", 16, 0xFFFF},
		{"-1", 16, 0xFFFF},
		{"0BEEFh", 16, 0xBEEF},
	}
	for _, tc := range tests {
		got, err := ParseImmediate(tc.in, tc.bits)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	for _, bad := range []string{"", "-129", "256", "h", "0x", "12g"} {
		_, err := ParseImmediate(bad, 8)
		assert.ErrorIs(t, err, ErrBadImmediate, bad)
	}
}

func TestDisassemble(t *testing.T) {
	ram := cpu.NewRAM()
	ram.Load(0x100, []byte{0x3E, 0xA5, 0x31, 0x00, 0xC0, 0xCB, 0x7E, 0xED, 0xB0})
	tests := []struct {
		pc   uint16
		text string
		size int
	}{
		{0x100, "LD A, 0A5h", 2},
		{0x102, "LD SP, 0C000h", 3},
		{0x105, "BIT 7, (HL)", 2},
		{0x107, "DB 0EDh", 1},
	}
	for _, tc := range tests {
		text, size := Disassemble(table, ram, tc.pc)
		assert.Equal(t, tc.text, text)
		assert.Equal(t, tc.size, size)
	}
}

// TestRoundTrip assembles every table entry and disassembles it back.
func TestRoundTrip(t *testing.T) {
	for _, e := range table.Entries() {
		text := e.Op.Name()
		switch {
		case strings.HasSuffix(text, "nn"):
			text = strings.TrimSuffix(text, "nn") + "1234h"
		case strings.HasSuffix(text, "n"):
			text = strings.TrimSuffix(text, "n") + "12h"
		}
		code, err := Assemble(table, text)
		require.NoError(t, err, text)
		require.Len(t, code, e.Op.Bytes(), text)

		lines := Listing(table, code, 0x8000)
		require.Len(t, lines, 1, text)
		assert.Equal(t, "8000  "+text, lines[0])
	}
}

func TestInstructionString(t *testing.T) {
	seq, err := Parse(table, "LD DE, 0x00FF : CP 10")
	require.NoError(t, err)
	require.Len(t, seq, 2)
	assert.Equal(t, "LD DE, 00FFh", seq[0].String())
	assert.Equal(t, "CP 0Ah", seq[1].String())
	assert.Equal(t, []byte{0x11, 0xFF, 0x00}, seq[0].Bytes())
}
