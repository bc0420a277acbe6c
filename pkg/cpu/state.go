package cpu

import "fmt"

// State is everything an instruction can observe or change: the register
// file, the program counter, the running cycle count and the memory it was
// given. One State exists per emulated CPU; opcodes never hold on to it.
type State struct {
	Registers

	PC     uint16
	Cycles uint64 // T-states executed since construction or Reset
	Mem    Memory
}

// NewState creates a CPU state backed by mem. mem may be nil when only
// register-only instructions will run.
func NewState(mem Memory) *State {
	return &State{Mem: mem}
}

// Reset clears registers, PC and the cycle counter. Memory is kept.
func (s *State) Reset() {
	s.Registers = Registers{}
	s.PC = 0
	s.Cycles = 0
}

// Equal returns true if two states have identical registers, PC and cycle
// count. Memory is not compared.
func (s *State) Equal(o *State) bool {
	return s.Registers == o.Registers && s.PC == o.PC && s.Cycles == o.Cycles
}

// Read8 reads a byte through the injected memory.
func (s *State) Read8(addr uint16) uint8 {
	return s.Mem.Read(addr)
}

// Write8 writes a byte through the injected memory.
func (s *State) Write8(addr uint16, v uint8) {
	s.Mem.Write(addr, v)
}

// Read16 reads a little-endian word.
func (s *State) Read16(addr uint16) uint16 {
	return uint16(s.Mem.Read(addr)) | uint16(s.Mem.Read(addr+1))<<8
}

// Write16 writes a little-endian word.
func (s *State) Write16(addr uint16, v uint16) {
	s.Mem.Write(addr, uint8(v))
	s.Mem.Write(addr+1, uint8(v>>8))
}

func (s *State) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X F=%s cycles=%d",
		s.Get16(AF), s.Get16(BC), s.Get16(DE), s.Get16(HL), s.Get16(SP), s.PC,
		FormatFlags(s.Get8(F)), s.Cycles)
}
