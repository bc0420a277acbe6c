package opcode

import "github.com/oisee/z80core/pkg/cpu"

// Action is the semantic effect of an instruction on a CPU state.
type Action func(s *cpu.State)

// Opcode is one fully resolved instruction: its mnemonic, encoded length,
// base timing and the state transition it performs. Opcodes are built once
// and shared; they keep no reference to any State.
type Opcode struct {
	name   string
	bytes  int
	cycles uint64
	action Action
}

// New builds an opcode. A nil action is treated as a no-op.
func New(name string, bytes int, cycles uint64, action Action) *Opcode {
	if action == nil {
		action = func(*cpu.State) {}
	}
	return &Opcode{name: name, bytes: bytes, cycles: cycles, action: action}
}

// Name returns the mnemonic with resolved operands, e.g. "ADD HL, BC".
func (o *Opcode) Name() string { return o.name }

// Bytes returns the encoded length, used by the decode loop to advance PC.
func (o *Opcode) Bytes() int { return o.bytes }

// Cycles returns the base T-state cost.
func (o *Opcode) Cycles() uint64 { return o.cycles }

func (o *Opcode) String() string { return o.name }

// Execute applies the action to s and then charges the opcode's cycles.
// Cycle accounting lives here and only here.
func (o *Opcode) Execute(s *cpu.State) {
	o.action(s)
	s.Cycles += o.cycles
}

// WithCycles returns a copy of o with a different cycle cost.
func (o *Opcode) WithCycles(cycles uint64) *Opcode {
	c := *o
	c.cycles = cycles
	return &c
}

// WithBytes returns a copy of o with a different encoded length.
func (o *Opcode) WithBytes(bytes int) *Opcode {
	c := *o
	c.bytes = bytes
	return &c
}

// WithName returns a copy of o with a different mnemonic.
func (o *Opcode) WithName(name string) *Opcode {
	c := *o
	c.name = name
	return &c
}

// SeqBytes returns total byte size for a sequence of opcodes.
func SeqBytes(seq []*Opcode) int {
	n := 0
	for _, o := range seq {
		n += o.bytes
	}
	return n
}

// SeqCycles returns total T-states for a sequence of opcodes.
func SeqCycles(seq []*Opcode) uint64 {
	var t uint64
	for _, o := range seq {
		t += o.cycles
	}
	return t
}
