// Package machine is the fetch-decode-execute loop around the opcode table.
// It owns PC advancement; opcodes themselves never move PC.
package machine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/opcode"
)

const haltCode = 0x76

// DefaultMaxSteps bounds Run and RunUntil when no limit is given.
const DefaultMaxSteps = 1_000_000

// Observer is called after every executed instruction with the PC it was
// fetched from.
type Observer func(pc uint16, op *opcode.Opcode, s *cpu.State)

// Machine drives one CPU state through a table.
type Machine struct {
	State *cpu.State

	table    *opcode.Table
	log      logrus.FieldLogger
	maxSteps int
	observe  Observer
	steps    uint64
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for per-step debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Machine) { m.log = l }
}

// WithMaxSteps sets the limit used when Run or RunUntil get maxSteps <= 0.
func WithMaxSteps(n int) Option {
	return func(m *Machine) { m.maxSteps = n }
}

// WithObserver registers fn to see every executed instruction.
func WithObserver(fn Observer) Option {
	return func(m *Machine) { m.observe = fn }
}

// New creates a machine. s must have memory attached.
func New(s *cpu.State, t *opcode.Table, opts ...Option) *Machine {
	m := &Machine{
		State:    s,
		table:    t,
		log:      logrus.StandardLogger(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() uint64 { return m.steps }

// Step executes the instruction at PC and advances PC past it.
// On error the state is unchanged.
func (m *Machine) Step() (*opcode.Opcode, error) {
	s := m.State
	pc := s.PC
	e := m.table.Decode(s.Mem, pc)
	if e.Op == nil {
		if e.Prefix == opcode.PrefixNone && e.Code == haltCode {
			return nil, fmt.Errorf("at %04X: %w", pc, ErrHalted)
		}
		return nil, &IllegalOpcodeError{PC: pc, Prefix: e.Prefix, Code: e.Code}
	}

	e.Op.Execute(s)
	s.PC = pc + uint16(e.Op.Bytes())
	m.steps++

	m.log.WithFields(logrus.Fields{
		"pc":     fmt.Sprintf("%04X", pc),
		"op":     e.Op.Name(),
		"cycles": s.Cycles,
	}).Debug("step")
	if m.observe != nil {
		m.observe(pc, e.Op, s)
	}
	return e.Op, nil
}

func (m *Machine) limit(maxSteps int) int {
	if maxSteps <= 0 {
		return m.maxSteps
	}
	return maxSteps
}

// Run executes up to maxSteps instructions and returns how many ran. It
// stops early on the first error.
func (m *Machine) Run(maxSteps int) (int, error) {
	n := m.limit(maxSteps)
	for i := 0; i < n; i++ {
		if _, err := m.Step(); err != nil {
			return i, err
		}
	}
	return n, nil
}

// RunUntil executes until PC equals stop. It returns ErrStepLimit if
// maxSteps instructions ran without reaching it.
func (m *Machine) RunUntil(stop uint16, maxSteps int) (int, error) {
	n := m.limit(maxSteps)
	for i := 0; i < n; i++ {
		if m.State.PC == stop {
			return i, nil
		}
		if _, err := m.Step(); err != nil {
			return i, err
		}
	}
	if m.State.PC == stop {
		return n, nil
	}
	m.log.WithFields(logrus.Fields{
		"pc":    fmt.Sprintf("%04X", m.State.PC),
		"steps": n,
	}).Warn("step limit reached")
	return n, fmt.Errorf("running to %04X: %w", stop, ErrStepLimit)
}
