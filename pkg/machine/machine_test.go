package machine

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/opcode"
)

var table = opcode.NewTable()

func load(t *testing.T, code ...byte) *Machine {
	t.Helper()
	ram := cpu.NewRAM()
	ram.Load(0, code)
	logger, _ := logtest.NewNullLogger()
	return New(cpu.NewState(ram), table, WithLogger(logger))
}

func TestStepAdvancesPC(t *testing.T) {
	// LD A, 7Fh : INC A : LD HL, 1234h : RLC A : NEG
	m := load(t, 0x3E, 0x7F, 0x3C, 0x21, 0x34, 0x12, 0xCB, 0x07, 0xED, 0x44)

	want := []struct {
		name string
		pc   uint16
	}{
		{"LD A, n", 2},
		{"INC A", 3},
		{"LD HL, nn", 6},
		{"RLC A", 8},
		{"NEG", 10},
	}
	var cycles uint64
	for _, w := range want {
		op, err := m.Step()
		require.NoError(t, err)
		assert.Equal(t, w.name, op.Name())
		assert.Equal(t, w.pc, m.State.PC)
		cycles += op.Cycles()
		assert.Equal(t, cycles, m.State.Cycles)
	}
	assert.Equal(t, uint64(7+4+10+8+8), m.State.Cycles)
	assert.Equal(t, uint16(0x1234), m.State.Get16(cpu.HL))
	assert.Equal(t, uint64(5), m.Steps())
}

func TestIllegalOpcode(t *testing.T) {
	m := load(t, 0x00, 0xED, 0xB0)
	_, err := m.Step()
	require.NoError(t, err)

	before := *m.State
	_, err = m.Step()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalOpcode))

	var ill *IllegalOpcodeError
	require.True(t, errors.As(err, &ill))
	assert.Equal(t, uint16(1), ill.PC)
	assert.Equal(t, opcode.PrefixED, ill.Prefix)
	assert.Equal(t, uint8(0xB0), ill.Code)
	assert.Equal(t, "illegal opcode ED B0 at 0001", ill.Error())
	assert.True(t, before.Equal(m.State), "state changed on illegal opcode")
}

func TestHalt(t *testing.T) {
	m := load(t, 0x3C, 0x76)
	n, err := m.Run(10)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrHalted)
	assert.False(t, errors.Is(err, ErrIllegalOpcode))
	assert.Equal(t, uint16(1), m.State.PC)
}

func TestRunCount(t *testing.T) {
	m := load(t) // all NOPs
	n, err := m.Run(100)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, uint16(100), m.State.PC)
	assert.Equal(t, uint64(400), m.State.Cycles)
}

func TestRunUntil(t *testing.T) {
	// LD B, 3 : DEC B : DEC B : DEC B
	m := load(t, 0x06, 0x03, 0x05, 0x05, 0x05)
	n, err := m.RunUntil(5, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint8(0), m.State.Get8(cpu.B))
	assert.True(t, m.State.Flag(cpu.FlagZ))

	m = load(t)
	_, err = m.RunUntil(0x8000, 10)
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, uint16(10), m.State.PC)
}

func TestDefaultMaxSteps(t *testing.T) {
	ram := cpu.NewRAM()
	logger, _ := logtest.NewNullLogger()
	m := New(cpu.NewState(ram), table, WithLogger(logger), WithMaxSteps(7))
	n, err := m.Run(0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestStepLogging(t *testing.T) {
	ram := cpu.NewRAM()
	ram.Load(0, []byte{0x3C})
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := New(cpu.NewState(ram), table, WithLogger(logger))

	_, err := m.Step()
	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	e := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, e.Level)
	assert.Equal(t, "0000", e.Data["pc"])
	assert.Equal(t, "INC A", e.Data["op"])
	assert.Equal(t, uint64(4), e.Data["cycles"])
}

func TestObserver(t *testing.T) {
	ram := cpu.NewRAM()
	ram.Load(0, []byte{0x3C, 0x3C, 0x3D})
	var pcs []uint16
	var names []string
	logger, _ := logtest.NewNullLogger()
	m := New(cpu.NewState(ram), table, WithLogger(logger),
		WithObserver(func(pc uint16, op *opcode.Opcode, s *cpu.State) {
			pcs = append(pcs, pc)
			names = append(names, op.Name())
		}))
	_, err := m.Run(3)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 2}, pcs)
	assert.Equal(t, []string{"INC A", "INC A", "DEC A"}, names)
	assert.Equal(t, uint8(1), m.State.Get8(cpu.A))
}
