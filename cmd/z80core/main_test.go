package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/result"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRegFlag(t *testing.T) {
	var f regFlag
	require.NoError(t, f.Set("a=0x12"))
	require.NoError(t, f.Set("hl=4000h"))
	require.NoError(t, f.Set("SP=65535"))
	assert.Equal(t, "A=0012,HL=4000,SP=FFFF", f.String())
	assert.Equal(t, "reg=value", f.Type())

	for _, bad := range []string{"A", "Q=1", "A=0x100", "BC=zz"} {
		assert.Error(t, f.Set(bad), bad)
	}
	assert.Len(t, f, 3)

	s := cpu.NewState(nil)
	f.apply(s)
	assert.Equal(t, uint8(0x12), s.Get8(cpu.A))
	assert.Equal(t, uint16(0x4000), s.Get16(cpu.HL))
	assert.Equal(t, uint16(0xFFFF), s.Get16(cpu.SP))
}

func TestTableCmd(t *testing.T) {
	out, err := execute(t, "table", "--page", "ed")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 9)
	assert.Contains(t, out, "ED 44")
	assert.Contains(t, out, "NEG")

	out, err = execute(t, "table")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 463)

	_, err = execute(t, "table", "--page", "dd")
	assert.ErrorContains(t, err, `unknown page "dd"`)
}

func TestRunCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	out, err := execute(t, "run", "LD A, 5 : INC A", "--set", "B=1", "--trace", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0000  LD A, 05h")
	assert.Contains(t, out, "0002  INC A")
	assert.Contains(t, out, "AF=0600 BC=0100")
	assert.Contains(t, out, "PC=0003")
	assert.Contains(t, out, "cycles=11")

	entries, err := result.ReadTrace(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "LD A, 05h", entries[0].Op)
	assert.Equal(t, uint16(0x0500), entries[0].AF)
	assert.Equal(t, "INC A", entries[1].Op)
	assert.Equal(t, uint64(11), entries[1].Cycles)
}

func TestRunCmdErrors(t *testing.T) {
	_, err := execute(t, "run", "FROB")
	assert.ErrorContains(t, err, "unknown instruction")

	_, err = execute(t, "run", "NOP", "--set", "IX=1")
	assert.Error(t, err)
}

func TestExecCmd(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "prog.bin")
	snap := filepath.Join(dir, "snap.gob")
	// LD A, 5 : INC A : HALT
	require.NoError(t, os.WriteFile(prog, []byte{0x3E, 0x05, 0x3C, 0x76}, 0o644))

	out, err := execute(t, "exec", prog, "--org", "0x100", "--snapshot", snap)
	require.NoError(t, err)
	assert.Contains(t, out, "halted")
	assert.Contains(t, out, "AF=0600")
	assert.Contains(t, out, "PC=0103")
	assert.Contains(t, out, "steps=2")

	out, err = execute(t, "exec", "--resume", snap)
	require.NoError(t, err)
	assert.Contains(t, out, "halted")
	assert.Contains(t, out, "PC=0103")
	assert.Contains(t, out, "steps=2")

	// Step limit without HALT is not an error.
	out, err = execute(t, "exec", prog, "--org", "0x100", "--steps", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "halted")
	assert.Contains(t, out, "PC=0102")

	_, err = execute(t, "exec")
	assert.ErrorContains(t, err, "need a program")
}

func TestCheckCmd(t *testing.T) {
	out, err := execute(t, "check", "LD A, 0", "XOR A")
	require.NoError(t, err)
	assert.Contains(t, out, "Target:    LD A, 0 (2 bytes, 7 T-states)")
	assert.Contains(t, out, "Candidate: XOR A (1 bytes, 4 T-states)")
	assert.Contains(t, out, "Fingerprint match: false")
	assert.Contains(t, out, "Flag difference:")
	assert.Contains(t, out, "Result: not equivalent (test vectors)")

	out, err = execute(t, "check", "LD A, 0", "XOR A", "--dead", "all", "--exhaustive")
	require.NoError(t, err)
	assert.Contains(t, out, "Result: equivalent\n")

	out, err = execute(t, "check", "EX DE, HL : EX DE, HL", "", "--exhaustive")
	require.NoError(t, err)
	assert.Contains(t, out, "Fingerprint match: true")
	assert.Contains(t, out, "Result: equivalent\n")

	_, err = execute(t, "check", "LD A, 0", "XOR A", "--dead", "some")
	assert.Error(t, err)
}

func TestVerifyCmd(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	outPath := filepath.Join(dir, "verified.json")

	require.NoError(t, result.WriteRules(rulesPath, []result.Rule{
		{Source: "LD A, 0", Replacement: "XOR A", DeadFlags: "all"},
		{Source: "INC A : DEC A", Replacement: "", DeadFlags: "all"},
	}))
	out, err := execute(t, "verify", rulesPath, "--workers", "2", "--output", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Verifying 2 rules...")
	assert.Contains(t, out, "[1] LD A, 0 -> XOR A (-1 bytes, -3 cycles) ... ok")
	assert.Contains(t, out, "Written 2 rules to")

	verified, err := result.ReadRules(outPath)
	require.NoError(t, err)
	require.Len(t, verified, 2)
	assert.Equal(t, "INC A : DEC A", verified[0].Source)

	require.NoError(t, result.WriteRules(rulesPath, []result.Rule{
		{Source: "LD A, 0", Replacement: "XOR A"},
	}))
	out, err = execute(t, "verify", rulesPath)
	assert.ErrorContains(t, err, "1 of 1 rules failed")
	assert.Contains(t, out, "FAIL")
}

func TestLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "table")
	assert.Error(t, err)
}
