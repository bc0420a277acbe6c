package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oisee/z80core/pkg/asm"
	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/machine"
	"github.com/oisee/z80core/pkg/opcode"
	"github.com/oisee/z80core/pkg/result"
)

var (
	reg8ByName = map[string]cpu.Reg8{
		"A": cpu.A, "F": cpu.F, "B": cpu.B, "C": cpu.C,
		"D": cpu.D, "E": cpu.E, "H": cpu.H, "L": cpu.L,
	}
	reg16ByName = map[string]cpu.Reg16{
		"AF": cpu.AF, "BC": cpu.BC, "DE": cpu.DE, "HL": cpu.HL, "SP": cpu.SP,
	}
)

type regAssign struct {
	name string
	v    uint16
}

// regFlag collects repeated --set R=V flags.
type regFlag []regAssign

var _ pflag.Value = (*regFlag)(nil)

func (f *regFlag) String() string {
	parts := make([]string, len(*f))
	for i, a := range *f {
		parts[i] = fmt.Sprintf("%s=%04X", a.name, a.v)
	}
	return strings.Join(parts, ",")
}

func (f *regFlag) Set(s string) error {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("%q: want REG=VALUE", s)
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	bits := 16
	if _, ok := reg8ByName[name]; ok {
		bits = 8
	} else if _, ok := reg16ByName[name]; !ok {
		return fmt.Errorf("unknown register %q", name)
	}
	v, err := asm.ParseImmediate(val, bits)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*f = append(*f, regAssign{name: name, v: v})
	return nil
}

func (f *regFlag) Type() string { return "reg=value" }

func (f *regFlag) apply(s *cpu.State) {
	for _, a := range *f {
		if r, ok := reg8ByName[a.name]; ok {
			s.Set8(r, uint8(a.v))
			continue
		}
		s.Set16(reg16ByName[a.name], a.v)
	}
}

func newRunCmd(table *opcode.Table) *cobra.Command {
	var (
		regs  regFlag
		trace string
	)

	cmd := &cobra.Command{
		Use:   "run [instructions]",
		Short: "Assemble a sequence at 0000h and run it to its end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := asm.Assemble(table, args[0])
			if err != nil {
				return err
			}
			ram := cpu.NewRAM()
			ram.Load(0, code)
			s := cpu.NewState(ram)
			regs.apply(s)

			out := cmd.OutOrStdout()
			var entries []result.TraceEntry
			m := machine.New(s, table,
				machine.WithLogger(logrus.StandardLogger()),
				machine.WithObserver(func(pc uint16, op *opcode.Opcode, s *cpu.State) {
					text, _ := asm.Disassemble(table, ram, pc)
					fmt.Fprintf(out, "%04X  %-16s %s\n", pc, text, cpu.FormatFlags(s.Get8(cpu.F)))
					entries = append(entries, result.NewTraceEntry(pc, text, s))
				}),
			)
			if _, err := m.RunUntil(uint16(len(code)), 0); err != nil {
				return err
			}
			fmt.Fprintln(out, s)

			if trace != "" {
				if err := result.WriteTrace(trace, entries); err != nil {
					return err
				}
				fmt.Fprintf(out, "Trace written to %s\n", trace)
			}
			return nil
		},
	}
	cmd.Flags().Var(&regs, "set", "Initial register value, e.g. --set A=0x12 --set HL=4000h")
	cmd.Flags().StringVar(&trace, "trace", "", "Write a JSON trace to this file")
	return cmd
}

func newExecCmd(table *opcode.Table) *cobra.Command {
	var (
		org      uint16
		maxSteps int
		snapshot string
		resume   string
	)

	cmd := &cobra.Command{
		Use:   "exec [program.bin]",
		Short: "Load a binary and run it until HALT or the step limit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				s     *cpu.State
				ram   *cpu.RAM
				prior uint64
			)
			switch {
			case resume != "":
				sn, err := result.LoadSnapshot(resume)
				if err != nil {
					return err
				}
				s, ram = sn.Restore()
				prior = sn.Steps
			case len(args) == 1:
				code, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				ram = cpu.NewRAM()
				ram.Load(org, code)
				s = cpu.NewState(ram)
				s.PC = org
			default:
				return errors.New("need a program or --resume")
			}

			m := machine.New(s, table, machine.WithLogger(logrus.StandardLogger()))
			_, err := m.Run(maxSteps)
			out := cmd.OutOrStdout()
			switch {
			case errors.Is(err, machine.ErrHalted):
				fmt.Fprintln(out, "halted")
			case err != nil:
				return err
			}
			total := prior + m.Steps()
			fmt.Fprintf(out, "%s steps=%d\n", s, total)

			if snapshot != "" {
				if err := result.SaveSnapshot(snapshot, result.Capture(s, ram, total)); err != nil {
					return err
				}
				fmt.Fprintf(out, "Snapshot written to %s\n", snapshot)
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&org, "org", 0, "Load address and initial PC")
	cmd.Flags().IntVar(&maxSteps, "steps", machine.DefaultMaxSteps, "Maximum instructions to execute")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Save the final state to this file")
	cmd.Flags().StringVar(&resume, "resume", "", "Continue from a saved snapshot")
	return cmd
}
