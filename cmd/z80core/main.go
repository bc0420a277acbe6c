package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/opcode"
	"github.com/oisee/z80core/pkg/result"
	"github.com/oisee/z80core/pkg/verify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	table := opcode.NewTable()

	rootCmd := &cobra.Command{
		Use:          "z80core",
		Short:        "Cycle-counting Z80 instruction core",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(lvl)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newTableCmd(table),
		newRunCmd(table),
		newExecCmd(table),
		newCheckCmd(table),
		newVerifyCmd(table),
	)
	return rootCmd
}

func newTableCmd(table *opcode.Table) *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "List the opcode table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := table.Entries()
			if page != "" {
				p, err := parsePage(page)
				if err != nil {
					return err
				}
				entries = table.PageEntries(p)
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%-8s %-16s %d bytes %2d cycles\n",
					fmt.Sprintf("% X", e.Encoding()), e.Op.Name(), e.Op.Bytes(), e.Op.Cycles())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&page, "page", "", "Only list one page (base, cb, ed)")
	return cmd
}

func parsePage(name string) (opcode.Prefix, error) {
	for _, p := range opcode.Prefixes {
		if strings.EqualFold(p.String(), name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown page %q", name)
}

func newCheckCmd(table *opcode.Table) *cobra.Command {
	var (
		dead       string
		exhaustive bool
	)

	cmd := &cobra.Command{
		Use:   "check [target] [candidate]",
		Short: "Compare two instruction sequences",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mask, err := verify.ParseDeadFlags(dead)
			if err != nil {
				return err
			}
			target, err := verify.ParseSequence(table, args[0])
			if err != nil {
				return fmt.Errorf("target: %w", err)
			}
			candidate, err := verify.ParseSequence(table, args[1])
			if err != nil {
				return fmt.Errorf("candidate: %w", err)
			}

			out := cmd.OutOrStdout()
			tb, tc := verify.Cost(target)
			cb, cc := verify.Cost(candidate)
			fmt.Fprintf(out, "Target:    %s (%d bytes, %d T-states)\n", args[0], tb, tc)
			fmt.Fprintf(out, "Candidate: %s (%d bytes, %d T-states)\n", args[1], cb, cc)
			fmt.Fprintf(out, "Fingerprint match: %v\n", verify.Fingerprint(target) == verify.Fingerprint(candidate))
			if diff := verify.FlagDiff(target, candidate); diff != 0 {
				fmt.Fprintf(out, "Flag difference:   %s\n", cpu.FormatFlags(diff))
			}

			if !verify.QuickCheckMasked(target, candidate, mask) {
				fmt.Fprintln(out, "Result: not equivalent (test vectors)")
				return nil
			}
			if !exhaustive {
				fmt.Fprintln(out, "Result: equivalent on test vectors")
				return nil
			}
			if in, found := verify.Counterexample(target, candidate, mask); found {
				fmt.Fprintf(out, "Result: not equivalent\nCounterexample: AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X M=%02X\n",
					in.Regs.Get16(cpu.AF), in.Regs.Get16(cpu.BC), in.Regs.Get16(cpu.DE),
					in.Regs.Get16(cpu.HL), in.Regs.Get16(cpu.SP), in.M)
				return nil
			}
			fmt.Fprintln(out, "Result: equivalent")
			return nil
		},
	}
	cmd.Flags().StringVar(&dead, "dead", "none", "Flags to ignore (none, undoc, all)")
	cmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "Sweep inputs after the test vectors pass")
	return cmd
}

func newVerifyCmd(table *opcode.Table) *cobra.Command {
	var (
		numWorkers int
		output     string
	)

	cmd := &cobra.Command{
		Use:   "verify [rules.json|rules.yaml]",
		Short: "Re-verify all rules in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := result.ReadRules(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Verifying %d rules...\n", len(rules))
			verdicts, found, err := verify.CheckRules(cmd.Context(), table, rules, numWorkers)
			if err != nil {
				return err
			}

			failed := 0
			for i, v := range verdicts {
				status := "ok"
				if !v.Equivalent {
					failed++
					status = "FAIL"
				}
				fmt.Fprintf(out, "  [%d] %s ... %s\n", i+1, v.Rule, status)
			}
			logrus.WithFields(logrus.Fields{
				"rules":  len(rules),
				"failed": failed,
			}).Info("verification done")

			if output != "" {
				if err := result.WriteRules(output, found.Rules()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Written %d rules to %s\n", found.Len(), output)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d rules failed", failed, len(rules))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	cmd.Flags().StringVar(&output, "output", "", "Write verified rules to this file")
	return cmd
}
