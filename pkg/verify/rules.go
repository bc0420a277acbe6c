package verify

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/oisee/z80core/pkg/asm"
	"github.com/oisee/z80core/pkg/opcode"
	"github.com/oisee/z80core/pkg/result"
)

// Verdict is the outcome of checking one rule.
type Verdict struct {
	Rule       result.Rule
	Equivalent bool
	// QuickPass is true when the rule survived the test vectors.
	QuickPass bool
	// FlagDiff lists flag bits the two sides disagree on; see FlagDiff.
	FlagDiff FlagMask
	// Counterexample is set when the exhaustive sweep found a mismatch.
	Counterexample *Input
}

// ParseSequence is asm.Parse, except that blank text is the empty sequence.
func ParseSequence(t *opcode.Table, text string) ([]asm.Instruction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return asm.Parse(t, text)
}

// Cost sums the size and T-states of seq.
func Cost(seq []asm.Instruction) (bytes int, cycles int) {
	for _, in := range seq {
		bytes += in.Entry.Op.Bytes()
		cycles += int(in.Entry.Op.Cycles())
	}
	return bytes, cycles
}

// CheckRule verifies a single rule. Savings in the returned verdict's
// rule are recomputed from the table.
func CheckRule(t *opcode.Table, r result.Rule) (Verdict, error) {
	src, err := ParseSequence(t, r.Source)
	if err != nil {
		return Verdict{}, fmt.Errorf("rule source: %w", err)
	}
	rep, err := ParseSequence(t, r.Replacement)
	if err != nil {
		return Verdict{}, fmt.Errorf("rule replacement: %w", err)
	}
	dead, err := ParseDeadFlags(r.DeadFlags)
	if err != nil {
		return Verdict{}, err
	}

	sb, sc := Cost(src)
	rb, rc := Cost(rep)
	r.BytesSaved = sb - rb
	r.CyclesSaved = sc - rc

	v := Verdict{Rule: r, FlagDiff: FlagDiff(src, rep)}
	if !QuickCheckMasked(src, rep, dead) {
		return v, nil
	}
	v.QuickPass = true
	if in, found := Counterexample(src, rep, dead); found {
		v.Counterexample = &in
		return v, nil
	}
	v.Equivalent = true
	return v, nil
}

// CheckRules verifies rules concurrently on up to workers goroutines
// (NumCPU when workers <= 0). Verdicts are returned in input order and
// every equivalent rule is added to the returned table. The first parse
// error cancels the remaining work.
func CheckRules(ctx context.Context, t *opcode.Table, rules []result.Rule, workers int) ([]Verdict, *result.Table, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	verdicts := make([]Verdict, len(rules))
	found := result.NewTable()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, r := range rules {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := CheckRule(t, r)
			if err != nil {
				return fmt.Errorf("rule %d (%s): %w", i, r.Source, err)
			}
			verdicts[i] = v
			if v.Equivalent {
				found.Add(v.Rule)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return verdicts, found, nil
}
