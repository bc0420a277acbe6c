package result

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oisee/z80core/pkg/cpu"
)

// TraceEntry is the machine state right after one instruction.
type TraceEntry struct {
	PC     uint16 `json:"pc"`
	Op     string `json:"op"`
	Cycles uint64 `json:"cycles"`
	AF     uint16 `json:"af"`
	BC     uint16 `json:"bc"`
	DE     uint16 `json:"de"`
	HL     uint16 `json:"hl"`
	SP     uint16 `json:"sp"`
	Flags  string `json:"flags"`
}

// NewTraceEntry records s after executing op, fetched from pc.
func NewTraceEntry(pc uint16, op string, s *cpu.State) TraceEntry {
	return TraceEntry{
		PC:     pc,
		Op:     op,
		Cycles: s.Cycles,
		AF:     s.Get16(cpu.AF),
		BC:     s.Get16(cpu.BC),
		DE:     s.Get16(cpu.DE),
		HL:     s.Get16(cpu.HL),
		SP:     s.Get16(cpu.SP),
		Flags:  cpu.FormatFlags(s.Get8(cpu.F)),
	}
}

// WriteTrace writes entries as a JSON array.
func WriteTrace(path string, entries []TraceEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}

// ReadTrace loads a trace written by WriteTrace.
func ReadTrace(path string) ([]TraceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	var entries []TraceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode trace %s: %w", path, err)
	}
	return entries, nil
}
