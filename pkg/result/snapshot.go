package result

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/oisee/z80core/pkg/cpu"
)

// Snapshot holds everything needed to resume a program: registers, PC,
// cycle count, steps taken and the full 64 KiB of memory.
type Snapshot struct {
	AF, BC, DE, HL, SP uint16
	PC                 uint16
	Cycles             uint64
	Steps              uint64
	Mem                []byte
}

// Capture copies s and ram into a snapshot.
func Capture(s *cpu.State, ram *cpu.RAM, steps uint64) *Snapshot {
	mem := make([]byte, len(ram))
	copy(mem, ram[:])
	return &Snapshot{
		AF:     s.Get16(cpu.AF),
		BC:     s.Get16(cpu.BC),
		DE:     s.Get16(cpu.DE),
		HL:     s.Get16(cpu.HL),
		SP:     s.Get16(cpu.SP),
		PC:     s.PC,
		Cycles: s.Cycles,
		Steps:  steps,
		Mem:    mem,
	}
}

// Restore returns a fresh state and memory equal to the snapshot.
func (sn *Snapshot) Restore() (*cpu.State, *cpu.RAM) {
	ram := cpu.NewRAM()
	copy(ram[:], sn.Mem)
	s := cpu.NewState(ram)
	s.Set16(cpu.AF, sn.AF)
	s.Set16(cpu.BC, sn.BC)
	s.Set16(cpu.DE, sn.DE)
	s.Set16(cpu.HL, sn.HL)
	s.Set16(cpu.SP, sn.SP)
	s.PC = sn.PC
	s.Cycles = sn.Cycles
	return s, ram
}

// SaveSnapshot writes a snapshot to a file.
func SaveSnapshot(path string, sn *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(sn); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot loads a snapshot from a file.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var sn Snapshot
	if err := gob.NewDecoder(f).Decode(&sn); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if len(sn.Mem) != len(cpu.RAM{}) {
		return nil, fmt.Errorf("snapshot %s: memory is %d bytes, want %d", path, len(sn.Mem), len(cpu.RAM{}))
	}
	return &sn, nil
}
