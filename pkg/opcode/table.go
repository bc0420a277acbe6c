package opcode

import (
	"github.com/oisee/z80core/pkg/cpu"
)

// Prefix selects an opcode page. The value is the prefix byte itself.
type Prefix uint8

const (
	PrefixNone Prefix = 0x00
	PrefixCB   Prefix = 0xCB
	PrefixED   Prefix = 0xED
)

func (p Prefix) String() string {
	switch p {
	case PrefixNone:
		return "base"
	case PrefixCB:
		return "cb"
	case PrefixED:
		return "ed"
	}
	return "?"
}

// Prefixes lists the pages in table order.
var Prefixes = []Prefix{PrefixNone, PrefixCB, PrefixED}

// Entry is a defined table slot: where the opcode lives and what it is.
type Entry struct {
	Prefix Prefix
	Code   uint8
	Op     *Opcode
}

// Encoding returns the opcode bytes without any immediate.
func (e Entry) Encoding() []uint8 {
	if e.Prefix == PrefixNone {
		return []uint8{e.Code}
	}
	return []uint8{uint8(e.Prefix), e.Code}
}

// Table maps encodings to opcodes. A Table is read-only once built and
// may be shared between any number of CPU states.
type Table struct {
	base, cb, ed [256]*Opcode
	byName       map[string]Entry
}

// r8 is the three-bit register field used throughout the encoding; slot 6
// is (HL) and is handled by the memory forms.
var r8 = [8]cpu.Reg8{cpu.B, cpu.C, cpu.D, cpu.E, cpu.H, cpu.L, 0, cpu.A}

const hlIndirect = 6

// rp is the two-bit pair field; rp2 is its PUSH/POP variant.
var (
	rp  = [4]cpu.Reg16{cpu.BC, cpu.DE, cpu.HL, cpu.SP}
	rp2 = [4]cpu.Reg16{cpu.BC, cpu.DE, cpu.HL, cpu.AF}
)

// NewTable builds every page by calling each family builder once.
func NewTable() *Table {
	t := &Table{byName: make(map[string]Entry)}

	// === Base page ===
	t.set(PrefixNone, 0x00, BuildNOP())
	for p := uint8(0); p < 4; p++ {
		t.set(PrefixNone, 0x01|p<<4, BuildLdRRNN(rp[p]))
		t.set(PrefixNone, 0x03|p<<4, BuildIncDecRR(rp[p], true))
		t.set(PrefixNone, 0x09|p<<4, BuildAddHLrr(rp[p]))
		t.set(PrefixNone, 0x0B|p<<4, BuildIncDecRR(rp[p], false))
		t.set(PrefixNone, 0xC1|p<<4, BuildPop(rp2[p]))
		t.set(PrefixNone, 0xC5|p<<4, BuildPush(rp2[p]))
	}
	t.set(PrefixNone, 0x02, BuildLdIndA(cpu.BC))
	t.set(PrefixNone, 0x12, BuildLdIndA(cpu.DE))
	t.set(PrefixNone, 0x0A, BuildLdAInd(cpu.BC))
	t.set(PrefixNone, 0x1A, BuildLdAInd(cpu.DE))

	for y := uint8(0); y < 8; y++ {
		if y == hlIndirect {
			t.set(PrefixNone, 0x34, BuildIncHL())
			t.set(PrefixNone, 0x35, BuildDecHL())
			t.set(PrefixNone, 0x36, BuildLdHLN())
			continue
		}
		t.set(PrefixNone, 0x04|y<<3, BuildIncR(r8[y]))
		t.set(PrefixNone, 0x05|y<<3, BuildDecR(r8[y]))
		t.set(PrefixNone, 0x06|y<<3, BuildLdRN(r8[y]))
	}

	t.set(PrefixNone, 0x07, BuildRLCA())
	t.set(PrefixNone, 0x0F, BuildRRCA())
	t.set(PrefixNone, 0x17, BuildRLA())
	t.set(PrefixNone, 0x1F, BuildRRA())
	t.set(PrefixNone, 0x27, BuildDAA())
	t.set(PrefixNone, 0x2F, BuildCPL())
	t.set(PrefixNone, 0x37, BuildSCF())
	t.set(PrefixNone, 0x3F, BuildCCF())
	t.set(PrefixNone, 0xEB, BuildExDEHL())
	t.set(PrefixNone, 0xF9, BuildLdSPHL())

	// 0x40-0x7F: LD dst, src. 0x76 is HALT and stays empty.
	for d := uint8(0); d < 8; d++ {
		for s := uint8(0); s < 8; s++ {
			code := 0x40 | d<<3 | s
			switch {
			case d == hlIndirect && s == hlIndirect: // HALT
			case d == hlIndirect:
				t.set(PrefixNone, code, BuildLdHLR(r8[s]))
			case s == hlIndirect:
				t.set(PrefixNone, code, BuildLdRHL(r8[d]))
			default:
				t.set(PrefixNone, code, BuildLdRR(r8[d], r8[s]))
			}
		}
	}

	// 0x80-0xBF: ALU A, r; 0xC6 + op<<3: ALU A, n.
	for op := ALUOp(0); op < 8; op++ {
		for s := uint8(0); s < 8; s++ {
			code := 0x80 | uint8(op)<<3 | s
			if s == hlIndirect {
				t.set(PrefixNone, code, BuildALUHL(op))
			} else {
				t.set(PrefixNone, code, BuildALU(op, r8[s]))
			}
		}
		t.set(PrefixNone, 0xC6|uint8(op)<<3, BuildALUN(op))
	}

	// === CB page ===
	for y := uint8(0); y < 8; y++ {
		for z := uint8(0); z < 8; z++ {
			if z == hlIndirect {
				t.set(PrefixCB, y<<3|z, BuildShiftHL(ShiftOp(y)))
				t.set(PrefixCB, 0x40|y<<3|z, BuildBitHL(y))
				t.set(PrefixCB, 0x80|y<<3|z, BuildResHL(y))
				t.set(PrefixCB, 0xC0|y<<3|z, BuildSetHL(y))
				continue
			}
			r := r8[z]
			t.set(PrefixCB, y<<3|z, BuildShift(ShiftOp(y), r))
			t.set(PrefixCB, 0x40|y<<3|z, BuildBit(y, r))
			t.set(PrefixCB, 0x80|y<<3|z, BuildRes(y, r))
			t.set(PrefixCB, 0xC0|y<<3|z, BuildSet(y, r))
		}
	}

	// === ED page ===
	t.set(PrefixED, 0x44, BuildNEG())
	for p := uint8(0); p < 4; p++ {
		t.set(PrefixED, 0x42|p<<4, BuildSbcHLrr(rp[p]))
		t.set(PrefixED, 0x4A|p<<4, BuildAdcHLrr(rp[p]))
	}

	return t
}

func (t *Table) page(p Prefix) *[256]*Opcode {
	switch p {
	case PrefixNone:
		return &t.base
	case PrefixCB:
		return &t.cb
	case PrefixED:
		return &t.ed
	}
	return nil
}

func (t *Table) set(p Prefix, code uint8, op *Opcode) {
	t.page(p)[code] = op
	t.byName[op.Name()] = Entry{Prefix: p, Code: code, Op: op}
}

// Lookup returns the opcode at code on page p, or nil if the slot is empty
// or p is not a known prefix.
func (t *Table) Lookup(p Prefix, code uint8) *Opcode {
	pg := t.page(p)
	if pg == nil {
		return nil
	}
	return pg[code]
}

// ByName finds an entry by its exact mnemonic, e.g. "LD A, n".
func (t *Table) ByName(name string) (Entry, bool) {
	e, ok := t.byName[name]
	return e, ok
}

// Entries lists all defined entries, page by page in encoding order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.byName))
	for _, p := range Prefixes {
		out = append(out, t.PageEntries(p)...)
	}
	return out
}

// PageEntries lists the defined entries of a single page.
func (t *Table) PageEntries(p Prefix) []Entry {
	pg := t.page(p)
	if pg == nil {
		return nil
	}
	var out []Entry
	for code, op := range pg {
		if op != nil {
			out = append(out, Entry{Prefix: p, Code: uint8(code), Op: op})
		}
	}
	return out
}

// Decode reads the opcode at pc, following a CB or ED prefix. The returned
// entry has a nil Op when the slot is empty.
func (t *Table) Decode(mem cpu.Memory, pc uint16) Entry {
	code := mem.Read(pc)
	switch Prefix(code) {
	case PrefixCB, PrefixED:
		p := Prefix(code)
		code = mem.Read(pc + 1)
		return Entry{Prefix: p, Code: code, Op: t.Lookup(p, code)}
	}
	return Entry{Prefix: PrefixNone, Code: code, Op: t.base[code]}
}
