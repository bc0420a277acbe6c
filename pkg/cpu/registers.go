package cpu

// Reg8 selects one of the 8-bit registers.
type Reg8 uint8

// 8-bit registers. F is the flag register.
const (
	A Reg8 = iota
	F
	B
	C
	D
	E
	H
	L

	// SP has no 8-bit view in the instruction set; its two bytes live in
	// the same array so every 16-bit register is composed the same way.
	spHigh
	spLow

	numReg8
)

var reg8Names = [numReg8]string{"A", "F", "B", "C", "D", "E", "H", "L", "SPH", "SPL"}

func (r Reg8) String() string {
	if r < numReg8 {
		return reg8Names[r]
	}
	return "?"
}

// Reg16 selects a 16-bit register.
type Reg16 uint8

// 16-bit registers. BC, DE, HL and AF are pairs of 8-bit registers.
const (
	BC Reg16 = iota
	DE
	HL
	AF
	SP

	numReg16
)

var reg16Names = [numReg16]string{"BC", "DE", "HL", "AF", "SP"}

// halves maps each 16-bit register to its high and low byte.
var halves = [numReg16][2]Reg8{
	BC: {B, C},
	DE: {D, E},
	HL: {H, L},
	AF: {A, F},
	SP: {spHigh, spLow},
}

func (rr Reg16) String() string {
	if rr < numReg16 {
		return reg16Names[rr]
	}
	return "?"
}

// Halves returns the high and low 8-bit registers of a pair.
func (rr Reg16) Halves() (hi, lo Reg8) {
	return halves[rr][0], halves[rr][1]
}

// IsPair reports whether rr is made of two addressable 8-bit registers.
func (rr Reg16) IsPair() bool {
	return rr < SP
}

// Registers is the Z80 register file. 16-bit registers have no storage of
// their own: they are always composed from their two bytes.
type Registers struct {
	r [numReg8]uint8
}

// Get8 returns the value of an 8-bit register.
func (rf *Registers) Get8(r Reg8) uint8 {
	return rf.r[r]
}

// Set8 sets the value of an 8-bit register.
func (rf *Registers) Set8(r Reg8, v uint8) {
	rf.r[r] = v
}

// Get16 returns a 16-bit register, high byte first.
func (rf *Registers) Get16(rr Reg16) uint16 {
	hl := &halves[rr]
	return uint16(rf.r[hl[0]])<<8 | uint16(rf.r[hl[1]])
}

// Set16 sets a 16-bit register.
func (rf *Registers) Set16(rr Reg16, v uint16) {
	hl := &halves[rr]
	rf.r[hl[0]] = uint8(v >> 8)
	rf.r[hl[1]] = uint8(v)
}

// Flag reports whether flag f is set.
func (rf *Registers) Flag(f Flag) bool {
	return rf.r[F]&uint8(f) != 0
}

// SetFlag sets flag f.
func (rf *Registers) SetFlag(f Flag) {
	rf.r[F] |= uint8(f)
}

// ClearFlag clears flag f.
func (rf *Registers) ClearFlag(f Flag) {
	rf.r[F] &^= uint8(f)
}

// PutFlag sets f when on is true and clears it otherwise.
func (rf *Registers) PutFlag(f Flag, on bool) {
	if on {
		rf.SetFlag(f)
	} else {
		rf.ClearFlag(f)
	}
}

// UpdateSZ53Flags sets S from bit 7 of v, Z when v is zero, and copies
// bits 5 and 3 of v into the undocumented flag bits. H, P/V, N and C are
// left untouched.
func (rf *Registers) UpdateSZ53Flags(v uint8) {
	rf.r[F] = rf.r[F]&^(maskS|maskZ|mask53) | Sz53Table[v]
}
