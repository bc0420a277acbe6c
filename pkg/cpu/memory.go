package cpu

// Memory is the addressable byte space an instruction can read and write.
// The core never assumes a layout; it only needs these two operations.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
}

// RAM is a flat 64 KiB address space.
type RAM [0x10000]uint8

// NewRAM returns zeroed memory.
func NewRAM() *RAM {
	return &RAM{}
}

func (m *RAM) Read(addr uint16) uint8 {
	return m[addr]
}

func (m *RAM) Write(addr uint16, v uint8) {
	m[addr] = v
}

// Load copies data into memory starting at addr, wrapping at the top of
// the address space.
func (m *RAM) Load(addr uint16, data []byte) {
	for i, b := range data {
		m[addr+uint16(i)] = b
	}
}
