// Package mem implements the flat 64 kB memory image a 6502 addresses.
//
// There is no mirroring and no memory-mapped I/O: every one of the 65536
// byte cells is plain RAM. Multi-byte architectural accesses are little
// endian, low byte first.
package mem

import (
	"fmt"
	"strconv"
	"strings"

	"sixfive/mask"
)

// Size is the full 16-bit address space.
const Size = 64 * 1024

const (
	// ResetVector holds the address execution starts from after reset.
	ResetVector = uint16(0xFFFC)
	// IRQVector holds the address BRK transfers control to.
	IRQVector = uint16(0xFFFE)
	// StackBase is the bottom of the stack page; the stack pointer supplies
	// the low byte.
	StackBase = uint16(0x0100)
)

// Memory is a byte-addressable image. The zero value is all-zero RAM, ready
// to use.
type Memory struct {
	Ram [Size]byte
}

// ReadByte returns the byte at addr.
func (m *Memory) ReadByte(addr uint16) byte {
	return m.Ram[addr]
}

// ReadWord returns the word whose low byte sits at addr and whose high byte
// sits at addr+1.
func (m *Memory) ReadWord(addr uint16) uint16 {
	return mask.Word(m.Ram[addr+1], m.Ram[addr])
}

// WriteByte stores data at addr.
func (m *Memory) WriteByte(addr uint16, data byte) {
	m.Ram[addr] = data
}

// Load copies a raw program image into memory starting at addr.
func (m *Memory) Load(addr uint16, program []byte) {
	for i, b := range program {
		m.Ram[addr+uint16(i)] = b
	}
}

// LoadProgram parses whitespace-separated hex byte text ("A9 FF 00 ...") and
// places the bytes at addr.
func (m *Memory) LoadProgram(text string, addr uint16) error {
	for i, s := range strings.Fields(text) {
		b, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return fmt.Errorf("byte %d %q: %w", i, s, err)
		}
		m.Ram[addr+uint16(i)] = byte(b)
	}
	return nil
}
