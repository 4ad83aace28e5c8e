// Package cpu implements the MOS Technology 6502 microprocessor as a
// single-stepped interpreter: one Tick executes one instruction, mutating
// the register file and memory image and accumulating the cycle count.
package cpu

import (
	"fmt"
	"log"
	"strings"

	"sixfive/mask"
	"sixfive/mem"
)

// Status register bits, MSB to LSB: N V _ B D I Z C. Bit 5 is unused and
// always reads as 0.
const (
	// FlagNegative N
	FlagNegative byte = 0x80
	// FlagOverflow V
	FlagOverflow byte = 0x40
	// FlagBreak B; never set in the live register, only in the copy BRK
	// pushes onto the stack
	FlagBreak byte = 0x10
	// FlagDecimal D; routes ADC/SBC through the BCD adders
	FlagDecimal byte = 0x08
	// FlagInterrupt I
	FlagInterrupt byte = 0x04
	// FlagZero Z
	FlagZero byte = 0x02
	// FlagCarry C
	FlagCarry byte = 0x01

	flagUnused byte = 0x20
)

// A Cpu owns the architectural state of the 6502: the register file, the
// packed status register, and the memory image it executes from. The packed
// byte is the ground truth for the flags; PHP/PLP and BRK/RTI move it to and
// from the stack, with B added only to the copy BRK pushes and B and bit 5
// dropped when PLP/RTI restore it.
type Cpu struct {
	Mem *mem.Memory

	PC uint16 // program counter; address of the next opcode
	SP byte   // stack pointer; top of stack is 0x0100 | SP, growing down
	A  byte   // accumulator
	X  byte
	Y  byte
	SR byte // status register, bit-packed as above

	Cycles  uint64 // total cycles consumed since reset
	Running bool   // cleared by BRK and by illegal opcodes

	// Log, when non-nil, receives one line per executed instruction.
	Log *log.Logger

	// Scratch state for the instruction in flight, filled by the
	// addressing-mode decoder and consumed by the handler.
	M           byte           // operand byte
	AbsAddr     uint16         // effective address
	PageCrossed bool           // decoder saw the effective address leave the page
	mode        AddressingMode // current opcode's addressing mode
	opAddr      uint16         // address the current opcode was fetched from

	err error
}

// IllegalOpcode reports a fetched byte outside the documented instruction
// table.
type IllegalOpcode struct {
	Opcode byte
}

// Error implements the interface for error types.
func (e IllegalOpcode) Error() string {
	return fmt.Sprintf("illegal opcode 0x%02X", e.Opcode)
}

// New allocates a Cpu over the given memory image and resets it. A nil
// image gets fresh zeroed RAM.
func New(image *mem.Memory) *Cpu {
	if image == nil {
		image = &mem.Memory{}
	}
	c := &Cpu{Mem: image}
	c.Reset()
	return c
}

// Reset restores the initial register state. Memory is left untouched: the
// harness places startup code at the reset vector, and execution begins
// there.
func (c *Cpu) Reset() {
	c.PC = mem.ResetVector
	c.SP = 0xFF
	c.A = 0
	c.X = 0
	c.Y = 0
	c.SR = 0
	c.Cycles = 0
	c.Running = true
	c.M = 0
	c.AbsAddr = 0
	c.PageCrossed = false
	c.err = nil
}

func (c *Cpu) flag(f byte) bool {
	return c.SR&f != 0
}

func (c *Cpu) setFlag(f byte, v bool) {
	if v {
		c.SR |= f
	} else {
		c.SR &^= f
	}
}

// setNZ updates N and Z from a value just produced, the common epilogue of
// most instructions.
func (c *Cpu) setNZ(v byte) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, mask.Negative(v))
}

// Status returns the packed status byte. Bit 5 reads as 0.
func (c *Cpu) Status() byte {
	return c.SR
}

// SetStatus replaces the packed status byte. Bit 5 is ignored.
func (c *Cpu) SetStatus(b byte) {
	c.SR = b &^ flagUnused
}

// An AddressingMode tells the Cpu how to turn the operand bytes following an
// opcode into an effective address (or, for Accumulator and Implied, that
// there is none).
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator

	// 1 operand byte

	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	IndirectX
	IndirectY
	Relative

	// 2 operand bytes

	Absolute
	AbsoluteX
	AbsoluteY
	Indirect // JMP only
)

// decode consumes the operand bytes for mode a, advancing PC past them, and
// leaves the effective address in c.AbsAddr and the operand byte in c.M.
//
// PageCrossed is set when indexing moved the effective address onto a
// different page than the base (AbsoluteX, AbsoluteY, IndirectY), or, for
// Relative, when the branch target sits on a different page than the branch
// opcode. Whether the crossing costs a cycle is the handler's decision:
// reads charge it, writes never do.
func (c *Cpu) decode(a AddressingMode) {
	switch a {

	case Implied:
		// no operand to fetch
		return

	case Accumulator:
		c.M = c.A
		return

	case Immediate:
		c.AbsAddr = c.PC
		c.PC++

	case ZeroPage:
		c.AbsAddr = uint16(c.Mem.ReadByte(c.PC))
		c.PC++

	case ZeroPageX:
		// index addition wraps within page zero
		c.AbsAddr = uint16(c.Mem.ReadByte(c.PC) + c.X)
		c.PC++

	case ZeroPageY:
		c.AbsAddr = uint16(c.Mem.ReadByte(c.PC) + c.Y)
		c.PC++

	case Relative:
		rel := c.Mem.ReadByte(c.PC)
		c.PC++
		c.AbsAddr = c.PC + uint16(int8(rel)) // sign-extended
		c.PageCrossed = !mask.SamePage(c.opAddr, c.AbsAddr)
		// no operand byte to read; the target is an address, not data
		return

	case Absolute:
		lo := c.Mem.ReadByte(c.PC)
		c.PC++
		hi := c.Mem.ReadByte(c.PC)
		c.PC++
		c.AbsAddr = mask.Word(hi, lo)

	case AbsoluteX:
		lo := c.Mem.ReadByte(c.PC)
		c.PC++
		hi := c.Mem.ReadByte(c.PC)
		c.PC++
		base := mask.Word(hi, lo)
		c.AbsAddr = base + uint16(c.X)
		c.PageCrossed = !mask.SamePage(base, c.AbsAddr)

	case AbsoluteY:
		lo := c.Mem.ReadByte(c.PC)
		c.PC++
		hi := c.Mem.ReadByte(c.PC)
		c.PC++
		base := mask.Word(hi, lo)
		c.AbsAddr = base + uint16(c.Y)
		c.PageCrossed = !mask.SamePage(base, c.AbsAddr)

	case IndirectX:
		zz := c.Mem.ReadByte(c.PC)
		c.PC++
		// the pointer lives in page zero and wraps there, X applied
		// before the indirection
		lo := c.Mem.ReadByte(uint16(zz + c.X))
		hi := c.Mem.ReadByte(uint16(zz + c.X + 1))
		c.AbsAddr = mask.Word(hi, lo)

	case IndirectY:
		zz := c.Mem.ReadByte(c.PC)
		c.PC++
		// Y applied after the indirection, so the final add can cross
		lo := c.Mem.ReadByte(uint16(zz))
		hi := c.Mem.ReadByte(uint16(zz + 1))
		base := mask.Word(hi, lo)
		c.AbsAddr = base + uint16(c.Y)
		c.PageCrossed = !mask.SamePage(base, c.AbsAddr)

	case Indirect:
		lo := c.Mem.ReadByte(c.PC)
		c.PC++
		hi := c.Mem.ReadByte(c.PC)
		c.PC++
		ptr := mask.Word(hi, lo)

		// hardware quirk: the two-byte fetch through the pointer never
		// leaves the pointer's page, so a pointer at 0xXXFF takes its
		// high byte from 0xXX00
		targetLo := c.Mem.ReadByte(ptr)
		var targetHi byte
		if mask.Lo(ptr) == 0xFF {
			targetHi = c.Mem.ReadByte(mask.Page(ptr))
		} else {
			targetHi = c.Mem.ReadByte(ptr + 1)
		}
		c.AbsAddr = mask.Word(targetHi, targetLo)
	}

	c.M = c.Mem.ReadByte(c.AbsAddr)
}

// Tick runs a single fetch/decode/execute step: one instruction, however
// many cycles it costs.
//
// An unrecognized opcode clears Running and records an IllegalOpcode error;
// PC is left pointing past the offending byte and the cycle count does not
// advance. Ticking goes on working after a halt, which is how an RTI placed
// at the BRK vector resumes the machine.
func (c *Cpu) Tick() {
	c.opAddr = c.PC
	b := c.Mem.ReadByte(c.PC)
	c.PC++

	op, legal := Opcodes[b]
	if !legal {
		c.Running = false
		c.err = IllegalOpcode{b}
		return
	}

	c.PageCrossed = false
	c.mode = op.AddressingMode
	c.decode(op.AddressingMode)

	extra := op.Instruction(c)
	c.Cycles += uint64(op.Cycles) + uint64(extra)

	if c.Log != nil {
		c.Log.Printf("%04X  %s  A:%02X X:%02X Y:%02X SP:%02X  %s  CYC:%d",
			c.opAddr, op.Name, c.A, c.X, c.Y, c.SP, c.flagString(), c.Cycles)
	}
}

// pageCycle is the extra cycle the indexed read forms pay when the decoder
// saw a page cross. Store and read-modify-write handlers never call it.
func (c *Cpu) pageCycle() byte {
	if c.PageCrossed {
		return 1
	}
	return 0
}

// Stack primitives. The stack lives on page 1 and grows downward; the
// 8-bit pointer wraps silently at both ends, as on hardware.

func (c *Cpu) push(b byte) {
	c.Mem.WriteByte(mem.StackBase|uint16(c.SP), b)
	c.SP--
}

func (c *Cpu) pull() byte {
	c.SP++
	return c.Mem.ReadByte(mem.StackBase | uint16(c.SP))
}

// pushPCAndStatus lays down the interrupt return frame: PC high, PC low,
// then the status copy. BRK is the only producer; RTI consumes it.
func (c *Cpu) pushPCAndStatus(pc uint16, status byte) {
	c.push(mask.Hi(pc))
	c.push(mask.Lo(pc))
	c.push(status)
}

// pullStatusAndPC unwinds the frame pushed by pushPCAndStatus. The restored
// status drops B along with the unused bit; B exists only in pushed copies.
func (c *Cpu) pullStatusAndPC() {
	c.SetStatus(c.pull() &^ FlagBreak)
	lo := c.pull()
	hi := c.pull()
	c.PC = mask.Word(hi, lo)
}

// Introspection for the harness and tests.

// Registers returns the full register file in one call.
func (c *Cpu) Registers() (pc uint16, sp, a, x, y, sr byte) {
	return c.PC, c.SP, c.A, c.X, c.Y, c.SR
}

// Err reports why the core halted, or nil. Currently the only cause carried
// here is IllegalOpcode; BRK halts without an error.
func (c *Cpu) Err() error {
	return c.err
}

// ReadByte exposes a memory read without going through the memory field.
func (c *Cpu) ReadByte(addr uint16) byte {
	return c.Mem.ReadByte(addr)
}

// ReadWord exposes a little-endian word read.
func (c *Cpu) ReadWord(addr uint16) uint16 {
	return c.Mem.ReadWord(addr)
}

// WriteByte lets the harness lay down a program image.
func (c *Cpu) WriteByte(addr uint16, data byte) {
	c.Mem.WriteByte(addr, data)
}

// StackPage returns a copy of page 1.
func (c *Cpu) StackPage() [256]byte {
	var page [256]byte
	copy(page[:], c.Mem.Ram[mem.StackBase:mem.StackBase+256])
	return page
}

// flagString renders the status register as the usual NV_BDIZC rail, dots
// for clear bits.
func (c *Cpu) flagString() string {
	names := "NV_BDIZC"
	bits := []byte{FlagNegative, FlagOverflow, flagUnused, FlagBreak, FlagDecimal, FlagInterrupt, FlagZero, FlagCarry}
	sb := &strings.Builder{}
	for i, f := range bits {
		if c.SR&f != 0 {
			sb.WriteByte(names[i])
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
