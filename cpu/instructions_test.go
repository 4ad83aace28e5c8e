package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadsSetNZ(t *testing.T) {
	for _, tc := range []struct {
		op   byte
		reg  func(c *Cpu) byte
		name string
	}{
		{0xA9, func(c *Cpu) byte { return c.A }, "LDA"},
		{0xA2, func(c *Cpu) byte { return c.X }, "LDX"},
		{0xA0, func(c *Cpu) byte { return c.Y }, "LDY"},
	} {
		c := New(nil)
		load(c, 0x0800, tc.op, 0x00)
		c.Tick()
		assert.Equal(t, byte(0), tc.reg(c), tc.name)
		assert.True(t, c.flag(FlagZero), "%s #0 sets Z", tc.name)
		assert.False(t, c.flag(FlagNegative), tc.name)

		load(c, 0x0810, tc.op, 0x80)
		c.Tick()
		assert.Equal(t, byte(0x80), tc.reg(c), tc.name)
		assert.False(t, c.flag(FlagZero), tc.name)
		assert.True(t, c.flag(FlagNegative), "%s #$80 sets N", tc.name)
	}
}

func TestLoadAddressingModes(t *testing.T) {
	c := New(nil)
	c.Mem.WriteByte(0x0042, 0x11)
	load(c, 0x0800, 0xA5, 0x42) // LDA $42
	c.Tick()
	assert.Equal(t, byte(0x11), c.A)

	c.X = 0x02
	c.Mem.WriteByte(0x0044, 0x22)
	load(c, 0x0810, 0xB5, 0x42) // LDA $42,X
	c.Tick()
	assert.Equal(t, byte(0x22), c.A)

	// zero page indexing wraps
	c.X = 0x03
	c.Mem.WriteByte(0x0001, 0x33)
	load(c, 0x0820, 0xB5, 0xFE) // LDA $FE,X -> $01
	c.Tick()
	assert.Equal(t, byte(0x33), c.A)

	c.Y = 0x05
	c.Mem.WriteByte(0x0010, 0x44)
	load(c, 0x0830, 0xB6, 0x0B) // LDX $0B,Y
	c.Tick()
	assert.Equal(t, byte(0x44), c.X)

	c.Mem.WriteByte(0x1234, 0x55)
	load(c, 0x0840, 0xAD, 0x34, 0x12) // LDA $1234
	c.Tick()
	assert.Equal(t, byte(0x55), c.A)
}

func TestStores(t *testing.T) {
	c := New(nil)
	c.A, c.X, c.Y = 0x0A, 0x0B, 0x0C
	c.SR = FlagNegative | FlagZero

	load(c, 0x0800, 0x85, 0x10) // STA $10
	c.Tick()
	assert.Equal(t, byte(0x0A), c.Mem.ReadByte(0x0010))

	load(c, 0x0810, 0x8E, 0x00, 0x20) // STX $2000
	c.Tick()
	assert.Equal(t, byte(0x0B), c.Mem.ReadByte(0x2000))

	c.X = 0x01
	load(c, 0x0820, 0x94, 0x30) // STY $30,X
	c.Tick()
	assert.Equal(t, byte(0x0C), c.Mem.ReadByte(0x0031))

	c.Y = 0x02
	load(c, 0x0830, 0x96, 0x40) // STX $40,Y
	c.Tick()
	assert.Equal(t, byte(0x01), c.Mem.ReadByte(0x0042))

	assert.Equal(t, FlagNegative|FlagZero, c.SR, "stores touch no flags")
}

func TestTransfers(t *testing.T) {
	c := New(nil)
	c.A = 0x80
	load(c, 0x0800, 0xAA) // TAX
	c.Tick()
	assert.Equal(t, byte(0x80), c.X)
	assert.True(t, c.flag(FlagNegative))

	c.A = 0x00
	load(c, 0x0810, 0xA8) // TAY
	c.Tick()
	assert.Equal(t, byte(0), c.Y)
	assert.True(t, c.flag(FlagZero))

	c.X = 0x7F
	load(c, 0x0820, 0x8A) // TXA
	c.Tick()
	assert.Equal(t, byte(0x7F), c.A)
	assert.False(t, c.flag(FlagNegative))

	c.Y = 0x01
	load(c, 0x0830, 0x98) // TYA
	c.Tick()
	assert.Equal(t, byte(0x01), c.A)

	c.SP = 0xC0
	load(c, 0x0840, 0xBA) // TSX
	c.Tick()
	assert.Equal(t, byte(0xC0), c.X)
	assert.True(t, c.flag(FlagNegative))

	c.X = 0x50
	c.SR = 0
	load(c, 0x0850, 0x9A) // TXS
	c.Tick()
	assert.Equal(t, byte(0x50), c.SP)
	assert.Equal(t, byte(0), c.SR, "TXS touches no flags")
}

func TestLogicalOps(t *testing.T) {
	c := New(nil)
	c.A = 0b1100_1100
	load(c, 0x0800, 0x29, 0b1010_1010) // AND
	c.Tick()
	assert.Equal(t, byte(0b1000_1000), c.A)
	assert.True(t, c.flag(FlagNegative))

	c.A = 0b0000_1111
	load(c, 0x0810, 0x09, 0b1111_0000) // ORA
	c.Tick()
	assert.Equal(t, byte(0xFF), c.A)

	c.A = 0b1111_0000
	load(c, 0x0820, 0x49, 0b1111_0000) // EOR
	c.Tick()
	assert.Equal(t, byte(0), c.A)
	assert.True(t, c.flag(FlagZero))
}

func TestBinaryADC(t *testing.T) {
	for _, tc := range []struct {
		a, m    byte
		carryIn bool
		want    byte
		cy, v   bool
	}{
		{0x01, 0x01, false, 0x02, false, false},
		{0x01, 0x01, true, 0x03, false, false},
		{0xFF, 0x01, false, 0x00, true, false},
		{0x7F, 0x01, false, 0x80, false, true},  // positive overflow
		{0x80, 0xFF, false, 0x7F, true, true},   // negative overflow
		{0x80, 0x80, false, 0x00, true, true},
		{0x50, 0x50, false, 0xA0, false, true},
	} {
		c := New(nil)
		c.A = tc.a
		c.setFlag(FlagCarry, tc.carryIn)
		load(c, 0x0800, 0x69, tc.m)
		c.Tick()
		assert.Equal(t, tc.want, c.A, "ADC %#02x + %#02x", tc.a, tc.m)
		assert.Equal(t, tc.cy, c.flag(FlagCarry), "ADC %#02x + %#02x C", tc.a, tc.m)
		assert.Equal(t, tc.v, c.flag(FlagOverflow), "ADC %#02x + %#02x V", tc.a, tc.m)
		assert.Equal(t, tc.want == 0, c.flag(FlagZero))
		assert.Equal(t, tc.want&0x80 != 0, c.flag(FlagNegative))
	}
}

func TestBinarySBC(t *testing.T) {
	for _, tc := range []struct {
		a, m    byte
		carryIn bool
		want    byte
		cy, v   bool
	}{
		{0x05, 0x03, true, 0x02, true, false},
		{0x05, 0x06, true, 0xFF, false, false},
		{0x05, 0x03, false, 0x01, true, false},
		{0x80, 0x01, true, 0x7F, true, true},  // signed overflow
		{0x7F, 0xFF, true, 0x80, false, true}, // 127 - (-1)
	} {
		c := New(nil)
		c.A = tc.a
		c.setFlag(FlagCarry, tc.carryIn)
		load(c, 0x0800, 0xE9, tc.m)
		c.Tick()
		assert.Equal(t, tc.want, c.A, "SBC %#02x - %#02x", tc.a, tc.m)
		assert.Equal(t, tc.cy, c.flag(FlagCarry), "SBC %#02x - %#02x C", tc.a, tc.m)
		assert.Equal(t, tc.v, c.flag(FlagOverflow), "SBC %#02x - %#02x V", tc.a, tc.m)
	}
}

func TestShiftAccumulator(t *testing.T) {
	c := New(nil)
	c.A = 0b1000_0001
	load(c, 0x0800, 0x0A) // ASL A
	c.Tick()
	assert.Equal(t, byte(0b0000_0010), c.A)
	assert.True(t, c.flag(FlagCarry), "old bit 7 into carry")

	c.A = 0b0000_0011
	load(c, 0x0810, 0x4A) // LSR A
	c.Tick()
	assert.Equal(t, byte(0b0000_0001), c.A)
	assert.True(t, c.flag(FlagCarry))
	assert.False(t, c.flag(FlagNegative), "LSR always clears N")

	c.A = 0b1000_0000
	c.setFlag(FlagCarry, true)
	load(c, 0x0820, 0x2A) // ROL A
	c.Tick()
	assert.Equal(t, byte(0b0000_0001), c.A, "carry rotated into bit 0")
	assert.True(t, c.flag(FlagCarry))

	c.A = 0b0000_0001
	c.setFlag(FlagCarry, true)
	load(c, 0x0830, 0x6A) // ROR A
	c.Tick()
	assert.Equal(t, byte(0b1000_0000), c.A, "carry rotated into bit 7")
	assert.True(t, c.flag(FlagCarry))
	assert.True(t, c.flag(FlagNegative))
}

func TestShiftMemory(t *testing.T) {
	c := New(nil)
	c.Mem.WriteByte(0x0040, 0b0100_0000)
	load(c, 0x0800, 0x06, 0x40) // ASL $40
	before := c.Cycles
	c.Tick()
	assert.Equal(t, byte(0b1000_0000), c.Mem.ReadByte(0x0040))
	assert.False(t, c.flag(FlagCarry))
	assert.True(t, c.flag(FlagNegative))
	assert.Equal(t, uint64(5), c.Cycles-before)

	c.Mem.WriteByte(0x2000, 0b0000_0001)
	c.setFlag(FlagCarry, false)
	load(c, 0x0810, 0x6E, 0x00, 0x20) // ROR $2000
	before = c.Cycles
	c.Tick()
	assert.Equal(t, byte(0), c.Mem.ReadByte(0x2000))
	assert.True(t, c.flag(FlagCarry))
	assert.True(t, c.flag(FlagZero))
	assert.Equal(t, uint64(6), c.Cycles-before)
}

func TestIncDecMemory(t *testing.T) {
	c := New(nil)
	c.Mem.WriteByte(0x0040, 0xFF)
	load(c, 0x0800, 0xE6, 0x40) // INC $40
	c.Tick()
	assert.Equal(t, byte(0x00), c.Mem.ReadByte(0x0040), "wraps mod 256")
	assert.True(t, c.flag(FlagZero))

	c.Mem.WriteByte(0x0041, 0x00)
	load(c, 0x0810, 0xC6, 0x41) // DEC $41
	c.Tick()
	assert.Equal(t, byte(0xFF), c.Mem.ReadByte(0x0041))
	assert.True(t, c.flag(FlagNegative))
}

func TestIncDecRegisters(t *testing.T) {
	c := New(nil)
	c.X = 0xFF
	load(c, 0x0800, 0xE8) // INX
	c.Tick()
	assert.Equal(t, byte(0), c.X)
	assert.True(t, c.flag(FlagZero))

	c.Y = 0x00
	load(c, 0x0810, 0x88) // DEY
	c.Tick()
	assert.Equal(t, byte(0xFF), c.Y)
	assert.True(t, c.flag(FlagNegative))

	c.X = 0x10
	load(c, 0x0820, 0xCA) // DEX
	c.Tick()
	assert.Equal(t, byte(0x0F), c.X)

	c.Y = 0x7F
	load(c, 0x0830, 0xC8) // INY
	c.Tick()
	assert.Equal(t, byte(0x80), c.Y)
	assert.True(t, c.flag(FlagNegative))
}

func TestBit(t *testing.T) {
	c := New(nil)
	c.A = 0x0F
	c.Mem.WriteByte(0x0040, 0b1100_0000)
	load(c, 0x0800, 0x24, 0x40) // BIT $40
	c.Tick()
	assert.True(t, c.flag(FlagZero), "A AND M == 0")
	assert.True(t, c.flag(FlagNegative), "bit 7 of M")
	assert.True(t, c.flag(FlagOverflow), "bit 6 of M")
	assert.Equal(t, byte(0x0F), c.A, "A unchanged")

	c.A = 0xFF
	c.Mem.WriteByte(0x2000, 0b0011_1111)
	load(c, 0x0810, 0x2C, 0x00, 0x20) // BIT $2000
	c.Tick()
	assert.False(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagNegative))
	assert.False(t, c.flag(FlagOverflow))
}

func TestFlagOps(t *testing.T) {
	c := New(nil)
	for _, tc := range []struct {
		op   byte
		flag byte
		set  bool
		name string
	}{
		{0x38, FlagCarry, true, "SEC"},
		{0x18, FlagCarry, false, "CLC"},
		{0xF8, FlagDecimal, true, "SED"},
		{0xD8, FlagDecimal, false, "CLD"},
		{0x78, FlagInterrupt, true, "SEI"},
		{0x58, FlagInterrupt, false, "CLI"},
	} {
		load(c, 0x0800, tc.op)
		before := c.Cycles
		c.Tick()
		assert.Equal(t, tc.set, c.flag(tc.flag), tc.name)
		assert.Equal(t, uint64(2), c.Cycles-before, tc.name)
	}

	c.setFlag(FlagOverflow, true)
	load(c, 0x0800, 0xB8) // CLV
	c.Tick()
	assert.False(t, c.flag(FlagOverflow))
}

func TestNop(t *testing.T) {
	c := New(nil)
	load(c, 0x0800, 0xEA)
	c.Tick()
	assert.Equal(t, uint64(2), c.Cycles)
	assert.Equal(t, uint16(0x0801), c.PC)
	assert.Equal(t, byte(0), c.SR)
}

func TestPlaSetsNZ(t *testing.T) {
	c := New(nil)
	c.A = 0x80
	load(c, 0x0800, 0x48, 0xA9, 0x01, 0x68) // PHA; LDA #1; PLA
	c.Tick()
	c.Tick()
	c.Tick()
	assert.Equal(t, byte(0x80), c.A)
	assert.True(t, c.flag(FlagNegative))
	assert.False(t, c.flag(FlagZero))
}

func TestCpxCpy(t *testing.T) {
	c := New(nil)
	c.X = 0x10
	load(c, 0x0800, 0xE0, 0x10) // CPX #$10
	c.Tick()
	assert.True(t, c.flag(FlagZero))
	assert.True(t, c.flag(FlagCarry))

	c.Y = 0x01
	load(c, 0x0810, 0xC0, 0x02) // CPY #$02
	c.Tick()
	assert.False(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagCarry))
	assert.True(t, c.flag(FlagNegative))
}
