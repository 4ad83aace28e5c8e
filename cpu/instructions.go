package cpu

import (
	"sixfive/alu"
	"sixfive/mask"
	"sixfive/mem"
)

// Each instruction is a method on the Cpu. The addressing-mode decoder has
// already run: the operand byte is in c.M and the effective address in
// c.AbsAddr. The returned byte is the number of extra cycles on top of the
// opcode's base cost (page-cross penalties on read forms, taken-branch
// penalties); everything else returns 0.

// writeTarget stores a shift/rotate result back where it came from: the
// accumulator for the Accumulator form, memory otherwise.
func (c *Cpu) writeTarget(v byte) {
	if c.mode == Accumulator {
		c.A = v
	} else {
		c.Mem.WriteByte(c.AbsAddr, v)
	}
}

// branch applies a conditional relative jump. Not taken: no extra cycles.
// Taken: one extra, two if the target page differs from the branch
// opcode's page.
func (c *Cpu) branch(taken bool) byte {
	if !taken {
		return 0
	}
	extra := byte(1)
	if c.PageCrossed {
		extra++
	}
	c.PC = c.AbsAddr
	return extra
}

// compare is the shared core of CMP/CPX/CPY: a discarded subtract with
// carry-in set.
func (c *Cpu) compare(lhs byte) {
	diff, carry := alu.Sub(lhs, c.M, true)
	c.setFlag(FlagCarry, carry)
	c.setNZ(diff)
}

// ADC - Add with Carry
func (c *Cpu) ADC() byte {
	add := alu.Add
	if c.flag(FlagDecimal) {
		add = alu.AddBCD
	}
	result, carry := add(c.A, c.M, c.flag(FlagCarry))
	// signed overflow: both operands agree in sign and the result does not
	c.setFlag(FlagOverflow, (c.A^result)&(c.M^result)&0x80 != 0)
	c.A = result
	c.setFlag(FlagCarry, carry)
	c.setNZ(c.A)
	return c.pageCycle()
}

// AND - Logical AND
func (c *Cpu) AND() byte {
	c.A &= c.M
	c.setNZ(c.A)
	return c.pageCycle()
}

// ASL - Arithmetic Shift Left
func (c *Cpu) ASL() byte {
	c.setFlag(FlagCarry, mask.Negative(c.M)) // old bit 7
	result := c.M << 1
	c.writeTarget(result)
	c.setNZ(result)
	return 0
}

// BCC - Branch if Carry Clear
func (c *Cpu) BCC() byte {
	return c.branch(!c.flag(FlagCarry))
}

// BCS - Branch if Carry Set
func (c *Cpu) BCS() byte {
	return c.branch(c.flag(FlagCarry))
}

// BEQ - Branch if Equal
func (c *Cpu) BEQ() byte {
	return c.branch(c.flag(FlagZero))
}

// BIT - Bit Test
func (c *Cpu) BIT() byte {
	c.setFlag(FlagZero, c.A&c.M == 0)
	c.setFlag(FlagNegative, mask.Bit(c.M, 7))
	c.setFlag(FlagOverflow, mask.Bit(c.M, 6))
	return 0
}

// BMI - Branch if Minus
func (c *Cpu) BMI() byte {
	return c.branch(c.flag(FlagNegative))
}

// BNE - Branch if Not Equal
func (c *Cpu) BNE() byte {
	return c.branch(!c.flag(FlagZero))
}

// BPL - Branch if Positive
func (c *Cpu) BPL() byte {
	return c.branch(!c.flag(FlagNegative))
}

// BRK - Force Interrupt
//
// The saved PC skips the padding byte after the opcode. The pushed status
// copy carries B; the live register never does. BRK both vectors through
// 0xFFFE and halts the core; the harness decides whether to keep ticking.
func (c *Cpu) BRK() byte {
	c.pushPCAndStatus(c.PC+1, c.Status()|FlagBreak)
	c.setFlag(FlagInterrupt, true)
	c.PC = c.Mem.ReadWord(mem.IRQVector)
	c.Running = false
	return 0
}

// BVC - Branch if Overflow Clear
func (c *Cpu) BVC() byte {
	return c.branch(!c.flag(FlagOverflow))
}

// BVS - Branch if Overflow Set
func (c *Cpu) BVS() byte {
	return c.branch(c.flag(FlagOverflow))
}

// CLC - Clear Carry Flag
func (c *Cpu) CLC() byte {
	c.setFlag(FlagCarry, false)
	return 0
}

// CLD - Clear Decimal Mode
func (c *Cpu) CLD() byte {
	c.setFlag(FlagDecimal, false)
	return 0
}

// CLI - Clear Interrupt Disable
func (c *Cpu) CLI() byte {
	c.setFlag(FlagInterrupt, false)
	return 0
}

// CLV - Clear Overflow Flag
func (c *Cpu) CLV() byte {
	c.setFlag(FlagOverflow, false)
	return 0
}

// CMP - Compare Accumulator
func (c *Cpu) CMP() byte {
	c.compare(c.A)
	return c.pageCycle()
}

// CPX - Compare X Register
func (c *Cpu) CPX() byte {
	c.compare(c.X)
	return 0
}

// CPY - Compare Y Register
func (c *Cpu) CPY() byte {
	c.compare(c.Y)
	return 0
}

// DEC - Decrement Memory
func (c *Cpu) DEC() byte {
	result := c.M - 1
	c.Mem.WriteByte(c.AbsAddr, result)
	c.setNZ(result)
	return 0
}

// DEX - Decrement X Register
func (c *Cpu) DEX() byte {
	c.X--
	c.setNZ(c.X)
	return 0
}

// DEY - Decrement Y Register
func (c *Cpu) DEY() byte {
	c.Y--
	c.setNZ(c.Y)
	return 0
}

// EOR - Exclusive OR
func (c *Cpu) EOR() byte {
	c.A ^= c.M
	c.setNZ(c.A)
	return c.pageCycle()
}

// INC - Increment Memory
func (c *Cpu) INC() byte {
	result := c.M + 1
	c.Mem.WriteByte(c.AbsAddr, result)
	c.setNZ(result)
	return 0
}

// INX - Increment X Register
func (c *Cpu) INX() byte {
	c.X++
	c.setNZ(c.X)
	return 0
}

// INY - Increment Y Register
func (c *Cpu) INY() byte {
	c.Y++
	c.setNZ(c.Y)
	return 0
}

// JMP - Jump
//
// The Indirect decoder already applied the page-boundary quirk, so both
// forms just take the effective address.
func (c *Cpu) JMP() byte {
	c.PC = c.AbsAddr
	return 0
}

// JSR - Jump to Subroutine
//
// Pushes the address of the last byte of the JSR instruction, high byte
// first; RTS undoes the -1.
func (c *Cpu) JSR() byte {
	ret := c.PC - 1
	c.push(mask.Hi(ret))
	c.push(mask.Lo(ret))
	c.PC = c.AbsAddr
	return 0
}

// LDA - Load Accumulator
func (c *Cpu) LDA() byte {
	c.A = c.M
	c.setNZ(c.A)
	return c.pageCycle()
}

// LDX - Load X Register
func (c *Cpu) LDX() byte {
	c.X = c.M
	c.setNZ(c.X)
	return c.pageCycle()
}

// LDY - Load Y Register
func (c *Cpu) LDY() byte {
	c.Y = c.M
	c.setNZ(c.Y)
	return c.pageCycle()
}

// LSR - Logical Shift Right
func (c *Cpu) LSR() byte {
	c.setFlag(FlagCarry, mask.Bit(c.M, 0)) // old bit 0
	result := c.M >> 1
	c.writeTarget(result)
	c.setNZ(result) // N always ends up clear
	return 0
}

// NOP - No Operation
func (c *Cpu) NOP() byte {
	return 0
}

// ORA - Logical Inclusive OR
func (c *Cpu) ORA() byte {
	c.A |= c.M
	c.setNZ(c.A)
	return c.pageCycle()
}

// PHA - Push Accumulator
func (c *Cpu) PHA() byte {
	c.push(c.A)
	return 0
}

// PHP - Push Processor Status
func (c *Cpu) PHP() byte {
	c.push(c.Status())
	return 0
}

// PLA - Pull Accumulator
func (c *Cpu) PLA() byte {
	c.A = c.pull()
	c.setNZ(c.A)
	return 0
}

// PLP - Pull Processor Status
//
// B stays out of the live register, same as pullStatusAndPC.
func (c *Cpu) PLP() byte {
	c.SetStatus(c.pull() &^ FlagBreak)
	return 0
}

// ROL - Rotate Left through carry
func (c *Cpu) ROL() byte {
	oldCarry := c.flag(FlagCarry)
	c.setFlag(FlagCarry, mask.Negative(c.M))
	result := c.M << 1
	if oldCarry {
		result |= 0x01
	}
	c.writeTarget(result)
	c.setNZ(result)
	return 0
}

// ROR - Rotate Right through carry
func (c *Cpu) ROR() byte {
	oldCarry := c.flag(FlagCarry)
	c.setFlag(FlagCarry, mask.Bit(c.M, 0))
	result := c.M >> 1
	if oldCarry {
		result |= 0x80
	}
	c.writeTarget(result)
	c.setNZ(result)
	return 0
}

// RTI - Return from Interrupt
//
// Unwinds the BRK frame (status, then PC, no +1 adjustment) and resumes a
// halted core.
func (c *Cpu) RTI() byte {
	c.pullStatusAndPC()
	c.setFlag(FlagInterrupt, false)
	c.Running = true
	return 0
}

// RTS - Return from Subroutine
func (c *Cpu) RTS() byte {
	lo := c.pull()
	hi := c.pull()
	c.PC = mask.Word(hi, lo) + 1
	return 0
}

// SBC - Subtract with Carry
func (c *Cpu) SBC() byte {
	sub := alu.Sub
	if c.flag(FlagDecimal) {
		sub = alu.SubBCD
	}
	result, carry := sub(c.A, c.M, c.flag(FlagCarry))
	// same rule as ADC with the operand complemented
	c.setFlag(FlagOverflow, (c.A^result)&(^c.M^result)&0x80 != 0)
	c.A = result
	c.setFlag(FlagCarry, carry)
	c.setNZ(c.A)
	return c.pageCycle()
}

// SEC - Set Carry Flag
func (c *Cpu) SEC() byte {
	c.setFlag(FlagCarry, true)
	return 0
}

// SED - Set Decimal Flag
func (c *Cpu) SED() byte {
	c.setFlag(FlagDecimal, true)
	return 0
}

// SEI - Set Interrupt Disable
func (c *Cpu) SEI() byte {
	c.setFlag(FlagInterrupt, true)
	return 0
}

// STA - Store Accumulator
func (c *Cpu) STA() byte {
	c.Mem.WriteByte(c.AbsAddr, c.A)
	return 0
}

// STX - Store X Register
func (c *Cpu) STX() byte {
	c.Mem.WriteByte(c.AbsAddr, c.X)
	return 0
}

// STY - Store Y Register
func (c *Cpu) STY() byte {
	c.Mem.WriteByte(c.AbsAddr, c.Y)
	return 0
}

// TAX - Transfer Accumulator to X
func (c *Cpu) TAX() byte {
	c.X = c.A
	c.setNZ(c.X)
	return 0
}

// TAY - Transfer Accumulator to Y
func (c *Cpu) TAY() byte {
	c.Y = c.A
	c.setNZ(c.Y)
	return 0
}

// TSX - Transfer Stack Pointer to X
func (c *Cpu) TSX() byte {
	c.X = c.SP
	c.setNZ(c.X)
	return 0
}

// TXA - Transfer X to Accumulator
func (c *Cpu) TXA() byte {
	c.A = c.X
	c.setNZ(c.A)
	return 0
}

// TXS - Transfer X to Stack Pointer; the one transfer that touches no flags
func (c *Cpu) TXS() byte {
	c.SP = c.X
	return 0
}

// TYA - Transfer Y to Accumulator
func (c *Cpu) TYA() byte {
	c.A = c.Y
	c.setNZ(c.A)
	return 0
}
