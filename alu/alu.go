// Package alu provides the byte arithmetic the 6502 ALU performs: carrying
// binary add/subtract and carrying binary-coded-decimal add/subtract.
//
// All four functions are pure and return the 8-bit result together with the
// carry out. Overflow (the V flag) is a signed-interpretation concern and is
// derived by the ADC/SBC handlers, not here.
package alu

// Add computes lhs + rhs + carry, wrapping at 256. The returned carry is
// true iff the full sum exceeds 0xFF.
func Add(lhs, rhs byte, carry bool) (byte, bool) {
	sum := uint16(lhs) + uint16(rhs)
	if carry {
		sum++
	}
	return byte(sum), sum > 0xFF
}

// Sub computes lhs - rhs - (1 - carry), the 6502 convention where the carry
// acts as an inverted borrow on entry. The returned carry is true iff no
// borrow occurred, which is exactly the carry of lhs + ^rhs + carry.
func Sub(lhs, rhs byte, carry bool) (byte, bool) {
	return Add(lhs, ^rhs, carry)
}

// AddBCD adds two packed-decimal bytes digit by digit. Each nibble of a
// valid input holds 0-9; invalid digits go through the same formula without
// correction (which is where this diverges from silicon).
func AddBCD(lhs, rhs byte, carry bool) (byte, bool) {
	lo := (lhs & 0x0F) + (rhs & 0x0F)
	if carry {
		lo++
	}
	var up byte
	if lo > 9 {
		lo -= 10
		up = 1
	}
	hi := (lhs >> 4) + (rhs >> 4) + up
	carryOut := hi > 9
	if carryOut {
		hi -= 10
	}
	return hi<<4 | lo, carryOut
}

// SubBCD subtracts two packed-decimal bytes digit by digit with borrow
// propagation. As with Sub, the incoming carry is an inverted borrow and
// the returned carry is true iff no borrow out occurred.
func SubBCD(lhs, rhs byte, carry bool) (byte, bool) {
	borrow := int8(1)
	if carry {
		borrow = 0
	}
	lo := int8(lhs&0x0F) - int8(rhs&0x0F) - borrow
	borrow = 0
	if lo < 0 {
		lo += 10
		borrow = 1
	}
	hi := int8(lhs>>4) - int8(rhs>>4) - borrow
	carryOut := hi >= 0
	if hi < 0 {
		hi += 10
	}
	return byte(hi)<<4 | byte(lo), carryOut
}
