package cpu

import "github.com/eduproc/educpu/pkg/isa"

// doALU performs the accumulator-targeted arithmetic/logic family and
// updates Z/C per the table in the execution design: ADD/SUB set C from the
// unsigned overflow/borrow, AND/OR/XOR always clear C, CMP computes like
// SUB but discards the result.
func (s *State) doALU(op isa.Op, src uint8) {
	switch op {
	case isa.OpADD:
		sum := int(s.A) + int(src)
		result := uint8(sum)
		s.setFlags(result, sum > 255)
		s.A = result

	case isa.OpSUB:
		result, carry := subtract(s.A, src)
		s.setFlags(result, carry)
		s.A = result

	case isa.OpCMP:
		result, carry := subtract(s.A, src)
		s.setFlags(result, carry)

	case isa.OpAND:
		result := s.A & src
		s.setFlags(result, false)
		s.A = result

	case isa.OpOR:
		result := s.A | src
		s.setFlags(result, false)
		s.A = result

	case isa.OpXOR:
		result := s.A ^ src
		s.setFlags(result, false)
		s.A = result
	}
}

// subtract computes (a-src) mod 256 and the C flag per the 6502/ARM
// convention: C is 1 when no borrow was needed, i.e. a >= src.
func subtract(a, src uint8) (result uint8, carry bool) {
	return uint8(int(a) - int(src)), a >= src
}

func (s *State) setFlags(result uint8, carry bool) {
	s.Z = zeroBit(result)
	s.C = boolBit(carry)
}

func zeroBit(v uint8) uint8 {
	if v == 0 {
		return 1
	}
	return 0
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
