package cpu

import (
	"fmt"

	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/isa"
)

// Step executes exactly one instruction, advancing PC past it before the
// semantic action runs (so branch displacements are measured from
// PC_after_instruction). It returns a *errs.RuntimeError on any fatal
// condition; the state is left as of the moment of failure.
func (s *State) Step() error {
	if s.Halted {
		return nil
	}
	s.Cycles++

	pc := s.PC
	if !s.Loaded.Test(pc) {
		return &errs.RuntimeError{
			Kind:   errs.RunawayFetch,
			Cycle:  s.Cycles,
			PC:     pc,
			Detail: fmt.Sprintf("PC entered unloaded memory at address 0x%02X", pc),
		}
	}

	opcodeByte := s.Memory[pc]
	code, rbit, mm := isa.DecodeOpcode(opcodeByte)
	op, primary, ok := isa.DecodeIIIII(code)
	if !ok {
		return &errs.RuntimeError{
			Kind:   errs.RunawayFetch,
			Cycle:  s.Cycles,
			PC:     pc,
			Detail: fmt.Sprintf("invalid instruction code 0x%02x at address 0x%02x", code, pc),
		}
	}

	size := isa.Size(op, mm)
	var operand byte
	if size == 2 {
		operand = s.Memory[pc+1]
	}
	s.PC = pc + uint8(size)

	return s.execute(op, primary, rbit, mm, operand)
}

// Run steps until halt, a fatal error, or the cycle cap is reached. If
// onStep is non-nil it is called with the state just before every step,
// giving a trace sink a chance to snapshot PC/registers/next-opcode.
func (s *State) Run(maxCycles int, onStep func(*State)) error {
	for {
		if s.Halted {
			return nil
		}
		if s.Cycles >= maxCycles {
			return &errs.RuntimeError{Kind: errs.CycleLimit, Cycle: s.Cycles, PC: s.PC}
		}
		if onStep != nil {
			onStep(s)
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
}

func (s *State) execute(op isa.Op, primary isa.Reg, rbit uint8, mm isa.Mode, operand byte) error {
	switch op {
	case isa.OpLD:
		v := s.resolveSrc(primary, rbit, mm, operand)
		s.SetReg(primary, v)

	case isa.OpST:
		v := s.Reg(primary)
		switch mm {
		case isa.ModeRegister:
			s.SetReg(isa.OtherReg(primary, rbit), v)
		case isa.ModeDirect:
			s.writeData(operand, v)
		case isa.ModeIndexed:
			s.writeData(s.effectiveAddr(rbit, operand), v)
		}

	case isa.OpADD, isa.OpSUB, isa.OpAND, isa.OpOR, isa.OpXOR, isa.OpCMP:
		src := s.resolveSrc(isa.RegA, rbit, mm, operand)
		s.doALU(op, src)

	case isa.OpINC, isa.OpDEC:
		reg, _ := isa.RegFromUnarySelector(uint8(mm))
		v := s.Reg(reg)
		if op == isa.OpINC {
			v++
		} else {
			v--
		}
		s.SetReg(reg, v)
		s.Z = zeroBit(v)

	case isa.OpJMP:
		s.PC = operand

	case isa.OpCALL:
		if err := s.push(s.PC); err != nil {
			return err
		}
		s.PC = operand

	case isa.OpRET:
		v, err := s.pop()
		if err != nil {
			return err
		}
		s.PC = v

	case isa.OpBZ:
		if s.Z == 1 {
			s.PC += operand
		}
	case isa.OpBNZ:
		if s.Z == 0 {
			s.PC += operand
		}
	case isa.OpBC:
		if s.C == 1 {
			s.PC += operand
		}
	case isa.OpBNC:
		if s.C == 0 {
			s.PC += operand
		}

	case isa.OpPUSH:
		reg, _ := isa.RegFromUnarySelector(uint8(mm))
		if err := s.push(s.Reg(reg)); err != nil {
			return err
		}

	case isa.OpPOP:
		reg, _ := isa.RegFromUnarySelector(uint8(mm))
		v, err := s.pop()
		if err != nil {
			return err
		}
		s.SetReg(reg, v)

	case isa.OpNOP:
		// no effect

	case isa.OpHLT:
		s.Halted = true
	}

	return nil
}

// resolveSrc reads the value named by (primary, rbit, mm, operand) for
// LD and the ALU family. primary is the instruction's register side: the
// load destination for LD, the accumulator for ALU ops.
func (s *State) resolveSrc(primary isa.Reg, rbit uint8, mm isa.Mode, operand byte) uint8 {
	switch mm {
	case isa.ModeImmediate:
		return operand
	case isa.ModeRegister:
		return s.Reg(isa.OtherReg(primary, rbit))
	case isa.ModeDirect:
		return s.readData(operand)
	case isa.ModeIndexed:
		return s.readData(s.effectiveAddr(rbit, operand))
	default:
		return 0
	}
}

// effectiveAddr computes Rn + signed_offset for indexed addressing. rbit
// selects the index register directly (0 => R0, 1 => R1); offset is a
// two's-complement byte, and unsigned addition mod 256 is equivalent to
// signed addition mod 256 for two's-complement operands.
func (s *State) effectiveAddr(rbit uint8, offset byte) uint8 {
	idx := isa.RegR0
	if rbit == 1 {
		idx = isa.RegR1
	}
	return s.Reg(idx) + offset
}

// readData reads a data byte, honouring the 0xFF read-returns-0 rule.
// Unlike instruction fetch, data reads are unrestricted by the
// loaded-address set.
func (s *State) readData(addr byte) uint8 {
	if addr == 0xFF {
		return 0
	}
	return s.Memory[addr]
}

// writeData writes a data byte, forwarding 0xFF to the output sink instead
// of storing it in memory.
func (s *State) writeData(addr byte, v uint8) {
	if addr == 0xFF {
		if s.Out != nil {
			s.Out.Write([]byte{v})
		}
		return
	}
	s.Memory[addr] = v
}

func (s *State) push(v uint8) error {
	if s.SP >= 4 {
		return &errs.RuntimeError{Kind: errs.StackOverflow, Cycle: s.Cycles, PC: s.PC}
	}
	s.Stack[s.SP] = v
	s.SP++
	return nil
}

func (s *State) pop() (uint8, error) {
	if s.SP <= 0 {
		return 0, &errs.RuntimeError{Kind: errs.StackUnderflow, Cycle: s.Cycles, PC: s.PC}
	}
	s.SP--
	return s.Stack[s.SP], nil
}
