package assembler

import (
	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/isa"
	"github.com/eduproc/educpu/pkg/lexer"
)

// instrMode determines the addressing mode of an instruction's "other"
// operand (the one that isn't the implicit/explicit primary register)
// purely from operand shape — no symbol resolution, so it is safe to call
// in pass 1. It feeds size computation only: branches report ModeDirect
// and register-unary ops ModeRegister here, while the encoder writes their
// MM field itself (00 for branches, the register selector for unary ops).
func instrMode(instr lexer.Instr, lineNo int) (isa.Mode, error) {
	switch isa.Catalog[instr.Op].Class {
	case isa.ClassLoadStoreALU:
		other, err := loadStoreALUOther(instr, lineNo)
		if err != nil {
			return 0, err
		}
		mode := other.Mode()
		if !isa.LegalMode(instr.Op, mode) {
			return 0, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + ": addressing mode not legal for this instruction"}
		}
		return mode, nil

	case isa.ClassRegUnary:
		if len(instr.Operands) != 1 || instr.Operands[0].Kind != lexer.OperandRegister {
			return 0, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + " requires a single register operand"}
		}
		return isa.ModeRegister, nil

	case isa.ClassBranch:
		if len(instr.Operands) != 1 {
			return 0, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + " requires a single target operand"}
		}
		return isa.ModeDirect, nil

	default: // ClassImplicit
		if len(instr.Operands) != 0 {
			return 0, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + " takes no operands"}
		}
		return isa.ModeImmediate, nil
	}
}

// loadStoreALUOther returns the operand whose kind determines the
// addressing mode for an LD/ST/ALU instruction, validating operand count
// and (for LD/ST) that the primary side really is a bare register.
func loadStoreALUOther(instr lexer.Instr, lineNo int) (lexer.Operand, error) {
	switch instr.Op {
	case isa.OpLD:
		if len(instr.Operands) != 2 {
			return lexer.Operand{}, &errs.EncodeError{Line: lineNo, Reason: "LD requires a destination register and one source operand"}
		}
		if instr.Operands[0].Kind != lexer.OperandRegister {
			return lexer.Operand{}, &errs.EncodeError{Line: lineNo, Reason: "LD destination must be a register"}
		}
		return instr.Operands[1], nil

	case isa.OpST:
		if len(instr.Operands) != 2 {
			return lexer.Operand{}, &errs.EncodeError{Line: lineNo, Reason: "ST requires a source register and one destination operand"}
		}
		if instr.Operands[0].Kind != lexer.OperandRegister {
			return lexer.Operand{}, &errs.EncodeError{Line: lineNo, Reason: "ST source must be a register"}
		}
		return instr.Operands[1], nil

	default: // ALU: ADD/SUB/AND/OR/XOR/CMP, implicit accumulator
		if len(instr.Operands) != 1 {
			return lexer.Operand{}, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + " requires exactly one operand"}
		}
		return instr.Operands[0], nil
	}
}

// instrSize returns the encoded size in bytes of instr.
func instrSize(instr lexer.Instr, lineNo int) (int, error) {
	mode, err := instrMode(instr, lineNo)
	if err != nil {
		return 0, err
	}
	return isa.Size(instr.Op, mode), nil
}
