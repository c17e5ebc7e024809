package assembler

import (
	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/isa"
	"github.com/eduproc/educpu/pkg/lexer"
)

// encodeInstruction produces the bytes for instr, which starts at address
// loc. Operand expressions are resolved against syms; an undefined
// identifier is a SymbolError.
func encodeInstruction(instr lexer.Instr, loc, lineNo int, syms lexer.SymbolTable) ([]byte, error) {
	switch isa.Catalog[instr.Op].Class {
	case isa.ClassLoadStoreALU:
		return encodeLoadStoreALU(instr, loc, lineNo, syms)
	case isa.ClassRegUnary:
		return encodeRegUnary(instr, lineNo)
	case isa.ClassBranch:
		return encodeBranch(instr, loc, lineNo, syms)
	default: // ClassImplicit
		code := isa.IIIII(instr.Op, isa.RegA)
		return []byte{isa.EncodeOpcode(code, 0, isa.ModeImmediate)}, nil
	}
}

func encodeLoadStoreALU(instr lexer.Instr, loc, lineNo int, syms lexer.SymbolTable) ([]byte, error) {
	other, err := loadStoreALUOther(instr, lineNo)
	if err != nil {
		return nil, err
	}
	mode := other.Mode()
	if !isa.LegalMode(instr.Op, mode) {
		return nil, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + ": addressing mode not legal for this instruction"}
	}

	primary := isa.RegA
	if instr.Op == isa.OpLD || instr.Op == isa.OpST {
		primary = instr.Operands[0].Reg
	}
	code := isa.IIIII(instr.Op, primary)

	switch mode {
	case isa.ModeImmediate:
		v, err := resolveByte(other.Expr, syms, lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{isa.EncodeOpcode(code, 0, isa.ModeImmediate), v}, nil

	case isa.ModeRegister:
		bit, ok := isa.RegBit(primary, other.Reg)
		if !ok {
			return nil, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + ": a register cannot be its own operand"}
		}
		return []byte{isa.EncodeOpcode(code, bit, isa.ModeRegister)}, nil

	case isa.ModeDirect:
		v, err := resolveByte(other.Expr, syms, lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{isa.EncodeOpcode(code, 0, isa.ModeDirect), v}, nil

	default: // ModeIndexed
		bit := uint8(0)
		if other.Reg == isa.RegR1 {
			bit = 1
		}
		offset, err := resolveSigned8(other.Expr, syms, lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{isa.EncodeOpcode(code, bit, isa.ModeIndexed), offset}, nil
	}
}

func encodeRegUnary(instr lexer.Instr, lineNo int) ([]byte, error) {
	if len(instr.Operands) != 1 || instr.Operands[0].Kind != lexer.OperandRegister {
		return nil, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + " requires a single register operand"}
	}
	sel := isa.RegUnarySelector(instr.Operands[0].Reg)
	code := isa.IIIII(instr.Op, isa.RegA)
	return []byte{isa.EncodeOpcode(code, 0, isa.Mode(sel))}, nil
}

func encodeBranch(instr lexer.Instr, loc, lineNo int, syms lexer.SymbolTable) ([]byte, error) {
	if len(instr.Operands) != 1 {
		return nil, &errs.EncodeError{Line: lineNo, Reason: instr.Mnemonic + " requires a single target operand"}
	}
	target, err := resolveInt(instr.Operands[0].Expr, syms, lineNo)
	if err != nil {
		return nil, err
	}
	code := isa.IIIII(instr.Op, isa.RegA)

	if isa.IsAbsoluteJump(instr.Op) {
		addr, err := toAddressByte(target, lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{isa.EncodeOpcode(code, 0, isa.ModeImmediate), addr}, nil
	}

	// Conditional branch: operand is the signed displacement from the
	// address immediately after this 2-byte instruction.
	raw := target - (loc + 2)
	if raw < -128 || raw > 127 {
		return nil, &errs.EncodeError{Line: lineNo, Reason: "branch displacement unreachable (outside [-128,127])"}
	}
	return []byte{isa.EncodeOpcode(code, 0, isa.ModeImmediate), byte(int8(raw))}, nil
}

func resolveInt(e lexer.Expr, syms lexer.SymbolTable, lineNo int) (int, error) {
	return lexer.Resolve(e, syms, lineNo)
}

// resolveByte resolves e and masks it to 8 bits. Values outside
// [-128,255] are rejected; everything else is masked to its low byte
// (the Open Question on negative .DB/immediate literals is resolved in
// favor of masking, not rejection — see DESIGN.md).
func resolveByte(e lexer.Expr, syms lexer.SymbolTable, lineNo int) (byte, error) {
	v, err := resolveInt(e, syms, lineNo)
	if err != nil {
		return 0, err
	}
	if v < -128 || v > 255 {
		return 0, &errs.EncodeError{Line: lineNo, Reason: "value out of range for an 8-bit operand"}
	}
	return byte(v), nil
}

func toAddressByte(v, lineNo int) (byte, error) {
	if v < 0 || v > 255 {
		return 0, &errs.EncodeError{Line: lineNo, Reason: "address out of range 0..255"}
	}
	return byte(v), nil
}

// resolveSigned8 resolves e as a signed two's-complement byte, used for
// indexed-addressing offsets.
func resolveSigned8(e lexer.Expr, syms lexer.SymbolTable, lineNo int) (byte, error) {
	v, err := resolveInt(e, syms, lineNo)
	if err != nil {
		return 0, err
	}
	if v < -128 || v > 127 {
		return 0, &errs.EncodeError{Line: lineNo, Reason: "indexed offset out of range [-128,127]"}
	}
	return byte(int8(v)), nil
}
