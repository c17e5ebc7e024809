package lexer

import "github.com/eduproc/educpu/pkg/isa"

// OperandKind tags which addressing-mode shape an Operand carries.
type OperandKind int

const (
	OperandImmediate OperandKind = iota // #expr
	OperandRegister                     // A | R0 | R1
	OperandDirect                       // [expr]
	OperandIndexed                      // [Rn] or [Rn+expr] / [Rn-expr]
)

// Operand is the parsed, un-resolved form of one instruction argument.
type Operand struct {
	Kind OperandKind
	Reg  isa.Reg // valid for OperandRegister, OperandIndexed
	Expr Expr    // valid for OperandImmediate, OperandDirect, OperandIndexed (signed offset)
}

// Mode returns the isa.Mode this operand will encode as.
func (o Operand) Mode() isa.Mode {
	switch o.Kind {
	case OperandImmediate:
		return isa.ModeImmediate
	case OperandRegister:
		return isa.ModeRegister
	case OperandDirect:
		return isa.ModeDirect
	case OperandIndexed:
		return isa.ModeIndexed
	default:
		return isa.ModeImmediate
	}
}
