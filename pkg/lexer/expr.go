package lexer

import "github.com/eduproc/educpu/pkg/errs"

// ExprKind distinguishes a literal value from an identifier awaiting
// symbol-table resolution.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprSymbol
)

// Expr is a literal (decimal, 0x hex, 0b binary) or an identifier to be
// resolved against the symbol table. Value is meaningful only when
// Kind == ExprLiteral; Symbol only when Kind == ExprSymbol.
type Expr struct {
	Kind   ExprKind
	Value  int
	Symbol string
}

// SymbolTable maps identifiers to their resolved 8-bit value.
type SymbolTable map[string]uint8

// Resolve evaluates e against syms, returning the raw (unmasked) integer
// value. Callers decide how to mask/range-check for their context
// (operand byte, branch displacement, etc).
func Resolve(e Expr, syms SymbolTable, line int) (int, error) {
	if e.Kind == ExprLiteral {
		return e.Value, nil
	}
	v, ok := syms[e.Symbol]
	if !ok {
		return 0, &errs.SymbolError{Line: line, Symbol: e.Symbol, Reason: "undefined symbol"}
	}
	return int(v), nil
}
