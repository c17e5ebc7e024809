package lexer

import (
	"strconv"
	"strings"

	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/isa"
)

// ParseLine tokenizes one source line (1-indexed by the caller via no) into
// a structured Line. It strips comments, detects a leading label, and
// classifies operands by their leading character per spec.
func ParseLine(no int, raw string) (*Line, error) {
	text := stripComment(raw)
	label, rest := splitLabel(text)
	rest = strings.TrimSpace(rest)

	line := &Line{No: no, Raw: raw, Label: label}
	if rest == "" {
		line.Kind = LineEmpty
		return line, nil
	}

	fields := splitMnemonicOperands(rest)
	mnemonic := fields.mnemonic
	upper := strings.ToUpper(mnemonic)

	switch upper {
	case ".ORG":
		expr, err := parseOneExprArg(no, fields.operandText, ".ORG")
		if err != nil {
			return nil, err
		}
		line.Kind = LineDirective
		line.Directive = Directive{Name: DirORG, OrgAddr: expr}
		return line, nil

	case ".EQU":
		name, expr, err := parseEquArgs(no, fields.operandText)
		if err != nil {
			return nil, err
		}
		line.Kind = LineDirective
		line.Directive = Directive{Name: DirEQU, EquName: name, EquValue: expr}
		return line, nil

	case ".DB":
		values, err := parseDBArgs(no, fields.operandText)
		if err != nil {
			return nil, err
		}
		line.Kind = LineDirective
		line.Directive = Directive{Name: DirDB, DBValues: values}
		return line, nil

	case ".DS":
		bytes, err := parseDSArg(no, fields.operandText)
		if err != nil {
			return nil, err
		}
		line.Kind = LineDirective
		line.Directive = Directive{Name: DirDS, DSBytes: bytes}
		return line, nil
	}

	op, ok := isa.LookupMnemonic(mnemonic)
	if !ok {
		return nil, &errs.ParseError{Line: no, Snippet: mnemonic, Reason: "unknown mnemonic"}
	}
	operands, err := parseOperandList(no, fields.operandText)
	if err != nil {
		return nil, err
	}
	line.Kind = LineInstruction
	line.Instr = Instr{Mnemonic: upper, Op: op, Operands: operands}
	return line, nil
}

// stripComment removes a `;`-to-end-of-line comment, respecting `"..."`
// string literals so a `;` inside a .DS string is not mistaken for one.
func stripComment(s string) string {
	inString := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inString = !inString
		case ';':
			if !inString {
				return s[:i]
			}
		}
	}
	return s
}

// splitLabel detects a leading `label:` and returns it along with the
// remainder of the line.
func splitLabel(s string) (label, rest string) {
	trimmed := strings.TrimLeft(s, " \t")
	idx := strings.IndexByte(trimmed, ':')
	if idx < 0 {
		return "", s
	}
	candidate := trimmed[:idx]
	if candidate == "" || strings.ContainsAny(candidate, " \t") {
		return "", s
	}
	return candidate, trimmed[idx+1:]
}

type mnemonicFields struct {
	mnemonic    string
	operandText string
}

func splitMnemonicOperands(s string) mnemonicFields {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return mnemonicFields{mnemonic: s}
	}
	return mnemonicFields{mnemonic: s[:idx], operandText: strings.TrimSpace(s[idx+1:])}
}

// splitOperands splits a comma-separated operand list, but not commas that
// fall inside a `"..."` string literal (relevant to .DB mixing bytes and,
// in principle, nested expressions).
func splitOperands(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	inString := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inString = !inString
		case ',':
			if !inString {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

func parseOneExprArg(no int, text, directive string) (Expr, error) {
	toks := splitOperands(text)
	if len(toks) != 1 || toks[0] == "" {
		return Expr{}, &errs.ParseError{Line: no, Snippet: text, Reason: directive + " expects exactly one argument"}
	}
	return parseExpr(no, toks[0])
}

func parseEquArgs(no int, text string) (string, Expr, error) {
	toks := splitOperands(text)
	if len(toks) != 2 {
		return "", Expr{}, &errs.ParseError{Line: no, Snippet: text, Reason: ".EQU expects name, expr"}
	}
	name := toks[0]
	if !isIdentifier(name) {
		return "", Expr{}, &errs.ParseError{Line: no, Snippet: name, Reason: "invalid symbol name"}
	}
	expr, err := parseExpr(no, toks[1])
	return name, expr, err
}

func parseDBArgs(no int, text string) ([]Expr, error) {
	toks := splitOperands(text)
	if len(toks) == 0 {
		return nil, &errs.ParseError{Line: no, Snippet: text, Reason: ".DB expects at least one value"}
	}
	exprs := make([]Expr, 0, len(toks))
	for _, tok := range toks {
		e, err := parseExpr(no, tok)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func parseDSArg(no int, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '"' {
		return nil, &errs.ParseError{Line: no, Snippet: text, Reason: ".DS expects a quoted string"}
	}
	if text[len(text)-1] != '"' || len(text) == 1 {
		return nil, &errs.LexError{Line: no, Snippet: text, Reason: "unterminated string literal"}
	}
	body := text[1 : len(text)-1]
	out := make([]byte, 0, len(body)+1)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' {
			if i+1 >= len(body) {
				return nil, &errs.LexError{Line: no, Snippet: text, Reason: "unterminated string literal"}
			}
			i++
			switch body[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '0':
				out = append(out, 0)
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				return nil, &errs.LexError{Line: no, Snippet: text, Reason: "unknown escape \\" + string(body[i])}
			}
			continue
		}
		out = append(out, c)
	}
	out = append(out, 0x00)
	return out, nil
}

func parseOperandList(no int, text string) ([]Operand, error) {
	toks := splitOperands(text)
	operands := make([]Operand, 0, len(toks))
	for _, tok := range toks {
		if tok == "" {
			continue
		}
		op, err := classifyOperand(no, tok)
		if err != nil {
			return nil, err
		}
		operands = append(operands, op)
	}
	return operands, nil
}

// classifyOperand dispatches on the operand's leading character: `#` is
// immediate, `[` is direct or indexed, a bare A/R0/R1 is a register,
// anything else is an expression.
func classifyOperand(no int, tok string) (Operand, error) {
	switch {
	case strings.HasPrefix(tok, "#"):
		expr, err := parseExpr(no, tok[1:])
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandImmediate, Expr: expr}, nil

	case strings.HasPrefix(tok, "["):
		return classifyBracketed(no, tok)

	default:
		if reg, ok := isa.LookupReg(tok); ok {
			return Operand{Kind: OperandRegister, Reg: reg}, nil
		}
		expr, err := parseExpr(no, tok)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandDirect, Expr: expr}, nil
	}
}

func classifyBracketed(no int, tok string) (Operand, error) {
	if !strings.HasSuffix(tok, "]") {
		return Operand{}, &errs.ParseError{Line: no, Snippet: tok, Reason: "unterminated ["}
	}
	inner := tok[1 : len(tok)-1]

	if reg, ok := isa.LookupReg(inner); ok {
		return Operand{Kind: OperandIndexed, Reg: reg, Expr: Expr{Kind: ExprLiteral, Value: 0}}, nil
	}

	for _, sign := range []byte{'+', '-'} {
		idx := strings.IndexByte(inner, sign)
		if idx <= 0 {
			continue
		}
		regName := strings.TrimSpace(inner[:idx])
		reg, ok := isa.LookupReg(regName)
		if !ok {
			continue
		}
		expr, err := parseExpr(no, strings.TrimSpace(inner[idx+1:]))
		if err != nil {
			return Operand{}, err
		}
		if expr.Kind == ExprLiteral && sign == '-' {
			expr.Value = -expr.Value
		}
		if expr.Kind == ExprLiteral && (expr.Value < -128 || expr.Value > 127) {
			return Operand{}, &errs.ParseError{Line: no, Snippet: tok, Reason: "indexed offset out of range [-128,127]"}
		}
		return Operand{Kind: OperandIndexed, Reg: reg, Expr: expr}, nil
	}

	// [expr] with no register is a direct address written with brackets.
	expr, err := parseExpr(no, inner)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Kind: OperandDirect, Expr: expr}, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		isDigit := c >= '0' && c <= '9'
		if i == 0 && isDigit {
			return false
		}
		if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

// parseExpr parses a literal (decimal, 0x hex, 0b binary) or falls back to
// treating tok as a symbol reference to be resolved during assembly.
func parseExpr(no int, tok string) (Expr, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Expr{}, &errs.ParseError{Line: no, Snippet: tok, Reason: "empty expression"}
	}

	neg := false
	lit := tok
	if lit[0] == '-' || lit[0] == '+' {
		neg = lit[0] == '-'
		lit = lit[1:]
	}

	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		v, err := strconv.ParseInt(lit[2:], 16, 64)
		if err != nil {
			return Expr{}, &errs.LexError{Line: no, Snippet: tok, Reason: "invalid hex literal"}
		}
		return Expr{Kind: ExprLiteral, Value: signedInt(int(v), neg)}, nil

	case strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B"):
		v, err := strconv.ParseInt(lit[2:], 2, 64)
		if err != nil {
			return Expr{}, &errs.LexError{Line: no, Snippet: tok, Reason: "invalid binary literal"}
		}
		return Expr{Kind: ExprLiteral, Value: signedInt(int(v), neg)}, nil

	case lit[0] >= '0' && lit[0] <= '9':
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return Expr{}, &errs.LexError{Line: no, Snippet: tok, Reason: "invalid decimal literal"}
		}
		return Expr{Kind: ExprLiteral, Value: signedInt(int(v), neg)}, nil

	default:
		if neg {
			return Expr{}, &errs.ParseError{Line: no, Snippet: tok, Reason: "symbol references cannot be negated"}
		}
		if !isIdentifier(tok) {
			return Expr{}, &errs.ParseError{Line: no, Snippet: tok, Reason: "malformed operand"}
		}
		return Expr{Kind: ExprSymbol, Symbol: tok}, nil
	}
}

func signedInt(v int, neg bool) int {
	if neg {
		return -v
	}
	return v
}
