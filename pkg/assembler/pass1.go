package assembler

import (
	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/lexer"
)

// pass1 walks the parsed program computing instruction/directive sizes and
// building the symbol table. It does not emit any bytes.
func pass1(lines []*lexer.Line) (lexer.SymbolTable, error) {
	syms := make(lexer.SymbolTable)
	loc := 0

	for _, ln := range lines {
		if ln.Label != "" {
			if _, exists := syms[ln.Label]; exists {
				return nil, &errs.SymbolError{Line: ln.No, Symbol: ln.Label, Reason: "duplicate symbol"}
			}
			syms[ln.Label] = byte(loc)
		}

		switch ln.Kind {
		case lexer.LineEmpty:
			// no effect on loc

		case lexer.LineDirective:
			switch ln.Directive.Name {
			case lexer.DirORG:
				v, err := lexer.Resolve(ln.Directive.OrgAddr, syms, ln.No)
				if err != nil {
					return nil, err
				}
				if v < 0 || v > 255 {
					return nil, &errs.EncodeError{Line: ln.No, Reason: ".ORG address out of range 0..255"}
				}
				loc = v

			case lexer.DirEQU:
				if ln.Directive.EquValue.Kind != lexer.ExprLiteral {
					return nil, &errs.ParseError{Line: ln.No, Reason: ".EQU value must be a literal"}
				}
				if _, exists := syms[ln.Directive.EquName]; exists {
					return nil, &errs.SymbolError{Line: ln.No, Symbol: ln.Directive.EquName, Reason: "duplicate symbol"}
				}
				syms[ln.Directive.EquName] = byte(ln.Directive.EquValue.Value)

			case lexer.DirDB:
				loc += len(ln.Directive.DBValues)

			case lexer.DirDS:
				loc += len(ln.Directive.DSBytes)
			}

		case lexer.LineInstruction:
			size, err := instrSize(ln.Instr, ln.No)
			if err != nil {
				return nil, err
			}
			loc += size
		}
	}

	return syms, nil
}
