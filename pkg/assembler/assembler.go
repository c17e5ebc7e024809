// Package assembler implements the two-pass EDU-CPU assembler: pass 1
// computes instruction sizes and builds the symbol table, pass 2 encodes
// instructions and directive data into an address-indexed image and
// records a listing.
package assembler

import (
	"strings"

	"github.com/eduproc/educpu/pkg/image"
	"github.com/eduproc/educpu/pkg/lexer"
)

// Result is everything a successful assembly produces. The assembler
// discards all other state on exit, per the lifecycle in the data model.
type Result struct {
	Image   *image.Image
	Listing []Record
	Symbols lexer.SymbolTable
}

// Assemble runs the full two-pass pipeline over source text and returns
// the assembled image, listing, and symbol table. It stops at the first
// error encountered, reporting the offending source line number.
func Assemble(source string) (*Result, error) {
	rawLines := strings.Split(source, "\n")
	lines := make([]*lexer.Line, 0, len(rawLines))
	for i, raw := range rawLines {
		line, err := lexer.ParseLine(i+1, raw)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	syms, err := pass1(lines)
	if err != nil {
		return nil, err
	}

	img, listing, err := pass2(lines, syms)
	if err != nil {
		return nil, err
	}

	return &Result{Image: img, Listing: listing.Records(), Symbols: syms}, nil
}
