package assembler

import (
	"github.com/eduproc/educpu/pkg/image"
	"github.com/eduproc/educpu/pkg/lexer"
)

// pass2 re-walks the program with the symbol table from pass 1 fully
// populated, encoding instructions and directive data into an address-
// indexed image and recording a listing line per source line.
func pass2(lines []*lexer.Line, syms lexer.SymbolTable) (*image.Image, *Listing, error) {
	img := image.New()
	listing := NewListing()
	loc := 0

	for _, ln := range lines {
		switch ln.Kind {
		case lexer.LineEmpty:
			listing.Add(Record{LineNo: ln.No, Text: ln.Raw})

		case lexer.LineDirective:
			switch ln.Directive.Name {
			case lexer.DirORG:
				v, err := lexer.Resolve(ln.Directive.OrgAddr, syms, ln.No)
				if err != nil {
					return nil, nil, err
				}
				loc = v
				listing.Add(Record{LineNo: ln.No, Text: ln.Raw})

			case lexer.DirEQU:
				listing.Add(Record{LineNo: ln.No, Text: ln.Raw})

			case lexer.DirDB:
				addr := loc
				bytes := make([]byte, 0, len(ln.Directive.DBValues))
				for _, e := range ln.Directive.DBValues {
					b, err := resolveByte(e, syms, ln.No)
					if err != nil {
						return nil, nil, err
					}
					bytes = append(bytes, b)
				}
				writeBytes(img, addr, bytes)
				listing.Add(Record{LineNo: ln.No, Address: addr, HasAddress: true, Bytes: bytes, Text: ln.Raw})
				loc += len(bytes)

			case lexer.DirDS:
				addr := loc
				bytes := ln.Directive.DSBytes
				writeBytes(img, addr, bytes)
				listing.Add(Record{LineNo: ln.No, Address: addr, HasAddress: true, Bytes: bytes, Text: ln.Raw})
				loc += len(bytes)
			}

		case lexer.LineInstruction:
			addr := loc
			bytes, err := encodeInstruction(ln.Instr, addr, ln.No, syms)
			if err != nil {
				return nil, nil, err
			}
			writeBytes(img, addr, bytes)
			listing.Add(Record{LineNo: ln.No, Address: addr, HasAddress: true, Bytes: bytes, Text: ln.Raw})
			loc += len(bytes)
		}
	}

	return img, listing, nil
}

func writeBytes(img *image.Image, addr int, bytes []byte) {
	for i, b := range bytes {
		img.Write(addr+i, b)
	}
}
