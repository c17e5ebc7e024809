package lexer

import "github.com/eduproc/educpu/pkg/isa"

// LineKind distinguishes what a parsed source line contains.
type LineKind int

const (
	LineEmpty LineKind = iota
	LineDirective
	LineInstruction
)

// DirectiveName enumerates the recognized assembler directives.
type DirectiveName int

const (
	DirORG DirectiveName = iota
	DirEQU
	DirDB
	DirDS
)

// Directive is a parsed `.ORG`/`.EQU`/`.DB`/`.DS` line.
type Directive struct {
	Name     DirectiveName
	OrgAddr  Expr   // DirORG
	EquName  string // DirEQU
	EquValue Expr   // DirEQU
	DBValues []Expr // DirDB
	DSBytes  []byte // DirDS: already escape-decoded, with the 0x00 terminator appended
}

// Instr is a parsed instruction line: a mnemonic plus its raw operand AST.
type Instr struct {
	Mnemonic string
	Op       isa.Op
	Operands []Operand
}

// Line is one fully tokenized source line.
type Line struct {
	No        int
	Raw       string
	Label     string // "" if this line has no label
	Kind      LineKind
	Directive Directive
	Instr     Instr
}
