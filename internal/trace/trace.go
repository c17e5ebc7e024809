// Package trace formats a one-line-per-instruction snapshot of CPU state
// and routes it to an io.Writer sink, for the simulator's --trace flag.
package trace

import (
	"fmt"
	"io"

	"github.com/eduproc/educpu/pkg/cpu"
)

// Sink writes a trace line before every instruction.
type Sink struct {
	w io.Writer
}

// New wraps w as a trace sink.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Step is passed directly as the onStep callback to (*cpu.State).Run. It
// formats PC, the three registers, SP, both flags, and the next opcode
// byte about to be fetched.
func (s *Sink) Step(st *cpu.State) {
	next := st.Memory[st.PC]
	fmt.Fprintf(s.w, "PC=%02X A=%02X R0=%02X R1=%02X SP=%d Z=%d C=%d next=%02X\n",
		st.PC, st.A, st.R0, st.R1, st.SP, st.Z, st.C, next)
}
