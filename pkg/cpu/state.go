// Package cpu implements the EDU-CPU execution core: register/flag state,
// the 256-byte memory and 4-entry hardware stack, and the fetch-decode-
// execute loop that steps or runs a loaded image to completion.
package cpu

import (
	"io"

	"github.com/eduproc/educpu/pkg/image"
	"github.com/eduproc/educpu/pkg/isa"
)

// State is the full machine state for one simulator run.
type State struct {
	A, R0, R1 uint8
	PC        uint8
	SP        int
	Z, C      uint8

	Memory [256]byte
	Stack  [4]byte

	Halted bool
	Cycles int

	Loaded LoadedSet

	// Out receives the single byte written whenever an instruction stores
	// to address 0xFF. It may be nil, in which case such writes are
	// discarded.
	Out io.Writer
}

// New builds a State from a loaded image, marking every written address in
// the loaded-address set and copying bytes into memory. The image is not
// retained; State owns its own memory from this point on.
func New(img *image.Image, out io.Writer) *State {
	s := &State{Out: out}
	for _, addr := range img.Addresses() {
		b, _ := img.Read(addr)
		s.Memory[addr] = b
		s.Loaded.Set(uint8(addr))
	}
	return s
}

// Reg returns the current value of r.
func (s *State) Reg(r isa.Reg) uint8 {
	switch r {
	case isa.RegA:
		return s.A
	case isa.RegR0:
		return s.R0
	case isa.RegR1:
		return s.R1
	default:
		return 0
	}
}

// SetReg assigns v to r.
func (s *State) SetReg(r isa.Reg, v uint8) {
	switch r {
	case isa.RegA:
		s.A = v
	case isa.RegR0:
		s.R0 = v
	case isa.RegR1:
		s.R1 = v
	}
}

