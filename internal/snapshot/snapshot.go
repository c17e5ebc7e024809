// Package snapshot saves and restores CPU state to disk with encoding/gob,
// for the simulator's --dump-state flag — a postmortem dump of the exact
// machine state at halt or error, rather than a resumable checkpoint.
package snapshot

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/eduproc/educpu/pkg/cpu"
)

// Snapshot mirrors every gob-encodable field of cpu.State. The output sink
// (an io.Writer) isn't part of it; Restore takes a fresh one.
type Snapshot struct {
	A, R0, R1 uint8
	PC        uint8
	SP        int
	Z, C      uint8
	Memory    [256]byte
	Stack     [4]byte
	Halted    bool
	Cycles    int
	Loaded    cpu.LoadedSet
}

func init() {
	gob.Register(Snapshot{})
}

// FromState captures sn's fields from a live CPU state.
func FromState(s *cpu.State) Snapshot {
	return Snapshot{
		A: s.A, R0: s.R0, R1: s.R1, PC: s.PC, SP: s.SP,
		Z: s.Z, C: s.C,
		Memory: s.Memory, Stack: s.Stack,
		Halted: s.Halted, Cycles: s.Cycles, Loaded: s.Loaded,
	}
}

// Restore rebuilds a *cpu.State from sn, wiring out as its output sink.
func (sn Snapshot) Restore(out io.Writer) *cpu.State {
	s := &cpu.State{
		A: sn.A, R0: sn.R0, R1: sn.R1, PC: sn.PC, SP: sn.SP,
		Z: sn.Z, C: sn.C,
		Memory: sn.Memory, Stack: sn.Stack,
		Halted: sn.Halted, Cycles: sn.Cycles, Loaded: sn.Loaded,
		Out: out,
	}
	return s
}

// Save writes sn to path.
func Save(path string, sn Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(sn)
}

// Load reads a Snapshot previously written by Save.
func Load(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	var sn Snapshot
	if err := gob.NewDecoder(f).Decode(&sn); err != nil {
		return Snapshot{}, err
	}
	return sn, nil
}
