package cpu_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduproc/educpu/pkg/assembler"
	"github.com/eduproc/educpu/pkg/cpu"
	"github.com/eduproc/educpu/pkg/errs"
)

func mustAssemble(t *testing.T, src string) *assembler.Result {
	t.Helper()
	res, err := assembler.Assemble(src)
	require.NoError(t, err)
	return res
}

func TestImmediateAdd(t *testing.T) {
	res := mustAssemble(t, "LD A,#37\nADD #28\nHLT\n")
	s := cpu.New(res.Image, nil)
	err := s.Run(65536, nil)
	require.NoError(t, err)
	require.True(t, s.Halted)
	require.EqualValues(t, 0x41, s.A)
	require.EqualValues(t, 0, s.Z)
	require.EqualValues(t, 0, s.C)
	require.Equal(t, 3, s.Cycles)
}

func TestOutputByte(t *testing.T) {
	res := mustAssemble(t, "LD A,#0x41\nST A,[0xFF]\nHLT\n")
	var out bytes.Buffer
	s := cpu.New(res.Image, &out)
	err := s.Run(65536, nil)
	require.NoError(t, err)
	require.True(t, s.Halted)
	require.Equal(t, []byte{0x41}, out.Bytes())
}

func TestBranchNotTaken(t *testing.T) {
	res := mustAssemble(t, "LD A,#1\nCMP #1\nBNZ skip\nLD A,#9\nskip: HLT\n")
	s := cpu.New(res.Image, nil)
	err := s.Run(65536, nil)
	require.NoError(t, err)
	require.EqualValues(t, 9, s.A)
	require.EqualValues(t, 1, s.Z)
	require.EqualValues(t, 1, s.C)
}

func TestCallRet(t *testing.T) {
	res := mustAssemble(t, "CALL sub\nHLT\nsub: LD A,#0x55\nRET\n")
	s := cpu.New(res.Image, nil)
	err := s.Run(65536, nil)
	require.NoError(t, err)
	require.True(t, s.Halted)
	require.EqualValues(t, 0x55, s.A)
	require.Equal(t, 0, s.SP)
}

func TestStackOverflowAtFifthPush(t *testing.T) {
	res := mustAssemble(t, "PUSH A\nPUSH A\nPUSH A\nPUSH A\nPUSH A\n")
	s := cpu.New(res.Image, nil)
	err := s.Run(65536, nil)
	require.Error(t, err)
	rerr, ok := err.(*errs.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errs.StackOverflow, rerr.Kind)
	require.Equal(t, 5, rerr.Cycle)
}

func TestStackUnderflowOnBarePop(t *testing.T) {
	res := mustAssemble(t, "POP A\n")
	s := cpu.New(res.Image, nil)
	err := s.Run(65536, nil)
	require.Error(t, err)
	rerr, ok := err.(*errs.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errs.StackUnderflow, rerr.Kind)
}

func TestRunawayFetch(t *testing.T) {
	res := mustAssemble(t, "NOP\n")
	s := cpu.New(res.Image, nil)
	err := s.Run(65536, nil)
	require.Error(t, err)
	rerr, ok := err.(*errs.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errs.RunawayFetch, rerr.Kind)
	require.EqualValues(t, 0x01, rerr.PC)
}

func TestCycleLimitExceeded(t *testing.T) {
	res := mustAssemble(t, "loop: JMP loop\n")
	s := cpu.New(res.Image, nil)
	err := s.Run(10, nil)
	require.Error(t, err)
	rerr, ok := err.(*errs.RuntimeError)
	require.True(t, ok)
	require.Equal(t, errs.CycleLimit, rerr.Kind)
	require.Equal(t, 10, rerr.Cycle)
}

func TestAddCarryAndOverflow(t *testing.T) {
	res := mustAssemble(t, "LD A,#0xFF\nADD #2\nHLT\n")
	s := cpu.New(res.Image, nil)
	require.NoError(t, s.Run(65536, nil))
	require.EqualValues(t, 1, s.A)
	require.EqualValues(t, 1, s.C)
	require.EqualValues(t, 0, s.Z)
}

func TestAndOrXorClearCarry(t *testing.T) {
	for _, logic := range []string{"AND #0xFF", "OR #0", "XOR #0"} {
		res := mustAssemble(t, "LD A,#0xFF\nADD #1\n"+logic+"\nHLT\n")
		s := cpu.New(res.Image, nil)
		require.NoError(t, s.Run(65536, nil))
		require.EqualValues(t, 0, s.C, logic+" must clear carry even though ADD set it")
	}
}

func TestIncDecLeaveCarryUntouched(t *testing.T) {
	res := mustAssemble(t, "LD A,#0xFF\nADD #1\nINC R0\nDEC R1\nHLT\n")
	s := cpu.New(res.Image, nil)
	require.NoError(t, s.Run(65536, nil))
	require.EqualValues(t, 1, s.C, "INC/DEC must not touch the carry set by the prior ADD")
	require.EqualValues(t, 1, s.R0)
	require.EqualValues(t, 0xFF, s.R1)
}

func TestIndexedAddressing(t *testing.T) {
	res := mustAssemble(t, "LD R0,#0x10\nLD A,#0x99\nST A,[R0+1]\nLD A,#0\nLD A,[R0+1]\nHLT\n")
	s := cpu.New(res.Image, nil)
	require.NoError(t, s.Run(65536, nil))
	require.EqualValues(t, 0x99, s.A)
	require.EqualValues(t, 0x99, s.Memory[0x11])
}
