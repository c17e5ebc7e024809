// Package debugger implements an interactive terminal stepper over a
// loaded CPU state: space/j executes one instruction, q quits. It exists
// for the simulator's --interactive flag.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/eduproc/educpu/pkg/cpu"
	"github.com/eduproc/educpu/pkg/isa"
)

type model struct {
	cpu    *cpu.State
	prevPC uint8
	err    error
}

// Run starts the interactive debugger over s and blocks until the user
// quits or execution errors. After a halt the final state stays on screen
// until the user quits.
func Run(s *cpu.State) error {
	m, err := tea.NewProgram(model{cpu: s}).Run()
	if err != nil {
		return err
	}
	if final, ok := m.(model); ok && final.err != nil {
		return final.err
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			if m.cpu.Halted {
				return m, nil
			}
			m.prevPC = m.cpu.PC
			if err := m.cpu.Step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			if m.cpu.Halted {
				return m, nil
			}
		}
	}
	return m, nil
}

func (m model) registers() string {
	return fmt.Sprintf(
		"PC: %02X (was %02X)\nA:  %02X\nR0: %02X\nR1: %02X\nSP: %d\nZ C: %d %d\ncycles: %d",
		m.cpu.PC, m.prevPC, m.cpu.A, m.cpu.R0, m.cpu.R1, m.cpu.SP, m.cpu.Z, m.cpu.C, m.cpu.Cycles,
	)
}

func (m model) memoryPage(start uint8) string {
	s := fmt.Sprintf("%02X | ", start)
	for i := 0; i < 16; i++ {
		addr := start + uint8(i)
		b := m.cpu.Memory[addr]
		if addr == m.cpu.PC {
			s += fmt.Sprintf("[%02X]", b)
		} else {
			s += fmt.Sprintf(" %02X ", b)
		}
	}
	return s
}

func (m model) memoryTable() string {
	base := m.cpu.PC &^ 0x0F
	var rows []string
	for page := 0; page < 4; page++ {
		rows = append(rows, m.memoryPage(base+uint8(page*16)))
	}
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	if m.err != nil {
		return "ERROR: " + m.err.Error()
	}
	if m.cpu.Halted {
		return "HALTED"
	}
	return "running — space/j: step, q: quit"
}

func (m model) nextInstruction() string {
	if int(m.cpu.PC) >= len(m.cpu.Memory) {
		return ""
	}
	code, _, mm := isa.DecodeOpcode(m.cpu.Memory[m.cpu.PC])
	op, primary, ok := isa.DecodeIIIII(code)
	if !ok {
		return spew.Sdump("invalid opcode")
	}
	return spew.Sdump(struct {
		Mnemonic string
		Primary  string
		Mode     isa.Mode
	}{isa.Catalog[op].Mnemonic, primary.String(), mm})
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.memoryTable(), "  ", m.registers()),
		m.status(),
		m.nextInstruction(),
	)
}
