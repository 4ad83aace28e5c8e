package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"sixfive/mem"
)

// The debugger is a bubbletea program wrapped around a Cpu: each keypress
// single-steps the core and redraws memory, registers, and the stack page.

type model struct {
	cpu     *Cpu
	program string
	offset  uint16

	prevPC uint16
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m model) Init() tea.Cmd {
	if err := m.cpu.Mem.LoadProgram(m.program, m.offset); err != nil {
		return tea.Quit
	}
	m.cpu.PC = m.offset
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "j":
			m.prevPC = m.cpu.PC
			m.cpu.Tick()

		case "r":
			m.cpu.Reset()
			m.cpu.PC = m.offset
		}
	}
	return m, nil
}

// renderRow renders 16 bytes of memory as one line. The current PC is
// bracketed.
func (m model) renderRow(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i, b := range m.cpu.Mem.Ram[int(start) : int(start)+16] {
		if start+uint16(i) == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	state := "running"
	if !m.cpu.Running {
		state = "halted"
		if err := m.cpu.Err(); err != nil {
			state = err.Error()
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
SP: %02x
 A: %02x
 X: %02x
 Y: %02x
%s
cycles: %d
%s
`,
		m.cpu.PC,
		m.prevPC,
		m.cpu.SP,
		m.cpu.A,
		m.cpu.X,
		m.cpu.Y,
		m.cpu.flagString(),
		m.cpu.Cycles,
		state,
	)
}

func (m model) memoryTable() string {
	header := "addr | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}

	rows := []string{header}

	offsets := []uint16{
		0, 16, 32, 48, 64,
		m.offset,
		m.offset + 16*1,
		m.offset + 16*2,
		m.offset + 16*3,
		m.offset + 16*4,
	}
	for _, i := range offsets {
		rows = append(rows, m.renderRow(i))
	}
	return strings.Join(rows, "\n")
}

// stackTable renders the top 64 bytes of page 1, highest row first. The
// stack grows down, so the oldest entries come first.
func (m model) stackTable() string {
	rows := []string{"stack:"}
	for i := 0; i < 4; i++ {
		rows = append(rows, m.renderRow(mem.StackBase+uint16(0xF0-16*i)))
	}
	return strings.Join(rows, "\n")
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.memoryTable(),
			m.status(),
		),
		"",
		m.stackTable(),
		"",
		spew.Sdump(Opcodes[m.cpu.Mem.ReadByte(m.cpu.PC)]),
	)
}

// Debug loads the hex-text program into memory at the given offset, points
// the PC there, and starts an interactive single-step TUI. Space or j steps,
// r resets, q quits.
func (c *Cpu) Debug(program string, offset uint16) error {
	_, err := tea.NewProgram(model{
		cpu:     c,
		program: program,
		offset:  offset,
	}).Run()
	return err
}
