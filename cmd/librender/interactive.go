package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/config"
	"github.com/wippyai/librender/encoder"
	"github.com/wippyai/librender/opcode"
	"github.com/wippyai/librender/sink"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	lockedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// tailBytes is how much of the stream the builder shows.
const tailBytes = 32

type builderModel struct {
	err      error
	buf      *bytecode.Buffer
	enc      *encoder.Encoder
	out      string
	status   string
	ops      []opcode.Info
	history  []encoder.Instruction
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    builderState
}

type builderState int

const (
	stateSelectOp builderState = iota
	stateInputFields
)

func newBuilderModel(buf *bytecode.Buffer, out string) *builderModel {
	m := &builderModel{
		buf:   buf,
		enc:   encoder.New(buf),
		out:   out,
		state: stateSelectOp,
	}
	for _, op := range opcode.All() {
		info, _ := op.Info()
		m.ops = append(m.ops, info)
	}
	return m
}

func (m *builderModel) Init() tea.Cmd {
	return nil
}

func (m *builderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateInputFields {
		return m.updateInputs(key)
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.ops)-1 {
			m.selected++
		}

	case "enter":
		info := m.ops[m.selected]
		if info.Arity() == 0 {
			m.encode(encoder.Instruction{Op: info.Opcode})
			break
		}
		m.prepareInputs(info)
		m.state = stateInputFields

	case "l":
		if m.buf.IsLocked() {
			m.buf.Unlock()
			m.setStatus("unlocked")
		} else {
			m.buf.Lock()
			m.setStatus("locked")
		}

	case "u":
		m.undo()

	case "s":
		if err := sink.WriteFile(m.buf, m.out); err != nil {
			m.setError(err)
			break
		}
		m.setStatus(fmt.Sprintf("saved %d bytes to %s", m.buf.Len(), m.out))
	}

	return m, nil
}

func (m *builderModel) updateInputs(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.state = stateSelectOp
		m.inputs = nil
		return m, nil

	case "tab":
		if len(m.inputs) > 1 {
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()
		}
		return m, nil

	case "enter":
		fields := make([]string, len(m.inputs))
		for i, input := range m.inputs {
			fields[i] = input.Value()
		}
		if m.encode(encoder.Instruction{Op: m.ops[m.selected].Opcode, Fields: fields}) {
			m.state = stateSelectOp
			m.inputs = nil
		}
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(key)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *builderModel) prepareInputs(info opcode.Info) {
	m.inputs = make([]textinput.Model, len(info.Fields))
	for i, name := range info.Fields {
		ti := textinput.New()
		ti.Prompt = name + ": "
		ti.CharLimit = opcode.MaxFieldLen
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *builderModel) encode(ins encoder.Instruction) bool {
	if err := m.enc.Encode(ins); err != nil {
		m.setError(err)
		return false
	}
	m.history = append(m.history, ins)
	m.setStatus(fmt.Sprintf("encoded %s (%d bytes)", ins.Op, encoder.Size(ins)))
	return true
}

// undo removes the last instruction's bytes from the end of the stream.
func (m *builderModel) undo() {
	if len(m.history) == 0 {
		m.setStatus("nothing to undo")
		return
	}
	last := m.history[len(m.history)-1]
	if m.buf.IsLocked() {
		m.setError(m.buf.RemoveByte(m.buf.Len() - 1))
		return
	}
	for range encoder.Size(last) {
		if err := m.buf.RemoveByte(m.buf.Len() - 1); err != nil {
			m.setError(err)
			return
		}
	}
	m.history = m.history[:len(m.history)-1]
	m.setStatus("removed " + last.Op.String())
}

func (m *builderModel) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *builderModel) setError(err error) {
	m.status = ""
	m.err = err
}

func (m *builderModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("librender builder"))
	b.WriteString(" ")
	b.WriteString(m.out)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("stream: %d bytes, capacity %d, %d instructions", m.buf.Len(), m.buf.Cap(), len(m.history)))
	if m.buf.IsLocked() {
		b.WriteString(" ")
		b.WriteString(lockedStyle.Render("LOCKED"))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(tail(m.buf.Bytes())))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		for i, info := range m.ops {
			line := formatOp(info)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter encode • l lock • u undo • s save • q quit"))

	case stateInputFields:
		b.WriteString(fmt.Sprintf("Encoding %s\n\n", opStyle.Render(m.ops[m.selected].Name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter encode • esc back"))
	}

	b.WriteString("\n\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}

	return b.String()
}

func formatOp(info opcode.Info) string {
	var fields []string
	for _, f := range info.Fields {
		fields = append(fields, fieldStyle.Render(f))
	}
	return fmt.Sprintf("%02X %s(%s)", byte(info.Opcode), opStyle.Render(info.Name), strings.Join(fields, ", "))
}

func tail(p []byte) string {
	if len(p) == 0 {
		return "(empty)"
	}
	if len(p) <= tailBytes {
		return fmt.Sprintf("% x", p)
	}
	return fmt.Sprintf("… % x", p[len(p)-tailBytes:])
}

func runInteractive(cfg *config.Config, out string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal on stdout")
	}

	buf, err := cfg.NewBuffer()
	if err != nil {
		return err
	}
	defer buf.Destroy()

	p := tea.NewProgram(newBuilderModel(buf, out), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
