package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"desmir/internal/driver"
	"desmir/internal/lower"
)

var (
	replPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	replInputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	replDumpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	replTypeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	replErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type replEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	input   textinput.Model
	env     lower.Env
	entries []replEntry
	width   int
}

// NewReplModel returns a Bubble Tea model for the expression REPL. Each
// submitted line compiles as one statement; variable definitions extend the
// environment, so later lines can reference them as typed inputs.
func NewReplModel(env lower.Env) tea.Model {
	ti := textinput.New()
	ti.Prompt = replPromptStyle.Render("desmir> ")
	ti.Placeholder = "a = sin(x) + 1"
	ti.Focus()

	if env == nil {
		env = make(lower.Env)
	}
	return &replModel{input: ti, env: env, width: 80}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.entries = append(m.entries, m.eval(line))
			return m, nil
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) eval(line string) replEntry {
	res := driver.CompileSource("repl", []byte(line), m.env)
	if err := res.Err(); err != nil {
		return replEntry{input: line, output: err.Error(), isErr: true}
	}
	if len(res.Units) == 0 {
		return replEntry{input: line, output: "no statement", isErr: true}
	}

	unit := res.Units[0]
	if unit.Chunk != nil && unit.Name != "implicit" {
		m.env[unit.Name] = unit.Chunk.Ret.Type()
	}

	var b strings.Builder
	b.WriteString(replTypeStyle.Render(unit.Name + ": " + unit.Type))
	b.WriteString("\n")
	b.WriteString(replDumpStyle.Render(strings.TrimRight(unit.Dump, "\n")))
	return replEntry{input: line, output: b.String()}
}

func (m *replModel) View() string {
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(replPromptStyle.Render("desmir> "))
		b.WriteString(replInputStyle.Render(truncate(e.input, m.width-8)))
		b.WriteString("\n")
		if e.isErr {
			b.WriteString(replErrorStyle.Render(truncate(e.output, m.width)))
		} else {
			b.WriteString(e.output)
		}
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(replDumpStyle.Render("esc or ctrl+c to quit"))
	b.WriteString("\n")
	return b.String()
}
