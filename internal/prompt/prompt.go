// Package prompt collects the fields of a new crop in an interactive
// terminal form.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/crops/internal/i18n"
	"github.com/mesh-intelligence/crops/pkg/types"
)

// ErrCancelled is returned when the user leaves the form with esc or ctrl+c.
var ErrCancelled = errors.New("cancelled")

// Answers holds the values entered in the form. Empty Cultivar and Notes
// mean the user skipped them.
type Answers struct {
	Name     string
	Plants   int
	Cultivar string
	Stage    string
	Source   string
	Notes    string
}

// Form steps, in the order they are asked.
const (
	stepName = iota
	stepPlants
	stepCultivar
	stepStage
	stepSource
	stepNotes
	stepCount
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Faint(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model of the new-crop form.
type Model struct {
	p      *i18n.Printer
	inputs [stepCount]textinput.Model
	labels [stepCount]string

	stages []string
	cursor int

	step      int
	errMsg    string
	done      bool
	cancelled bool
}

// New returns a form whose source field defaults to defaultSource.
func New(p *i18n.Printer, defaultSource string) Model {
	m := Model{p: p, stages: types.Stages()}
	m.labels = [stepCount]string{
		stepName:     p.Sprintf(i18n.PromptName),
		stepPlants:   p.Sprintf(i18n.PromptPlants),
		stepCultivar: p.Sprintf(i18n.PromptCultivar),
		stepStage:    p.Sprintf(i18n.PromptStage),
		stepSource:   p.Sprintf(i18n.PromptSource),
		stepNotes:    p.Sprintf(i18n.PromptNotes),
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ": "
		in.CharLimit = 200
		m.inputs[i] = in
	}
	m.inputs[stepPlants].CharLimit = 6
	m.inputs[stepPlants].Placeholder = "1"
	m.inputs[stepCultivar].Placeholder = p.Sprintf(i18n.PromptOptional)
	m.inputs[stepSource].Placeholder = defaultSource
	m.inputs[stepNotes].Placeholder = p.Sprintf(i18n.PromptOptional)
	m.inputs[stepName].Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		return m.next()
	case tea.KeyUp:
		if m.step == stepStage {
			m.cursor = (m.cursor + len(m.stages) - 1) % len(m.stages)
			return m, nil
		}
	case tea.KeyDown:
		if m.step == stepStage {
			m.cursor = (m.cursor + 1) % len(m.stages)
			return m, nil
		}
	}
	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.step == stepStage || m.step >= stepCount {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.step], cmd = m.inputs[m.step].Update(msg)
	return m, cmd
}

// next validates the current step and moves to the following one.
func (m Model) next() (tea.Model, tea.Cmd) {
	m.errMsg = ""
	switch m.step {
	case stepName:
		if strings.TrimSpace(m.inputs[stepName].Value()) == "" {
			m.errMsg = "a name is required"
			return m, nil
		}
	case stepPlants:
		if _, err := parsePlants(m.inputs[stepPlants].Value()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
	}

	if m.step != stepStage {
		m.inputs[m.step].Blur()
	}
	m.step++
	if m.step == stepCount {
		m.done = true
		return m, tea.Quit
	}
	if m.step != stepStage {
		return m, m.inputs[m.step].Focus()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	for i := 0; i <= m.step && i < stepCount; i++ {
		if i < m.step {
			fmt.Fprintf(&b, "%s\n", doneStyle.Render(m.labels[i]+": "+m.display(i)))
			continue
		}
		b.WriteString(labelStyle.Render(m.labels[i]))
		if i != stepStage {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
			continue
		}
		b.WriteString("\n")
		for j, s := range m.stages {
			line := "  " + m.p.Stage(s)
			if j == m.cursor {
				line = cursorStyle.Render("> " + m.p.Stage(s))
			}
			b.WriteString(line + "\n")
		}
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(helpStyle.Render(m.p.Sprintf(i18n.PromptHelp)) + "\n")
	return b.String()
}

func (m Model) display(step int) string {
	if step == stepStage {
		return m.p.Stage(m.stages[m.cursor])
	}
	if v := m.inputs[step].Value(); v != "" {
		return v
	}
	return m.inputs[step].Placeholder
}

// Answers returns the values entered so far. Blank fields take their
// defaults: one plant, the default source.
func (m Model) Answers() Answers {
	plants, _ := parsePlants(m.inputs[stepPlants].Value())
	source := strings.TrimSpace(m.inputs[stepSource].Value())
	if source == "" {
		source = m.inputs[stepSource].Placeholder
	}
	return Answers{
		Name:     strings.TrimSpace(m.inputs[stepName].Value()),
		Plants:   plants,
		Cultivar: strings.TrimSpace(m.inputs[stepCultivar].Value()),
		Stage:    m.stages[m.cursor],
		Source:   source,
		Notes:    strings.TrimSpace(m.inputs[stepNotes].Value()),
	}
}

// Done reports whether every step was completed.
func (m Model) Done() bool { return m.done }

func parsePlants(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a number of plants", s)
	}
	return n, nil
}

// Run shows the form on the given terminal streams and returns the answers.
func Run(in io.Reader, out io.Writer, p *i18n.Printer, defaultSource string) (Answers, error) {
	prog := tea.NewProgram(New(p, defaultSource), tea.WithInput(in), tea.WithOutput(out))
	final, err := prog.Run()
	if err != nil {
		return Answers{}, fmt.Errorf("run form: %w", err)
	}
	m, ok := final.(Model)
	if !ok || !m.Done() {
		return Answers{}, ErrCancelled
	}
	return m.Answers(), nil
}
