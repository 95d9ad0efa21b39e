package menu

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TeaReader reads lines with an inline bubbletea text input, giving the
// usual cursor movement and editing keys. Ctrl-C, and Ctrl-D on an empty
// line, end input.
type TeaReader struct {
	in  io.Reader
	out io.Writer
}

func NewTeaReader(in io.Reader, out io.Writer) *TeaReader {
	return &TeaReader{in: in, out: out}
}

func (r *TeaReader) ReadLine(prompt string) (string, error) {
	p := tea.NewProgram(newLineModel(prompt), tea.WithInput(r.in), tea.WithOutput(r.out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("read line: %w", err)
	}
	m, ok := final.(lineModel)
	if !ok || m.eof {
		return "", io.EOF
	}
	return m.input.Value(), nil
}

type lineModel struct {
	input textinput.Model
	done  bool
	eof   bool
}

func newLineModel(prompt string) lineModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Focus()
	return lineModel{input: ti}
}

func (m lineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC:
			m.done, m.eof = true, true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.done, m.eof = true, true
				return m, tea.Quit
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m lineModel) View() string {
	if m.done {
		return m.input.Prompt + m.input.Value() + "\n"
	}
	return m.input.View()
}
