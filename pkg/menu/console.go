package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// LineReader reads one line of user input after showing prompt. It returns
// io.EOF when input is exhausted or the user aborts the line.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ScannerReader reads newline-terminated lines from a plain stream. It is
// used when stdin is not a terminal, and in tests.
type ScannerReader struct {
	r   *bufio.Reader
	out io.Writer
}

func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{r: bufio.NewReader(in), out: out}
}

func (s *ScannerReader) ReadLine(prompt string) (string, error) {
	if s.out != nil && prompt != "" {
		fmt.Fprint(s.out, prompt)
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Console renders menus and reads answers.
type Console struct {
	Out   io.Writer
	In    LineReader
	Theme Theme

	// ClearScreen clears the terminal before each menu render.
	ClearScreen bool

	term *termenv.Output
}

// NewConsole returns a console that never clears the screen.
func NewConsole(in LineReader, out io.Writer, theme Theme) *Console {
	return &Console{Out: out, In: in, Theme: theme}
}

// NewTerminalConsole wires stdin/stdout. When both are terminals, lines are
// read through the interactive editor and the screen is cleared between
// menus; otherwise input is read as plain lines.
func NewTerminalConsole(in, out *os.File, theme Theme) *Console {
	interactive := IsTerminal(in) && IsTerminal(out)
	c := &Console{Out: out, Theme: theme, ClearScreen: interactive}
	if interactive {
		c.In = NewTeaReader(in, out)
	} else {
		c.In = NewScannerReader(in, out)
	}
	return c
}

func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Clear clears the screen when enabled.
func (c *Console) Clear() {
	if !c.ClearScreen {
		return
	}
	c.output().ClearScreen()
}

// SetTitle sets the terminal window title when the console is interactive.
func (c *Console) SetTitle(title string) {
	if !c.ClearScreen {
		return
	}
	c.output().SetWindowTitle(title)
}

func (c *Console) output() *termenv.Output {
	if c.term == nil {
		c.term = termenv.NewOutput(c.Out)
	}
	return c.term
}

// ReadLine shows prompt and reads one line. Leading lines of a multi-line
// prompt are printed directly so the reader only handles the last line.
func (c *Console) ReadLine(prompt string) (string, error) {
	if i := strings.LastIndexByte(prompt, '\n'); i >= 0 {
		fmt.Fprint(c.Out, prompt[:i+1])
		prompt = prompt[i+1:]
	}
	return c.In.ReadLine(prompt)
}

// Select reads a menu choice. End of input maps through EndOfInput.
func (c *Console) Select(prompt string, max int, opts Options) (Selection, error) {
	line, err := c.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return EndOfInput(opts), nil
		}
		return Selection{}, err
	}
	return ParseSelection(line, max, opts), nil
}

// YesNo asks a yes/no question. A blank answer or end of input takes def.
func (c *Console) YesNo(prompt string, def bool) (bool, error) {
	suffix := "(y/N): "
	if def {
		suffix = "(Y/n): "
	}
	line, err := c.ReadLine(prompt + " " + suffix)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return def, nil
		}
		return false, err
	}
	v := strings.ToLower(strings.TrimSpace(line))
	if v == "" {
		return def, nil
	}
	return strings.HasPrefix(v, "y"), nil
}
