package menu

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme provides the menu colors. All helpers are safe to call when theming
// is disabled; they return the input unchanged.
//
// Names accepted by LoadTheme: "" or "auto" (colors when the terminal
// supports them), "classic" (256-color output even when w is not a
// terminal), "none" / "off" / "disabled".
type Theme struct {
	Enabled bool

	Header lipgloss.Style
	Host   lipgloss.Style
	Group  lipgloss.Style
	Accent lipgloss.Style
	Note   lipgloss.Style
	Error  lipgloss.Style
}

// LoadTheme resolves a theme by name for output written to w. NO_COLOR always
// disables styling.
func LoadTheme(name string, w io.Writer) Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return NoTheme()
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off", "disabled":
		return NoTheme()
	case "classic":
		r := lipgloss.NewRenderer(w)
		r.SetColorProfile(termenv.ANSI256)
		return ClassicTheme(r)
	default:
		return AutoTheme(w)
	}
}

// NoTheme disables all styling.
func NoTheme() Theme {
	return Theme{Enabled: false}
}

// AutoTheme enables the classic palette when w looks color-capable.
func AutoTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)
	if r.ColorProfile() == termenv.Ascii {
		return NoTheme()
	}
	return ClassicTheme(r)
}

// ClassicTheme: green hosts, orange clusters, magenta accents, yellow notes,
// red errors.
func ClassicTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Enabled: true,
		Header:  r.NewStyle().Bold(true),
		Host:    r.NewStyle().Foreground(lipgloss.Color("2")),
		Group:   r.NewStyle().Foreground(lipgloss.Color("208")),
		Accent:  r.NewStyle().Foreground(lipgloss.Color("5")),
		Note:    r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (t Theme) HeaderText(s string) string { return t.apply(t.Header, s) }
func (t Theme) HostText(s string) string   { return t.apply(t.Host, s) }
func (t Theme) GroupText(s string) string  { return t.apply(t.Group, s) }
func (t Theme) AccentText(s string) string { return t.apply(t.Accent, s) }
func (t Theme) NoteText(s string) string   { return t.apply(t.Note, s) }
func (t Theme) ErrorText(s string) string  { return t.apply(t.Error, s) }

func (t Theme) apply(st lipgloss.Style, s string) string {
	if !t.Enabled || s == "" {
		return s
	}
	return st.Render(s)
}
