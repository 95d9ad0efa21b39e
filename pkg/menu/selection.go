// Package menu implements the numbered, line-oriented menus: selection
// parsing, prompt results, console I/O and the host menu state machine.
package menu

import (
	"strconv"
	"strings"
)

// SelectionKind classifies one line of menu input.
type SelectionKind int

const (
	SelectInvalid SelectionKind = iota
	SelectOK
	SelectBack
	SelectExit
)

func (k SelectionKind) String() string {
	switch k {
	case SelectOK:
		return "ok"
	case SelectBack:
		return "back"
	case SelectExit:
		return "exit"
	default:
		return "invalid"
	}
}

// Selection is the classified input. N is the 1-based choice for SelectOK.
type Selection struct {
	Kind SelectionKind
	N    int
}

// Options controls which navigation tokens a menu accepts.
type Options struct {
	AllowBack bool
	AllowExit bool
}

// ParseSelection classifies line against a menu of max entries. "e" and "b"
// are matched case-insensitively after trimming; a digits-only value in
// 1..max selects an entry. Anything else, including an empty line, is invalid.
func ParseSelection(line string, max int, opts Options) Selection {
	s := strings.TrimSpace(line)
	if opts.AllowExit && strings.EqualFold(s, "e") {
		return Selection{Kind: SelectExit}
	}
	if opts.AllowBack && strings.EqualFold(s, "b") {
		return Selection{Kind: SelectBack}
	}
	if !isDigits(s) {
		return Selection{Kind: SelectInvalid}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > max {
		return Selection{Kind: SelectInvalid}
	}
	return Selection{Kind: SelectOK, N: n}
}

// EndOfInput is the selection taken when input is exhausted: exit when the
// menu allows it, otherwise back, otherwise invalid.
func EndOfInput(opts Options) Selection {
	switch {
	case opts.AllowExit:
		return Selection{Kind: SelectExit}
	case opts.AllowBack:
		return Selection{Kind: SelectBack}
	default:
		return Selection{Kind: SelectInvalid}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
