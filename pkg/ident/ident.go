// Package ident normalizes the free-text nicknames and group names typed by
// the user into the canonical tokens used inside host aliases.
//
// Aliases are stored as "lowergroup.UPPERNICK": nicknames are upper-cased and
// group names are lower-cased.
package ident

import (
	"errors"
	"strings"
	"unicode"
)

// Delimiter separates the group and nickname parts of an alias.
const Delimiter = "."

// CaseMode selects the case transform applied after validation.
type CaseMode int

const (
	CaseKeep CaseMode = iota
	CaseUpper
	CaseLower
)

var (
	// ErrEmpty is returned when the input is empty after whitespace removal
	// and empty values are not allowed.
	ErrEmpty = errors.New("identifier is empty")

	// ErrInvalidCharacter is returned when the input contains anything other
	// than letters and digits.
	ErrInvalidCharacter = errors.New("identifier must consist of letters and/or numbers")
)

// Normalize removes every whitespace rune from raw (not just the ends),
// validates that the remainder is alphanumeric and applies mode.
func Normalize(raw string, mode CaseMode, allowEmpty bool) (string, error) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if stripped == "" {
		if allowEmpty {
			return "", nil
		}
		return "", ErrEmpty
	}

	for _, r := range stripped {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return "", ErrInvalidCharacter
		}
	}

	switch mode {
	case CaseUpper:
		return strings.ToUpper(stripped), nil
	case CaseLower:
		return strings.ToLower(stripped), nil
	default:
		return stripped, nil
	}
}

// Nickname normalizes a host nickname (required, upper-cased).
func Nickname(raw string) (string, error) {
	return Normalize(raw, CaseUpper, false)
}

// Group normalizes a group name (optional, lower-cased).
func Group(raw string) (string, error) {
	return Normalize(raw, CaseLower, true)
}

// Alias composes "group.nick", or just nick when group is empty.
func Alias(group, nick string) string {
	if group == "" {
		return nick
	}
	return group + Delimiter + nick
}

// SplitAlias splits alias at the first delimiter. ok is false when alias has
// no delimiter, in which case nick is the whole alias.
func SplitAlias(alias string) (group, nick string, ok bool) {
	g, n, found := strings.Cut(alias, Delimiter)
	if !found {
		return "", alias, false
	}
	return g, n, true
}
