package hostconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrInvalidAlias is returned when an entry alias is empty or contains
	// whitespace, which would corrupt the Host line.
	ErrInvalidAlias = errors.New("hostconfig: invalid alias")

	// ErrInvalidValue is returned when a field value spans several lines or
	// has leading or trailing whitespace.
	ErrInvalidValue = errors.New("hostconfig: value contains a line break or surrounding whitespace")
)

// Store is a host configuration file. It holds no state besides the path.
type Store struct {
	Path string

	// Backup writes <Path>.bak with the previous content before each rewrite.
	Backup bool
}

// New returns a Store for path with backups enabled.
func New(path string) *Store {
	return &Store{Path: path, Backup: true}
}

// readText returns the file content. Read errors degrade to an empty file.
func (s *Store) readText() (string, bool) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// LoadAliases returns every alias token of every Host line, in file order.
func (s *Store) LoadAliases() []string {
	text, _ := s.readText()
	aliases := []string{}
	for _, raw := range splitLinesKeepEnds(text) {
		if names, ok := hostLineAliases(trimEOL(raw)); ok {
			aliases = append(aliases, names...)
		}
	}
	return aliases
}

// ListGroups returns the sorted, de-duplicated group names present in the
// file, lower-cased.
func (s *Store) ListGroups() []string {
	seen := map[string]struct{}{}
	for _, alias := range s.LoadAliases() {
		g, _, ok := strings.Cut(alias, ".")
		if !ok {
			continue
		}
		g = strings.ToLower(g)
		if groupTokenRE.MatchString(g) {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// FindAliasesForNickname returns aliases matching nick case-insensitively,
// either whole or by member part. See MatchNickname.
func (s *Store) FindAliasesForNickname(nick string) []string {
	return MatchNickname(s.LoadAliases(), nick)
}

// HostEntryExists reports whether alias has an editable block. Matching is
// exact and case-sensitive.
func (s *Store) HostEntryExists(alias string) bool {
	text, _ := s.readText()
	for _, raw := range splitLinesKeepEnds(text) {
		if a, ok := exactHostAlias(trimEOL(raw)); ok && a == alias {
			return true
		}
	}
	return false
}

// ReadHostValues returns the recognized fields of the block for alias. Fields
// that are absent, or the whole block when alias is not editable, read as "".
func (s *Store) ReadHostValues(alias string) HostEntry {
	text, _ := s.readText()
	e, _ := readBlock(text, alias)
	return e
}

// RemoveHostEntry deletes every editable block for alias. It is a no-op when
// the alias or the file is absent.
func (s *Store) RemoveHostEntry(alias string) error {
	text, ok := s.readText()
	if !ok {
		return nil
	}
	out, removed := removeBlocks(text, alias)
	if !removed {
		return nil
	}
	return s.write(out)
}

// AppendHostEntry adds a block for e at the end of the file, separated from
// existing content by a single blank line.
func (s *Store) AppendHostEntry(e HostEntry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	text, _ := s.readText()
	return s.write(appendBlock(text, e))
}

// UpsertHostEntry replaces any block for e.Alias with a freshly rendered one
// at the end of the file, in a single write.
func (s *Store) UpsertHostEntry(e HostEntry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	text, _ := s.readText()
	text, _ = removeBlocks(text, e.Alias)
	return s.write(appendBlock(text, e))
}

// EnsureFile creates the file and its parent directory when missing.
func (s *Store) EnsureFile() error {
	if strings.TrimSpace(s.Path) == "" {
		return errors.New("hostconfig: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create config dir for %s: %w", s.Path, err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create config %s: %w", s.Path, err)
	}
	return f.Close()
}

// appendBlock renders e after text, following the line endings of text.
func appendBlock(text string, e HostEntry) string {
	eol := lineEnding(text)
	return text + blockSeparator(text, eol) + renderBlock(e, eol)
}

func (s *Store) write(content string) error {
	return writeFileAtomic(s.Path, []byte(content), s.Backup)
}

func validateEntry(e HostEntry) error {
	if e.Alias == "" || strings.IndexFunc(e.Alias, isSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidAlias, e.Alias)
	}
	for _, v := range []string{e.HostName, e.Port, e.HostKeyAlgorithms, e.KexAlgorithms, e.MACs} {
		// Values are stored unquoted, so surrounding whitespace would not survive a read.
		if strings.ContainsAny(v, "\r\n") || strings.TrimSpace(v) != v {
			return fmt.Errorf("%w: %q", ErrInvalidValue, v)
		}
	}
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}
