package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Persistent client state, stored as JSON under the user's config dir:
//
//   ~/.config/vmsmenu/state.json
//
// On systems honoring XDG, $XDG_CONFIG_HOME is used instead of ~/.config.

const (
	defaultStateFilename = "state.json"

	defaultRecentsLimit = 50
)

// State represents the on-disk JSON structure.
// Keep fields stable for backward compatibility.
type State struct {
	// Version allows future migrations.
	Version int `json:"version,omitempty"`

	// LastTransport is the key of the transport picked last ("ssh" or "telnet").
	LastTransport string `json:"last_transport,omitempty"`

	// Recents stores successful connections as RecentKey values, most
	// recent first.
	Recents []string `json:"recents,omitempty"`

	// Updated tracks the last update time in RFC3339.
	Updated string `json:"updated,omitempty"`
}

// DefaultStatePath returns the full path to the state.json file.
func DefaultStatePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultStateFilename), nil
}

// LoadState reads the state JSON from path. If path is empty, the default path is used.
// If the file does not exist, it returns an empty state and nil error.
func LoadState(path string) (*State, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = DefaultStatePath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{Version: 1}, nil
		}
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	if st.Version == 0 {
		st.Version = 1
	}
	st.ensureUnique()
	return &st, nil
}

// SaveState writes the state JSON to path atomically.
// If path is empty, the default path is used.
// The parent directory is created with 0700 permissions if missing.
func SaveState(path string, st *State) error {
	if st == nil {
		return errors.New("nil state")
	}
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = DefaultStatePath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}

	st2 := *st
	st2.Updated = time.Now().UTC().Format(time.RFC3339)
	st2.ensureUnique()
	payload, err := json.MarshalIndent(st2, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	payload = append(payload, '\n')

	tmp := path + fmt.Sprintf(".tmp-%d-%d", os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write temp state %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename to %s: %w", path, err)
	}
	return nil
}

// RecentKey names one connection target in Recents: "<transport>:<alias>".
func RecentKey(transport, alias string) string {
	return transport + ":" + alias
}

// SplitRecentKey is the inverse of RecentKey.
func SplitRecentKey(key string) (transport, alias string, ok bool) {
	return strings.Cut(key, ":")
}

// SetLastTransport records key. Returns true if the state was modified.
func (s *State) SetLastTransport(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" || key == s.LastTransport {
		return false
	}
	s.LastTransport = key
	return true
}

// AddRecent moves name to the front of Recents (if already present) or inserts it.
// Caps the list to defaultRecentsLimit.
// Returns true if the state was modified.
func (s *State) AddRecent(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if len(s.Recents) > 0 && s.Recents[0] == name {
		return false
	}
	out := make([]string, 0, len(s.Recents)+1)
	out = append(out, name)
	for _, n := range s.Recents {
		if n != name {
			out = append(out, n)
		}
	}
	if len(out) > defaultRecentsLimit {
		out = out[:defaultRecentsLimit]
	}
	s.Recents = out
	return true
}

func (s *State) ensureUnique() {
	seen := make(map[string]struct{}, len(s.Recents))
	out := s.Recents[:0]
	for _, n := range s.Recents {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	s.Recents = out
}
