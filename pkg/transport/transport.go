// Package transport describes the two supported connection methods and the
// menu that picks between them.
package transport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/menu"
)

const (
	KeySSH    = "ssh"
	KeyTelnet = "telnet"
)

// Transport is a connection method with its own host config file.
type Transport struct {
	Key        string
	Label      string
	ConfigFile string

	DefaultPort int

	// Algorithms reports whether hosts carry HostKeyAlgorithms, KexAlgorithms
	// and MACs overrides.
	Algorithms bool
}

func SSH(configFile string) Transport {
	return Transport{Key: KeySSH, Label: "SSH", ConfigFile: configFile, DefaultPort: 22, Algorithms: true}
}

func Telnet(configFile string) Transport {
	return Transport{Key: KeyTelnet, Label: "Telnet", ConfigFile: configFile, DefaultPort: 23}
}

// DefaultConfigFiles returns ~/.ssh/config and ~/.telnet/config.
func DefaultConfigFiles() (sshPath, telnetPath string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), filepath.Join(home, ".telnet", "config"), nil
}

// Store ensures the config file exists and returns a store for it.
func (t Transport) Store(backup bool) (*hostconfig.Store, error) {
	s := hostconfig.New(t.ConfigFile)
	s.Backup = backup
	if err := s.EnsureFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// ErrUnknownTransport is returned by Lookup for keys other than ssh/telnet.
var ErrUnknownTransport = errors.New("unknown transport")

// Set is the pair of configured transports.
type Set struct {
	SSH    Transport
	Telnet Transport
}

// Lookup resolves a transport key case-insensitively.
func (s Set) Lookup(key string) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case KeySSH:
		return s.SSH, nil
	case KeyTelnet:
		return s.Telnet, nil
	}
	return Transport{}, fmt.Errorf("%w: %q", ErrUnknownTransport, key)
}

// Pick shows the connection method menu. A blank answer takes defaultKey
// (ssh when empty). It reports false when the user exits.
func (s Set) Pick(c *menu.Console, defaultKey string) (Transport, bool, error) {
	def, err := s.Lookup(defaultKey)
	if err != nil {
		def = s.SSH
	}
	msg := ""
	for {
		c.Clear()
		c.Printf("\n%s\n\n", menu.Banner("SELECT CONNECTION METHOD"))
		for i, t := range []Transport{s.SSH, s.Telnet} {
			label := c.Theme.HostText(t.Label)
			if t.Key == KeyTelnet {
				label = c.Theme.NoteText(t.Label)
			}
			if t.Key == def.Key {
				label += " (default)"
			}
			c.Printf("%d) %s\n", i+1, label)
		}
		if msg != "" {
			c.Printf("\n%s\n", c.Theme.ErrorText(msg))
			msg = ""
		}

		defNum := "1"
		if def.Key == KeyTelnet {
			defNum = "2"
		}
		line, err := c.ReadLine(fmt.Sprintf("\nEnter number (or %s to exit) [%s]: ",
			c.Theme.ErrorText("E"), c.Theme.HostText(defNum)))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Transport{}, false, nil
			}
			return Transport{}, false, err
		}
		switch sel := strings.TrimSpace(line); {
		case sel == "":
			return def, true, nil
		case sel == "1":
			return s.SSH, true, nil
		case sel == "2":
			return s.Telnet, true, nil
		case strings.EqualFold(sel, "e"):
			c.Clear()
			return Transport{}, false, nil
		default:
			msg = "Invalid selection."
		}
	}
}
