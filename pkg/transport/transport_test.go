package transport

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vmsmenu/pkg/menu"
)

func testSet(dir string) Set {
	return Set{
		SSH:    SSH(filepath.Join(dir, ".ssh", "config")),
		Telnet: Telnet(filepath.Join(dir, ".telnet", "config")),
	}
}

func pick(t *testing.T, input, def string) (Transport, bool, string) {
	t.Helper()
	var out bytes.Buffer
	c := menu.NewConsole(menu.NewScannerReader(strings.NewReader(input), &out), &out, menu.NoTheme())
	tr, ok, err := testSet(t.TempDir()).Pick(c, def)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	return tr, ok, out.String()
}

func TestPick_DefaultsAndChoices(t *testing.T) {
	cases := []struct {
		input string
		def   string
		key   string
		ok    bool
	}{
		{"\n", "", KeySSH, true},
		{"\n", "telnet", KeyTelnet, true},
		{"1\n", "telnet", KeySSH, true},
		{"2\n", "", KeyTelnet, true},
		{"e\n", "", "", false},
		{"", "", "", false},
		{"x\n2\n", "", KeyTelnet, true},
	}
	for _, tc := range cases {
		tr, ok, _ := pick(t, tc.input, tc.def)
		if ok != tc.ok || tr.Key != tc.key {
			t.Fatalf("Pick(%q, %q) = %q,%v; want %q,%v", tc.input, tc.def, tr.Key, ok, tc.key, tc.ok)
		}
	}
}

func TestPick_MarksDefaultAndInvalid(t *testing.T) {
	_, _, out := pick(t, "zz\n\n", "telnet")
	if !strings.Contains(out, "2) Telnet (default)") {
		t.Fatalf("expected telnet marked default:\n%s", out)
	}
	if !strings.Contains(out, "Invalid selection.") {
		t.Fatalf("expected invalid message:\n%s", out)
	}
}

func TestLookup(t *testing.T) {
	s := testSet(t.TempDir())
	if tr, err := s.Lookup(" SSH "); err != nil || tr.DefaultPort != 22 || !tr.Algorithms {
		t.Fatalf("ssh lookup: %+v, %v", tr, err)
	}
	if tr, err := s.Lookup("telnet"); err != nil || tr.DefaultPort != 23 || tr.Algorithms {
		t.Fatalf("telnet lookup: %+v, %v", tr, err)
	}
	if _, err := s.Lookup("rlogin"); !errors.Is(err, ErrUnknownTransport) {
		t.Fatalf("expected ErrUnknownTransport, got %v", err)
	}
}

func TestStore_CreatesConfigFile(t *testing.T) {
	s := testSet(t.TempDir())
	st, err := s.Telnet.Store(true)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := os.Stat(s.Telnet.ConfigFile); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if st.Path != s.Telnet.ConfigFile || !st.Backup {
		t.Fatalf("unexpected store %+v", st)
	}
}
