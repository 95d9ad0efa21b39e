package session

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/menu"
	"vmsmenu/pkg/transport"
)

type memRecorder struct{ events []string }

func (r *memRecorder) Record(alias, event string) {
	r.events = append(r.events, alias+" "+event)
}

type fixture struct {
	c        *Connector
	out      *bytes.Buffer
	rec      *memRecorder
	argv     []string
	launches int
	done     []string
}

func newConnector(t *testing.T, tr transport.Transport, content, input string, rc int) *fixture {
	t.Helper()
	if content != "" {
		if err := os.WriteFile(tr.ConfigFile, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	out := &bytes.Buffer{}
	f := &fixture{out: out, rec: &memRecorder{}}
	f.c = &Connector{
		Transport: tr,
		Store:     hostconfig.New(tr.ConfigFile),
		Console:   menu.NewConsole(menu.NewScannerReader(strings.NewReader(input), out), out, menu.NoTheme()),
		Timeout:   2 * time.Second,
		Recorder:  f.rec,
		Launch: func(argv []string) (int, error) {
			f.launches++
			f.argv = argv
			return rc, nil
		},
		OnConnected: func(alias string) { f.done = append(f.done, alias) },
	}
	return f
}

func listen(t *testing.T) (host, port string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()
	h, p, _ := net.SplitHostPort(ln.Addr().String())
	return h, p
}

func closedPort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, p, _ := net.SplitHostPort(ln.Addr().String())
	_ = ln.Close()
	return p
}

func TestConnector_SSHSuccess(t *testing.T) {
	host, port := listen(t)
	tr := transport.SSH(filepath.Join(t.TempDir(), "config"))
	f := newConnector(t, tr, "Host prod.WEB1\n    Hostname "+host+"\n    Port "+port+"\n", "bob\n", 0)

	res, err := f.c.Connect("prod.WEB1")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !res.Done || res.Message != "" {
		t.Fatalf("expected a successful session to end the menu, got %+v", res)
	}
	want := []string{"ssh", "-o", "ConnectTimeout=2", "bob@prod.WEB1"}
	if !reflect.DeepEqual(f.argv, want) {
		t.Fatalf("argv: got %q, want %q", f.argv, want)
	}
	out := f.out.String()
	if !strings.Contains(out, "Connecting to PROD WEB1 as bob...") || !strings.Contains(out, "Connecting...") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !reflect.DeepEqual(f.done, []string{"prod.WEB1"}) {
		t.Fatalf("expected OnConnected, got %v", f.done)
	}
	if !reflect.DeepEqual(f.rec.events, []string{"prod.WEB1 ssh: connected"}) {
		t.Fatalf("events: %v", f.rec.events)
	}
}

func TestConnector_SSHWithoutHostnameSkipsPreflight(t *testing.T) {
	tr := transport.SSH(filepath.Join(t.TempDir(), "config"))
	f := newConnector(t, tr, "Host JUMP\n", "  alice  \n", 255)

	res, err := f.c.Connect("JUMP")
	if err != nil {
		t.Fatal(err)
	}
	if f.launches != 1 || f.argv[3] != "alice@JUMP" {
		t.Fatalf("expected ssh launch for alice@JUMP, got %q", f.argv)
	}
	if strings.Contains(f.out.String(), "Attempting to connect") {
		t.Fatalf("no pre-flight expected without a Hostname")
	}
	if res.Message != "Could not resolve hostname for JUMP" {
		t.Fatalf("got %q", res.Message)
	}
	if len(f.done) != 0 {
		t.Fatalf("OnConnected must not run on failure")
	}
}

func TestConnector_SSHUsernameRequired(t *testing.T) {
	tr := transport.SSH(filepath.Join(t.TempDir(), "config"))
	for _, input := range []string{"\n", ""} {
		f := newConnector(t, tr, "Host A\n", input, 0)
		res, err := f.c.Connect("A")
		if err != nil {
			t.Fatal(err)
		}
		want := "Error: username required"
		if input == "" {
			want = "Cancelled connection attempt"
		}
		if res.Message != want || f.launches != 0 {
			t.Fatalf("input %q: got %q (launches %d)", input, res.Message, f.launches)
		}
	}
}

func TestConnector_PreflightRefused(t *testing.T) {
	tr := transport.SSH(filepath.Join(t.TempDir(), "config"))
	f := newConnector(t, tr, "Host A\n    Hostname 127.0.0.1\n    Port "+closedPort(t)+"\n", "bob\n", 0)

	res, err := f.c.Connect("A")
	if err != nil {
		t.Fatal(err)
	}
	if f.launches != 0 {
		t.Fatalf("client must not start after a failed pre-flight")
	}
	if res.Message != "Connection to A failed - returned to menu" {
		t.Fatalf("got %q", res.Message)
	}
	if !reflect.DeepEqual(f.rec.events, []string{"A ssh: connection ended rc=1"}) {
		t.Fatalf("events: %v", f.rec.events)
	}
}

func TestConnector_Telnet(t *testing.T) {
	host, port := listen(t)
	tr := transport.Telnet(filepath.Join(t.TempDir(), "config"))
	f := newConnector(t, tr, "Host SW1\n    Hostname "+host+"\n    Port "+port+"\nHost SW2\n", "", 0)

	res, err := f.c.Connect("SW1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Message != "" || !reflect.DeepEqual(f.argv, []string{"telnet", host, port}) {
		t.Fatalf("got %q argv %q", res.Message, f.argv)
	}
	if !strings.Contains(f.out.String(), "Connecting to SW1 via telnet...") {
		t.Fatalf("unexpected output:\n%s", f.out.String())
	}

	res, err = f.c.Connect("SW2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Message, "No telnet hostname/IP configured for SW2\n") {
		t.Fatalf("got %q", res.Message)
	}
	if f.launches != 1 {
		t.Fatalf("expected one launch, got %d", f.launches)
	}
}

func TestConnector_MenuEndsAfterSuccessfulSession(t *testing.T) {
	host, port := listen(t)
	tr := transport.Telnet(filepath.Join(t.TempDir(), "config"))
	f := newConnector(t, tr, "Host lab.SW1\n    Hostname "+host+"\n    Port "+port+"\n", "1\n1\ne\n", 0)

	m := &menu.Machine{Title: "VMS TELNET", Source: f.c.Store, Location: tr.ConfigFile, OnHost: f.c.Connect, Console: f.c.Console}
	out, err := m.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Reason != menu.Completed || out.Alias != "lab.SW1" {
		t.Fatalf("expected completed outcome for lab.SW1, got %+v", out)
	}
	if f.launches != 1 {
		t.Fatalf("expected one launch, got %d", f.launches)
	}
}

func TestConnector_MenuRedisplaysAfterFailure(t *testing.T) {
	tr := transport.Telnet(filepath.Join(t.TempDir(), "config"))
	f := newConnector(t, tr, "Host SW1\n    Hostname 127.0.0.1\n    Port "+closedPort(t)+"\n", "1\ne\n", 0)

	m := &menu.Machine{Title: "VMS TELNET", Source: f.c.Store, Location: tr.ConfigFile, OnHost: f.c.Connect, Console: f.c.Console}
	out, err := m.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Reason != menu.Exited || f.launches != 0 {
		t.Fatalf("expected exit after a failed attempt, got %+v (launches %d)", out, f.launches)
	}
	if !strings.Contains(f.out.String(), "Connection to SW1 failed - returned to menu") {
		t.Fatalf("expected failure message in output:\n%s", f.out.String())
	}
}

func TestPreflight(t *testing.T) {
	host, port := listen(t)
	p, _ := strconv.Atoi(port)

	var ticks []int
	if rc := Preflight(context.Background(), host, p, 3*time.Second, func(r int) { ticks = append(ticks, r) }); rc != RCSuccess {
		t.Fatalf("expected success, got %d", rc)
	}
	if len(ticks) == 0 || ticks[0] != 3 {
		t.Fatalf("expected first tick 3, got %v", ticks)
	}

	cp, _ := strconv.Atoi(closedPort(t))
	if rc := Preflight(context.Background(), "127.0.0.1", cp, time.Second, nil); rc != RCFailed {
		t.Fatalf("expected RCFailed, got %d", rc)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if rc := Preflight(ctx, "127.0.0.1", p, time.Second, nil); rc != RCCancelled {
		t.Fatalf("expected RCCancelled, got %d", rc)
	}
}

func TestPreflight_LookupFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("resolver access")
	}
	if rc := Preflight(context.Background(), "no-such-host.invalid", 22, time.Second, nil); rc != RCLookupFailure {
		t.Fatalf("expected RCLookupFailure, got %d", rc)
	}
}

func TestMessage(t *testing.T) {
	th := menu.NoTheme()
	cases := []struct {
		rc   int
		key  string
		want string
	}{
		{RCSuccess, transport.KeySSH, ""},
		{RCCancelled, transport.KeySSH, "Cancelled connection attempt"},
		{RCTimeout, transport.KeyTelnet, "Connection timed out after 10s"},
		{RCLookupFailure, transport.KeySSH, "Could not resolve hostname for X"},
		{RCUsernameRequired, transport.KeySSH, "Error: username required"},
		{RCUsernameRequired, transport.KeyTelnet, "Connection to X failed - returned to menu"},
		{RCNoHostname, transport.KeySSH, "Connection to X failed - returned to menu"},
		{42, transport.KeySSH, "Connection to X failed - returned to menu"},
	}
	for _, tc := range cases {
		if got := Message(th, tc.rc, "X", tc.key, DefaultTimeout); got != tc.want {
			t.Fatalf("rc %d %s: got %q, want %q", tc.rc, tc.key, got, tc.want)
		}
	}
	if got := Message(th, RCNoHostname, "X", transport.KeyTelnet, DefaultTimeout); !strings.Contains(got, "Note: ") {
		t.Fatalf("expected a note line, got %q", got)
	}
}

func TestExecutable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MSYS2_USR_BIN", dir)
	if got := Executable("ssh", ""); got != "ssh" {
		t.Fatalf("expected PATH lookup name, got %q", got)
	}
	exe := filepath.Join(dir, "ssh.exe")
	if err := os.WriteFile(exe, nil, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := Executable("ssh", ""); got != exe {
		t.Fatalf("got %q, want %q", got, exe)
	}
	if got := Executable("ssh", " /usr/local/bin/ssh "); got != "/usr/local/bin/ssh" {
		t.Fatalf("override: got %q", got)
	}
}

func TestConnector_LaunchErrorIsFailure(t *testing.T) {
	tr := transport.SSH(filepath.Join(t.TempDir(), "config"))
	f := newConnector(t, tr, "Host A\n", "bob\n", 0)
	f.c.Launch = func([]string) (int, error) { return -1, os.ErrNotExist }
	res, err := f.c.Connect("A")
	if err != nil {
		t.Fatal(err)
	}
	if res.Message != "Connection to A failed - returned to menu" {
		t.Fatalf("got %q", res.Message)
	}
}
