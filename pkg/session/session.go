// Package session connects to a selected host: it asks for a login name
// (ssh), checks that the target accepts TCP connections, and hands the
// terminal to the system ssh or telnet client.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/menu"
	"vmsmenu/pkg/transport"
)

// Return codes of a connection attempt. Values other than these are the
// client's own exit status.
const (
	RCSuccess          = 0
	RCFailed           = 1
	RCUsernameRequired = 2
	RCNoHostname       = 3
	RCTimeout          = 124
	RCCancelled        = 130
	RCLookupFailure    = 255
)

const (
	DefaultTimeout = 10 * time.Second

	// IdleTitle is the window title outside of a session.
	IdleTitle = "VMS MENU"
)

// Recorder receives one activity line per connection attempt.
type Recorder interface {
	Record(alias, event string)
}

// Launcher runs argv attached to the user's terminal and returns its exit
// status. A non-nil error means the program could not be started.
type Launcher func(argv []string) (int, error)

// Connector is the connect-mode host action.
type Connector struct {
	Transport transport.Transport
	Store     *hostconfig.Store
	Console   *menu.Console

	// Timeout bounds the TCP pre-flight and is passed to ssh as ConnectTimeout.
	Timeout time.Duration

	// Command overrides the client executable.
	Command string

	// Launch defaults to RunInteractive.
	Launch Launcher

	Recorder Recorder

	// OnConnected is called after a session that exited with status 0.
	OnConnected func(alias string)
}

// Connect runs one connection attempt for alias. A session that exits with
// status 0 ends the menu; any other outcome returns the message to show when
// the menu is redisplayed.
func (c *Connector) Connect(alias string) (menu.ActionResult, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		rc  int
		err error
	)
	switch c.Transport.Key {
	case transport.KeyTelnet:
		rc, err = c.telnet(ctx, alias)
	default:
		rc, err = c.ssh(ctx, alias)
	}
	if err != nil {
		return menu.ActionResult{}, err
	}

	c.record(alias, rc)
	if rc == RCSuccess && c.OnConnected != nil {
		c.OnConnected(alias)
	}
	return menu.ActionResult{
		Done:    rc == RCSuccess,
		Message: Message(c.Console.Theme, rc, alias, c.Transport.Key, c.timeout()),
	}, nil
}

func (c *Connector) ssh(ctx context.Context, alias string) (int, error) {
	th := c.Console.Theme
	user, err := c.Console.ReadLine(th.AccentText("login") + " as: ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RCCancelled, nil
		}
		return 0, err
	}
	user = strings.TrimSpace(user)
	if user == "" {
		return RCUsernameRequired, nil
	}

	c.Console.Clear()
	c.Console.Printf("Connecting to %s as %s...\n", th.HostLabel(alias), th.AccentText(user))
	c.Console.SetTitle(user + "@" + alias)
	defer c.Console.SetTitle(IdleTitle)

	// Without a Hostname the alias is left for ssh to resolve.
	e := c.Store.ReadHostValues(alias)
	if e.HostName != "" {
		if rc := c.preflight(ctx, e.HostName, parsePort(e.Port, c.Transport.DefaultPort)); rc != RCSuccess {
			return rc, nil
		}
	}

	secs := int(c.timeout() / time.Second)
	argv := []string{
		Executable("ssh", c.Command),
		"-o", fmt.Sprintf("ConnectTimeout=%d", secs),
		user + "@" + alias,
	}
	return c.launch(argv)
}

func (c *Connector) telnet(ctx context.Context, alias string) (int, error) {
	e := c.Store.ReadHostValues(alias)
	if e.HostName == "" {
		return RCNoHostname, nil
	}
	th := c.Console.Theme

	c.Console.Clear()
	c.Console.Printf("Connecting to %s via telnet...\n", th.HostLabel(alias))
	c.Console.SetTitle("telnet:" + alias)
	defer c.Console.SetTitle(IdleTitle)

	if rc := c.preflight(ctx, e.HostName, parsePort(e.Port, c.Transport.DefaultPort)); rc != RCSuccess {
		return rc, nil
	}

	port := e.Port
	if port == "" {
		port = strconv.Itoa(c.Transport.DefaultPort)
	}
	return c.launch([]string{Executable("telnet", c.Command), e.HostName, port})
}

func (c *Connector) preflight(ctx context.Context, host string, port int) int {
	th := c.Console.Theme
	target := th.HostText(host) + ":" + th.AccentText(strconv.Itoa(port))
	rc := Preflight(ctx, host, port, c.timeout(), func(remaining int) {
		c.Console.Printf("\rAttempting to connect to %s... timeout in %2ds", target, remaining)
	})
	if rc == RCSuccess {
		c.Console.Printf("\rConnecting...%s\n", strings.Repeat(" ", 27))
		return rc
	}
	c.Console.Println()
	return rc
}

func (c *Connector) launch(argv []string) (int, error) {
	launch := c.Launch
	if launch == nil {
		launch = RunInteractive
	}
	rc, err := launch(argv)
	if err != nil {
		// The client is missing or not executable; treat it as a failed attempt.
		c.Console.Println(c.Console.Theme.ErrorText(fmt.Sprintf("%s: %v", argv[0], err)))
		return RCFailed, nil
	}
	return rc, nil
}

func (c *Connector) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Connector) record(alias string, rc int) {
	if c.Recorder == nil {
		return
	}
	event := "connected"
	if rc != RCSuccess {
		event = "connection ended rc=" + strconv.Itoa(rc)
	}
	c.Recorder.Record(alias, c.Transport.Key+": "+event)
}

func parsePort(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// Message maps a connection return code to the menu message. Success maps
// to "".
func Message(th menu.Theme, rc int, alias, key string, timeout time.Duration) string {
	switch {
	case rc == RCSuccess:
		return ""
	case rc == RCCancelled:
		return "Cancelled connection attempt"
	case rc == RCTimeout:
		return fmt.Sprintf("Connection timed out after %ds", int(timeout/time.Second))
	case rc == RCLookupFailure:
		return "Could not resolve hostname for " + th.HostText(alias)
	case key == transport.KeySSH && rc == RCUsernameRequired:
		return "Error: username required"
	case key == transport.KeyTelnet && rc == RCNoHostname:
		return "No telnet hostname/IP configured for " + th.HostText(alias) + "\n" +
			th.NoteText("Note") + ": the telnet config file should end with an empty line."
	}
	return fmt.Sprintf("Connection to %s failed - returned to menu", alias)
}
