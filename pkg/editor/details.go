package editor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/menu"
)

// ValueEdit marks an ActionResult asking the caller to edit the host.
const ValueEdit = "edit"

// Recorder receives a one-line activity record per store mutation.
type Recorder interface {
	Record(alias, event string)
}

// Details shows one host and offers edit, back and delete.
type Details struct {
	Store    *hostconfig.Store
	Console  *menu.Console
	Recorder Recorder
}

// Show renders alias and reads the user's choice. Typing DELETE removes the
// host; E finishes with ValueEdit; anything else returns to the list.
func (d *Details) Show(alias string) (menu.ActionResult, error) {
	c := d.Console
	th := c.Theme
	e := d.Store.ReadHostValues(alias)

	c.Clear()
	c.Printf("\n%s\n\n", menu.Banner("HOST DETAILS"))
	c.Printf("Host: %s\n\n\n", th.HostLabel(alias))
	c.Printf("%s", FormatDetails(th, e))

	prompt := fmt.Sprintf("\nType %s to edit or %s to go back to the previous menu.", th.HostText("E"), th.AccentText("B"))
	prompt += fmt.Sprintf("\nOr type %s to remove this host entry: ", th.ErrorText("DELETE"))
	line, err := c.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return menu.ActionResult{}, nil
		}
		return menu.ActionResult{}, err
	}

	switch resp := strings.TrimSpace(line); {
	case strings.ToUpper(resp) == "DELETE":
		if err := d.Store.RemoveHostEntry(alias); err != nil {
			return menu.ActionResult{}, fmt.Errorf("delete %s: %w", alias, err)
		}
		if d.Recorder != nil {
			d.Recorder.Record(alias, "deleted")
		}
		return menu.ActionResult{Message: fmt.Sprintf("Host %s deleted.", strings.ToUpper(alias))}, nil
	case strings.EqualFold(resp, "e"):
		return menu.ActionResult{Done: true, Value: ValueEdit}, nil
	}
	return menu.ActionResult{}, nil
}

// FormatDetails renders the field block of the details view.
func FormatDetails(th menu.Theme, e hostconfig.HostEntry) string {
	port := e.Port
	if port == "" {
		port = "<default>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  Hostname/IP: %s\n", th.AccentText(e.HostName))
	fmt.Fprintf(&b, "  Port: %s\n\n", th.AccentText(port))
	fmt.Fprintf(&b, "%s\n", AlgoLine(th, "Host Key Algorithm", e.HostKeyAlgorithms))
	fmt.Fprintf(&b, "%s\n", AlgoLine(th, "Key Exchange Algorithms", e.KexAlgorithms))
	fmt.Fprintf(&b, "%s\n\n", AlgoLine(th, "MAC Algorithms", e.MACs))
	return b.String()
}
