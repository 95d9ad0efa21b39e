package editor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/menu"
	"vmsmenu/pkg/transport"
)

// App is the interactive host editor: transport picker, add-or-list menu,
// details view and wizard.
type App struct {
	Transports       transport.Set
	DefaultTransport string
	Console          *menu.Console

	// Backup keeps <config>.bak before every rewrite.
	Backup bool

	// Recorder, when set, receives saves and deletes.
	Recorder Recorder

	// OnPick is called with the transport the user chose.
	OnPick func(transport.Transport)
}

// Run drives the editor until the user exits. Only I/O failures are
// returned; cancellations bring the user back to the add-or-list menu.
func (a *App) Run() error {
	t, ok, err := a.Transports.Pick(a.Console, a.DefaultTransport)
	if err != nil || !ok {
		return err
	}
	if a.OnPick != nil {
		a.OnPick(t)
	}
	store, err := t.Store(a.Backup)
	if err != nil {
		return err
	}
	rec := a.recorderFor(t)
	wiz := &Wizard{Store: store, Console: a.Console, Transport: t}

	msg := ""
	for {
		editAlias, proceed, err := a.addOrList(store, t, rec, msg)
		msg = ""
		if err != nil || !proceed {
			return err
		}

		for {
			out, err := wiz.Run(editAlias)
			if err != nil {
				return err
			}
			if out.Status == Cancelled {
				msg = out.Message
				break
			}
			recordSave(rec, out)
			a.Console.Printf("%s\n", out.Message)

			again, err := a.Console.YesNo("Add or edit another host?", false)
			if err != nil {
				return err
			}
			if !again {
				a.Console.Clear()
				return nil
			}
			editAlias = ""
		}
	}
}

// addOrList shows the top-level editor menu. It returns proceed=false when
// the user exits, and a non-empty alias when a host was picked for editing
// from the listing.
func (a *App) addOrList(store *hostconfig.Store, t transport.Transport, rec Recorder, msg string) (string, bool, error) {
	c := a.Console
	th := c.Theme
	for {
		c.Clear()
		c.Printf("\n%s\n\n", menu.Banner("ADD OR LIST HOSTS"))
		c.Printf("1) %s or edit %s\n", th.AccentText("Add"), th.HostText("hosts"))
		c.Printf("2) %s existing %s\n", th.AccentText("List"), th.HostText("hosts"))
		if msg != "" {
			c.Printf("\n%s\n", th.ErrorText(msg))
			msg = ""
		}

		line, err := c.ReadLine(fmt.Sprintf("\nEnter selection (or %s to exit) [%s]: ", th.ErrorText("E"), th.HostText("1")))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", false, nil
			}
			return "", false, err
		}
		switch sel := strings.TrimSpace(line); {
		case sel == "" || sel == "1":
			return "", true, nil
		case sel == "2":
			out, err := a.listHosts(store, rec)
			if err != nil {
				return "", false, err
			}
			switch out.Reason {
			case menu.Completed:
				if out.Value == ValueEdit {
					return out.Alias, true, nil
				}
			case menu.NoHosts:
				msg = out.Message
			}
		case strings.EqualFold(sel, "e"):
			c.Clear()
			return "", false, nil
		default:
			msg = "Invalid selection."
		}
	}
}

func (a *App) listHosts(store *hostconfig.Store, rec Recorder) (menu.Outcome, error) {
	th := a.Console.Theme
	details := &Details{Store: store, Console: a.Console, Recorder: rec}
	m := &menu.Machine{
		Title: "EXISTING HOSTS",
		Subtitle: fmt.Sprintf("Listing hosts in configuration file: %s\n\nSelect a host to view details, or %s to exit back to main menu",
			th.AccentText(store.Path), th.ErrorText("E")),
		Source:   store,
		Location: store.Path,
		Refresh:  true,
		OnHost:   details.Show,
		Console:  a.Console,
	}
	return m.Run()
}

type transportRecorder struct {
	next Recorder
	key  string
}

func (r transportRecorder) Record(alias, event string) {
	r.next.Record(alias, r.key+": "+event)
}

func (a *App) recorderFor(t transport.Transport) Recorder {
	if a.Recorder == nil {
		return nil
	}
	return transportRecorder{next: a.Recorder, key: t.Key}
}

func recordSave(rec Recorder, out Outcome) {
	if rec == nil {
		return
	}
	e := out.Entry
	if out.Renamed != "" {
		rec.Record(out.Renamed, "renamed to "+e.Alias)
	}
	rec.Record(e.Alias, fmt.Sprintf("saved hostname=%s port=%s", e.HostName, e.Port))
}
