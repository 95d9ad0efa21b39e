// Package editor implements the interactive host editor: the add/edit
// wizard, the host details view and the add-or-list application loop.
package editor

import (
	"fmt"
	"strings"

	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/menu"
	"vmsmenu/pkg/transport"
)

// Status is the terminal state of one wizard run.
type Status int

const (
	Cancelled Status = iota
	Saved
)

func (s Status) String() string {
	if s == Saved {
		return "saved"
	}
	return "cancelled"
}

// Outcome reports what a wizard run did. Entry is set when Saved; Renamed
// holds the previous alias when an edit changed it.
type Outcome struct {
	Status  Status
	Entry   hostconfig.HostEntry
	Renamed string
	Message string
}

// Wizard walks the user through adding or editing one host. Nothing is
// written until every step has been answered.
type Wizard struct {
	Store     *hostconfig.Store
	Console   *menu.Console
	Transport transport.Transport
}

// Run executes the wizard. When editAlias is set the nickname step is
// skipped and that alias is edited directly.
func (w *Wizard) Run(editAlias string) (Outcome, error) {
	alias := editAlias
	if alias == "" {
		res, err := w.resolveAlias()
		if err != nil || !res.Ok() {
			return Outcome{Status: Cancelled, Message: res.Message}, err
		}
		alias = res.Value
	}

	var (
		original string
		current  hostconfig.HostEntry
	)
	if w.Store.HostEntryExists(alias) {
		original = alias
		current = w.Store.ReadHostValues(alias)
		res, err := w.promptAliasChange(alias)
		if err != nil || !res.Ok() {
			return Outcome{Status: Cancelled, Message: res.Message}, err
		}
		alias = res.Value
	}

	host, err := w.promptHostname(current.HostName)
	if err != nil || !host.Ok() {
		return Outcome{Status: Cancelled, Message: host.Message}, err
	}
	port, err := w.promptPort(current.Port)
	if err != nil || !port.Ok() {
		return Outcome{Status: Cancelled, Message: port.Message}, err
	}

	algos := algorithms{hostKey: current.HostKeyAlgorithms, kex: current.KexAlgorithms, macs: current.MACs}
	if w.Transport.Algorithms {
		res, err := w.promptAlgorithms(alias, algos)
		if err != nil || !res.Ok() {
			return Outcome{Status: Cancelled, Message: res.Message}, err
		}
		algos = res.Value
	}

	entry := entryFor(alias, host.Value, port.Value, algos)
	out := Outcome{Status: Saved, Entry: entry}
	if original != "" && original != alias {
		if err := w.Store.RemoveHostEntry(original); err != nil {
			return Outcome{}, fmt.Errorf("remove %s: %w", original, err)
		}
		out.Renamed = original
	}
	if err := w.Store.UpsertHostEntry(entry); err != nil {
		return Outcome{}, fmt.Errorf("save %s: %w", alias, err)
	}
	out.Message = w.savedMessage(entry)
	return out, nil
}

// resolveAlias repeats the nickname step until it yields an alias or is
// cancelled.
func (w *Wizard) resolveAlias() (menu.Result[string], error) {
	msg := ""
	for {
		w.renderHeader(msg)
		res, err := w.promptNickname()
		if err != nil {
			return menu.Result[string]{}, err
		}
		if res.Status == menu.StatusInvalid {
			msg = res.Message
			continue
		}
		return res, nil
	}
}

func (w *Wizard) renderHeader(msg string) {
	c := w.Console
	c.Clear()
	c.Printf("\n%s\n\n\n", menu.Banner("ADD HOST MENU"))
	if groups := w.Store.ListGroups(); len(groups) > 0 {
		c.Printf("Existing groups: %s\n\n", c.Theme.GroupText(strings.ToUpper(strings.Join(groups, ", "))))
	}
	c.Printf("Editing %s configuration file: %s\n\n", w.Transport.Label, c.Theme.AccentText(w.Store.Path))
	if msg != "" {
		c.Printf("%s\n\n", c.Theme.ErrorText(msg))
	}
}

func (w *Wizard) savedMessage(e hostconfig.HostEntry) string {
	th := w.Console.Theme
	port := e.Port
	if port == "" {
		port = fmt.Sprintf("%d", w.Transport.DefaultPort)
	}
	return fmt.Sprintf("Saved host %s (%s:%s) to %s",
		th.HostLabel(e.Alias), th.HostText(e.HostName), th.AccentText(port), th.AccentText(w.Store.Path))
}
