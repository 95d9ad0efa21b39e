package editor

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/ident"
	"vmsmenu/pkg/menu"
)

const notSaved = "Any changes to host were not saved."

// ask reads one trimmed answer. End of input and the "E" token both report
// cancel.
func (w *Wizard) ask(prompt string) (string, bool, error) {
	line, err := w.Console.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", true, nil
		}
		return "", false, err
	}
	s := strings.TrimSpace(line)
	if strings.EqualFold(s, "e") {
		return "", true, nil
	}
	return s, false, nil
}

func (w *Wizard) showError(msg string) {
	w.Console.Printf("%s\n", w.Console.Theme.ErrorText(msg))
}

func nicknameError(err error) string {
	if errors.Is(err, ident.ErrEmpty) {
		return "Nickname is required."
	}
	return "Nicknames must consist of letters and/or numbers."
}

const groupCharsMsg = "Group names must consist of letters and/or numbers."

// promptNickname resolves the alias to work on: an existing alias the user
// confirmed for editing, or a new alias composed from nickname and group.
func (w *Wizard) promptNickname() (menu.Result[string], error) {
	th := w.Console.Theme
	raw, cancel, err := w.ask(fmt.Sprintf("Enter unique %s for the host (or %s to exit): ",
		th.HostText("nickname"), th.ErrorText("E")))
	if err != nil || cancel {
		return menu.Cancel[string](""), err
	}

	nick, nerr := ident.Nickname(raw)
	if nerr != nil {
		return menu.Invalid[string](nicknameError(nerr)), nil
	}

	if matches := w.Store.FindAliasesForNickname(nick); len(matches) > 0 {
		return w.selectExisting(nick, matches)
	}

	group, err := w.promptGroup()
	if err != nil || !group.Ok() {
		return menu.Result[string]{Status: group.Status, Message: group.Message}, err
	}
	return menu.OK(ident.Alias(group.Value, nick)), nil
}

func (w *Wizard) promptGroup() (menu.Result[string], error) {
	th := w.Console.Theme
	yes, err := w.Console.YesNo(fmt.Sprintf("Is this host part of a %s?", th.GroupText("group")), false)
	if err != nil || !yes {
		return menu.OK(""), err
	}
	prompt := fmt.Sprintf("Enter a group name, use only letters and/or numbers (%s to skip, %s to cancel): ",
		th.HostText("Enter"), th.ErrorText("E"))
	for {
		raw, cancel, err := w.ask(prompt)
		if err != nil {
			return menu.Result[string]{}, err
		}
		if cancel {
			return menu.Cancel[string]("Group selection cancelled. " + notSaved), nil
		}
		g, gerr := ident.Group(raw)
		if gerr != nil {
			w.showError(groupCharsMsg)
			continue
		}
		return menu.OK(g), nil
	}
}

// selectExisting lets the user pick one of several aliases sharing nick and
// confirm editing it.
func (w *Wizard) selectExisting(nick string, matches []string) (menu.Result[string], error) {
	th := w.Console.Theme
	resolved := matches[0]
	if len(matches) > 1 {
		w.Console.Printf("\nNickname %s exists in multiple host entries:\n", th.HostText(nick))
		for i, alias := range matches {
			w.Console.Printf("  %d) %s\n", i+1, th.HostText(alias))
		}
		for {
			raw, cancel, err := w.ask(fmt.Sprintf("Select entry to edit (1-%d) or %s to cancel: ",
				len(matches), th.ErrorText("E")))
			if err != nil {
				return menu.Result[string]{}, err
			}
			if cancel {
				return menu.Cancel[string]("Selection cancelled."), nil
			}
			sel := menu.ParseSelection(raw, len(matches), menu.Options{})
			if sel.Kind == menu.SelectOK {
				resolved = matches[sel.N-1]
				break
			}
			w.showError("Enter a valid selection.")
		}
	}

	w.Console.Printf("\nHost %s already exists.\n", th.HostLabel(resolved))
	yes, err := w.Console.YesNo("Edit this host?", true)
	if err != nil {
		return menu.Result[string]{}, err
	}
	if !yes {
		return menu.Invalid[string]("Use a different nickname or confirm edit, each entry must have a unique nickname."), nil
	}
	return menu.OK(resolved), nil
}

// promptAliasChange offers to rename an existing alias. Enter keeps each
// part, "-" drops the group.
func (w *Wizard) promptAliasChange(current string) (menu.Result[string], error) {
	th := w.Console.Theme
	curGroup, curNick, _ := ident.SplitAlias(current)

	w.Console.Printf("\nEditing existing host %s\n", th.HostLabel(current))
	yes, err := w.Console.YesNo("Change nickname or group?", false)
	if err != nil || !yes {
		return menu.OK(current), err
	}

	nick := curNick
	for {
		raw, cancel, err := w.ask(fmt.Sprintf("Enter new nickname [%s] (%s keeps current, %s to cancel): ",
			th.HostText(curNick), th.HostText("Enter"), th.ErrorText("E")))
		if err != nil {
			return menu.Result[string]{}, err
		}
		if cancel {
			return menu.Cancel[string]("Nickname edit cancelled. " + notSaved), nil
		}
		if raw == "" {
			break
		}
		n, nerr := ident.Nickname(raw)
		if nerr == nil {
			nick = n
			break
		}
		w.showError(nicknameError(nerr))
	}

	groupLabel := "none"
	if curGroup != "" {
		groupLabel = strings.ToUpper(curGroup)
	}
	group := curGroup
	for {
		raw, cancel, err := w.ask(fmt.Sprintf("Enter new group name [%s] (%s keeps current, %s removes, %s to cancel): ",
			th.GroupText(groupLabel), th.HostText("Enter"), th.AccentText("-"), th.ErrorText("E")))
		if err != nil {
			return menu.Result[string]{}, err
		}
		if cancel {
			return menu.Cancel[string]("Group edit cancelled. " + notSaved), nil
		}
		if raw == "" {
			break
		}
		if raw == "-" {
			group = ""
			break
		}
		g, gerr := ident.Normalize(raw, ident.CaseLower, false)
		if gerr == nil {
			group = g
			break
		}
		w.showError(groupCharsMsg)
	}
	return menu.OK(ident.Alias(group, nick)), nil
}

func (w *Wizard) promptHostname(current string) (menu.Result[string], error) {
	th := w.Console.Theme
	prompt := "Enter hostname or IP"
	if current != "" {
		prompt += fmt.Sprintf(" [%s]", th.HostText(current))
	}
	prompt += fmt.Sprintf(" (or %s to cancel): ", th.ErrorText("E"))
	for {
		raw, cancel, err := w.ask(prompt)
		if err != nil {
			return menu.Result[string]{}, err
		}
		if cancel {
			return menu.Cancel[string]("Hostname entry cancelled. " + notSaved), nil
		}
		switch {
		case raw != "":
			return menu.OK(raw), nil
		case current != "":
			return menu.OK(current), nil
		}
		w.showError("Hostname/IP is required.")
	}
}

// promptPort keeps the current value on a blank answer; blank means the
// protocol default.
func (w *Wizard) promptPort(current string) (menu.Result[string], error) {
	th := w.Console.Theme
	shown := current
	if shown == "" {
		shown = strconv.Itoa(w.Transport.DefaultPort)
	}
	for {
		raw, cancel, err := w.ask(fmt.Sprintf("Enter port [%s] (or %s to cancel): ", th.HostText(shown), th.ErrorText("E")))
		if err != nil {
			return menu.Result[string]{}, err
		}
		if cancel {
			return menu.Cancel[string]("Port entry cancelled. " + notSaved), nil
		}
		if raw == "" {
			return menu.OK(current), nil
		}
		if ValidPort(raw) {
			return menu.OK(raw), nil
		}
		w.showError("Port must be a number between 1 and 65535.")
	}
}

// ValidPort reports whether s is a decimal port in 1..65535.
func ValidPort(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 65535
}

type algorithms struct {
	hostKey, kex, macs string
}

// promptAlgorithms edits the three ssh overrides. Letters H, K and M pick
// which ones to change.
func (w *Wizard) promptAlgorithms(alias string, cur algorithms) (menu.Result[algorithms], error) {
	th := w.Console.Theme
	var picked string
	for {
		prompt := fmt.Sprintf("Configure algorithms -- %s)ostKeyAlgorithms, %s)exAlgorithms, %s)ACs\n",
			th.NoteText("H"), th.NoteText("K"), th.NoteText("M"))
		prompt += fmt.Sprintf("Press %s to keep current algorithm settings (%s to cancel, %s to list current settings): ",
			th.HostText("Enter"), th.ErrorText("E"), th.AccentText("?"))
		raw, cancel, err := w.ask(prompt)
		if err != nil {
			return menu.Result[algorithms]{}, err
		}
		if cancel {
			return menu.Cancel[algorithms]("Algorithm configuration cancelled. " + notSaved), nil
		}
		if raw == "?" {
			w.Console.Printf("\nCurrent algorithm settings for host %s:\n", th.HostText(alias))
			w.Console.Printf("%s\n%s\n%s\n",
				AlgoLine(th, "HostKeyAlgorithms", cur.hostKey),
				AlgoLine(th, "KexAlgorithms", cur.kex),
				AlgoLine(th, "MACs", cur.macs))
			if _, err := w.Console.ReadLine(fmt.Sprintf("\nPress %s to continue...", th.HostText("Enter"))); err != nil && !errors.Is(err, io.EOF) {
				return menu.Result[algorithms]{}, err
			}
			w.Console.Println()
			continue
		}
		if raw == "" {
			return menu.OK(cur), nil
		}
		picked = strings.Map(func(r rune) rune {
			if strings.ContainsRune("HKM", r) {
				return r
			}
			return -1
		}, strings.ToUpper(raw))
		if picked != "" {
			break
		}
		w.showError("Enter a combination of H, K, or M.")
	}

	out := cur
	for _, f := range []struct {
		letter string
		label  string
		value  *string
	}{
		{"H", "HostKeyAlgorithms", &out.hostKey},
		{"K", "KexAlgorithms", &out.kex},
		{"M", "MACs", &out.macs},
	} {
		if !strings.Contains(picked, f.letter) {
			continue
		}
		prompt := f.label
		if *f.value != "" {
			prompt += " [" + *f.value + "]"
		}
		prompt += " (blank keeps current, '-' removes): "
		raw, cancel, err := w.ask(prompt)
		if err != nil {
			return menu.Result[algorithms]{}, err
		}
		if cancel {
			return menu.Cancel[algorithms]("Algorithm configuration cancelled. " + notSaved), nil
		}
		*f.value = applyAlgorithmEdit(*f.value, raw)
	}
	return menu.OK(out), nil
}

// applyAlgorithmEdit: blank keeps, "-" clears, anything else is appended to
// the ssh default list.
func applyAlgorithmEdit(current, raw string) string {
	switch raw {
	case "":
		return current
	case "-":
		return ""
	}
	return "+" + strings.TrimLeft(raw, "+")
}

// AlgoLine renders one override for display, "<default>" when unset.
func AlgoLine(th menu.Theme, label, value string) string {
	if value == "" {
		return fmt.Sprintf("  %s: %s", label, th.GroupText("<default>"))
	}
	return fmt.Sprintf("  %s: %s", label, th.AccentText(value))
}

func entryFor(alias, host, port string, a algorithms) hostconfig.HostEntry {
	return hostconfig.HostEntry{
		Alias:             alias,
		HostName:          host,
		Port:              port,
		HostKeyAlgorithms: a.hostKey,
		KexAlgorithms:     a.kex,
		MACs:              a.macs,
	}
}
