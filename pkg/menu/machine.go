package menu

import (
	"fmt"
	"strings"

	"vmsmenu/pkg/hostconfig"
	"vmsmenu/pkg/ident"
)

// HostSource lists the aliases a menu offers.
type HostSource interface {
	LoadAliases() []string
}

// ActionResult is what a host action reports back to the menu. When Done is
// false the menu is redisplayed with Message.
type ActionResult struct {
	Done    bool
	Value   string
	Message string
}

// HostAction runs when a host is selected. A returned error ends the run.
type HostAction func(alias string) (ActionResult, error)

// Reason tells why a menu run ended.
type Reason int

const (
	Exited Reason = iota
	Completed
	NoHosts
)

func (r Reason) String() string {
	switch r {
	case Completed:
		return "completed"
	case NoHosts:
		return "no-hosts"
	default:
		return "exited"
	}
}

// Outcome is the result of Machine.Run. Alias, Value and Message are set for
// Completed (from the host action) and Message for NoHosts.
type Outcome struct {
	Reason  Reason
	Alias   string
	Value   string
	Message string
}

// Machine is the two-level host menu: a main menu of ungrouped hosts and
// clusters, and one submenu per cluster.
type Machine struct {
	Title    string
	Subtitle string

	Source HostSource

	// Location names the source in the "No hosts found" message.
	Location string

	// Refresh re-reads the source every time a menu is shown. Without it the
	// lists are computed once per Run.
	Refresh bool

	OnHost  HostAction
	Console *Console

	// Message is shown on the first render.
	Message string
}

type groupExit int

const (
	groupBack groupExit = iota
	groupExitAll
	groupDone
)

// Run drives the menus until the user exits, a host action completes, or
// the source has no hosts. Errors come from the console or the host action.
func (m *Machine) Run() (Outcome, error) {
	var cat hostconfig.Categorized
	loaded := false
	msg := m.Message

	for {
		if m.Refresh || !loaded {
			cat = hostconfig.CategorizeHosts(m.Source.LoadAliases())
			loaded = true
			if len(cat.MainHosts) == 0 && len(cat.GroupNames) == 0 {
				return Outcome{Reason: NoHosts, Message: fmt.Sprintf("No hosts found in %s", m.Location)}, nil
			}
		}

		items := mainItems(cat)
		m.Console.RenderMenu(m.Title, m.Subtitle, items, msg)
		msg = ""

		prompt := fmt.Sprintf("\nEnter number (or %s to exit): ", m.Console.Theme.ErrorText("E"))
		sel, err := m.Console.Select(prompt, len(items), Options{AllowExit: true})
		if err != nil {
			return Outcome{}, err
		}
		switch sel.Kind {
		case SelectExit:
			m.Console.Clear()
			return Outcome{Reason: Exited}, nil
		case SelectOK:
		default:
			msg = fmt.Sprintf("Invalid selection, enter a number between 1 and %d or E to exit.", len(items))
			continue
		}

		it := items[sel.N-1]
		if it.Kind == KindHost {
			res, err := m.OnHost(it.Value)
			if err != nil {
				return Outcome{}, err
			}
			if res.Done {
				return Outcome{Reason: Completed, Alias: it.Value, Value: res.Value, Message: res.Message}, nil
			}
			msg = res.Message
			continue
		}

		exit, out, groupMsg, err := m.runGroup(it.Value, cat.GroupMap[it.Value])
		if err != nil {
			return Outcome{}, err
		}
		switch exit {
		case groupDone:
			return out, nil
		case groupExitAll:
			m.Console.Clear()
			return Outcome{Reason: Exited}, nil
		}
		msg = groupMsg
	}
}

// runGroup shows one cluster. members is used as is unless Refresh is set.
func (m *Machine) runGroup(group string, members []string) (groupExit, Outcome, string, error) {
	title := "GROUP"
	subtitle := fmt.Sprintf("%s - select %s:",
		m.Console.Theme.GroupText(strings.ToUpper(group)+" CLUSTER"), m.Console.Theme.HostText("host"))
	msg := ""

	for {
		if m.Refresh {
			members = hostconfig.CategorizeHosts(m.Source.LoadAliases()).GroupMap[group]
		}
		if len(members) == 0 {
			return groupBack, Outcome{}, fmt.Sprintf("No hosts in group %s", strings.ToUpper(group)), nil
		}

		items := make([]Item, 0, len(members))
		for _, alias := range members {
			_, member, _ := ident.SplitAlias(alias)
			items = append(items, Item{Label: strings.ToUpper(member), Value: alias, Kind: KindHost})
		}
		m.Console.RenderMenu(title, subtitle, items, msg)
		msg = ""

		prompt := fmt.Sprintf("\nEnter number (%s to go back or %s to exit): ",
			m.Console.Theme.AccentText("B"), m.Console.Theme.ErrorText("E"))
		sel, err := m.Console.Select(prompt, len(items), Options{AllowBack: true, AllowExit: true})
		if err != nil {
			return groupBack, Outcome{}, "", err
		}
		switch sel.Kind {
		case SelectExit:
			return groupExitAll, Outcome{}, "", nil
		case SelectBack:
			return groupBack, Outcome{}, "", nil
		case SelectInvalid:
			msg = fmt.Sprintf("Invalid selection, enter a number between 1 and %d, B to go back, or E to exit.", len(items))
			continue
		}

		alias := items[sel.N-1].Value
		res, err := m.OnHost(alias)
		if err != nil {
			return groupBack, Outcome{}, "", err
		}
		if res.Done {
			return groupDone, Outcome{Reason: Completed, Alias: alias, Value: res.Value, Message: res.Message}, "", nil
		}
		msg = res.Message
	}
}

func mainItems(cat hostconfig.Categorized) []Item {
	items := make([]Item, 0, len(cat.MainHosts)+len(cat.GroupNames))
	for _, h := range cat.MainHosts {
		items = append(items, Item{Label: strings.ToUpper(h), Value: h, Kind: KindHost})
	}
	for _, g := range cat.GroupNames {
		items = append(items, Item{Label: strings.ToUpper(g), Value: g, Kind: KindGroup})
	}
	return items
}
