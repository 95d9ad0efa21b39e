package menu

import (
	"fmt"
	"strings"

	"vmsmenu/pkg/ident"
)

// ItemKind tells hosts from groups in a menu listing.
type ItemKind int

const (
	KindHost ItemKind = iota
	KindGroup
)

// Item is one numbered menu entry. Value is the alias or group key.
type Item struct {
	Label string
	Value string
	Kind  ItemKind
}

const bannerWidth = 54

// Banner centers title in a dashed rule.
func Banner(title string) string {
	pad := bannerWidth - len(title)
	if pad < 8 {
		pad = 8
	}
	left := pad / 2
	return strings.Repeat("-", left) + title + strings.Repeat("-", pad-left)
}

// RenderMenu clears the screen and draws a numbered menu with an optional
// subtitle and message.
func (c *Console) RenderMenu(title, subtitle string, items []Item, message string) {
	c.Clear()
	c.Printf("\n%s\n\n", Banner(title))
	if subtitle != "" {
		c.Printf("%s\n\n", subtitle)
	}
	for i, it := range items {
		label := c.Theme.HostText(it.Label)
		if it.Kind == KindGroup {
			label = c.Theme.GroupText(it.Label + " CLUSTER")
		}
		c.Printf("%d) %s\n", i+1, label)
	}
	if message != "" {
		c.Printf("\n%s\n", c.Theme.ErrorText(message))
	}
}

// HostLabel renders an alias as "GROUP MEMBER" (group colored) or "ALIAS".
func (t Theme) HostLabel(alias string) string {
	g, member, ok := ident.SplitAlias(alias)
	if !ok {
		return t.HostText(strings.ToUpper(alias))
	}
	return fmt.Sprintf("%s %s", t.GroupText(strings.ToUpper(g)), t.HostText(strings.ToUpper(member)))
}
