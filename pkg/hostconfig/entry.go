// Package hostconfig reads and rewrites the block-structured host
// configuration files used by the ssh and telnet menus.
//
// A file is an ordered sequence of blocks, each introduced by a "Host" line:
//
//	Host prod.DB1
//	    Hostname 10.0.0.5
//	    Port 5432
//
// Only a Host line declaring exactly one alias starts an editable block. A
// line such as "Host web1 web2" contributes both aliases to listings but is
// never read, replaced or removed as a record.
//
// Nothing is cached: every query re-reads the file, so external edits are
// picked up on the next call.
package hostconfig

import (
	"regexp"
	"sort"
	"strings"

	"vmsmenu/pkg/ident"
)

// HostEntry is one editable configuration block.
type HostEntry struct {
	// Alias is "group.NICK" or "NICK"; unique within one file.
	Alias string

	HostName string

	// Port is kept as text; blank means the protocol default.
	Port string

	// Algorithm overrides (ssh only). A leading "+" appends to the ssh
	// defaults, blank means "use the defaults".
	HostKeyAlgorithms string
	KexAlgorithms     string
	MACs              string
}

// Group returns the group token of the alias, or "" when it has none.
func (e HostEntry) Group() string {
	g, _, _ := ident.SplitAlias(e.Alias)
	return g
}

// Nickname returns the member part of the alias.
func (e HostEntry) Nickname() string {
	_, n, _ := ident.SplitAlias(e.Alias)
	return n
}

var groupTokenRE = regexp.MustCompile(`^[a-z0-9]+$`)

// GroupOf returns the lower-cased group of alias when the alias belongs to a
// menu group: it has a delimiter, both parts are non-empty, and the group
// token is alphanumeric once lower-cased.
func GroupOf(alias string) (string, bool) {
	g, member, ok := ident.SplitAlias(alias)
	if !ok || g == "" || member == "" {
		return "", false
	}
	g = strings.ToLower(g)
	if !groupTokenRE.MatchString(g) {
		return "", false
	}
	return g, true
}

// Categorized is the menu partition of a set of aliases.
type Categorized struct {
	MainHosts  []string
	GroupMap   map[string][]string
	GroupNames []string
}

// CategorizeHosts partitions aliases into ungrouped main hosts and groups.
// Every input alias lands in exactly one list. Lists are sorted
// case-insensitively with ties broken by plain string order.
func CategorizeHosts(aliases []string) Categorized {
	out := Categorized{
		MainHosts: []string{},
		GroupMap:  map[string][]string{},
	}
	for _, alias := range aliases {
		if g, ok := GroupOf(alias); ok {
			out.GroupMap[g] = append(out.GroupMap[g], alias)
			continue
		}
		out.MainHosts = append(out.MainHosts, alias)
	}

	SortFold(out.MainHosts)
	out.GroupNames = make([]string, 0, len(out.GroupMap))
	for g, members := range out.GroupMap {
		SortFold(members)
		out.GroupNames = append(out.GroupNames, g)
	}
	sort.Strings(out.GroupNames)
	return out
}

// SortFold sorts s in place, case-insensitively, ties by string order.
func SortFold(s []string) {
	sort.SliceStable(s, func(i, j int) bool {
		li, lj := strings.ToLower(s[i]), strings.ToLower(s[j])
		if li != lj {
			return li < lj
		}
		return s[i] < s[j]
	})
}

// MatchNickname returns the aliases whose whole value, or whose member part
// after the first delimiter, equals nick case-insensitively. Input order is
// preserved.
func MatchNickname(aliases []string, nick string) []string {
	var out []string
	for _, alias := range aliases {
		if strings.EqualFold(alias, nick) {
			out = append(out, alias)
			continue
		}
		if _, member, ok := ident.SplitAlias(alias); ok && strings.EqualFold(member, nick) {
			out = append(out, alias)
		}
	}
	return out
}
