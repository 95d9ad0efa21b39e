package hostconfig

import (
	"reflect"
	"testing"
)

func TestCategorizeHosts_PartitionsWithoutLoss(t *testing.T) {
	in := []string{"zeta", "prod.DB2", "Alpha", "PROD.db1", "dev.WEB", "bad-grp.X", ".lead", "trail.", "alpha", "a.b.c"}
	c := CategorizeHosts(in)

	wantMain := []string{".lead", "Alpha", "alpha", "bad-grp.X", "trail.", "zeta"}
	if !reflect.DeepEqual(c.MainHosts, wantMain) {
		t.Fatalf("main: got %v, want %v", c.MainHosts, wantMain)
	}
	wantGroups := map[string][]string{
		"a":    {"a.b.c"},
		"dev":  {"dev.WEB"},
		"prod": {"PROD.db1", "prod.DB2"},
	}
	if !reflect.DeepEqual(c.GroupMap, wantGroups) {
		t.Fatalf("groups: got %v, want %v", c.GroupMap, wantGroups)
	}
	if !reflect.DeepEqual(c.GroupNames, []string{"a", "dev", "prod"}) {
		t.Fatalf("group names: got %v", c.GroupNames)
	}

	seen := map[string]int{}
	for _, a := range c.MainHosts {
		seen[a]++
	}
	for _, members := range c.GroupMap {
		for _, a := range members {
			seen[a]++
		}
	}
	for _, a := range in {
		if seen[a] != 1 {
			t.Fatalf("alias %q placed %d times", a, seen[a])
		}
	}
}

func TestCategorizeHosts_Empty(t *testing.T) {
	c := CategorizeHosts(nil)
	if c.MainHosts == nil || c.GroupMap == nil || c.GroupNames == nil {
		t.Fatalf("expected non-nil empty collections, got %#v", c)
	}
}

func TestGroupOf(t *testing.T) {
	cases := []struct {
		alias string
		group string
		ok    bool
	}{
		{"prod.DB1", "prod", true},
		{"Prod.DB1", "prod", true},
		{"DB1", "", false},
		{"pr-od.DB1", "", false},
		{".DB1", "", false},
		{"prod.", "", false},
	}
	for _, tc := range cases {
		g, ok := GroupOf(tc.alias)
		if g != tc.group || ok != tc.ok {
			t.Fatalf("GroupOf(%q) = %q,%v; want %q,%v", tc.alias, g, ok, tc.group, tc.ok)
		}
	}
}

func TestMatchNickname(t *testing.T) {
	aliases := []string{"prod.DB1", "DB1", "dev.db1x", "qa.db1", "DB10"}
	got := MatchNickname(aliases, "db1")
	want := []string{"prod.DB1", "DB1", "qa.db1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := MatchNickname(aliases, "nope"); len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestHostEntry_GroupAndNickname(t *testing.T) {
	e := HostEntry{Alias: "prod.DB1"}
	if e.Group() != "prod" || e.Nickname() != "DB1" {
		t.Fatalf("got group=%q nick=%q", e.Group(), e.Nickname())
	}
	e = HostEntry{Alias: "DB1"}
	if e.Group() != "" || e.Nickname() != "DB1" {
		t.Fatalf("got group=%q nick=%q", e.Group(), e.Nickname())
	}
}
