package manager

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestState_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	st := &State{Version: 1}
	st.SetLastTransport("telnet")
	st.AddRecent(RecentKey("ssh", "prod.DB1"))
	st.AddRecent(RecentKey("telnet", "SW1"))

	if err := SaveState(path, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.LastTransport != "telnet" {
		t.Fatalf("expected last transport telnet, got %q", got.LastTransport)
	}
	want := []string{"telnet:SW1", "ssh:prod.DB1"}
	if !reflect.DeepEqual(got.Recents, want) {
		t.Fatalf("recents: got %v, want %v", got.Recents, want)
	}
	if got.Updated == "" {
		t.Fatalf("expected Updated to be set")
	}
}

func TestLoadState_MissingFile(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Version != 1 || len(st.Recents) != 0 || st.LastTransport != "" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestLoadState_DefaultPathHonorsXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	p, err := DefaultStatePath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(xdg, "vmsmenu", "state.json") {
		t.Fatalf("unexpected default state path %q", p)
	}
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestState_AddRecentMovesToFront(t *testing.T) {
	st := &State{Recents: []string{"a", "b", "c"}}
	if !st.AddRecent("c") {
		t.Fatalf("expected change")
	}
	if !reflect.DeepEqual(st.Recents, []string{"c", "a", "b"}) {
		t.Fatalf("got %v", st.Recents)
	}
	if st.AddRecent("c") {
		t.Fatalf("re-adding the head must not report a change")
	}
	for i := 0; i < defaultRecentsLimit+5; i++ {
		st.AddRecent(RecentKey("ssh", string(rune('A'+i%26))+string(rune('0'+i/26))))
	}
	if len(st.Recents) != defaultRecentsLimit {
		t.Fatalf("expected cap %d, got %d", defaultRecentsLimit, len(st.Recents))
	}
}

func TestState_SetLastTransport(t *testing.T) {
	st := &State{}
	if st.SetLastTransport("") || !st.SetLastTransport("ssh") || st.SetLastTransport("ssh") {
		t.Fatalf("unexpected SetLastTransport results")
	}
}

func TestSplitRecentKey(t *testing.T) {
	tr, alias, ok := SplitRecentKey(RecentKey("ssh", "prod.DB1"))
	if !ok || tr != "ssh" || alias != "prod.DB1" {
		t.Fatalf("got %q %q %v", tr, alias, ok)
	}
}
