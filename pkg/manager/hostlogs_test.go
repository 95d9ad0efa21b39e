package manager

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestAppendHostLogLine_DailyFile(t *testing.T) {
	opts := LogOptions{BaseDir: t.TempDir(), Timezone: time.UTC}
	day := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	p, err := AppendHostLogLine("prod.DB1", day, opts, "ssh: saved\nhostname=x\n")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if want := filepath.Join(opts.BaseDir, "prod.DB1", "2026-03-04.log"); p != want {
		t.Fatalf("path: got %q, want %q", p, want)
	}
	lines, err := ReadLastNLines(p, 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(lines) != 1 || lines[0] != "2026-03-04T10:00:00Z ssh: saved hostname=x" {
		t.Fatalf("unexpected records %q", lines)
	}
}

func TestHostLogDir_Sanitizes(t *testing.T) {
	opts := LogOptions{BaseDir: "/logs"}
	got, err := HostLogDir("a/b: c", opts)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/logs", "a_b_c") {
		t.Fatalf("got %q", got)
	}
	if _, err := HostLogDir("  ", opts); err == nil {
		t.Fatalf("expected error for empty alias")
	}
}

func TestReadLastNLines_Window(t *testing.T) {
	opts := LogOptions{BaseDir: t.TempDir(), Timezone: time.UTC}
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var p string
	for i := 0; i < 7; i++ {
		var err error
		p, err = AppendHostLogLine("A", day.Add(time.Duration(i)*time.Minute), opts, string(rune('a'+i)))
		if err != nil {
			t.Fatal(err)
		}
	}
	lines, err := ReadLastNLines(p, 3)
	if err != nil {
		t.Fatal(err)
	}
	var tails []string
	for _, l := range lines {
		tails = append(tails, l[strings.LastIndexByte(l, ' ')+1:])
	}
	if !reflect.DeepEqual(tails, []string{"e", "f", "g"}) {
		t.Fatalf("got %v", tails)
	}
}

func TestActivityLog_TailAcrossDays(t *testing.T) {
	day1 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := day1
	var errs []error
	l := &ActivityLog{
		Opts:    LogOptions{BaseDir: t.TempDir(), Timezone: time.UTC},
		Now:     func() time.Time { return clock },
		OnError: func(err error) { errs = append(errs, err) },
	}
	l.Record("WEB1", "one")
	l.Record("WEB1", "two")
	clock = day1.AddDate(0, 0, 1)
	l.Record("WEB1", "three")

	files, err := ListHostLogFiles("WEB1", l.Opts)
	if err != nil || len(files) != 2 || !strings.HasSuffix(files[0], "2026-05-02.log") {
		t.Fatalf("files: %v, %v", files, err)
	}

	got, err := l.Tail("WEB1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !strings.HasSuffix(got[0], " two") || !strings.HasSuffix(got[1], " three") {
		t.Fatalf("unexpected tail %q", got)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}

	empty, err := l.Tail("nobody", 5)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty tail, got %v, %v", empty, err)
	}
}
