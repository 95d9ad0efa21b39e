package manager

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Per-host daily activity logs:
//
//   ~/.config/vmsmenu/logs/<alias>/YYYY-MM-DD.log
//
// ($XDG_CONFIG_HOME when set). A new file is started per calendar day and
// appended to. Records are single lines prefixed with an RFC3339 timestamp;
// callers decide what to write and never pass credentials.

const (
	DefaultLogsSubdir = "logs"
	DefaultLogExt     = ".log"
	DefaultDayFormat  = "2006-01-02"
)

// LogOptions controls where logs live and how "day" is computed.
type LogOptions struct {
	// BaseDir overrides DefaultConfigDir()/logs.
	BaseDir string

	// Timezone controls day rotation. Nil means local time.
	Timezone *time.Location

	FilePerm os.FileMode
	DirPerm  os.FileMode
}

func (o LogOptions) normalized() LogOptions {
	if o.FilePerm == 0 {
		o.FilePerm = 0o600
	}
	if o.DirPerm == 0 {
		o.DirPerm = 0o700
	}
	if o.Timezone == nil {
		o.Timezone = time.Local
	}
	return o
}

// HostLogsBaseDir resolves the base logs directory according to opts and XDG rules.
func HostLogsBaseDir(opts LogOptions) (string, error) {
	if strings.TrimSpace(opts.BaseDir) != "" {
		return ExpandPath(strings.TrimSpace(opts.BaseDir)), nil
	}
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultLogsSubdir), nil
}

// HostLogDir returns the log directory for one alias.
func HostLogDir(alias string, opts LogOptions) (string, error) {
	if strings.TrimSpace(alias) == "" {
		return "", errors.New("alias is required")
	}
	base, err := HostLogsBaseDir(opts)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, sanitizeHostKeyToFilename(alias)), nil
}

// DailyHostLogPath returns the log file for alias on the day of t.
func DailyHostLogPath(alias string, t time.Time, opts LogOptions) (string, error) {
	opts = opts.normalized()
	dir, err := HostLogDir(alias, opts)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, t.In(opts.Timezone).Format(DefaultDayFormat)+DefaultLogExt), nil
}

// AppendHostLogLine appends one timestamped record to alias's log for the
// day of t and returns the file path.
func AppendHostLogLine(alias string, t time.Time, opts LogOptions, line string) (string, error) {
	opts = opts.normalized()
	p, err := DailyHostLogPath(alias, t, opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), opts.DirPerm); err != nil {
		return "", fmt.Errorf("mkdir logs dir: %w", err)
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, opts.FilePerm)
	if err != nil {
		return "", fmt.Errorf("open log for append: %w", err)
	}
	defer f.Close()

	msg := strings.ReplaceAll(strings.TrimRight(line, "\r\n"), "\n", " ")
	if _, err := fmt.Fprintf(f, "%s %s\n", t.In(opts.Timezone).Format(time.RFC3339), msg); err != nil {
		return "", fmt.Errorf("write log: %w", err)
	}
	return p, nil
}

// ListHostLogFiles lists alias's daily logs, newest first.
func ListHostLogFiles(alias string, opts LogOptions) ([]string, error) {
	dir, err := HostLogDir(alias, opts)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), DefaultLogExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	// YYYY-MM-DD names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// ReadLastNLines returns up to the last n lines of path, oldest first.
// Activity logs are small, so the file is scanned forward with a ring.
func ReadLastNLines(path string, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	f, err := os.Open(ExpandPath(strings.TrimSpace(path)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	start := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(ring) < n {
			ring = append(ring, sc.Text())
			continue
		}
		ring[start] = sc.Text()
		start = (start + 1) % n
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return append(ring[start:], ring[:start]...), nil
}

// ActivityLog records one line per event into the per-host daily logs.
// Write failures are reported through OnError and otherwise ignored so that
// logging never interrupts the menus.
type ActivityLog struct {
	Opts LogOptions

	// Now defaults to time.Now.
	Now func() time.Time

	OnError func(error)
}

// Record appends event to alias's log for today.
func (l *ActivityLog) Record(alias, event string) {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	if _, err := AppendHostLogLine(alias, now(), l.Opts, event); err != nil && l.OnError != nil {
		l.OnError(err)
	}
}

// Tail returns the last n records for alias across its daily logs, oldest
// first.
func (l *ActivityLog) Tail(alias string, n int) ([]string, error) {
	files, err := ListHostLogFiles(alias, l.Opts)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range files {
		if len(out) >= n {
			break
		}
		lines, err := ReadLastNLines(p, n-len(out))
		if err != nil {
			return nil, err
		}
		out = append(lines, out...)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
