package notifiers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/daniacca/inklings/internal/ink"
)

// TimestampFormat is the wall-clock prefix of every log line.
const TimestampFormat = "15:04:05.000"

// CombinedLogName is the file CombineLogs writes.
const CombinedLogName = "actions.txt"

// LogFileNotifier writes one append-only text file per agent into a
// directory: a placement line, one line per step and a termination line.
// Refill events are ignored.
//
// Lines arrive through the EventManager queue. When the queue is full,
// placement and step lines are dropped (the manager logs a warning) but
// termination lines always get written.
type LogFileNotifier struct {
	id    string
	dir   string
	mu    sync.Mutex
	files map[int]*os.File
}

// NewLogFileNotifier creates the log directory if needed.
func NewLogFileNotifier(id, dir string) (*LogFileNotifier, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	return &LogFileNotifier{
		id:    id,
		dir:   dir,
		files: make(map[int]*os.File),
	}, nil
}

// ID returns the notifier ID
func (ln *LogFileNotifier) ID() string {
	return ln.id
}

// Type returns the notifier type
func (ln *LogFileNotifier) Type() string {
	return "logfile"
}

// Dir returns the directory holding the per-agent files.
func (ln *LogFileNotifier) Dir() string {
	return ln.dir
}

// AgentLogPath returns the file used for agent id.
func AgentLogPath(dir string, id int) string {
	return filepath.Join(dir, fmt.Sprintf("inkling%d.txt", id))
}

// FormatEvent renders e as a log line, or "" for events without one.
func FormatEvent(e ink.Event) string {
	ts := e.Time.Format(TimestampFormat)
	switch e.Kind {
	case ink.EventPlaced:
		return fmt.Sprintf("%s,inkling%d,%s,row%d,col%d", ts, e.AgentID, e.Color, e.Row, e.Col)
	case ink.EventMoved:
		return fmt.Sprintf("%s,inkling%d,%s,row%d,col%d", ts, e.AgentID, e.Heading, e.Row, e.Col)
	case ink.EventTerminated:
		return fmt.Sprintf("%s,inkling%d,terminated", ts, e.AgentID)
	default:
		return ""
	}
}

// Notify appends the line for event to the agent's file.
func (ln *LogFileNotifier) Notify(ctx context.Context, event ink.Event) error {
	line := FormatEvent(event)
	if line == "" {
		return nil
	}

	ln.mu.Lock()
	defer ln.mu.Unlock()
	if ln.files == nil {
		return errors.New("log file notifier is closed")
	}
	f, ok := ln.files[event.AgentID]
	if !ok {
		var err error
		f, err = os.OpenFile(AgentLogPath(ln.dir, event.AgentID), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("opening agent log: %w", err)
		}
		ln.files[event.AgentID] = f
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("writing agent log: %w", err)
	}
	if event.Kind == ink.EventTerminated {
		delete(ln.files, event.AgentID)
		return f.Close()
	}
	return nil
}

// Close closes every open agent file.
func (ln *LogFileNotifier) Close() error {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	var errs []error
	for _, f := range ln.files {
		errs = append(errs, f.Close())
	}
	ln.files = nil
	return errors.Join(errs...)
}

// CombineLogs reads every per-agent log in dir, sorts the lines and writes
// them to actions.txt in the same directory. Lines start with a fixed-width
// timestamp, so a plain string sort orders them by time. It returns the
// number of lines written.
func CombineLogs(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "inkling*.txt"))
	if err != nil {
		return 0, fmt.Errorf("listing agent logs: %w", err)
	}

	var lines []string
	for _, path := range paths {
		got, err := readLines(path)
		if err != nil {
			return 0, err
		}
		lines = append(lines, got...)
	}
	slices.Sort(lines)

	out := filepath.Join(dir, CombinedLogName)
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(out, []byte(b.String()), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", out, err)
	}
	return len(lines), nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// ParseTimestamp returns the time-of-day prefix of a log line.
func ParseTimestamp(line string) (time.Time, error) {
	ts, _, ok := strings.Cut(line, ",")
	if !ok {
		return time.Time{}, fmt.Errorf("malformed log line %q", line)
	}
	return time.Parse(TimestampFormat, ts)
}
