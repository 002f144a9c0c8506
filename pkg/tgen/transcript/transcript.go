// Package transcript captures every command sent over a session, one
// per line, in the exact wire syntax. The resulting file is itself a
// script the target interpreter can replay standalone, which makes it
// the primary debugging artifact for a failed run.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tgen-network/tgen/pkg/util"
)

// Logger appends commands to a transcript file. A nil *Logger is a
// valid no-op sink, so sessions without a configured log path skip
// logging without nil checks at every call site.
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	path  string
	lines int
}

// New creates (or truncates) the transcript file at path, creating
// parent directories as needed.
func New(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("transcript dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("transcript file: %w", err)
	}
	return &Logger{file: f, path: path}, nil
}

// Record appends one command verbatim. Writes go straight to the file
// descriptor so a crash right after a command still leaves it in the
// transcript. Sink errors are logged, not returned — a failing
// transcript must never fail the command itself.
func (l *Logger) Record(cmd string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := fmt.Fprintln(l.file, cmd); err != nil {
		util.Warnf("transcript write failed: %v", err)
		return
	}
	l.lines++
}

// RecordResult appends the raw reply as interpreter comment lines, so
// the transcript stays replayable while still carrying the full
// exchange for debugging.
func (l *Logger) RecordResult(raw string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range strings.Split(raw, "\n") {
		if _, err := fmt.Fprintf(l.file, "# -> %s\n", line); err != nil {
			util.Warnf("transcript write failed: %v", err)
			return
		}
	}
}

// Path returns the transcript file location, or "" for the no-op sink.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Lines returns the number of commands recorded so far.
func (l *Logger) Lines() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lines
}

// Close syncs and closes the transcript file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Sync(); err != nil {
		l.file.Close()
		return fmt.Errorf("transcript sync: %w", err)
	}
	return l.file.Close()
}
