// Package audit records every mutating external command an invocation
// runs (or would run, in dry-run mode) and can persist the log as JSON.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"
)

// Entry is one recorded command
type Entry struct {
	Command     string    `json:"command"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Executed    bool      `json:"executed"`
	Result      string    `json:"result,omitempty"`
}

// Log is an append-only sequence of entries for one invocation
type Log struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{now: time.Now}
}

// CommandText renders argv the way a user would type it in a shell
func CommandText(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}

// Record appends a pending entry and returns its index
func (l *Log) Record(command, description string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Command:     command,
		Description: description,
		Timestamp:   l.now(),
	})
	return len(l.entries) - 1
}

// Complete marks the entry at idx as executed with the given result.
// Only the most recent entry can be completed.
func (l *Log) Complete(idx int, result string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if idx != len(l.entries)-1 || idx < 0 {
		return
	}
	l.entries[idx].Executed = true
	l.entries[idx].Result = result
}

// Entries returns a copy of the recorded entries
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Save writes the log to path as an indented JSON array
func (l *Log) Save(path string) error {
	entries := l.Entries()
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write history to %s: %w", path, err)
	}
	return nil
}
