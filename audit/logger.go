/*
Package audit provides the append-only activity journal.

PURPOSE:
  Every user-visible action (employee saved, payroll run, config edited)
  gets one timestamped line in a plain text file. The journal is for
  humans reading back what happened in a session, not for machines; it is
  deliberately free-text.

FAILURE POLICY:
  Logging never fails the operation being logged. Write errors go to
  stderr and are otherwise swallowed.
*/
package audit

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Logger appends timestamped entries to a text file.
type Logger struct {
	mu   sync.Mutex
	path string
}

// New opens (or creates) the journal at path. A fresh file starts with a
// header line marking when the journal began.
func New(path string) (*Logger, error) {
	l := &Logger{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		header := fmt.Sprintf("--- Payroll activity journal - %s ---\n", time.Now().Format(time.RFC3339))
		if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
			return nil, fmt.Errorf("creating activity journal: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking activity journal: %w", err)
	}
	return l, nil
}

// Logf appends one formatted entry with a timestamp prefix.
func (l *Logger) Logf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := fmt.Sprintf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		fmt.Fprintf(os.Stderr, "audit: %v\n", err)
	}
}

// Content returns the whole journal.
func (l *Logger) Content() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("reading activity journal: %w", err)
	}
	return string(data), nil
}
