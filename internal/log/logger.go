// Package log provides structured event logging.
// This file appends JSON events to log.jsonl.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event type constants.
const (
	EventUserRegistered  = "user_registered"
	EventUserLoggedIn    = "user_logged_in"
	EventLoggedOut       = "logged_out"
	EventIntakeCompleted = "intake_completed"
	EventPersonaSelected = "persona_selected"
	EventMessageSent     = "message_sent"
	EventSessionArchived = "session_archived"
	EventSessionsPruned  = "sessions_pruned"
	EventGoalAdded       = "goal_added"
	EventGoalToggled     = "goal_toggled"
	EventNoteAdded       = "note_added"
	EventPersistFailed   = "persist_failed"
)

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time         time.Time              `json:"time"`
	Event        string                 `json:"event"`
	User         string                 `json:"user,omitempty"`
	Persona      string                 `json:"persona,omitempty"`
	SessionID    string                 `json:"session,omitempty"`
	MessageCount int                    `json:"message_count,omitempty"`
	Scores       map[string]int         `json:"scores,omitempty"`
	Step         string                 `json:"step,omitempty"`
	Error        string                 `json:"error,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// Logger writes append-only JSONL events to a log file.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger that writes to log.jsonl inside dir.
// Creates dir if it does not already exist.
// Does not truncate an existing log file.
func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &Logger{
		path: filepath.Join(dir, "log.jsonl"),
	}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}

// Append writes a single LogEvent as one JSON line to the log file.
// If event.Time is the zero value, it is automatically set to time.Now().UTC().
// Thread-safe via mutex.
func (l *Logger) Append(event LogEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}

	return nil
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return events, nil
}

// Count returns how many events of the given type are in events.
func Count(events []LogEvent, eventType string) int {
	n := 0
	for _, e := range events {
		if e.Event == eventType {
			n++
		}
	}
	return n
}

// ForUser returns the events recorded for username. Several accounts
// can share one device log, so reports filter with this first.
func ForUser(events []LogEvent, username string) []LogEvent {
	var out []LogEvent
	for _, e := range events {
		if e.User == username {
			out = append(out, e)
		}
	}
	return out
}
