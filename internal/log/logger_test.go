package log

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events := []LogEvent{
		{Event: EventUserRegistered, User: "ada"},
		{Event: EventMessageSent, Persona: "rye"},
		{Event: EventMessageSent, Persona: "rye"},
		{Event: EventSessionArchived, SessionID: "s1", MessageCount: 4},
	}
	for _, e := range events {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("ReadAll returned %d events, want %d", len(got), len(events))
	}
	if got[0].Time.IsZero() {
		t.Error("Append should stamp zero times")
	}
	if got[3].MessageCount != 4 || got[3].SessionID != "s1" {
		t.Errorf("last event = %+v", got[3])
	}
	if n := Count(got, EventMessageSent); n != 2 {
		t.Errorf("Count(message_sent) = %d, want 2", n)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	got, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadAll on missing file = %d events, want 0", len(got))
	}
}

func TestReadAllReportsBadLine(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if err := os.WriteFile(l.Path(), []byte("{\"event\":\"ok\"}\nnot json\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := l.ReadAll(); err == nil {
		t.Error("ReadAll should fail on a malformed line")
	}
}

func TestNewDiagnosticWritesToDir(t *testing.T) {
	dir := t.TempDir()
	z, err := NewDiagnostic("production", dir)
	if err != nil {
		t.Fatalf("NewDiagnostic failed: %v", err)
	}
	z.Warn("saving app state failed")
	_ = z.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "diag.log"))
	if err != nil {
		t.Fatalf("read diag.log: %v", err)
	}
	if len(data) == 0 {
		t.Error("diag.log is empty")
	}
}

func TestForUser(t *testing.T) {
	events := []LogEvent{
		{Event: EventUserRegistered, User: "ada"},
		{Event: EventMessageSent, User: "grace"},
		{Event: EventMessageSent, User: "ada"},
		{Event: EventPersistFailed},
	}

	got := ForUser(events, "ada")
	if len(got) != 2 {
		t.Fatalf("expected 2 events for ada, got %d", len(got))
	}
	if Count(got, EventMessageSent) != 1 {
		t.Errorf("expected 1 message_sent for ada, got %d", Count(got, EventMessageSent))
	}
	if ForUser(events, "nobody") != nil {
		t.Error("expected no events for unknown user")
	}
}
