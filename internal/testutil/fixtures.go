// Package testutil provides test helper utilities for bread tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// Epoch is the first instant returned by Clock.
var Epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// TempRoot creates a temporary directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// Clock returns a clock that starts at Epoch and advances one minute per call.
func Clock() func() time.Time {
	var mu sync.Mutex
	next := Epoch
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

// SeqIDs returns an id source producing prefix-1, prefix-2, ...
func SeqIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// ConfiguredRoot returns files for a data root with a custom config.
func ConfiguredRoot(autosaveEvery int) map[string]string {
	return map[string]string{
		".bread/config.yaml": fmt.Sprintf(`version: 1
data_dir: data
database: bread.db
log_mode: production
chat:
  autosave_every: %d
  reply_delay_ms: 0
  default_model: gpt-4o
`, autosaveEvery),
	}
}

// LegacyState is a stored AppState written before goals and preferences
// existed. Loading it must fill the missing collections.
const LegacyState = `{
  "version": 1,
  "user": {"username": "ada", "createdAt": "2024-01-01T00:00:00Z", "intakeCompleted": true},
  "currentTherapist": "rye",
  "chatHistory": [{"role": "user", "content": "hi", "timestamp": "2024-01-01T00:01:00Z"}],
  "sessions": null
}`
