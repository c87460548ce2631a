// Package report builds the progress summary shown by "bread report":
// sessions per therapist, goal completion, notes and activity from the
// event log.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/berth-dev/bread/internal/log"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/state"
)

// TherapistCount is the number of archived sessions with one persona.
type TherapistCount struct {
	Persona  persona.ID
	Sessions int
	Messages int
}

// Report holds the aggregated progress for the current device.
type Report struct {
	User           string
	Current        persona.ID
	Recommended    persona.ID
	TotalSessions  int
	TotalMessages  int
	ByTherapist    []TherapistCount
	GoalsTotal     int
	GoalsCompleted int
	OpenGoals      []string
	Notes          int
	LatestNote     string
	FirstActivity  time.Time
	LastActivity   time.Time
	PersistErrors  int
}

// Generate aggregates st and the logged events into a Report.
func Generate(st state.AppState, events []log.LogEvent) *Report {
	r := &Report{
		Current:     st.Persona,
		Recommended: st.Recommended,
	}
	if st.User != nil {
		r.User = st.User.Username
	}

	counts := make(map[persona.ID]*TherapistCount)
	for _, s := range st.Sessions {
		r.TotalSessions++
		r.TotalMessages += s.MessageCount
		c, ok := counts[s.Persona]
		if !ok {
			c = &TherapistCount{Persona: s.Persona}
			counts[s.Persona] = c
		}
		c.Sessions++
		c.Messages += s.MessageCount
	}
	for _, c := range counts {
		r.ByTherapist = append(r.ByTherapist, *c)
	}
	sort.SliceStable(r.ByTherapist, func(i, j int) bool {
		a, b := r.ByTherapist[i], r.ByTherapist[j]
		if a.Sessions != b.Sessions {
			return a.Sessions > b.Sessions
		}
		return a.Persona.Order() < b.Persona.Order()
	})

	for _, g := range st.Goals {
		r.GoalsTotal++
		if g.Completed {
			r.GoalsCompleted++
		} else {
			r.OpenGoals = append(r.OpenGoals, g.Text)
		}
	}

	r.Notes = len(st.Notes)
	if r.Notes > 0 {
		r.LatestNote = st.Notes[r.Notes-1].Text
	}

	r.FirstActivity, r.LastActivity = activitySpan(events)
	r.PersistErrors = log.Count(events, log.EventPersistFailed)

	return r
}

// FormatReport produces a terminal-friendly, human-readable summary string.
func FormatReport(r *Report) string {
	var b strings.Builder

	b.WriteString("========================================\n")
	b.WriteString("  Bread Progress Report\n")
	b.WriteString("========================================\n")
	b.WriteString("\n")

	if r.User != "" {
		fmt.Fprintf(&b, "User:        %s\n", r.User)
	}
	if p, ok := persona.Lookup(r.Current); ok {
		fmt.Fprintf(&b, "Therapist:   %s\n", p.Label())
	}
	if p, ok := persona.Lookup(r.Recommended); ok {
		fmt.Fprintf(&b, "Recommended: %s\n", p.Label())
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Sessions:    %d total, %d messages\n", r.TotalSessions, r.TotalMessages)
	for _, c := range r.ByTherapist {
		name := string(c.Persona)
		if p, ok := persona.Lookup(c.Persona); ok {
			name = p.Name
		}
		fmt.Fprintf(&b, "  %-12s %d sessions, %d messages\n", name, c.Sessions, c.Messages)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Goals:       %d/%d completed\n", r.GoalsCompleted, r.GoalsTotal)
	for _, g := range r.OpenGoals {
		fmt.Fprintf(&b, "  - %s\n", g)
	}
	b.WriteString("\n")

	if r.Notes > 0 {
		fmt.Fprintf(&b, "Notes:       %d (latest: %s)\n", r.Notes, r.LatestNote)
		b.WriteString("\n")
	}

	if !r.FirstActivity.IsZero() {
		fmt.Fprintf(&b, "Active:      %s over %s\n",
			r.FirstActivity.Format("2006-01-02"), formatDuration(r.LastActivity.Sub(r.FirstActivity)))
	}
	if r.PersistErrors > 0 {
		fmt.Fprintf(&b, "Warnings:    %d failed saves\n", r.PersistErrors)
	}

	b.WriteString("========================================\n")

	return b.String()
}

// WriteReport writes the formatted report to {dir}/report.md.
// Creates the directory if it does not exist.
func WriteReport(dir string, report *Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	content := FormatReport(report)
	path := filepath.Join(dir, "report.md")

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}

	return nil
}

// activitySpan returns the first and last event timestamps.
func activitySpan(events []log.LogEvent) (time.Time, time.Time) {
	var start, end time.Time
	for _, e := range events {
		if e.Time.IsZero() {
			continue
		}
		if start.IsZero() || e.Time.Before(start) {
			start = e.Time
		}
		if e.Time.After(end) {
			end = e.Time
		}
	}
	return start, end
}

// formatDuration produces a human-readable duration string such as "5m"
// or "3d 4h". Sub-minute durations are shown as "< 1m".
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return "< 1m"
	}

	days := int(d.Hours()) / 24
	h := int(d.Hours()) % 24
	m := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, h)
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
