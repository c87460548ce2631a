// Package cleanup implements retention rules for archived sessions.
package cleanup

import (
	"sort"
	"time"

	"github.com/berth-dev/bread/internal/state"
)

// Policy selects which archived sessions to drop. Zero fields are
// ignored, so the zero Policy prunes nothing.
type Policy struct {
	MaxAgeDays int // drop sessions older than this many days
	Keep       int // keep at most this many of the newest sessions
}

// Empty reports whether p would never prune anything.
func (p Policy) Empty() bool {
	return p.MaxAgeDays <= 0 && p.Keep <= 0
}

// PruneByAge returns the IDs of sessions dated before now minus
// maxAgeDays, in stored order.
func PruneByAge(sessions []state.SessionRecord, maxAgeDays int, now time.Time) []string {
	if maxAgeDays <= 0 {
		return nil
	}

	cutoff := now.AddDate(0, 0, -maxAgeDays)
	var pruned []string
	for _, s := range sessions {
		if s.Date.Before(cutoff) {
			pruned = append(pruned, s.ID)
		}
	}
	return pruned
}

// PruneKeepRecent returns the IDs of every session except the keep
// newest ones. Sessions with equal dates keep their stored order.
func PruneKeepRecent(sessions []state.SessionRecord, keep int) []string {
	if keep <= 0 || len(sessions) <= keep {
		return nil
	}

	// Sort chronologically without disturbing the caller's slice.
	sorted := append([]state.SessionRecord{}, sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	toRemove := sorted[:len(sorted)-keep]
	pruned := make([]string, 0, len(toRemove))
	for _, s := range toRemove {
		pruned = append(pruned, s.ID)
	}
	return pruned
}

// Select applies both rules of p and returns the union of their IDs in
// stored order.
func Select(sessions []state.SessionRecord, p Policy, now time.Time) []string {
	drop := make(map[string]bool)
	for _, id := range PruneByAge(sessions, p.MaxAgeDays, now) {
		drop[id] = true
	}
	for _, id := range PruneKeepRecent(sessions, p.Keep) {
		drop[id] = true
	}

	var ids []string
	for _, s := range sessions {
		if drop[s.ID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
