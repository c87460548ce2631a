package cleanup

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/berth-dev/bread/internal/state"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// mockSessions returns one session per age in days, named s0, s1, ...
func mockSessions(ages ...int) []state.SessionRecord {
	sessions := make([]state.SessionRecord, len(ages))
	for i, age := range ages {
		sessions[i] = state.SessionRecord{
			ID:   fmt.Sprintf("s%d", i),
			Date: now.AddDate(0, 0, -age),
		}
	}
	return sessions
}

func TestPruneByAge_RemovesOldSessions(t *testing.T) {
	sessions := mockSessions(60, 5, 31)

	pruned := PruneByAge(sessions, 30, now)

	if want := []string{"s0", "s2"}; !reflect.DeepEqual(pruned, want) {
		t.Errorf("expected pruned=%v, got %v", want, pruned)
	}
}

func TestPruneByAge_DisabledWhenZero(t *testing.T) {
	if pruned := PruneByAge(mockSessions(400), 0, now); pruned != nil {
		t.Errorf("expected nothing pruned, got %v", pruned)
	}
}

func TestPruneKeepRecent(t *testing.T) {
	// Stored order is not chronological on purpose.
	sessions := mockSessions(3, 10, 1, 7)

	pruned := PruneKeepRecent(sessions, 2)

	if want := []string{"s1", "s3"}; !reflect.DeepEqual(pruned, want) {
		t.Errorf("expected pruned=%v, got %v", want, pruned)
	}
	if sessions[0].ID != "s0" || sessions[1].ID != "s1" {
		t.Error("input slice was reordered")
	}
}

func TestPruneKeepRecent_FewerThanKeep(t *testing.T) {
	if pruned := PruneKeepRecent(mockSessions(1, 2), 5); pruned != nil {
		t.Errorf("expected nothing pruned, got %v", pruned)
	}
}

func TestSelect_UnionInStoredOrder(t *testing.T) {
	sessions := mockSessions(90, 1, 2, 3)

	got := Select(sessions, Policy{MaxAgeDays: 30, Keep: 2}, now)

	if want := []string{"s0", "s3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !(Policy{}).Empty() {
		t.Error("zero policy should be empty")
	}
	if got := Select(sessions, Policy{}, now); got != nil {
		t.Errorf("zero policy pruned %v", got)
	}
}
