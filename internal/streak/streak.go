// ABOUTME: Streak engine computing current and longest streaks from a completion history.
// ABOUTME: Results are derived on demand and never stored as authoritative state.
package streak

import (
	"sort"
	"time"

	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/models"
)

// Result holds the streaks derived from a full completion history.
// Longest is always >= Current.
type Result struct {
	Current int `json:"current_streak" yaml:"current_streak"`
	Longest int `json:"longest_streak" yaml:"longest_streak"`
}

// Calculate walks the history in ascending order and counts runs of
// continuous completions. The history may be unsorted; it is not modified.
func Calculate(p models.Periodicity, history []time.Time) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	sorted := sortedCopy(history)

	running, longest := 0, 0
	for i, completion := range sorted {
		if i == 0 {
			running = 1
			continue
		}
		if isContinuous(p, sorted[i-1], completion) {
			running++
			continue
		}
		longest = max(longest, running)
		running = 1
	}

	return Result{
		Current: running,
		Longest: max(longest, running),
	}, nil
}

// IsHistoryBroken applies IsBroken to the latest completion in history.
// An empty history can't be broken.
func IsHistoryBroken(p models.Periodicity, history []time.Time, now time.Time) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if len(history) == 0 {
		logger.Debug("no completions recorded, streak cannot be broken", "periodicity", p)
		return false, nil
	}
	return IsBroken(p, Latest(history), now)
}

// Latest returns the most recent timestamp in history, or the zero time.
func Latest(history []time.Time) time.Time {
	var latest time.Time
	for i, t := range history {
		if i == 0 || t.After(latest) {
			latest = t
		}
	}
	return latest
}

func sortedCopy(history []time.Time) []time.Time {
	sorted := make([]time.Time, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})
	return sorted
}
