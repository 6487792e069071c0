// ABOUTME: Cross-habit analytics over completion timestamps.
// ABOUTME: Average gaps, most consistent habit, and aggregate streak counts.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/harperreed/habits/internal/streak"
)

// HabitDates pairs a habit name with its completion timestamps.
// Slices of HabitDates keep the caller's order, which breaks ties.
type HabitDates struct {
	Name  string
	Dates []time.Time
}

// StreakSummary aggregates streak occurrences across habits.
type StreakSummary struct {
	TotalStreaks   int     `json:"total_streaks" yaml:"total_streaks"`
	AverageStreaks float64 `json:"average_streaks" yaml:"average_streaks"`
}

// AverageCompletionTime returns the mean gap in whole days between
// consecutive completions. ok is false with fewer than two dates.
func AverageCompletionTime(dates []time.Time) (avg float64, ok bool) {
	gaps := dayGaps(dates)
	if len(gaps) == 0 {
		return 0, false
	}

	sum := 0
	for _, g := range gaps {
		sum += g
	}
	return float64(sum) / float64(len(gaps)), true
}

// ConsistencyScore is the spread between the largest and smallest gap in
// whole days. Lower is more consistent; fewer than two dates scores +Inf.
func ConsistencyScore(dates []time.Time) float64 {
	gaps := dayGaps(dates)
	if len(gaps) == 0 {
		return math.Inf(1)
	}

	lo, hi := gaps[0], gaps[0]
	for _, g := range gaps[1:] {
		lo = min(lo, g)
		hi = max(hi, g)
	}
	return float64(hi - lo)
}

// MostConsistentHabit returns the habit with the lowest ConsistencyScore.
// The first habit wins ties, so if no habit has two dates the first habit
// is returned. ok is false only when habits is empty.
func MostConsistentHabit(habits []HabitDates) (name string, ok bool) {
	if len(habits) == 0 {
		return "", false
	}

	best := 0
	bestScore := ConsistencyScore(habits[0].Dates)
	for i := 1; i < len(habits); i++ {
		if score := ConsistencyScore(habits[i].Dates); score < bestScore {
			best, bestScore = i, score
		}
	}
	return habits[best].Name, true
}

// CountStreakRuns counts maximal runs of completions exactly one day apart
// that are longer than one completion. Each run counts once regardless of
// its length.
func CountStreakRuns(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	runs := 0
	current := 1
	for _, g := range dayGaps(dates) {
		if g == 1 {
			current++
			continue
		}
		if current > 1 {
			runs++
		}
		current = 1
	}
	if current > 1 {
		runs++
	}
	return runs
}

// AggregateStreakAnalysis sums CountStreakRuns across habits and averages
// it over the number of habits.
func AggregateStreakAnalysis(habits []HabitDates) StreakSummary {
	var summary StreakSummary
	for _, h := range habits {
		summary.TotalStreaks += CountStreakRuns(h.Dates)
	}
	if len(habits) > 0 {
		summary.AverageStreaks = float64(summary.TotalStreaks) / float64(len(habits))
	}
	return summary
}

// dayGaps sorts a copy of dates and returns consecutive gaps in whole
// calendar days.
func dayGaps(dates []time.Time) []int {
	if len(dates) < 2 {
		return nil
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, streak.WholeDays(sorted[i-1], sorted[i]))
	}
	return gaps
}
