// ABOUTME: Per-habit analytics that depend on periodicity.
// ABOUTME: Longest streak across habits, streak breaks, and the full analytics report.
package analytics

import (
	"fmt"
	"time"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/streak"
)

// HabitHistory is a habit together with its completion timestamps.
type HabitHistory struct {
	Habit *models.Habit
	Dates []time.Time
}

// Dates flattens histories into name/date pairs, preserving order.
func Dates(histories []HabitHistory) []HabitDates {
	out := make([]HabitDates, 0, len(histories))
	for _, h := range histories {
		out = append(out, HabitDates{Name: h.Habit.Name, Dates: h.Dates})
	}
	return out
}

// LongestStreak names the habit holding the longest streak.
type LongestStreak struct {
	Habit   string `json:"habit" yaml:"habit"`
	Longest int    `json:"longest_streak" yaml:"longest_streak"`
}

// LongestStreakAcrossHabits returns the habit with the greatest longest
// streak. Earlier habits win ties. ok is false when no habit has any
// completions.
func LongestStreakAcrossHabits(histories []HabitHistory) (LongestStreak, bool, error) {
	var best LongestStreak
	for _, h := range histories {
		res, err := streak.Calculate(h.Habit.Periodicity, h.Dates)
		if err != nil {
			return LongestStreak{}, false, fmt.Errorf("habit %q: %w", h.Habit.Name, err)
		}
		if res.Longest > best.Longest {
			best = LongestStreak{Habit: h.Habit.Name, Longest: res.Longest}
		}
	}
	return best, best.Longest > 0, nil
}

// breakThresholds is the largest whole-day gap that keeps a streak alive.
var breakThresholds = map[models.Periodicity]int{
	models.Daily:   1,
	models.Weekly:  7,
	models.Monthly: 30,
}

// StreakBreaks counts gaps between consecutive completions longer than the
// periodicity allows.
func StreakBreaks(p models.Periodicity, dates []time.Time) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	limit := breakThresholds[p]
	breaks := 0
	for _, g := range dayGaps(dates) {
		if g > limit {
			breaks++
		}
	}
	return breaks, nil
}

// Challenge names the habit with the most streak breaks.
type Challenge struct {
	Habit  string `json:"habit" yaml:"habit"`
	Breaks int    `json:"breaks" yaml:"breaks"`
}

// MostChallengingHabit returns the habit with the most streak breaks.
// Earlier habits win ties; ok is false when no habit has a break.
func MostChallengingHabit(histories []HabitHistory) (Challenge, bool, error) {
	var worst Challenge
	for _, h := range histories {
		breaks, err := StreakBreaks(h.Habit.Periodicity, h.Dates)
		if err != nil {
			return Challenge{}, false, fmt.Errorf("habit %q: %w", h.Habit.Name, err)
		}
		if breaks > worst.Breaks {
			worst = Challenge{Habit: h.Habit.Name, Breaks: breaks}
		}
	}
	return worst, worst.Breaks > 0, nil
}

// HabitReport is the per-habit section of a Report.
type HabitReport struct {
	ID             string             `json:"id" yaml:"id"`
	Name           string             `json:"name" yaml:"name"`
	Periodicity    models.Periodicity `json:"periodicity" yaml:"periodicity"`
	Completions    int                `json:"completions" yaml:"completions"`
	Streak         streak.Result      `json:"streak" yaml:"streak"`
	Broken         bool               `json:"broken" yaml:"broken"`
	LastCompleted  *time.Time         `json:"last_completed,omitempty" yaml:"last_completed,omitempty"`
	AverageGapDays *float64           `json:"average_gap_days,omitempty" yaml:"average_gap_days,omitempty"`
}

// Report collects every analytic for a user's habits.
type Report struct {
	GeneratedAt     time.Time      `json:"generated_at" yaml:"generated_at"`
	Habits          []HabitReport  `json:"habits" yaml:"habits"`
	MostConsistent  string         `json:"most_consistent,omitempty" yaml:"most_consistent,omitempty"`
	MostChallenging *Challenge     `json:"most_challenging,omitempty" yaml:"most_challenging,omitempty"`
	Longest         *LongestStreak `json:"longest,omitempty" yaml:"longest,omitempty"`
	Aggregate       StreakSummary  `json:"aggregate" yaml:"aggregate"`
}

// BuildReport computes a Report as of now.
func BuildReport(histories []HabitHistory, now time.Time) (*Report, error) {
	report := &Report{
		GeneratedAt: now,
		Habits:      make([]HabitReport, 0, len(histories)),
	}

	for _, h := range histories {
		hr, err := habitReport(h, now)
		if err != nil {
			return nil, err
		}
		report.Habits = append(report.Habits, hr)
	}

	dates := Dates(histories)
	if name, ok := MostConsistentHabit(dates); ok {
		report.MostConsistent = name
	}
	report.Aggregate = AggregateStreakAnalysis(dates)

	challenge, ok, err := MostChallengingHabit(histories)
	if err != nil {
		return nil, err
	}
	if ok {
		report.MostChallenging = &challenge
	}

	longest, ok, err := LongestStreakAcrossHabits(histories)
	if err != nil {
		return nil, err
	}
	if ok {
		report.Longest = &longest
	}

	return report, nil
}

func habitReport(h HabitHistory, now time.Time) (HabitReport, error) {
	res, err := streak.Calculate(h.Habit.Periodicity, h.Dates)
	if err != nil {
		return HabitReport{}, fmt.Errorf("habit %q: %w", h.Habit.Name, err)
	}
	broken, err := streak.IsHistoryBroken(h.Habit.Periodicity, h.Dates, now)
	if err != nil {
		return HabitReport{}, fmt.Errorf("habit %q: %w", h.Habit.Name, err)
	}

	hr := HabitReport{
		ID:          h.Habit.ShortID(),
		Name:        h.Habit.Name,
		Periodicity: h.Habit.Periodicity,
		Completions: len(h.Dates),
		Streak:      res,
		Broken:      broken,
	}
	if len(h.Dates) > 0 {
		last := streak.Latest(h.Dates)
		hr.LastCompleted = &last
	}
	if avg, ok := AverageCompletionTime(h.Dates); ok {
		hr.AverageGapDays = &avg
	}
	return hr, nil
}

