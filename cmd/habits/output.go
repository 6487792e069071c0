// ABOUTME: Shared terminal formatting for habit listings.
// ABOUTME: Colors streak status and pads columns.
package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/analytics"
	"github.com/harperreed/habits/internal/streak"
)

// printHabitLine prints one habit with its streaks as of now.
func printHabitLine(h analytics.HabitHistory, now time.Time) error {
	res, err := streak.Calculate(h.Habit.Periodicity, h.Dates)
	if err != nil {
		return fmt.Errorf("habit %q: %w", h.Habit.Name, err)
	}
	broken, err := streak.IsHistoryBroken(h.Habit.Periodicity, h.Dates, now)
	if err != nil {
		return fmt.Errorf("habit %q: %w", h.Habit.Name, err)
	}

	faint := color.New(color.Faint)
	fmt.Printf("%s %s %s %s %s\n",
		faint.Sprint(h.Habit.ShortID()),
		padRight(string(h.Habit.Periodicity), 8),
		padRight(truncate(h.Habit.Name, 30), 30),
		padRight(fmt.Sprintf("%d/%d", res.Current, res.Longest), 8),
		status(len(h.Dates), broken))
	return nil
}

func status(completions int, broken bool) string {
	switch {
	case completions == 0:
		return color.New(color.Faint).Sprint("(not started)")
	case broken:
		return color.RedString("(broken)")
	default:
		return color.GreenString("(on track)")
	}
}

// truncate and padRight count runes, not bytes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
