// ABOUTME: CLI command for showing streaks.
// ABOUTME: Shows one habit in detail or a table of every habit.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/streak"
	"github.com/spf13/cobra"
)

var streakPeriodicity string

var streakCmd = &cobra.Command{
	Use:   "streak [habit]",
	Short: "Show current and longest streaks",
	Long: `Show streaks.

With a habit argument, shows that habit's current and longest streak,
when it was last completed, and whether the streak is broken as of now.
Without one, lists every habit.

STREAK RULES:

  daily     each completion falls on the next calendar day
  weekly    same weekday, at most 7 days later
  monthly   same calendar month

  A daily habit is broken once a full calendar day passes without it,
  a weekly habit after more than 7 days, and a monthly habit once a
  whole calendar month is skipped.

EXAMPLES:

  habits streak
  habits streak read
  habits streak -p monthly`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}
		now := time.Now()

		if len(args) == 0 {
			periodicity, err := parsePeriodicityFlag(streakPeriodicity)
			if err != nil {
				return err
			}
			histories, err := storage.LoadHistories(repo, user.ID, periodicity)
			if err != nil {
				return fmt.Errorf("failed to load habits: %w", err)
			}
			if len(histories) == 0 {
				fmt.Println("No habits found.")
				return nil
			}
			for _, h := range histories {
				if err := printHabitLine(h, now); err != nil {
					return err
				}
			}
			return nil
		}

		h, err := repo.GetHabit(user.ID, args[0])
		if err != nil {
			return fmt.Errorf("habit not found: %w", err)
		}
		hist, err := storage.LoadHistory(repo, h)
		if err != nil {
			return err
		}

		res, err := streak.Calculate(h.Periodicity, hist.Dates)
		if err != nil {
			return err
		}
		broken, err := streak.IsHistoryBroken(h.Periodicity, hist.Dates, now)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		bold.Printf("%s", h.Name)
		fmt.Printf(" %s\n", faint.Sprintf("(%s, %s)", h.Periodicity, h.ShortID()))
		fmt.Printf("  Current streak:  %d\n", res.Current)
		fmt.Printf("  Longest streak:  %d\n", res.Longest)
		fmt.Printf("  Completions:     %d\n", len(hist.Dates))
		if len(hist.Dates) > 0 {
			fmt.Printf("  Last completed:  %s\n", streak.Latest(hist.Dates).Format("2006-01-02 15:04"))
		}
		fmt.Printf("  Status:          %s\n", status(len(hist.Dates), broken))
		return nil
	},
}

func init() {
	streakCmd.Flags().StringVarP(&streakPeriodicity, "periodicity", "p", "", "filter by periodicity (daily, weekly, monthly)")
	rootCmd.AddCommand(streakCmd)
}
