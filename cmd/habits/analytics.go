// ABOUTME: CLI command for cross-habit analytics.
// ABOUTME: Prints a report or emits it as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/analytics"
	"github.com/harperreed/habits/internal/storage"
	"github.com/spf13/cobra"
)

var (
	analyticsPeriodicity string
	analyticsJSON        bool
)

var analyticsCmd = &cobra.Command{
	Use:     "analytics",
	Aliases: []string{"stats"},
	Short:   "Show analytics across habits",
	Long: `Show analytics across your habits.

REPORT:

  Per habit        completions, streaks, average days between completions
  Most consistent  habit with the smallest spread between its gaps
  Most challenging habit with the most streak breaks
  Longest streak   best longest streak across habits
  Streak runs      runs of completions on consecutive days, total and per habit

EXAMPLES:

  habits analytics
  habits analytics -p daily
  habits analytics --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		periodicity, err := parsePeriodicityFlag(analyticsPeriodicity)
		if err != nil {
			return err
		}

		histories, err := storage.LoadHistories(repo, user.ID, periodicity)
		if err != nil {
			return fmt.Errorf("failed to load habits: %w", err)
		}

		report, err := analytics.BuildReport(histories, time.Now())
		if err != nil {
			return fmt.Errorf("failed to build analytics: %w", err)
		}

		if analyticsJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		printReport(report)
		return nil
	},
}

func printReport(r *analytics.Report) {
	if len(r.Habits) == 0 {
		fmt.Println("No habits found.")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Println("Habits")
	for _, h := range r.Habits {
		avg := "-"
		if h.AverageGapDays != nil {
			avg = fmt.Sprintf("%.1f days", *h.AverageGapDays)
		}
		fmt.Printf("  %s %s %s streak %d/%d  avg gap %s %s\n",
			faint.Sprint(h.ID),
			padRight(string(h.Periodicity), 8),
			padRight(truncate(h.Name, 24), 24),
			h.Streak.Current, h.Streak.Longest,
			avg,
			status(h.Completions, h.Broken))
	}
	fmt.Println()

	bold.Println("Summary")
	if r.MostConsistent != "" {
		fmt.Printf("  Most consistent:   %s\n", r.MostConsistent)
	}
	if r.MostChallenging != nil {
		fmt.Printf("  Most challenging:  %s (%d breaks)\n", r.MostChallenging.Habit, r.MostChallenging.Breaks)
	} else {
		fmt.Println("  Most challenging:  none, no streak breaks")
	}
	if r.Longest != nil {
		fmt.Printf("  Longest streak:    %s (%d)\n", r.Longest.Habit, r.Longest.Longest)
	}
	fmt.Printf("  Streak runs:       %d total, %.2f per habit\n", r.Aggregate.TotalStreaks, r.Aggregate.AverageStreaks)
}

func init() {
	analyticsCmd.Flags().StringVarP(&analyticsPeriodicity, "periodicity", "p", "", "only include habits with this periodicity")
	analyticsCmd.Flags().BoolVar(&analyticsJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(analyticsCmd)
}
