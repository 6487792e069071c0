// ABOUTME: CLI command for checking off a habit.
// ABOUTME: Records a completion now or at a backfilled time.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/streak"
	"github.com/spf13/cobra"
)

var completeAt string

var completeCmd = &cobra.Command{
	Use:     "complete <habit>",
	Aliases: []string{"done", "c"},
	Short:   "Check off a habit",
	Long: `Record a completion of a habit. Completions are never edited; the
streak is recomputed from the full history each time.

TIMESTAMPS:

  --at accepts YYYY-MM-DD, YYYY-MM-DD HH:MM, YYYY-MM-DDTHH:MM, or RFC3339.
  Times without a zone are local.

EXAMPLES:

  habits complete read
  habits done read --at 2025-03-01
  habits complete abc12345 --at "2025-03-01 07:30"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		var at time.Time
		if completeAt != "" {
			at, err = models.ParseTimestamp(completeAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", completeAt)
			}
		}

		h, c, err := storage.CompleteHabit(repo, user.ID, args[0], at)
		if err != nil {
			return fmt.Errorf("failed to complete habit: %w", err)
		}

		completions, err := repo.ListCompletions(h.ID)
		if err != nil {
			return fmt.Errorf("failed to load completions: %w", err)
		}
		res, err := streak.Calculate(h.Periodicity, models.CompletionTimes(completions))
		if err != nil {
			return err
		}

		color.Green("✓ Completed %s", h.Name)
		fmt.Printf("  %s %s  streak %d (longest %d)\n",
			color.New(color.Faint).Sprint(h.ShortID()),
			c.CompletedAt.Format("2006-01-02 15:04"),
			res.Current, res.Longest)
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVar(&completeAt, "at", "", "completion time (YYYY-MM-DD HH:MM)")
	rootCmd.AddCommand(completeCmd)
}
