// ABOUTME: CLI commands for managing habits.
// ABOUTME: Supports add, list (with periodicity filter), and delete.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
	"github.com/spf13/cobra"
)

var listPeriodicity string

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"h"},
	Short:   "Manage habits",
	Long: `Manage your habits.

A habit has a name and a periodicity: daily, weekly, or monthly.
The periodicity decides which completions continue a streak and
cannot be changed after the habit is created.

COMMANDS:

  add <name> <periodicity>   Create a habit
  list                       List habits with streaks
  delete <habit>             Delete a habit and its completions

Habits can be referenced by name, full ID, or ID prefix.`,
}

var habitAddCmd = &cobra.Command{
	Use:     "add <name> <periodicity>",
	Aliases: []string{"a"},
	Short:   "Create a habit",
	Long: `Create a habit with a periodicity of daily, weekly, or monthly.

EXAMPLES:

  habits habit add read daily
  habits habit add "clean kitchen" weekly
  habits habit add budget monthly`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		h, err := storage.AddHabit(repo, user.ID, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to add habit: %w", err)
		}

		color.Green("✓ Added %s habit %s", h.Periodicity, h.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(h.ShortID()))
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List habits",
	Long: `List your habits in creation order.

OUTPUT FORMAT:

  Each line shows: ID  PERIODICITY  NAME  CURRENT/LONGEST STREAK  (STATUS)

  The ID is an 8-character prefix you can use with other commands.

EXAMPLES:

  habits habit list                   # All habits
  habits habit list -p weekly         # Only weekly habits`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		periodicity, err := parsePeriodicityFlag(listPeriodicity)
		if err != nil {
			return err
		}

		histories, err := storage.LoadHistories(repo, user.ID, periodicity)
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}

		if len(histories) == 0 {
			fmt.Println("No habits found.")
			return nil
		}

		now := time.Now()
		for _, h := range histories {
			if err := printHabitLine(h, now); err != nil {
				return err
			}
		}
		return nil
	},
}

var habitDeleteCmd = &cobra.Command{
	Use:     "delete <habit>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a habit",
	Long: `Delete a habit and all of its completions.

EXAMPLES:

  habits habit delete read          # By name
  habits habit rm abc12345          # By ID prefix

CAUTION:

  This permanently deletes the habit's history. There is no undo.
  If the prefix matches multiple habits, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		// Look it up first to show what we're deleting
		h, err := repo.GetHabit(user.ID, args[0])
		if err != nil {
			return fmt.Errorf("habit not found: %w", err)
		}

		if err := repo.DeleteHabit(user.ID, h.ID.String()); err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}

		color.Yellow("✗ Deleted %s", h.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(h.ShortID()), h.Periodicity)
		return nil
	},
}

// parsePeriodicityFlag returns nil for an empty flag.
func parsePeriodicityFlag(s string) (*models.Periodicity, error) {
	if s == "" {
		return nil, nil
	}
	p, err := models.ParsePeriodicity(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func init() {
	habitListCmd.Flags().StringVarP(&listPeriodicity, "periodicity", "p", "", "filter by periodicity (daily, weekly, monthly)")

	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitDeleteCmd)
	rootCmd.AddCommand(habitCmd)
}
