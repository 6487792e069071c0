// ABOUTME: Loads habit completion histories for the analytics engine.
// ABOUTME: Hands the engine a snapshot of timestamps per habit in creation order.
package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/analytics"
	"github.com/harperreed/habits/internal/models"
)

// LoadHistory returns one habit's completion timestamps.
func LoadHistory(repo Repository, h *models.Habit) (analytics.HabitHistory, error) {
	completions, err := repo.ListCompletions(h.ID)
	if err != nil {
		return analytics.HabitHistory{}, fmt.Errorf("list completions for %s: %w", h.Name, err)
	}
	return analytics.HabitHistory{Habit: h, Dates: models.CompletionTimes(completions)}, nil
}

// LoadHistories returns every habit of the user with its completion
// timestamps, optionally filtered by periodicity.
func LoadHistories(repo Repository, userID uuid.UUID, periodicity *models.Periodicity) ([]analytics.HabitHistory, error) {
	habits, err := repo.ListHabits(userID, periodicity)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	histories := make([]analytics.HabitHistory, 0, len(habits))
	for _, h := range habits {
		hist, err := LoadHistory(repo, h)
		if err != nil {
			return nil, err
		}
		histories = append(histories, hist)
	}
	return histories, nil
}
