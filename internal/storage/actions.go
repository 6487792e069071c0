// ABOUTME: Habit actions shared by the CLI and the MCP server.
// ABOUTME: Validates input before delegating to any Repository.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

// ErrHabitExists is returned when a user already has a habit with the name.
var ErrHabitExists = errors.New("habit already exists")

const maxHabitNameLength = 100

// AddHabit creates a habit for the user after validating the name and
// periodicity. Names are unique per user.
func AddHabit(repo Repository, userID uuid.UUID, name, periodicity string) (*models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("habit name must not be empty")
	}
	if len(name) > maxHabitNameLength {
		return nil, fmt.Errorf("habit name must be at most %d characters", maxHabitNameLength)
	}

	p, err := models.ParsePeriodicity(periodicity)
	if err != nil {
		return nil, err
	}

	existing, err := repo.ListHabits(userID, nil)
	if err != nil {
		return nil, err
	}
	for _, h := range existing {
		if h.Name == name {
			return nil, fmt.Errorf("%w: %s", ErrHabitExists, name)
		}
	}

	h := models.NewHabit(userID, name, p)
	if err := repo.CreateHabit(h); err != nil {
		return nil, err
	}
	return h, nil
}

// CompleteHabit records a completion of the referenced habit at the given
// time, or now when at is zero.
func CompleteHabit(repo Repository, userID uuid.UUID, ref string, at time.Time) (*models.Habit, *models.Completion, error) {
	h, err := repo.GetHabit(userID, ref)
	if err != nil {
		return nil, nil, err
	}

	c := models.NewCompletion(h.ID)
	if !at.IsZero() {
		c.WithCompletedAt(at)
	}
	if err := repo.AddCompletion(c); err != nil {
		return nil, nil, err
	}
	return h, c, nil
}
