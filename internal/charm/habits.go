// ABOUTME: Charm-based habit storage.
// ABOUTME: Habits are keyed by ID; deleting one removes its completions.
package charm

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
)

func habitKey(id uuid.UUID) string {
	return HabitPrefix + id.String()
}

// CreateHabit stores a new habit.
func (c *Client) CreateHabit(h *models.Habit) error {
	if err := h.Periodicity.Validate(); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	if err := c.setJSON(habitKey(h.ID), h); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

// GetHabit retrieves one of the user's habits by ID, ID prefix, or name.
func (c *Client) GetHabit(userID uuid.UUID, ref string) (*models.Habit, error) {
	habits, err := c.ListHabits(userID, nil)
	if err != nil {
		return nil, err
	}
	return storage.ResolveHabit(habits, ref)
}

// ListHabits returns the user's habits in creation order, optionally
// filtered by periodicity.
func (c *Client) ListHabits(userID uuid.UUID, periodicity *models.Periodicity) ([]*models.Habit, error) {
	values, err := c.listByPrefix(HabitPrefix)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	var habits []*models.Habit
	for _, data := range values {
		h, err := unmarshalJSON[models.Habit](data)
		if err != nil {
			return nil, fmt.Errorf("unmarshal habit: %w", err)
		}
		if h.UserID != userID {
			continue
		}
		if periodicity != nil && h.Periodicity != *periodicity {
			continue
		}
		habits = append(habits, h)
	}

	sort.SliceStable(habits, func(i, j int) bool {
		if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].CreatedAt.Before(habits[j].CreatedAt)
		}
		return habits[i].Name < habits[j].Name
	})
	return habits, nil
}

// DeleteHabit removes one of the user's habits and its completions.
func (c *Client) DeleteHabit(userID uuid.UUID, ref string) error {
	h, err := c.GetHabit(userID, ref)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	keys, err := c.keysWithPrefix(completionKeyPrefix(h.ID))
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	keys = append(keys, []byte(habitKey(h.ID)))

	if err := c.deleteKeys(keys); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}
