// ABOUTME: Charm-based completion storage.
// ABOUTME: Completion keys embed the habit ID so one habit's history is a prefix scan.
package charm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
)

func completionKeyPrefix(habitID uuid.UUID) string {
	return CompletionPrefix + habitID.String() + ":"
}

func completionKey(c *models.Completion) string {
	return completionKeyPrefix(c.HabitID) + c.ID.String()
}

// AddCompletion records a completion for an existing habit.
func (c *Client) AddCompletion(comp *models.Completion) error {
	if _, err := c.getExact(habitKey(comp.HabitID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("add completion: habit %s: %w", comp.HabitID, storage.ErrNotFound)
		}
		return fmt.Errorf("add completion: %w", err)
	}
	if err := c.setJSON(completionKey(comp), comp); err != nil {
		return fmt.Errorf("add completion: %w", err)
	}
	return nil
}

// ListCompletions returns a habit's completions ordered by CompletedAt ascending.
func (c *Client) ListCompletions(habitID uuid.UUID) ([]*models.Completion, error) {
	values, err := c.listByPrefix(completionKeyPrefix(habitID))
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}

	completions := make([]*models.Completion, 0, len(values))
	for _, data := range values {
		comp, err := unmarshalJSON[models.Completion](data)
		if err != nil {
			return nil, fmt.Errorf("unmarshal completion: %w", err)
		}
		comp.CompletedAt = comp.CompletedAt.Local()
		comp.CreatedAt = comp.CreatedAt.Local()
		completions = append(completions, comp)
	}

	sort.SliceStable(completions, func(i, j int) bool {
		return completions[i].CompletedAt.Before(completions[j].CompletedAt)
	})
	return completions, nil
}
