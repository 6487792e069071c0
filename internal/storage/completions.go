// ABOUTME: Completion operations for SQL storage.
// ABOUTME: Completions are append-only and listed oldest first.
package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

// AddCompletion records a completion for an existing habit.
func (d *DB) AddCompletion(c *models.Completion) error {
	return addCompletion(d.db, c)
}

func addCompletion(q querier, c *models.Completion) error {
	_, err := q.Exec(`
		INSERT INTO completions (id, habit_id, completed_at, created_at)
		VALUES (?, ?, ?, ?)
	`, c.ID.String(), c.HabitID.String(), formatTime(c.CompletedAt), formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("add completion: %w", err)
	}
	return nil
}

// ListCompletions returns a habit's completions ordered by CompletedAt ascending.
func (d *DB) ListCompletions(habitID uuid.UUID) ([]*models.Completion, error) {
	rows, err := d.db.Query(`
		SELECT id, habit_id, completed_at, created_at
		FROM completions
		WHERE habit_id = ?
		ORDER BY completed_at ASC
	`, habitID.String())
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []*models.Completion
	for rows.Next() {
		var c models.Completion
		var idStr, habitIDStr, completedAt, createdAt string
		if err := rows.Scan(&idStr, &habitIDStr, &completedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}

		if c.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse completion ID %q: %w", idStr, err)
		}
		if c.HabitID, err = uuid.Parse(habitIDStr); err != nil {
			return nil, fmt.Errorf("parse habit ID %q: %w", habitIDStr, err)
		}
		if c.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, fmt.Errorf("parse completed_at %q: %w", completedAt, err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		completions = append(completions, &c)
	}
	return completions, rows.Err()
}
