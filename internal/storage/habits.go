// ABOUTME: Habit CRUD operations for SQL storage.
// ABOUTME: Resolves habits by full ID, ID prefix, or name within one user's habits.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

const habitColumns = "id, user_id, name, periodicity, created_at"

// CreateHabit stores a new habit.
func (d *DB) CreateHabit(h *models.Habit) error {
	return createHabit(d.db, h)
}

func createHabit(q querier, h *models.Habit) error {
	if err := h.Periodicity.Validate(); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	_, err := q.Exec(`
		INSERT INTO habits (id, user_id, name, periodicity, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, h.ID.String(), h.UserID.String(), h.Name, string(h.Periodicity), formatTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

// GetHabit retrieves one of the user's habits by ID, ID prefix, or name.
func (d *DB) GetHabit(userID uuid.UUID, ref string) (*models.Habit, error) {
	id, err := d.resolveHabitID(userID, ref)
	if err != nil {
		return nil, err
	}

	row := d.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ? AND user_id = ?`,
		id, userID.String())
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("habit %s: %w", ref, ErrNotFound)
		}
		return nil, err
	}
	return h, nil
}

// ListHabits returns the user's habits in creation order, optionally
// filtered by periodicity.
func (d *DB) ListHabits(userID uuid.UUID, periodicity *models.Periodicity) ([]*models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	args := []any{userID.String()}

	if periodicity != nil {
		query += ` AND periodicity = ?`
		args = append(args, string(*periodicity))
	}
	query += ` ORDER BY created_at ASC, name ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// DeleteHabit removes one of the user's habits and its completions.
func (d *DB) DeleteHabit(userID uuid.UUID, ref string) error {
	id, err := d.resolveHabitID(userID, ref)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	return d.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM completions WHERE habit_id = ?`, id); err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		result, err := tx.Exec(`DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID.String())
		if err != nil {
			return fmt.Errorf("delete habit: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete habit: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("habit %s: %w", ref, ErrNotFound)
		}
		return nil
	})
}

// resolveHabitID finds the full ID of a user's habit. Full UUIDs are used
// directly, then exact names, then unique ID prefixes.
func (d *DB) resolveHabitID(userID uuid.UUID, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty habit reference: %w", ErrNotFound)
	}
	if IsFullID(ref) {
		return strings.ToLower(ref), nil
	}

	matches, err := d.habitIDs(`SELECT id FROM habits WHERE user_id = ? AND name = ?`,
		userID.String(), ref)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 && IsIDPrefix(ref) {
		matches, err = d.habitIDs(`SELECT id FROM habits WHERE user_id = ? AND id LIKE ?`,
			userID.String(), strings.ToLower(ref)+"%")
		if err != nil {
			return "", err
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("habit %s: %w", ref, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("habit %s matches %d habits: %w", ref, len(matches), ErrAmbiguous)
	}
}

// IsFullID reports whether ref is a complete UUID.
func IsFullID(ref string) bool {
	_, err := uuid.Parse(ref)
	return err == nil && len(ref) == 36
}

// IsIDPrefix reports whether ref could be the start of a UUID string.
func IsIDPrefix(ref string) bool {
	if ref == "" || len(ref) > 36 {
		return false
	}
	for _, r := range strings.ToLower(ref) {
		if !strings.ContainsRune("0123456789abcdef-", r) {
			return false
		}
	}
	return true
}

func (d *DB) habitIDs(query string, args ...any) ([]string, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve habit ID: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan habit ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(s scanner) (*models.Habit, error) {
	var h models.Habit
	var idStr, userIDStr, periodicity, createdAt string

	if err := s.Scan(&idStr, &userIDStr, &h.Name, &periodicity, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan habit: %w", err)
	}

	var err error
	if h.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse habit ID %q: %w", idStr, err)
	}
	if h.UserID, err = uuid.Parse(userIDStr); err != nil {
		return nil, fmt.Errorf("parse user ID %q: %w", userIDStr, err)
	}
	h.Periodicity = models.Periodicity(periodicity)
	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return &h, nil
}
