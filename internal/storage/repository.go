// ABOUTME: Repository interface for habit data storage.
// ABOUTME: Defines contract for users, habits, and completions across backends.
package storage

import (
	"errors"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or is not
	// visible to the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when an ID prefix matches several records.
	ErrAmbiguous = errors.New("ambiguous reference")
)

// Repository defines the storage interface for habit data.
// Habits are always scoped to their owning user.
type Repository interface {
	// User operations
	CreateUser(u *models.User) error
	GetUserByUsername(username string) (*models.User, error)

	// Habit operations. ref is a full ID, an ID prefix, or the habit name.
	CreateHabit(h *models.Habit) error
	GetHabit(userID uuid.UUID, ref string) (*models.Habit, error)
	ListHabits(userID uuid.UUID, periodicity *models.Periodicity) ([]*models.Habit, error)
	DeleteHabit(userID uuid.UUID, ref string) error

	// Completion operations
	AddCompletion(c *models.Completion) error
	ListCompletions(habitID uuid.UUID) ([]*models.Completion, error)

	// Export/Import
	GetAllData(userID uuid.UUID) (*ExportData, error)
	ImportData(userID uuid.UUID, data *ExportData) error

	// Lifecycle
	Close() error
}
