// ABOUTME: Data migration between habit storage backends.
// ABOUTME: Copies a user with their habits and completions from source to destination.

package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/harperreed/habits/internal/models"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Users       int
	Habits      int
	Completions int
}

// MigrateData copies the named user and all of their data from src to dst.
// The user must not already exist in the destination.
func MigrateData(src, dst Repository, username string) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	user, err := src.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("get source user: %w", err)
	}

	if _, err := dst.GetUserByUsername(username); err == nil {
		return nil, fmt.Errorf("user %s already exists in destination", username)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check destination user: %w", err)
	}

	copied := models.User{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if err := dst.CreateUser(&copied); err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	summary.Users++

	data, err := src.GetAllData(user.ID)
	if err != nil {
		return nil, fmt.Errorf("read source data: %w", err)
	}

	if err := dst.ImportData(user.ID, data); err != nil {
		return nil, fmt.Errorf("write destination data: %w", err)
	}
	summary.Habits = len(data.Habits)
	summary.Completions = len(data.Completions)

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
