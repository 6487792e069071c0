// ABOUTME: Charm-based export and import of a user's habit data.
// ABOUTME: Imports write every record, then sync once.
package charm

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/storage"
)

// GetAllData retrieves all of a user's data for export.
func (c *Client) GetAllData(userID uuid.UUID) (*storage.ExportData, error) {
	return storage.CollectData(c, userID)
}

// ImportData imports habits and completions for userID. Imported habits are
// reassigned to userID and must not reuse a name the user already has.
func (c *Client) ImportData(userID uuid.UUID, data *storage.ExportData) error {
	if err := storage.ValidateImport(data); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	existing, err := c.ListHabits(userID, nil)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	names := make([]string, 0, len(existing))
	for _, h := range existing {
		names = append(names, h.Name)
	}
	if err := storage.CheckImportNames(names, data.Habits); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	c.mu.Lock()
	prev := c.autoSync
	c.autoSync = false
	c.mu.Unlock()

	defer func() {
		c.SetAutoSync(prev)
		if prev {
			if err := c.Sync(); err != nil {
				logger.Warn("sync after import failed", "error", err)
			}
		}
	}()

	for _, h := range data.Habits {
		owned := *h
		owned.UserID = userID
		if err := c.CreateHabit(&owned); err != nil {
			return fmt.Errorf("import habit: %w", err)
		}
	}
	for _, comp := range data.Completions {
		if err := c.setJSON(completionKey(comp), comp); err != nil {
			return fmt.Errorf("import completion: %w", err)
		}
	}
	return nil
}
