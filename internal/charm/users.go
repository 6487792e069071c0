// ABOUTME: Charm-based user storage.
// ABOUTME: Users are keyed by username so lookups need no scan.
package charm

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
)

// userRecord is the stored form of a user. models.User hides the hash
// from JSON, so it is carried explicitly here.
type userRecord struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func userKey(username string) string {
	return UserPrefix + username
}

// CreateUser stores a new user. Usernames are unique.
func (c *Client) CreateUser(u *models.User) error {
	if _, err := c.getExact(userKey(u.Username)); err == nil {
		return fmt.Errorf("create user: username %s already exists", u.Username)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("create user: %w", err)
	}

	rec := userRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	if err := c.setJSON(userKey(u.Username), rec); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByUsername looks up a user by exact username.
func (c *Client) GetUserByUsername(username string) (*models.User, error) {
	data, err := c.getExact(userKey(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	rec, err := unmarshalJSON[userRecord](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &models.User{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}, nil
}
