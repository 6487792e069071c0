// ABOUTME: Account registration and login for habit owners.
// ABOUTME: Passwords are hashed with bcrypt and never stored in plaintext.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
)

// BcryptCost is the cost factor for bcrypt hashing.
const BcryptCost = 12

const (
	maxUsernameLength = 50
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
)

// UserStore is the subset of storage.Repository auth needs.
type UserStore interface {
	CreateUser(u *models.User) error
	GetUserByUsername(username string) (*models.User, error)
}

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateUsername checks length and character rules for usernames.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidUsername)
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("%w: must be at most %d characters", ErrInvalidUsername, maxUsernameLength)
	}
	if strings.ContainsAny(username, " \t\n") {
		return fmt.Errorf("%w: must not contain whitespace", ErrInvalidUsername)
	}
	return nil
}

// ValidatePassword checks password length.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidPassword, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: must be at most %d bytes", ErrInvalidPassword, maxPasswordLength)
	}
	return nil
}

// Register creates a new account.
func Register(store UserStore, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := store.GetUserByUsername(username)
	switch {
	case err == nil && existing != nil:
		return nil, ErrUsernameTaken
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, hash)
	if err := store.CreateUser(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info("registered user", "username", username)
	return user, nil
}

// Login verifies credentials and returns the matching user. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func Login(store UserStore, username, password string) (*models.User, error) {
	user, err := store.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.Warn("login for unknown user", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		logger.Warn("login with wrong password", "username", username)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
