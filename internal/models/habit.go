// ABOUTME: Habit model and Periodicity enum for habit tracking.
// ABOUTME: Periodicity decides which completion gaps count as on time.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidPeriodicity is returned for any periodicity tag other than
// daily, weekly, or monthly.
var ErrInvalidPeriodicity = errors.New("invalid periodicity")

// Periodicity is the cadence class of a habit.
type Periodicity string

const (
	Daily   Periodicity = "daily"
	Weekly  Periodicity = "weekly"
	Monthly Periodicity = "monthly"
)

// AllPeriodicities lists the valid periodicities in display order.
var AllPeriodicities = []Periodicity{Daily, Weekly, Monthly}

// IsValid reports whether p is one of the known periodicities.
func (p Periodicity) IsValid() bool {
	switch p {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Validate returns ErrInvalidPeriodicity (wrapped with the tag) when p is unknown.
func (p Periodicity) Validate() error {
	if !p.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriodicity, string(p))
	}
	return nil
}

// ParsePeriodicity normalizes user input into a Periodicity.
func ParsePeriodicity(s string) (Periodicity, error) {
	p := Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Habit is a recurring activity owned by a user.
// Periodicity is fixed at creation.
type Habit struct {
	ID          uuid.UUID   `json:"id" yaml:"id"`
	UserID      uuid.UUID   `json:"user_id" yaml:"user_id"`
	Name        string      `json:"name" yaml:"name"`
	Periodicity Periodicity `json:"periodicity" yaml:"periodicity"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
}

// NewHabit creates a new Habit with generated UUID and current timestamp.
func NewHabit(userID uuid.UUID, name string, periodicity Periodicity) *Habit {
	return &Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Periodicity: periodicity,
		CreatedAt:   time.Now(),
	}
}

// WithCreatedAt sets a custom created_at timestamp.
func (h *Habit) WithCreatedAt(t time.Time) *Habit {
	h.CreatedAt = t
	return h
}

// ShortID returns the 8-character ID prefix shown in listings.
func (h *Habit) ShortID() string {
	return h.ID.String()[:8]
}
