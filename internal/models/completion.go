// ABOUTME: Completion model recording a single check-off of a habit.
// ABOUTME: Completions are append-only; only their timestamps matter for streaks.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Completion is one recorded completion of a habit.
type Completion struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	HabitID     uuid.UUID `json:"habit_id" yaml:"habit_id"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewCompletion creates a Completion for habitID stamped with the current time.
func NewCompletion(habitID uuid.UUID) *Completion {
	now := time.Now()
	return &Completion{
		ID:          uuid.New(),
		HabitID:     habitID,
		CompletedAt: now,
		CreatedAt:   now,
	}
}

// WithCompletedAt sets a custom completed_at timestamp.
func (c *Completion) WithCompletedAt(t time.Time) *Completion {
	c.CompletedAt = t
	return c
}

// CompletionTimes extracts the timestamps from completions, preserving order.
func CompletionTimes(completions []*Completion) []time.Time {
	times := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		times = append(times, c.CompletedAt)
	}
	return times
}
