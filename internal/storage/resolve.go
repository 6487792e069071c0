// ABOUTME: In-memory habit reference resolution for key-value backends.
// ABOUTME: Matches a full ID, then an exact name, then a unique ID prefix.
package storage

import (
	"fmt"
	"strings"

	"github.com/harperreed/habits/internal/models"
)

// ResolveHabit picks the habit that ref refers to from one user's habits.
func ResolveHabit(habits []*models.Habit, ref string) (*models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty habit reference: %w", ErrNotFound)
	}

	if IsFullID(ref) {
		for _, h := range habits {
			if strings.EqualFold(h.ID.String(), ref) {
				return h, nil
			}
		}
		return nil, fmt.Errorf("habit %s: %w", ref, ErrNotFound)
	}

	var matches []*models.Habit
	for _, h := range habits {
		if h.Name == ref {
			matches = append(matches, h)
		}
	}
	if len(matches) == 0 && IsIDPrefix(ref) {
		prefix := strings.ToLower(ref)
		for _, h := range habits {
			if strings.HasPrefix(h.ID.String(), prefix) {
				matches = append(matches, h)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("habit %s: %w", ref, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("habit %s matches %d habits: %w", ref, len(matches), ErrAmbiguous)
	}
}
