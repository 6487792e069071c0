// ABOUTME: Export and import functionality for habit data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/streak"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for one user's habit data.
type ExportData struct {
	Version     string               `json:"version" yaml:"version"`
	ExportedAt  time.Time            `json:"exported_at" yaml:"exported_at"`
	Tool        string               `json:"tool" yaml:"tool"`
	Habits      []*models.Habit      `json:"habits" yaml:"habits"`
	Completions []*models.Completion `json:"completions" yaml:"completions"`
}

// habitLister is the read side shared by every backend.
type habitLister interface {
	ListHabits(userID uuid.UUID, periodicity *models.Periodicity) ([]*models.Habit, error)
	ListCompletions(habitID uuid.UUID) ([]*models.Completion, error)
}

// CollectData gathers all of a user's habits and completions.
func CollectData(repo habitLister, userID uuid.UUID) (*ExportData, error) {
	habits, err := repo.ListHabits(userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	data := &ExportData{
		Version:     "1.0",
		ExportedAt:  time.Now(),
		Tool:        "habits",
		Habits:      habits,
		Completions: []*models.Completion{},
	}
	if data.Habits == nil {
		data.Habits = []*models.Habit{}
	}

	for _, h := range habits {
		completions, err := repo.ListCompletions(h.ID)
		if err != nil {
			return nil, fmt.Errorf("list completions for %s: %w", h.Name, err)
		}
		data.Completions = append(data.Completions, completions...)
	}
	return data, nil
}

// ValidateImport checks that every completion references an exported habit
// and every habit has a known periodicity.
func ValidateImport(data *ExportData) error {
	known := make(map[uuid.UUID]bool, len(data.Habits))
	for _, h := range data.Habits {
		if err := h.Periodicity.Validate(); err != nil {
			return fmt.Errorf("habit %q: %w", h.Name, err)
		}
		known[h.ID] = true
	}
	for _, c := range data.Completions {
		if !known[c.HabitID] {
			return fmt.Errorf("completion %s references unknown habit %s", c.ID, c.HabitID)
		}
	}
	return nil
}

// GetAllData retrieves all of a user's data for export.
func (d *DB) GetAllData(userID uuid.UUID) (*ExportData, error) {
	return CollectData(d, userID)
}

// CheckImportNames returns ErrHabitExists when an imported habit name is
// already taken by one of existing or repeats within incoming.
func CheckImportNames(existing []string, incoming []*models.Habit) error {
	taken := make(map[string]bool, len(existing)+len(incoming))
	for _, name := range existing {
		taken[name] = true
	}
	for _, h := range incoming {
		if taken[h.Name] {
			return fmt.Errorf("%w: %s", ErrHabitExists, h.Name)
		}
		taken[h.Name] = true
	}
	return nil
}

func habitNames(q querier, userID uuid.UUID) ([]string, error) {
	rows, err := q.Query(`SELECT name FROM habits WHERE user_id = ?`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list habit names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ImportData imports habits and completions for userID in one transaction.
// Imported habits are reassigned to userID and must not reuse a name the
// user already has.
func (d *DB) ImportData(userID uuid.UUID, data *ExportData) error {
	if err := ValidateImport(data); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	return d.withTx(func(tx *sql.Tx) error {
		names, err := habitNames(tx, userID)
		if err != nil {
			return err
		}
		if err := CheckImportNames(names, data.Habits); err != nil {
			return fmt.Errorf("import: %w", err)
		}

		for _, h := range data.Habits {
			owned := *h
			owned.UserID = userID
			if err := createHabit(tx, &owned); err != nil {
				return fmt.Errorf("import habit: %w", err)
			}
		}
		for _, c := range data.Completions {
			if err := addCompletion(tx, c); err != nil {
				return fmt.Errorf("import completion: %w", err)
			}
		}
		return nil
	})
}

// ExportJSON exports all of a user's data as JSON.
func ExportJSON(repo Repository, userID uuid.UUID) ([]byte, error) {
	data, err := repo.GetAllData(userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(repo Repository, userID uuid.UUID, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return repo.ImportData(userID, &data)
}

// ExportYAML exports all of a user's data as YAML with completions nested
// under their habit.
func ExportYAML(repo Repository, userID uuid.UUID) ([]byte, error) {
	data, err := repo.GetAllData(userID)
	if err != nil {
		return nil, err
	}

	byHabit := make(map[uuid.UUID][]string)
	for _, c := range data.Completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c.CompletedAt.Format(time.RFC3339))
	}

	yamlData := struct {
		Version    string      `yaml:"version"`
		ExportedAt string      `yaml:"exported_at"`
		Tool       string      `yaml:"tool"`
		Habits     []yamlHabit `yaml:"habits"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Habits:     make([]yamlHabit, 0, len(data.Habits)),
	}

	for _, h := range data.Habits {
		yamlData.Habits = append(yamlData.Habits, yamlHabit{
			ID:          h.ShortID(),
			Name:        h.Name,
			Periodicity: string(h.Periodicity),
			CreatedAt:   h.CreatedAt.Format(time.RFC3339),
			Completions: byHabit[h.ID],
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlHabit struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Periodicity string   `yaml:"periodicity"`
	CreatedAt   string   `yaml:"created_at"`
	Completions []string `yaml:"completions,omitempty"`
}

// ExportMarkdown renders a streak summary table followed by one completion
// table per habit. periodicity and since filter the output when set.
func ExportMarkdown(repo Repository, userID uuid.UUID, periodicity *models.Periodicity, since *time.Time) (string, error) {
	habits, err := repo.ListHabits(userID, periodicity)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Habits Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(habits) == 0 {
		sb.WriteString("No habits found.\n")
		return sb.String(), nil
	}

	completions := make(map[uuid.UUID][]*models.Completion, len(habits))
	sb.WriteString("## Streaks\n\n")
	sb.WriteString("| Habit | Periodicity | Completions | Current | Longest |\n")
	sb.WriteString("|-------|-------------|-------------|---------|---------|\n")
	for _, h := range habits {
		cs, err := repo.ListCompletions(h.ID)
		if err != nil {
			return "", err
		}
		completions[h.ID] = cs

		res, err := streak.Calculate(h.Periodicity, models.CompletionTimes(cs))
		if err != nil {
			return "", fmt.Errorf("habit %q: %w", h.Name, err)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d |\n",
			h.Name, h.Periodicity, len(cs), res.Current, res.Longest))
	}
	sb.WriteString("\n")

	for _, h := range habits {
		sb.WriteString(fmt.Sprintf("## %s\n\n", h.Name))
		sb.WriteString("| Completed |\n")
		sb.WriteString("|-----------|\n")
		for _, c := range completions[h.ID] {
			if since != nil && c.CompletedAt.Before(*since) {
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s |\n", c.CompletedAt.Format("2006-01-02 15:04")))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
