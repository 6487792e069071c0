// ABOUTME: MCP tool implementations for habits.
// ABOUTME: Provides habit CRUD, completions, streaks, and analytics.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/habits/internal/analytics"
	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/streak"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// list_habits
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_habits",
		Description: "List habits with their current and longest streaks, optionally filtered by periodicity",
	}, s.handleListHabits)

	// add_habit
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_habit",
		Description: "Create a new daily, weekly, or monthly habit",
	}, s.handleAddHabit)

	// complete_habit
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_habit",
		Description: "Record a completion of a habit, now or at a given time",
	}, s.handleCompleteHabit)

	// get_streak
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_streak",
		Description: "Get the current and longest streak of a habit and whether it is broken",
	}, s.handleGetStreak)

	// get_analytics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_analytics",
		Description: "Get cross-habit analytics: most consistent, most challenging, longest streak, and streak totals",
	}, s.handleGetAnalytics)

	// delete_habit
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_habit",
		Description: "Delete a habit and all of its completions",
	}, s.handleDeleteHabit)
}

// Tool input/output types

type listHabitsInput struct {
	Periodicity string `json:"periodicity,omitempty" jsonschema:"Filter by periodicity (daily, weekly, monthly)"`
}

type habitSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Periodicity   string `json:"periodicity"`
	Completions   int    `json:"completions"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	Broken        bool   `json:"broken"`
}

type listHabitsOutput struct {
	Habits  []habitSummary `json:"habits"`
	Message string         `json:"message,omitempty"`
}

type addHabitInput struct {
	Name        string `json:"name" jsonschema:"Name of the habit"`
	Periodicity string `json:"periodicity" jsonschema:"How often the habit recurs: daily, weekly, or monthly"`
}

type habitOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Periodicity string `json:"periodicity"`
	Message     string `json:"message"`
}

type completeHabitInput struct {
	Habit       string `json:"habit" jsonschema:"Habit name, ID, or ID prefix"`
	CompletedAt string `json:"completed_at,omitempty" jsonschema:"Completion time (ISO 8601 or YYYY-MM-DD HH:MM), defaults to now"`
}

type habitRefInput struct {
	Habit string `json:"habit" jsonschema:"Habit name, ID, or ID prefix"`
}

type streakOutput struct {
	Habit         string `json:"habit"`
	Periodicity   string `json:"periodicity"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	Broken        bool   `json:"broken"`
	LastCompleted string `json:"last_completed,omitempty"`
	Message       string `json:"message"`
}

type analyticsInput struct {
	Periodicity string `json:"periodicity,omitempty" jsonschema:"Only include habits with this periodicity"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleListHabits(ctx context.Context, req *mcp.CallToolRequest, input listHabitsInput) (*mcp.CallToolResult, listHabitsOutput, error) {
	periodicity, err := parseOptionalPeriodicity(input.Periodicity)
	if err != nil {
		return nil, listHabitsOutput{}, err
	}

	histories, err := storage.LoadHistories(s.repo, s.user.ID, periodicity)
	if err != nil {
		return nil, listHabitsOutput{}, fmt.Errorf("failed to list habits: %w", err)
	}

	out := listHabitsOutput{Habits: make([]habitSummary, 0, len(histories))}
	if len(histories) == 0 {
		out.Message = "No habits found."
		return nil, out, nil
	}

	now := time.Now()
	for _, h := range histories {
		res, broken, err := streakFor(h, now)
		if err != nil {
			return nil, listHabitsOutput{}, err
		}
		out.Habits = append(out.Habits, habitSummary{
			ID:            h.Habit.ShortID(),
			Name:          h.Habit.Name,
			Periodicity:   string(h.Habit.Periodicity),
			Completions:   len(h.Dates),
			CurrentStreak: res.Current,
			LongestStreak: res.Longest,
			Broken:        broken,
		})
	}
	return nil, out, nil
}

func (s *Server) handleAddHabit(ctx context.Context, req *mcp.CallToolRequest, input addHabitInput) (*mcp.CallToolResult, habitOutput, error) {
	h, err := storage.AddHabit(s.repo, s.user.ID, input.Name, input.Periodicity)
	if err != nil {
		return nil, habitOutput{}, fmt.Errorf("failed to add habit: %w", err)
	}
	logger.Info("habit added via mcp", "habit", h.Name, "periodicity", h.Periodicity)

	return nil, habitOutput{
		ID:          h.ShortID(),
		Name:        h.Name,
		Periodicity: string(h.Periodicity),
		Message:     fmt.Sprintf("Added %s habit %q (ID: %s)", h.Periodicity, h.Name, h.ShortID()),
	}, nil
}

func (s *Server) handleCompleteHabit(ctx context.Context, req *mcp.CallToolRequest, input completeHabitInput) (*mcp.CallToolResult, streakOutput, error) {
	var at time.Time
	if input.CompletedAt != "" {
		t, err := models.ParseTimestamp(input.CompletedAt)
		if err != nil {
			return nil, streakOutput{}, fmt.Errorf("invalid completed_at: %w", err)
		}
		at = t
	}

	h, c, err := storage.CompleteHabit(s.repo, s.user.ID, input.Habit, at)
	if err != nil {
		return nil, streakOutput{}, fmt.Errorf("failed to complete habit: %w", err)
	}

	out, err := s.streakOutput(h)
	if err != nil {
		return nil, streakOutput{}, err
	}
	out.Message = fmt.Sprintf("Completed %q at %s; current streak %d", h.Name,
		c.CompletedAt.Format("2006-01-02 15:04"), out.CurrentStreak)
	return nil, out, nil
}

func (s *Server) handleGetStreak(ctx context.Context, req *mcp.CallToolRequest, input habitRefInput) (*mcp.CallToolResult, streakOutput, error) {
	h, err := s.repo.GetHabit(s.user.ID, input.Habit)
	if err != nil {
		return nil, streakOutput{}, fmt.Errorf("habit not found: %w", err)
	}

	out, err := s.streakOutput(h)
	if err != nil {
		return nil, streakOutput{}, err
	}
	out.Message = fmt.Sprintf("%s: current streak %d, longest %d", h.Name, out.CurrentStreak, out.LongestStreak)
	return nil, out, nil
}

func (s *Server) handleGetAnalytics(ctx context.Context, req *mcp.CallToolRequest, input analyticsInput) (*mcp.CallToolResult, any, error) {
	periodicity, err := parseOptionalPeriodicity(input.Periodicity)
	if err != nil {
		return nil, nil, err
	}

	report, err := s.buildReport(periodicity)
	if err != nil {
		return nil, nil, err
	}
	return nil, report, nil
}

func (s *Server) handleDeleteHabit(ctx context.Context, req *mcp.CallToolRequest, input habitRefInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteHabit(s.user.ID, input.Habit); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete habit: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted habit: %s", input.Habit),
	}, nil
}

func (s *Server) streakOutput(h *models.Habit) (streakOutput, error) {
	hist, err := storage.LoadHistory(s.repo, h)
	if err != nil {
		return streakOutput{}, err
	}

	res, broken, err := streakFor(hist, time.Now())
	if err != nil {
		return streakOutput{}, err
	}

	out := streakOutput{
		Habit:         h.Name,
		Periodicity:   string(h.Periodicity),
		CurrentStreak: res.Current,
		LongestStreak: res.Longest,
		Broken:        broken,
	}
	if len(hist.Dates) > 0 {
		out.LastCompleted = streak.Latest(hist.Dates).Format(time.RFC3339)
	}
	return out, nil
}

func (s *Server) buildReport(periodicity *models.Periodicity) (*analytics.Report, error) {
	histories, err := storage.LoadHistories(s.repo, s.user.ID, periodicity)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	report, err := analytics.BuildReport(histories, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to build analytics: %w", err)
	}
	return report, nil
}

func streakFor(h analytics.HabitHistory, now time.Time) (streak.Result, bool, error) {
	res, err := streak.Calculate(h.Habit.Periodicity, h.Dates)
	if err != nil {
		return streak.Result{}, false, fmt.Errorf("habit %q: %w", h.Habit.Name, err)
	}
	broken, err := streak.IsHistoryBroken(h.Habit.Periodicity, h.Dates, now)
	if err != nil {
		return streak.Result{}, false, fmt.Errorf("habit %q: %w", h.Habit.Name, err)
	}
	return res, broken, nil
}

func parseOptionalPeriodicity(s string) (*models.Periodicity, error) {
	if s == "" {
		return nil, nil
	}
	p, err := models.ParsePeriodicity(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
