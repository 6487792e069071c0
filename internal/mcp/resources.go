// ABOUTME: MCP resource implementations for habits.
// ABOUTME: Provides habits://summary and habits://today resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/habits/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	summaryURI = "habits://summary"
	todayURI   = "habits://today"
)

func (s *Server) registerResources() {
	// habits://summary - Full analytics report across all habits
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Habit Summary",
		Description: "Streaks for every habit plus cross-habit analytics",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// habits://today - Which habits were completed today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Habits",
		Description: "Habits completed today and habits still open",
		MIMEType:    "application/json",
	}, s.handleTodayResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	report, err := s.buildReport(nil)
	if err != nil {
		return nil, err
	}
	return jsonResource(summaryURI, report)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	histories, err := storage.LoadHistories(s.repo, s.user.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	done := []string{}
	open := []string{}
	for _, h := range histories {
		completed := false
		for _, d := range h.Dates {
			if !d.Before(todayStart) {
				completed = true
				break
			}
		}
		if completed {
			done = append(done, h.Habit.Name)
		} else {
			open = append(open, h.Habit.Name)
		}
	}

	return jsonResource(todayURI, map[string]any{
		"date":      todayStart.Format("2006-01-02"),
		"completed": done,
		"open":      open,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
