// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to track habits on your behalf through
a standardized protocol. The server communicates via stdin/stdout and acts
as the user selected with --user (or HABITS_USER). Set HABITS_PASSWORD in
the server environment since there is no terminal to prompt on.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "habits": {
        "command": "habits",
        "args": ["mcp"],
        "env": { "HABITS_USER": "alice", "HABITS_PASSWORD": "..." }
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  list_habits      List habits with current streaks
  add_habit        Create a daily, weekly, or monthly habit
  complete_habit   Record a completion (now or at a given time)
  get_streak       Current and longest streak for a habit
  get_analytics    Cross-habit analytics report
  delete_habit     Delete a habit and its completions

AVAILABLE RESOURCES:

  habits://summary   Analytics report for all habits
  habits://today     Habits completed and still open today`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(repo, user)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		logger.Info("mcp server starting", "user", user.Username)
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
