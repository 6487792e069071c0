// ABOUTME: Root Cobra command for habits CLI.
// ABOUTME: Loads config, logger, and storage via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	repo storage.Repository

	debugFlag    bool
	userFlag     string
	passwordFlag string
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Personal habit tracker with streaks and analytics",
	Long: `Habits is a CLI tool for tracking recurring habits and the streaks they build.

WHAT IT TRACKS:

  Habits         named activities that recur daily, weekly, or monthly
  Completions    each time you check a habit off
  Streaks        consecutive on-time completions, current and longest
  Analytics      most consistent, most challenging, and streak totals

QUICK START:

  $ habits register alice                   # Create an account
  $ habits habit add read daily             # Track a daily habit
  $ habits habit add "clean kitchen" weekly # Track a weekly habit
  $ habits complete read                    # Check it off now
  $ habits complete read --at 2025-03-01    # Backfill a completion
  $ habits streak                           # Streaks for every habit
  $ habits analytics                        # Cross-habit analytics

USERS:

  Every command acts as one user. Pass --user or set "username" in the
  config file or HABITS_USER. The password comes from --password,
  HABITS_PASSWORD, or an interactive prompt.

STORAGE BACKENDS:

  sqlite   local database at ~/.local/share/habits/habits.db (default)
  mysql    shared MySQL server (set database_url)
  charm    Charm KV, E2E encrypted and synced across devices

  Configure in ~/.config/habits/config.json or with HABITS_BACKEND.

MCP INTEGRATION:

  Run 'habits mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "habits": { "command": "habits", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		switch cmd.Name() {
		case "version", "help", "install-skill", "completion":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logger.Init(logger.Config{Debug: debugFlag, DataDir: cfg.GetDataDir()}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// kv maintenance commands need the store closed.
		if cmd.HasParent() && cmd.Parent().Name() == "sync" && (cmd.Name() == "repair" || cmd.Name() == "wipe") {
			return nil
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		logger.Debug("storage ready", "backend", cfg.GetBackend(), "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRepo()
	},
}

// closeRepo closes the open repository, if any. PersistentPostRunE does not
// run when a command fails.
func closeRepo() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "username to act as (default from config or HABITS_USER)")
	rootCmd.PersistentFlags().StringVar(&passwordFlag, "password", "", "password (default from HABITS_PASSWORD or prompt)")
}
