// ABOUTME: CLI command for migrating a user between storage backends.
// ABOUTME: Copies the user, habits, and completions from the configured backend to another.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo          string
	migrateDataDir     string
	migrateDatabaseURL string
	migrateSwitch      bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy your data to another storage backend",
	Long: `Copy the acting user with all habits and completions from the
configured backend to another one.

The user must not already exist in the destination. The source is left
untouched.

USAGE:

  habits migrate --to charm                              # SQLite -> Charm KV
  habits migrate --to mysql --database-url "u:p@tcp(db:3306)/habits"
  habits migrate --to sqlite --data-dir ~/habits-copy    # Another SQLite file
  habits migrate --to charm --switch                     # Also make charm the default

AFTER MIGRATION:

  Use --switch to update the config file, or set HABITS_BACKEND.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		dstCfg := &config.Config{
			Backend:     migrateTo,
			DataDir:     cfg.DataDir,
			DatabaseURL: cfg.DatabaseURL,
		}
		if migrateDataDir != "" {
			dstCfg.DataDir = migrateDataDir
		}
		if migrateDatabaseURL != "" {
			dstCfg.DatabaseURL = migrateDatabaseURL
		}

		if sameStore(cfg, dstCfg) {
			return fmt.Errorf("destination is the configured %s backend; choose another backend or location", cfg.GetBackend())
		}

		if dstCfg.GetBackend() == config.BackendSQLite {
			nonEmpty, err := storage.IsDirNonEmpty(dstCfg.GetDataDir())
			if err != nil {
				return err
			}
			if nonEmpty {
				color.Yellow("⚠ %s already has data; %s will be added alongside it", dstCfg.GetDataDir(), user.Username)
			}
		}

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", dstCfg.GetBackend(), err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(repo, dst, user.Username)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s from %s to %s", user.Username, cfg.GetBackend(), dstCfg.GetBackend())
		fmt.Printf("  Habits:      %d\n", summary.Habits)
		fmt.Printf("  Completions: %d\n", summary.Completions)

		if migrateSwitch {
			fileCfg, err := config.LoadFile()
			if err != nil {
				return err
			}
			fileCfg.Backend = dstCfg.Backend
			fileCfg.DataDir = dstCfg.DataDir
			fileCfg.DatabaseURL = dstCfg.DatabaseURL
			if err := fileCfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("  Default backend is now %s\n", dstCfg.GetBackend())
		}
		return nil
	},
}

// sameStore reports whether two configs point at the same storage.
func sameStore(a, b *config.Config) bool {
	if a.GetBackend() != b.GetBackend() {
		return false
	}
	switch a.GetBackend() {
	case config.BackendSQLite:
		return a.GetDataDir() == b.GetDataDir()
	case config.BackendMySQL:
		return a.DatabaseURL == b.DatabaseURL
	default:
		return true
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite, mysql, charm)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "destination data directory (sqlite)")
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "database-url", "", "destination MySQL DSN")
	migrateCmd.Flags().BoolVar(&migrateSwitch, "switch", false, "make the destination the configured backend")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
