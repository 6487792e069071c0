// ABOUTME: CLI commands for exporting and importing habit data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput      string
	exportPeriodicity string
	exportSince       string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export habit data",
	Long: `Export your habits and completions in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export, completions grouped under each habit
  markdown   Markdown tables with streaks (for documentation/sharing)

OPTIONS:

  --output, -o        Write to file instead of stdout
  --periodicity, -p   Filter by periodicity (markdown only)
  --since             Only list completions since this date (markdown only)

EXAMPLES:

  habits export json                        # Export all data as JSON
  habits export json -o backup.json         # Save to file
  habits export yaml                        # Export as YAML
  habits export markdown -p daily           # Daily habits as Markdown
  habits export markdown --since 2025-01-01 # Completions from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		var data []byte
		switch format := args[0]; format {
		case "json":
			data, err = storage.ExportJSON(repo, user.ID)
		case "yaml":
			data, err = storage.ExportYAML(repo, user.ID)
		case "markdown", "md":
			periodicity, perr := parsePeriodicityFlag(exportPeriodicity)
			if perr != nil {
				return perr
			}
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = storage.ExportMarkdown(repo, user.ID, periodicity, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import habit data from JSON",
	Long: `Import habits and completions from a JSON backup file.

Imported habits are assigned to the acting user. Records whose IDs already
exist cause an error and nothing is imported.

EXAMPLES:

  habits import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := login()
		if err != nil {
			return err
		}

		filename := args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := storage.ImportJSON(repo, user.ID, data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportPeriodicity, "periodicity", "p", "", "filter by periodicity (markdown only)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include completions since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
