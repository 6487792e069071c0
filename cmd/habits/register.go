// ABOUTME: CLI command for creating a user account.
// ABOUTME: Prompts for a password twice when none is supplied.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/auth"
	"github.com/harperreed/habits/internal/config"
	"github.com/spf13/cobra"
)

var registerDefault bool

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a user account",
	Long: `Create a user account. Habits and completions belong to one user.

Usernames are at most 50 characters without whitespace. Passwords must be
8 to 72 bytes and are stored only as bcrypt hashes.

EXAMPLES:

  habits register alice                  # Prompts for a password
  habits register alice --default        # Also make alice the default user
  HABITS_PASSWORD=... habits register bob`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		password, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		if passwordFlag == "" && isInteractive() {
			again, err := readPassword("Confirm password: ")
			if err != nil {
				return err
			}
			if again != password {
				return fmt.Errorf("passwords do not match")
			}
		}

		user, err := auth.Register(repo, username, password)
		if err != nil {
			return fmt.Errorf("failed to register: %w", err)
		}

		color.Green("✓ Registered %s", user.Username)

		if registerDefault {
			fileCfg, err := config.LoadFile()
			if err != nil {
				return err
			}
			fileCfg.Username = user.Username
			if err := fileCfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("  %s is now the default user\n", user.Username)
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().BoolVar(&registerDefault, "default", false, "save as the default user in the config file")
	rootCmd.AddCommand(registerCmd)
}
