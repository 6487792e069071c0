// ABOUTME: Resolves the acting user for commands.
// ABOUTME: Reads the password from flags, the environment, or a terminal prompt.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/harperreed/habits/internal/auth"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/models"
	"golang.org/x/term"
)

// currentUsername picks the username from --user, then config/HABITS_USER.
func currentUsername() (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}
	if cfg != nil && cfg.Username != "" {
		return cfg.Username, nil
	}
	return "", fmt.Errorf("no user selected: pass --user or set %s", config.EnvUser)
}

// readPassword returns the password from --password, HABITS_PASSWORD, or
// an interactive prompt.
func readPassword(prompt string) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}
	if v := os.Getenv(config.EnvPassword); v != "" {
		return v, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password given: pass --password or set %s", config.EnvPassword)
	}

	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(string(pw), "\r\n"), nil
}

// isInteractive reports whether the password would come from a prompt.
func isInteractive() bool {
	return os.Getenv(config.EnvPassword) == "" && term.IsTerminal(int(os.Stdin.Fd()))
}

// login authenticates the acting user against the open repository.
func login() (*models.User, error) {
	username, err := currentUsername()
	if err != nil {
		return nil, err
	}
	password, err := readPassword(fmt.Sprintf("Password for %s: ", username))
	if err != nil {
		return nil, err
	}
	return auth.Login(repo, username, password)
}
