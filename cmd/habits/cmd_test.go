// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands end to end against a temporary SQLite data dir.
package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/habits/internal/auth"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/streak"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "read", 10, "read"},
		{"exact length", "meditate", 8, "meditate"},
		{"long string", "clean the whole kitchen", 10, "clean t..."},
		{"empty string", "", 5, ""},
		{"multibyte fits", "café", 4, "café"},
		{"multibyte cut", "café au lait", 8, "café ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{"needs padding", "daily", 8, "daily   "},
		{"exact length", "monthly", 7, "monthly"},
		{"longer than length", "monthly", 3, "monthly"},
		{"empty string", "", 3, "   "},
		{"multibyte", "café", 6, "café  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padRight(tt.input, tt.length); got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name        string
		completions int
		broken      bool
		want        string
	}{
		{"never completed", 0, false, "not started"},
		{"broken", 3, true, "broken"},
		{"on track", 3, false, "on track"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status(tt.completions, tt.broken); !strings.Contains(got, tt.want) {
				t.Errorf("status(%d, %v) = %q, want it to contain %q", tt.completions, tt.broken, got, tt.want)
			}
		})
	}
}

func TestParsePeriodicityFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    *models.Periodicity
		wantErr bool
	}{
		{"", nil, false},
		{"daily", ptr(models.Daily), false},
		{"Weekly", ptr(models.Weekly), false},
		{" monthly ", ptr(models.Monthly), false},
		{"yearly", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePeriodicityFlag(tt.input)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidPeriodicity) {
					t.Errorf("Expected ErrInvalidPeriodicity, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePeriodicityFlag(%q) failed: %v", tt.input, err)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("parsePeriodicityFlag(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSameStore(t *testing.T) {
	tests := []struct {
		name string
		a, b config.Config
		want bool
	}{
		{"different backends", config.Config{}, config.Config{Backend: "charm"}, false},
		{"same sqlite dir", config.Config{DataDir: "/tmp/a"}, config.Config{Backend: "sqlite", DataDir: "/tmp/a"}, true},
		{"other sqlite dir", config.Config{DataDir: "/tmp/a"}, config.Config{DataDir: "/tmp/b"}, false},
		{"same mysql dsn", config.Config{Backend: "mysql", DatabaseURL: "dsn"}, config.Config{Backend: "MySQL", DatabaseURL: "dsn"}, true},
		{"other mysql dsn", config.Config{Backend: "mysql", DatabaseURL: "a"}, config.Config{Backend: "mysql", DatabaseURL: "b"}, false},
		{"charm", config.Config{Backend: "charm"}, config.Config{Backend: "charm"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameStore(&tt.a, &tt.b); got != tt.want {
				t.Errorf("sameStore = %v, want %v", got, tt.want)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestRootCmdFlags(t *testing.T) {
	for _, name := range []string{"debug", "user", "password"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s persistent flag", name)
		}
	}
	if f := rootCmd.PersistentFlags().Lookup("user"); f != nil && f.Shorthand != "u" {
		t.Errorf("Expected --user shorthand 'u', got %q", f.Shorthand)
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd       string
		flag      string
		shorthand string
	}{
		{"habit list", "periodicity", "p"},
		{"complete", "at", ""},
		{"streak", "periodicity", "p"},
		{"analytics", "periodicity", "p"},
		{"analytics", "json", ""},
		{"export", "output", "o"},
		{"export", "periodicity", "p"},
		{"export", "since", ""},
		{"migrate", "to", ""},
		{"migrate", "data-dir", ""},
		{"migrate", "database-url", ""},
		{"register", "default", ""},
		{"sync repair", "force", ""},
	}

	for _, tt := range tests {
		t.Run(tt.cmd+" --"+tt.flag, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(strings.Fields(tt.cmd))
			if err != nil {
				t.Fatalf("Find(%q) failed: %v", tt.cmd, err)
			}
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("Expected --%s flag on %q", tt.flag, tt.cmd)
			}
			if f.Shorthand != tt.shorthand {
				t.Errorf("Expected shorthand %q, got %q", tt.shorthand, f.Shorthand)
			}
		})
	}
}

func TestCommandAliases(t *testing.T) {
	tests := []struct {
		alias []string
		want  string
	}{
		{[]string{"h", "ls"}, "list"},
		{[]string{"habit", "a"}, "add"},
		{[]string{"habit", "rm"}, "delete"},
		{[]string{"done"}, "complete"},
		{[]string{"c"}, "complete"},
		{[]string{"stats"}, "analytics"},
		{[]string{"s", "status"}, "status"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.alias, " "), func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.alias)
			if err != nil {
				t.Fatalf("Find(%v) failed: %v", tt.alias, err)
			}
			if cmd.Name() != tt.want {
				t.Errorf("Find(%v) = %q, want %q", tt.alias, cmd.Name(), tt.want)
			}
		})
	}
}

func TestSyncSubcommands(t *testing.T) {
	want := map[string]bool{"link": false, "unlink": false, "status": false, "now": false, "repair": false, "reset": false, "wipe": false}
	for _, sub := range syncCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected sync subcommand %q", name)
		}
	}
}

const testPassword = "correct-horse"

// setupTestCLI points config and data at a temp dir and returns the
// SQLite path the commands will use.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv(config.EnvBackend, "")
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvUser, "alice")
	t.Setenv(config.EnvPassword, testPassword)
	return filepath.Join(tmp, "data", "habits", "habits.db")
}

// resetFlags clears flag variables left over from a previous Execute.
func resetFlags() {
	debugFlag, userFlag, passwordFlag = false, "", ""
	registerDefault = false
	listPeriodicity = ""
	completeAt = ""
	streakPeriodicity = ""
	analyticsPeriodicity, analyticsJSON = "", false
	exportOutput, exportPeriodicity, exportSince = "", "", ""
	migrateTo, migrateDataDir, migrateDatabaseURL, migrateSwitch = "", "", "", false
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	_ = closeRepo()
	return err
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("habits %s failed: %v", strings.Join(args, " "), err)
	}
}

func openTestDB(t *testing.T, path string) *storage.DB {
	t.Helper()
	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestWorkflow(t *testing.T) {
	dbPath := setupTestCLI(t)

	mustRun(t, "register", "alice")
	mustRun(t, "habit", "add", "read", "daily")
	mustRun(t, "habit", "add", "clean kitchen", "weekly")
	for _, at := range []string{"2025-03-01 08:00", "2025-03-02 08:00", "2025-03-03 21:00"} {
		mustRun(t, "complete", "read", "--at", at)
	}
	mustRun(t, "done", "clean kitchen", "--at", "2025-03-01")
	mustRun(t, "habit", "list", "-p", "daily")
	mustRun(t, "streak")
	mustRun(t, "streak", "read")
	mustRun(t, "analytics")
	mustRun(t, "analytics", "--json")

	db := openTestDB(t, dbPath)
	user, err := db.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	h, err := db.GetHabit(user.ID, "read")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	completions, err := db.ListCompletions(h.ID)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(completions) != 3 {
		t.Fatalf("Expected 3 completions, got %d", len(completions))
	}

	res, err := streak.Calculate(h.Periodicity, models.CompletionTimes(completions))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if res.Current != 3 || res.Longest != 3 {
		t.Errorf("Streak = %+v, want {3 3}", res)
	}

	weekly := models.Weekly
	habits, err := db.ListHabits(user.ID, &weekly)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "clean kitchen" {
		t.Errorf("Expected only 'clean kitchen' as weekly habit, got %v", habits)
	}
}

func TestLoginErrors(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "register", "alice")

	t.Run("wrong password", func(t *testing.T) {
		t.Setenv(config.EnvPassword, "wrong-password")
		err := runCLI(t, "habit", "list")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user flag", func(t *testing.T) {
		err := runCLI(t, "habit", "list", "--user", "mallory")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("no user selected", func(t *testing.T) {
		t.Setenv(config.EnvUser, "")
		if err := runCLI(t, "habit", "list"); err == nil {
			t.Error("Expected error without a user")
		}
	})

	t.Run("password flag", func(t *testing.T) {
		t.Setenv(config.EnvPassword, "")
		if err := runCLI(t, "habit", "list", "--password", testPassword); err != nil {
			t.Errorf("habit list with --password failed: %v", err)
		}
	})
}

func TestRegisterErrors(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "register", "alice")

	if err := runCLI(t, "register", "alice"); !errors.Is(err, auth.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}

	t.Setenv(config.EnvPassword, "short")
	if err := runCLI(t, "register", "bob"); err == nil {
		t.Error("Expected error for short password")
	}
}

func TestRegisterDefault(t *testing.T) {
	dbPath := setupTestCLI(t)
	t.Setenv(config.EnvUser, "")

	mustRun(t, "register", "alice", "--default")

	fileCfg, err := config.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if fileCfg.Username != "alice" {
		t.Errorf("Expected default user alice, got %q", fileCfg.Username)
	}

	mustRun(t, "habit", "add", "read", "daily")

	db := openTestDB(t, dbPath)
	user, err := db.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if _, err := db.GetHabit(user.ID, "read"); err != nil {
		t.Errorf("GetHabit failed: %v", err)
	}
}

func TestHabitCommandErrors(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "register", "alice")
	mustRun(t, "habit", "add", "read", "daily")

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"invalid periodicity", []string{"habit", "add", "run", "yearly"}, models.ErrInvalidPeriodicity},
		{"duplicate name", []string{"habit", "add", "read", "weekly"}, storage.ErrHabitExists},
		{"complete unknown habit", []string{"complete", "swim"}, storage.ErrNotFound},
		{"streak unknown habit", []string{"streak", "swim"}, storage.ErrNotFound},
		{"list invalid filter", []string{"habit", "list", "-p", "hourly"}, models.ErrInvalidPeriodicity},
		{"analytics invalid filter", []string{"analytics", "-p", "hourly"}, models.ErrInvalidPeriodicity},
		{"invalid timestamp", []string{"complete", "read", "--at", "yesterday"}, nil},
		{"missing periodicity", []string{"habit", "add", "run"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatalf("Expected error for %v", tt.args)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestHabitDelete(t *testing.T) {
	dbPath := setupTestCLI(t)
	mustRun(t, "register", "alice")
	mustRun(t, "habit", "add", "read", "daily")
	mustRun(t, "complete", "read", "--at", "2025-03-01")
	mustRun(t, "habit", "rm", "read")

	db := openTestDB(t, dbPath)
	user, err := db.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if _, err := db.GetHabit(user.ID, "read"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := runCLI(t, "habit", "delete", "read"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestExportImport(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "register", "alice")
	mustRun(t, "habit", "add", "read", "daily")
	mustRun(t, "complete", "read", "--at", "2025-03-01")
	mustRun(t, "complete", "read", "--at", "2025-03-02")

	out := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, "export", "json", "-o", out)
	mustRun(t, "export", "yaml", "-o", filepath.Join(t.TempDir(), "backup.yaml"))
	mustRun(t, "export", "markdown", "-p", "daily", "--since", "2025-03-02")

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	var data storage.ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}
	if len(data.Habits) != 1 || len(data.Completions) != 2 {
		t.Fatalf("Expected 1 habit and 2 completions, got %d and %d", len(data.Habits), len(data.Completions))
	}

	// Restore into a fresh data dir.
	freshData := filepath.Join(t.TempDir(), "data")
	t.Setenv("XDG_DATA_HOME", freshData)
	mustRun(t, "register", "alice")
	mustRun(t, "import", out)

	db := openTestDB(t, filepath.Join(freshData, "habits", "habits.db"))
	user, err := db.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	h, err := db.GetHabit(user.ID, "read")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if h.ID != data.Habits[0].ID {
		t.Errorf("Expected imported habit ID %s, got %s", data.Habits[0].ID, h.ID)
	}
	completions, err := db.ListCompletions(h.ID)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(completions) != 2 {
		t.Errorf("Expected 2 imported completions, got %d", len(completions))
	}
}

func TestExportErrors(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "register", "alice")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"export", "csv"}},
		{"invalid since", []string{"export", "markdown", "--since", "March"}},
		{"invalid periodicity", []string{"export", "markdown", "-p", "hourly"}},
		{"missing import file", []string{"import", filepath.Join(t.TempDir(), "missing.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestMigrateToSQLite(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "register", "alice")
	mustRun(t, "habit", "add", "read", "daily")
	mustRun(t, "complete", "read", "--at", "2025-03-01")

	if err := runCLI(t, "migrate", "--to", "sqlite"); err == nil {
		t.Error("Expected error migrating onto the same store")
	}

	dstDir := t.TempDir()
	mustRun(t, "migrate", "--to", "sqlite", "--data-dir", dstDir)

	db := openTestDB(t, filepath.Join(dstDir, "habits.db"))
	user, err := db.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if _, err := auth.Login(db, "alice", testPassword); err != nil {
		t.Errorf("Login on migrated store failed: %v", err)
	}
	h, err := db.GetHabit(user.ID, "read")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	completions, err := db.ListCompletions(h.ID)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(completions) != 1 {
		t.Errorf("Expected 1 migrated completion, got %d", len(completions))
	}
}

func TestSyncRequiresCharmBackend(t *testing.T) {
	setupTestCLI(t)

	for _, sub := range []string{"status", "now", "repair", "wipe"} {
		t.Run(sub, func(t *testing.T) {
			err := runCLI(t, "sync", sub)
			if err == nil || !strings.Contains(err.Error(), "charm backend") {
				t.Errorf("Expected charm backend error, got %v", err)
			}
		})
	}
}
