// ABOUTME: Integration tests for habits CLI.
// ABOUTME: Builds the binary and runs a full workflow against a temp data dir.
package test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	projectRoot, _ := filepath.Abs("..")
	habitsBinary := filepath.Join(t.TempDir(), "habits")

	buildCmd := exec.Command("go", "build", "-o", habitsBinary, "./cmd/habits")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
		"HABITS_BACKEND=sqlite",
		"HABITS_USER=alice",
		"HABITS_PASSWORD=integration-pass",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(habitsBinary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"register", "alice"}, "Registered alice"},
		{[]string{"habit", "add", "read", "daily"}, "Added daily habit read"},
		{[]string{"habit", "add", "clean kitchen", "weekly"}, "Added weekly habit clean kitchen"},
		{[]string{"complete", "read", "--at", "2025-03-01 08:00"}, "Completed read"},
		{[]string{"complete", "read", "--at", "2025-03-02 08:00"}, "streak 2 (longest 2)"},
		{[]string{"done", "clean kitchen", "--at", "2025-03-01"}, "Completed clean kitchen"},
		{[]string{"habit", "list"}, "clean kitchen"},
		{[]string{"streak", "read"}, "Longest streak:  2"},
		{[]string{"export", "markdown"}, "## Streaks"},
	}

	for _, step := range steps {
		output, err := run(step.args...)
		if err != nil {
			t.Fatalf("habits %s failed: %v\n%s", strings.Join(step.args, " "), err, output)
		}
		if !strings.Contains(output, step.want) {
			t.Errorf("habits %s: expected %q in output, got: %s", strings.Join(step.args, " "), step.want, output)
		}
	}

	output, err := run("analytics", "--json")
	if err != nil {
		t.Fatalf("Failed to get analytics: %v\n%s", err, output)
	}
	var report struct {
		Habits []struct {
			Name   string `json:"name"`
			Streak struct {
				Longest int `json:"longest_streak"`
			} `json:"streak"`
		} `json:"habits"`
	}
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("Failed to parse analytics JSON: %v\n%s", err, output)
	}
	if len(report.Habits) != 2 {
		t.Fatalf("Expected 2 habits in report, got %d", len(report.Habits))
	}
	for _, h := range report.Habits {
		if h.Name == "read" && h.Streak.Longest != 2 {
			t.Errorf("Expected read longest streak 2, got %d", h.Streak.Longest)
		}
	}

	output, err = run("complete", "missing")
	if err == nil {
		t.Errorf("Expected error completing unknown habit, got: %s", output)
	}
	if !strings.Contains(output, "Error:") {
		t.Errorf("Expected 'Error:' prefix, got: %s", output)
	}
}
