// ABOUTME: Entry point for habits CLI.
// ABOUTME: Invokes the root Cobra command and reports errors on stderr.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/habits/internal/logger"
)

func main() {
	err := rootCmd.Execute()
	_ = closeRepo()
	_ = logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
