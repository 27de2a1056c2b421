// Package main implements the moodlens CLI, which finds recurring patterns
// in a mood log.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "moodlens",
		Short: "Detect recurring patterns in a mood log",
		Long: `moodlens reads a mood log (JSON, CSV or SQLite), finds weekday mood dips
and peaks and clusters of similar notes, and writes a JSON report with
suggested micro-actions and a mood trend chart.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newVersionCmd())
	return root
}
