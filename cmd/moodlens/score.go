package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <label>...",
		Short: "Print the 1-5 score of mood labels",
		Long: `Print the score moodlens assigns to each mood label.

Labels are matched case-insensitively; unknown labels score 3 (neutral).

Examples:
  moodlens score happy Anxious meh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, label := range args {
				fmt.Fprintf(out, "%s\t%d\n", strings.TrimSpace(label), mood.ScoreFor(label))
			}
			return nil
		},
	}
}
