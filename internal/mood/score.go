// Package mood holds the mood-log data model: entries, calendar dates, the
// label-to-score table, and loaders for the supported log formats.
package mood

import "strings"

// NeutralScore is returned for labels outside the score table.
const NeutralScore = 3

// scores is the fixed label table. Keys are normalized labels.
var scores = map[string]int{
	"happy":   5,
	"calm":    4,
	"neutral": 3,
	"sad":     2,
	"anxious": 1,
}

// ScoreFor maps a mood label to its 1–5 score. Lookup ignores case and
// surrounding whitespace; unknown labels score NeutralScore.
func ScoreFor(label string) int {
	if s, ok := scores[Normalize(label)]; ok {
		return s
	}
	return NeutralScore
}

// Normalize returns the canonical form of a label used for lookups and counting.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Known reports whether label is in the score table.
func Known(label string) bool {
	_, ok := scores[Normalize(label)]
	return ok
}
