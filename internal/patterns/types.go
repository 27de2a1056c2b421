package patterns

import (
	"errors"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
)

// ErrEmbedding is returned when the note embedder fails or returns vectors
// that cannot be clustered.
var ErrEmbedding = errors.New("embedding notes")

// Pattern is a single finding with its supporting evidence.
type Pattern struct {
	Description  string     `json:"description"`
	Evidence     []Evidence `json:"evidence"`
	Confidence   float64    `json:"confidence"`
	MicroActions []string   `json:"micro_actions,omitempty"`

	// Kind is the detector that produced the pattern. It is not serialized.
	Kind Kind `json:"-"`
}

// Evidence is one mood entry that supports a pattern. Temporal evidence
// leaves Notes and Cluster nil.
type Evidence struct {
	Date    mood.Date `json:"date"`
	Mood    string    `json:"mood"`
	Notes   *string   `json:"notes,omitempty"`
	Cluster *int      `json:"cluster,omitempty"`
}

// Kind identifies which detector produced a pattern.
type Kind string

const (
	KindTemporal Kind = "temporal"
	KindSemantic Kind = "semantic"
)
