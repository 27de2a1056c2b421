// Package report holds the analysis result and its JSON file format.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fyrsmithlabs/moodlens/internal/patterns"
)

// ErrCorrupted is returned when a report file cannot be decoded.
var ErrCorrupted = errors.New("report file corrupted")

// Report is the root output object of a run.
type Report struct {
	Patterns []patterns.Pattern `json:"patterns"`
	Plot     string             `json:"plot"`
}

// New builds a report. A nil pattern list is stored as empty so the file
// always carries a "patterns" array.
func New(found []patterns.Pattern, plot string) *Report {
	if found == nil {
		found = []patterns.Pattern{}
	}
	return &Report{Patterns: found, Plot: plot}
}

// Encode writes r as indented JSON. Non-ASCII text and HTML characters in
// notes are written as-is.
func (r *Report) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// WriteFile writes the report to path, replacing any previous file only once
// the new content is complete.
func (r *Report) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename report: %w", err)
	}
	return nil
}

// ReadFile loads a report written by WriteFile.
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return &r, nil
}
