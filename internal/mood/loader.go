package mood

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformedInput covers unreadable files, unsupported formats, missing
// required fields and unparseable dates. It is always fatal for a run.
var ErrMalformedInput = errors.New("malformed mood log")

// Record is one raw row before validation. Nil pointers mean the field was
// absent (or null) in the source.
type Record struct {
	Date  *string `json:"date"`
	Mood  *string `json:"mood"`
	Notes *string `json:"notes"`
}

// Load reads a mood log, picking the format from the file extension:
// .json (array of records), .csv (header row), .db/.sqlite (mood_entries table).
// The returned entries are scored and sorted by date.
func Load(ctx context.Context, path string) ([]Entry, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return loadFile(path, LoadJSON)
	case ".csv":
		return loadFile(path, LoadCSV)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrMalformedInput, ext)
	}
}

func loadFile(path string, decode func(io.Reader) ([]Entry, error)) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	entries, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return entries, nil
}

// LoadJSON decodes a JSON array of {date, mood, notes} objects.
func LoadJSON(r io.Reader) ([]Entry, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decoding json: %v", ErrMalformedInput, err)
	}
	return FromRecords(records)
}

// LoadCSV decodes a CSV file whose header names the date and mood columns
// and, optionally, a notes column. Column order and header case are free.
// Empty notes cells are treated as missing.
func LoadCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv header: %v", ErrMalformedInput, err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateCol, okDate := cols["date"]
	moodCol, okMood := cols["mood"]
	if !okDate || !okMood {
		return nil, fmt.Errorf("%w: csv header must contain date and mood columns, got %v", ErrMalformedInput, header)
	}
	notesCol, hasNotes := cols["notes"]

	// Rows may be shorter than the header when trailing notes are empty.
	reader.FieldsPerRecord = -1

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading csv: %v", ErrMalformedInput, err)
		}

		var rec Record
		if dateCol < len(row) {
			rec.Date = &row[dateCol]
		}
		if moodCol < len(row) {
			rec.Mood = &row[moodCol]
		}
		if hasNotes && notesCol < len(row) && row[notesCol] != "" {
			note := row[notesCol]
			rec.Notes = &note
		}
		records = append(records, rec)
	}

	return FromRecords(records)
}

// FromRecords validates raw records, scores them and sorts by date.
func FromRecords(records []Record) ([]Entry, error) {
	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		if rec.Date == nil {
			return nil, fmt.Errorf("%w: record %d: missing date", ErrMalformedInput, i)
		}
		if rec.Mood == nil {
			return nil, fmt.Errorf("%w: record %d: missing mood", ErrMalformedInput, i)
		}
		date, err := ParseDate(*rec.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedInput, i, err)
		}
		entries = append(entries, NewEntry(date, *rec.Mood, rec.Notes))
	}

	SortByDate(entries)
	return entries, nil
}
