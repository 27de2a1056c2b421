package mood

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// SQLiteTable is the table LoadSQLite reads.
const SQLiteTable = "mood_entries"

// LoadSQLite reads entries from the mood_entries(date, mood, notes) table of
// an existing SQLite database. NULL date or mood values are malformed input.
func LoadSQLite(ctx context.Context, path string) ([]Entry, error) {
	// sql.Open would silently create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrMalformedInput, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT date, mood, notes FROM "+SQLiteTable)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrMalformedInput, SQLiteTable, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var date, label, notes sql.NullString
		if err := rows.Scan(&date, &label, &notes); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrMalformedInput, err)
		}
		records = append(records, Record{
			Date:  nullable(date),
			Mood:  nullable(label),
			Notes: nullable(notes),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrMalformedInput, err)
	}

	return FromRecords(records)
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
