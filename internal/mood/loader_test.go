package mood

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-10-25", "2025-10-25"},
		{"2025-10-25T00:00:00", "2025-10-25"},
		{"2025-10-25 21:30:00", "2025-10-25"},
		{"2025-10-25T23:30:00-05:00", "2025-10-25"},
		{" 2025-01-02 ", "2025-01-02"},
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d.String())
	}

	for _, bad := range []string{"", "25/10/2025", "yesterday", "2025-13-01"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2025, time.October, 25)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-25"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(d))
	assert.Equal(t, time.Saturday, back.Weekday())
}

func TestLoadJSON(t *testing.T) {
	input := `[
		{"date": "2025-10-26", "mood": "Happy", "notes": "long walk"},
		{"date": "2025-10-25", "mood": "sad"},
		{"date": "2025-10-27", "mood": "excited", "notes": null}
	]`

	entries, err := LoadJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "2025-10-25", entries[0].Date.String(), "sorted by date")
	assert.Equal(t, 2, entries[0].Score)
	assert.Nil(t, entries[0].Notes)

	assert.Equal(t, "Happy", entries[1].Mood, "label kept as written")
	assert.Equal(t, 5, entries[1].Score)
	assert.Equal(t, "long walk", entries[1].Note())
	assert.True(t, entries[1].HasNote())

	assert.Equal(t, 3, entries[2].Score)
	assert.False(t, entries[2].HasNote())
}

func TestLoadJSON_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":      `{{`,
		"missing date":  `[{"mood": "sad"}]`,
		"missing mood":  `[{"date": "2025-10-25"}]`,
		"null date":     `[{"date": null, "mood": "sad"}]`,
		"bad date":      `[{"date": "someday", "mood": "sad"}]`,
		"notes not str": `[{"date": "2025-10-25", "mood": "sad", "notes": 4}]`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadJSON(strings.NewReader(input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	input := "Mood,Date,Notes\n" +
		"calm,2025-10-21,\"tea, then reading\"\n" +
		"anxious,2025-10-20,\n" +
		"neutral,2025-10-22\n"

	entries, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "2025-10-20", entries[0].Date.String())
	assert.Equal(t, 1, entries[0].Score)
	assert.Nil(t, entries[0].Notes, "empty cell is a missing note")
	assert.Equal(t, "tea, then reading", entries[1].Note())
	assert.Nil(t, entries[2].Notes, "short row")
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("date,notes\n2025-10-20,x\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), "date and mood")
}

func TestLoad_DispatchByExtension(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	jsonPath := filepath.Join(dir, "moods.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"date":"2025-10-25","mood":"sad"}]`), 0600))
	entries, err := Load(ctx, jsonPath)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	csvPath := filepath.Join(dir, "moods.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("date,mood\n2025-10-25,sad\n"), 0600))
	entries, err = Load(ctx, csvPath)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = Load(ctx, filepath.Join(dir, "moods.xlsx"))
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Load(ctx, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moods.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE mood_entries (date TEXT, mood TEXT, notes TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO mood_entries VALUES
		('2025-10-26', 'happy', 'brunch with friends'),
		('2025-10-25', 'sad', NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	entries, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "sad", entries[0].Mood)
	assert.Nil(t, entries[0].Notes)
	assert.Equal(t, "brunch with friends", entries[1].Note())
}

func TestLoadSQLite_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := LoadSQLite(ctx, filepath.Join(dir, "absent.db"))
	assert.ErrorIs(t, err, ErrMalformedInput)
	_, statErr := os.Stat(filepath.Join(dir, "absent.db"))
	assert.True(t, os.IsNotExist(statErr), "loader must not create the file")

	path := filepath.Join(dir, "empty.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE other (x TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = LoadSQLite(ctx, path)
	assert.ErrorIs(t, err, ErrMalformedInput)

	path = filepath.Join(dir, "nulls.db")
	db, err = sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE mood_entries (date TEXT, mood TEXT, notes TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO mood_entries VALUES ('2025-10-25', NULL, NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = LoadSQLite(ctx, path)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestSortByDate_Stable(t *testing.T) {
	d1 := NewDate(2025, 10, 20)
	d2 := NewDate(2025, 10, 21)
	entries := []Entry{
		NewEntry(d2, "calm", nil),
		NewEntry(d1, "sad", nil),
		NewEntry(d1, "happy", nil),
	}
	SortByDate(entries)
	assert.Equal(t, []string{"sad", "happy", "calm"}, []string{entries[0].Mood, entries[1].Mood, entries[2].Mood})
}

func TestAnyNotes(t *testing.T) {
	blank := "   "
	note := "ok"
	d := NewDate(2025, 10, 20)

	assert.False(t, AnyNotes(nil))
	assert.False(t, AnyNotes([]Entry{NewEntry(d, "sad", nil), NewEntry(d, "sad", &blank)}))
	assert.True(t, AnyNotes([]Entry{NewEntry(d, "sad", nil), NewEntry(d, "sad", &note)}))
}
