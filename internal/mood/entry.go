package mood

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone. It serializes as YYYY-MM-DD.
type Date struct {
	t time.Time // always midnight UTC
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD, RFC 3339, and the "2006-01-02T15:04:05" /
// "2006-01-02 15:04:05" forms spreadsheet exports produce. The time part is
// dropped; the calendar day is taken in the timestamp's own offset.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or RFC 3339)", s)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.t }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Before reports whether d is an earlier day than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format(dateLayout) }

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Entry is one scored row of the mood log. Entries are values and are not
// modified after loading.
type Entry struct {
	Date  Date
	Mood  string
	Notes *string // nil when the row has no note
	Score int
}

// NewEntry builds an entry and computes its score.
func NewEntry(date Date, label string, notes *string) Entry {
	return Entry{
		Date:  date,
		Mood:  label,
		Notes: notes,
		Score: ScoreFor(label),
	}
}

// Note returns the note text, or "" when absent.
func (e Entry) Note() string {
	if e.Notes == nil {
		return ""
	}
	return *e.Notes
}

// HasNote reports whether the entry carries a non-blank note.
func (e Entry) HasNote() bool {
	return strings.TrimSpace(e.Note()) != ""
}

// SortByDate orders entries by day, keeping input order for equal days.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}

// AnyNotes reports whether at least one entry has a non-blank note.
func AnyNotes(entries []Entry) bool {
	for _, e := range entries {
		if e.HasNote() {
			return true
		}
	}
	return false
}
