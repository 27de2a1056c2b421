package patterns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
)

// day returns a date in the week of Monday 2025-10-20.
func day(offset int) mood.Date {
	return mood.NewDate(2025, time.October, 20+offset)
}

func entriesFor(labels ...string) []mood.Entry {
	out := make([]mood.Entry, len(labels))
	for i, l := range labels {
		out[i] = mood.NewEntry(day(i), l, nil)
	}
	return out
}

func TestTemporalDetector_WeekendScenario(t *testing.T) {
	// Mon..Fri neutral, Saturday sad, Sunday happy.
	entries := entriesFor("neutral", "neutral", "neutral", "neutral", "neutral", "sad", "happy")

	got := NewTemporalDetector().Detect(entries)
	require.Len(t, got, 2)

	assert.Equal(t, "Mood dips on Saturdays", got[0].Description)
	assert.Equal(t, 0.38, got[0].Confidence)
	require.Len(t, got[0].Evidence, 1)
	assert.Equal(t, "2025-10-25", got[0].Evidence[0].Date.String())
	assert.Equal(t, "sad", got[0].Evidence[0].Mood)
	assert.Nil(t, got[0].Evidence[0].Notes)
	assert.Nil(t, got[0].Evidence[0].Cluster)

	assert.Equal(t, "Mood peaks on Sundays", got[1].Description)
	assert.Equal(t, 0.38, got[1].Confidence)
	require.Len(t, got[1].Evidence, 1)
	assert.Equal(t, "happy", got[1].Evidence[0].Mood)
}

func TestTemporalDetector_EvidenceIsEveryEntryOnTheDay(t *testing.T) {
	var entries []mood.Entry
	for week := 0; week < 3; week++ {
		for d := 0; d < 7; d++ {
			label := "calm"
			if d == 0 {
				label = "anxious"
			}
			entries = append(entries, mood.NewEntry(day(week*7+d), label, nil))
		}
	}

	got := NewTemporalDetector().Detect(entries)
	require.Len(t, got, 1, "no weekday sits far enough above the mean")
	assert.Equal(t, "Mood dips on Mondays", got[0].Description)
	require.Len(t, got[0].Evidence, 3)
	for i, ev := range got[0].Evidence {
		assert.Equal(t, time.Monday, ev.Date.Weekday())
		if i > 0 {
			assert.True(t, got[0].Evidence[i-1].Date.Before(ev.Date))
		}
	}
	assert.Equal(t, Confidence(nil, 3), got[0].Confidence)
}

func TestTemporalDetector_TieBreakIsISOOrder(t *testing.T) {
	// Monday and Tuesday share the lowest mean; Wednesday..Sunday share the highest.
	entries := entriesFor("anxious", "anxious", "happy", "happy", "happy", "happy", "happy")

	got := NewTemporalDetector().Detect(entries)
	require.Len(t, got, 2)
	assert.Equal(t, "Mood dips on Mondays", got[0].Description)
	assert.Equal(t, "Mood peaks on Wednesdays", got[1].Description)

	// Input order does not change the winner.
	reversed := make([]mood.Entry, len(entries))
	for i := range entries {
		reversed[len(entries)-1-i] = entries[i]
	}
	again := NewTemporalDetector().Detect(reversed)
	require.Len(t, again, 2)
	assert.Equal(t, got[0].Description, again[0].Description)
	assert.Equal(t, got[1].Description, again[1].Description)
}

func TestTemporalDetector_ThresholdIsStrict(t *testing.T) {
	// Overall mean 2.5; Monday is exactly 0.5 below and Tuesday exactly 0.5 above.
	entries := entriesFor("sad", "neutral")
	assert.Empty(t, NewTemporalDetector().Detect(entries))

	d := &TemporalDetector{Threshold: 0.49}
	got := d.Detect(entries)
	require.Len(t, got, 2)
}

func TestTemporalDetector_NoDeviation(t *testing.T) {
	assert.Empty(t, NewTemporalDetector().Detect(nil))
	assert.Empty(t, NewTemporalDetector().Detect(entriesFor("happy")))
	assert.Empty(t, NewTemporalDetector().Detect(entriesFor("calm", "calm", "calm", "calm")))
}

func TestTemporalDetector_Idempotent(t *testing.T) {
	entries := entriesFor("neutral", "sad", "neutral", "calm", "neutral", "anxious", "happy")
	d := NewTemporalDetector()
	first := d.Detect(entries)
	second := d.Detect(entries)
	assert.Equal(t, first, second)
	for _, p := range first {
		assert.NotEmpty(t, p.Evidence)
	}
}

func TestTemporalDetector_SetsKind(t *testing.T) {
	for _, p := range NewTemporalDetector().Detect(entriesFor("neutral", "neutral", "neutral", "neutral", "neutral", "sad", "happy")) {
		assert.Equal(t, KindTemporal, p.Kind)
	}
}
