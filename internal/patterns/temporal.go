package patterns

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
)

// DefaultDeviationThreshold is how far (in score points) a weekday mean must
// sit from the overall mean before it is reported.
const DefaultDeviationThreshold = 0.5

// isoWeek lists weekdays Monday first. Ties between weekdays with the same
// extreme mean go to the earliest one in this order.
var isoWeek = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// TemporalDetector finds weekdays whose average mood differs from the
// overall average.
type TemporalDetector struct {
	// Threshold is the strict minimum deviation from the overall mean.
	Threshold float64
}

// NewTemporalDetector returns a detector using DefaultDeviationThreshold.
func NewTemporalDetector() *TemporalDetector {
	return &TemporalDetector{Threshold: DefaultDeviationThreshold}
}

type weekdayStats struct {
	day     time.Weekday
	sum     int
	entries []mood.Entry
}

func (w *weekdayStats) mean() float64 {
	return float64(w.sum) / float64(len(w.entries))
}

// Detect returns at most two patterns: a dip for the lowest weekday and a
// peak for the highest, in that order. Entries are expected in date order,
// which is the order evidence is reported in.
func (d *TemporalDetector) Detect(entries []mood.Entry) []Pattern {
	if len(entries) == 0 {
		return nil
	}

	byDay := make(map[time.Weekday]*weekdayStats, 7)
	total := 0
	for _, e := range entries {
		day := e.Date.Weekday()
		s, ok := byDay[day]
		if !ok {
			s = &weekdayStats{day: day}
			byDay[day] = s
		}
		s.sum += e.Score
		s.entries = append(s.entries, e)
		total += e.Score
	}
	overall := float64(total) / float64(len(entries))

	var low, high *weekdayStats
	for _, day := range isoWeek {
		s, ok := byDay[day]
		if !ok {
			continue
		}
		if low == nil || s.mean() < low.mean() {
			low = s
		}
		if high == nil || s.mean() > high.mean() {
			high = s
		}
	}

	var out []Pattern
	if low.mean() < overall-d.Threshold {
		out = append(out, temporalPattern(fmt.Sprintf("Mood dips on %ss", low.day), low.entries))
	}
	if high.mean() > overall+d.Threshold {
		out = append(out, temporalPattern(fmt.Sprintf("Mood peaks on %ss", high.day), high.entries))
	}
	return out
}

func temporalPattern(description string, entries []mood.Entry) Pattern {
	evidence := make([]Evidence, len(entries))
	for i, e := range entries {
		evidence[i] = Evidence{Date: e.Date, Mood: e.Mood}
	}
	return Pattern{
		Description: description,
		Evidence:    evidence,
		Confidence:  Confidence(nil, len(evidence)),
		Kind:        KindTemporal,
	}
}
