// Package chart renders a mood log and its detected patterns.
//
// PNGRenderer draws the mood trend image that accompanies the report. Preview
// prints a compact terminal summary of the same data.
package chart

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
	"github.com/fyrsmithlabs/moodlens/internal/patterns"
)

// NoCluster marks an annotation that comes from a temporal pattern.
const NoCluster = -1

const (
	baseColor    = "005a9c"
	rollingColor = "ff8c00"
)

// clusterColors are cycled by cluster id.
var clusterColors = []string{"e6194b", "3cb44b", "4363d8", "f58231", "911eb4", "46f0f0", "f032e6"}

// ClusterColor returns the hex color (without '#') used for a cluster id.
// Temporal evidence (NoCluster) uses the base line color.
func ClusterColor(id int) string {
	if id < 0 {
		return baseColor
	}
	return clusterColors[id%len(clusterColors)]
}

// Annotation is a highlighted point on the trend chart.
type Annotation struct {
	Date    mood.Date
	Score   int
	Label   string
	Cluster int
}

// Annotations returns one annotation per evidence date, in date order. When
// several patterns cite the same date, the first pattern wins. Evidence whose
// date is not in entries is skipped.
func Annotations(entries []mood.Entry, found []patterns.Pattern) []Annotation {
	scoreByDate := make(map[mood.Date]int, len(entries))
	for _, e := range entries {
		if _, ok := scoreByDate[e.Date]; !ok {
			scoreByDate[e.Date] = e.Score
		}
	}

	seen := make(map[mood.Date]Annotation)
	for _, p := range found {
		for _, ev := range p.Evidence {
			if _, dup := seen[ev.Date]; dup {
				continue
			}
			score, ok := scoreByDate[ev.Date]
			if !ok {
				continue
			}
			cluster := NoCluster
			if ev.Cluster != nil {
				cluster = *ev.Cluster
			}
			seen[ev.Date] = Annotation{
				Date:    ev.Date,
				Score:   score,
				Label:   capitalize(ev.Mood),
				Cluster: cluster,
			}
		}
	}

	out := make([]Annotation, 0, len(seen))
	for _, e := range entries {
		if a, ok := seen[e.Date]; ok {
			out = append(out, a)
			delete(seen, e.Date)
		}
	}
	return out
}

// RollingMean returns the trailing mean over up to window values at each
// position. Early positions average whatever is available.
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Scores returns entry scores as floats, in entry order.
func Scores(entries []mood.Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = float64(e.Score)
	}
	return out
}

func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
