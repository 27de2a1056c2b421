package chart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
	"github.com/fyrsmithlabs/moodlens/internal/patterns"
)

// ErrNoData is returned when there are no entries to plot.
var ErrNoData = errors.New("no mood entries to plot")

// DefaultRollingWindow is the trailing window of the average line.
const DefaultRollingWindow = 3

const (
	chartWidth  = 1200
	chartHeight = 600
	minScore    = 0.5
	maxScore    = 5.5
)

// zones shade the score bands, top band first.
var zones = []struct {
	name  string
	top   float64
	color string
}{
	{"High Mood (4-5)", maxScore, "e5f5e5"},
	{"Moderate Mood (3-4)", 4, "fff7bc"},
	{"Low Mood (1-3)", 3, "fbe7e8"},
}

// PNGRenderer draws the mood trend as a PNG file.
type PNGRenderer struct {
	Path          string
	RollingWindow int
	Logger        *zap.Logger
}

// NewPNGRenderer creates a renderer writing to path.
func NewPNGRenderer(path string, rollingWindow int, logger *zap.Logger) *PNGRenderer {
	if rollingWindow < 1 {
		rollingWindow = DefaultRollingWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PNGRenderer{Path: path, RollingWindow: rollingWindow, Logger: logger}
}

// Render draws the daily score line, its rolling average, the score bands and
// one labeled point per evidence date, then returns the written path.
// Entries must be in date order.
func (r *PNGRenderer) Render(ctx context.Context, entries []mood.Entry, found []patterns.Pattern) (string, error) {
	if len(entries) == 0 {
		return "", ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	graph := r.build(entries, found)

	if dir := filepath.Dir(r.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating chart directory: %w", err)
		}
	}
	f, err := os.Create(r.Path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	if err := graph.Render(gochart.PNG, f); err != nil {
		f.Close()
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing chart file: %w", err)
	}

	r.Logger.Debug("chart rendered", zap.String("path", r.Path), zap.Int("points", len(entries)))
	return r.Path, nil
}

func (r *PNGRenderer) build(entries []mood.Entry, found []patterns.Pattern) gochart.Chart {
	dates := make([]time.Time, len(entries))
	for i, e := range entries {
		dates[i] = e.Date.Time()
	}
	scores := Scores(entries)
	first, last := dates[0], dates[len(dates)-1]
	if !last.After(first) {
		first = first.Add(-12 * time.Hour)
		last = last.Add(12 * time.Hour)
	}

	var series []gochart.Series
	for _, z := range zones {
		series = append(series, gochart.TimeSeries{
			Name:    z.name,
			XValues: []time.Time{first, last},
			YValues: []float64{z.top, z.top},
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				FillColor:   drawing.ColorFromHex(z.color),
			},
		})
	}

	series = append(series,
		gochart.TimeSeries{
			Name:    "Daily Mood Score (1=Low, 5=High)",
			XValues: dates,
			YValues: scores,
			Style: gochart.Style{
				StrokeColor: drawing.ColorFromHex(baseColor),
				StrokeWidth: 2.5,
			},
		},
		gochart.TimeSeries{
			Name:    fmt.Sprintf("%d-Day Rolling Avg", r.RollingWindow),
			XValues: dates,
			YValues: RollingMean(scores, r.RollingWindow),
			Style: gochart.Style{
				StrokeColor: drawing.ColorFromHex(rollingColor).WithAlpha(204),
				StrokeWidth: 2,
			},
		},
	)

	annotations := Annotations(entries, found)
	if len(annotations) > 0 {
		series = append(series, pointSeries(annotations)...)

		labels := gochart.AnnotationSeries{Name: "Patterns"}
		for _, a := range annotations {
			labels.Annotations = append(labels.Annotations, gochart.Value2{
				XValue: gochart.TimeToFloat64(a.Date.Time()),
				YValue: float64(a.Score),
				Label:  a.Label,
				Style: gochart.Style{
					StrokeColor: drawing.ColorFromHex(baseColor),
					FontColor:   drawing.ColorFromHex(baseColor),
					FontSize:    9,
				},
			})
		}
		series = append(series, labels)
	}

	graph := gochart.Chart{
		Title:  "Mood Trend Over Time",
		Width:  chartWidth,
		Height: chartHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: dateFormatter,
			Range: &gochart.ContinuousRange{
				Min: gochart.TimeToFloat64(first),
				Max: gochart.TimeToFloat64(last),
			},
		},
		YAxis: gochart.YAxis{
			Name:  "Mood Score",
			Range: &gochart.ContinuousRange{Min: minScore, Max: maxScore},
			Ticks: []gochart.Tick{
				{Value: 1, Label: "1"}, {Value: 2, Label: "2"}, {Value: 3, Label: "3"},
				{Value: 4, Label: "4"}, {Value: 5, Label: "5"},
			},
			GridMajorStyle: gochart.Style{
				StrokeColor:     drawing.ColorFromHex("808080"),
				StrokeWidth:     0.5,
				StrokeDashArray: []float64{2, 2},
			},
			GridLines: []gochart.GridLine{{Value: 3}, {Value: 4}},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.LegendThin(&graph)}
	return graph
}

// pointSeries groups annotated points into one scatter series per cluster,
// ordered by first appearance. Cluster points are drawn larger than
// temporal ones.
func pointSeries(annotations []Annotation) []gochart.Series {
	index := map[int]int{}
	var groups []gochart.TimeSeries
	for _, a := range annotations {
		i, ok := index[a.Cluster]
		if !ok {
			name := "Temporal pattern"
			dot := 3.0
			if a.Cluster != NoCluster {
				name = fmt.Sprintf("Cluster %d", a.Cluster)
				dot = 4.5
			}
			i = len(groups)
			index[a.Cluster] = i
			groups = append(groups, gochart.TimeSeries{
				Name: name,
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    dot,
					DotColor:    drawing.ColorFromHex(ClusterColor(a.Cluster)),
				},
			})
		}
		groups[i].XValues = append(groups[i].XValues, a.Date.Time())
		groups[i].YValues = append(groups[i].YValues, float64(a.Score))
	}

	out := make([]gochart.Series, len(groups))
	for i := range groups {
		out[i] = groups[i]
	}
	return out
}

// dateFormatter renders x-axis ticks as MM-DD.
func dateFormatter(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("01-02")
	case float64:
		return gochart.TimeFromFloat64(t).UTC().Format("01-02")
	default:
		return ""
	}
}
