package chart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
	"github.com/fyrsmithlabs/moodlens/internal/patterns"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), len(pngMagic))
	assert.True(t, bytes.HasPrefix(data, pngMagic), "file is not a PNG")
}

func TestPNGRenderer_Render(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mood_trends.png")
	r := NewPNGRenderer(path, 0, zaptest.NewLogger(t))
	assert.Equal(t, DefaultRollingWindow, r.RollingWindow)

	zero := 0
	found := []patterns.Pattern{
		{Evidence: []patterns.Evidence{{Date: day(1), Mood: "sad"}}},
		{Evidence: []patterns.Evidence{{Date: day(2), Mood: "happy", Cluster: &zero}}},
	}

	got, err := r.Render(context.Background(), sampleEntries(), found)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assertPNG(t, path)
}

func TestPNGRenderer_SingleEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.png")
	entries := []mood.Entry{mood.NewEntry(day(0), "calm", nil)}

	_, err := NewPNGRenderer(path, 3, nil).Render(context.Background(), entries, nil)
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestPNGRenderer_NoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	_, err := NewPNGRenderer(path, 3, nil).Render(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
	assert.NoFileExists(t, path)
}

func TestPNGRenderer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "canceled.png")
	_, err := NewPNGRenderer(path, 3, nil).Render(ctx, sampleEntries(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestPointSeries_GroupsByCluster(t *testing.T) {
	got := pointSeries([]Annotation{
		{Date: day(0), Score: 3, Cluster: 1},
		{Date: day(1), Score: 2, Cluster: NoCluster},
		{Date: day(2), Score: 5, Cluster: 1},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "Cluster 1", got[0].GetName())
	assert.Equal(t, "Temporal pattern", got[1].GetName())
}

func TestDateFormatter(t *testing.T) {
	assert.Equal(t, "10-21", dateFormatter(day(1).Time()))
	assert.Equal(t, "", dateFormatter("x"))
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	found := []patterns.Pattern{{
		Description:  "Mood dips on Tuesdays",
		Evidence:     []patterns.Evidence{{Date: day(1), Mood: "sad"}},
		Confidence:   0.38,
		MicroActions: []string{"Write down one thing you are grateful for."},
	}}
	require.NoError(t, Preview(&buf, sampleEntries(), found, "out/mood_trends.png"))

	out := buf.String()
	assert.Contains(t, out, "Mood dips on Tuesdays")
	assert.Contains(t, out, "0.38")
	assert.Contains(t, out, "2025-10-20")
	assert.Contains(t, out, "out/mood_trends.png")
}

func TestPreview_EmptyAndNoPatterns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, nil, nil, ""))
	assert.Contains(t, buf.String(), "no entries")

	buf.Reset()
	require.NoError(t, Preview(&buf, sampleEntries(), nil, ""))
	assert.Contains(t, buf.String(), "No patterns detected.")
	assert.False(t, strings.Contains(buf.String(), "Chart:"))
}
