package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/moodlens/internal/patterns"
)

func TestObservePatterns(t *testing.T) {
	m := New()
	m.ObservePatterns([]patterns.Pattern{
		{Kind: patterns.KindTemporal, Confidence: 0.38},
		{Kind: patterns.KindTemporal, Confidence: 0.38},
		{Kind: patterns.KindSemantic, Confidence: 0.56},
		{Confidence: 0.5},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PatternsTotal.WithLabelValues("temporal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PatternsTotal.WithLabelValues("semantic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PatternsTotal.WithLabelValues("unknown")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.PatternConfidence))
}

func TestStageFailureAndCompletion(t *testing.T) {
	m := New()
	m.Entries.Set(7)
	m.ObserveStage(StageTemporal, time.Now().Add(-10*time.Millisecond))
	m.Fail(StageSemantic)
	m.Complete(time.Unix(1761955200, 0))

	assert.Equal(t, 7.0, testutil.ToFloat64(m.Entries))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailuresTotal.WithLabelValues(StageSemantic)))
	assert.Equal(t, 1761955200.0, testutil.ToFloat64(m.LastRun))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Fail(StageLoad)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FailuresTotal.WithLabelValues(StageLoad)))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Entries.Set(3)
	m.ObservePatterns([]patterns.Pattern{{Kind: patterns.KindSemantic, Confidence: 0.48}})

	path := filepath.Join(t.TempDir(), "textfile", "moodlens.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "moodlens_entries 3")
	assert.Contains(t, out, `moodlens_patterns_total{kind="semantic"} 1`)
	assert.Contains(t, out, "# TYPE moodlens_pattern_confidence histogram")
}
