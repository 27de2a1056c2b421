package patterns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name      string
		distances []float64
		count     int
		want      float64
	}{
		{"no distances no evidence", nil, 0, 0.3},
		{"no distances one entry", nil, 1, 0.38},
		{"no distances saturated", nil, 5, 0.7},
		{"no distances beyond saturation", nil, 12, 0.7},
		{"empty slice same as nil", []float64{}, 2, 0.46},
		{"all NaN is neutral", []float64{math.NaN(), math.NaN()}, 0, 0.3},
		{"NaN ignored", []float64{math.NaN(), 0.7}, 0, 0.3},
		{"midpoint distance", []float64{0.7}, 5, 0.7},
		{"zero distance singleton", []float64{0}, 1, 0.48},
		{"zero distance pair", []float64{0}, 2, 0.56},
		{"very loose cluster", []float64{50}, 5, 0.4},
		{"negative count clamps", nil, -3, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(tt.distances, tt.count), 1e-9)
		})
	}
}

func TestConfidence_EmptyDistancesAddFixedClusterTerm(t *testing.T) {
	for n := 0; n <= 10; n++ {
		rule := math.Min(float64(n)/5, 1)
		assert.InDelta(t, round2(0.3+0.4*rule), Confidence(nil, n), 1e-9, "count %d", n)
	}
}

func TestConfidence_BoundedAndRounded(t *testing.T) {
	distances := []float64{-10, -1, 0, 0.1, 0.5, 0.7, 1, 2, 5, 100, math.Inf(1)}
	for _, d := range distances {
		for n := -1; n <= 8; n++ {
			c := Confidence([]float64{d}, n)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
			assert.InDelta(t, c, math.Round(c*100)/100, 1e-12, "distance %v count %d", d, n)
		}
	}
}

func TestConfidence_TighterIsHigher(t *testing.T) {
	assert.Greater(t, Confidence([]float64{0.2}, 3), Confidence([]float64{1.5}, 3))
	assert.Greater(t, Confidence([]float64{0.5}, 4), Confidence([]float64{0.5}, 1))
}
