package patterns

import "math"

const (
	// neutralClusterScore stands in for cohesion when there is none to measure.
	neutralClusterScore = 0.5

	// cohesionMidpoint is the mean distance that maps to a cluster score of 0.5.
	cohesionMidpoint = 0.7

	// saturationCount is the evidence count at which the rule score maxes out.
	saturationCount = 5

	clusterWeight = 0.6
	ruleWeight    = 0.4
)

// Confidence scores a pattern from its intra-cluster distances and the number
// of entries supporting it. Temporal patterns pass no distances.
//
// A lower mean distance (tighter cluster) and more evidence both raise the
// score. NaN distances are ignored; if none remain the cluster component is
// neutral. The result is in [0, 1] and rounded to two decimals.
func Confidence(distances []float64, evidenceCount int) float64 {
	clusterScore := neutralClusterScore
	if mean, ok := meanIgnoringNaN(distances); ok {
		clusterScore = 1 / (1 + math.Exp(mean-cohesionMidpoint))
	}

	ruleScore := math.Min(float64(evidenceCount)/saturationCount, 1)
	if ruleScore < 0 {
		ruleScore = 0
	}

	c := round2(clusterWeight*clusterScore + ruleWeight*ruleScore)
	return math.Max(0, math.Min(1, c))
}

func meanIgnoringNaN(values []float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
