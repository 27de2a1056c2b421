package patterns

import (
	"math"
	"math/rand"
)

const maxKMeansIterations = 300

// kmeans partitions points into k clusters with k-means++ seeding followed by
// Lloyd iterations. The returned labels are renumbered in order of first
// appearance, so points[0] is always in cluster 0. Results depend only on the
// points, k and seed.
func kmeans(points [][]float64, k int, seed int64) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		updateCentroids(points, labels, centroids)
	}

	return relabel(labels)
}

// seedCentroids picks k initial centroids: the first uniformly, each
// following one with probability proportional to its squared distance from
// the nearest centroid chosen so far.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(n)]))

	minDist := make([]float64, n)
	for i, p := range points {
		minDist[i] = squaredDistance(p, centroids[0])
	}

	for len(centroids) < k {
		var total float64
		for _, d := range minDist {
			total += d
		}

		next := rng.Intn(n)
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range minDist {
				target -= d
				if target < 0 {
					next = i
					break
				}
			}
		}

		c := clone(points[next])
		centroids = append(centroids, c)
		for i, p := range points {
			if d := squaredDistance(p, c); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centroids
}

// nearest returns the index of the closest centroid; ties go to the lower index.
func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// updateCentroids moves each centroid to the mean of its members. A cluster
// that lost all its members keeps its previous centroid.
func updateCentroids(points [][]float64, labels []int, centroids [][]float64) {
	dim := len(points[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := labels[i]
		counts[c]++
		for j, v := range p {
			sums[c][j] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range sums[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

// relabel renumbers cluster ids by first appearance.
func relabel(labels []int) []int {
	mapping := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := mapping[l]
		if !ok {
			id = len(mapping)
			mapping[l] = id
		}
		out[i] = id
	}
	return out
}

// meanPairwiseDistance is the average Euclidean distance over all unordered
// pairs of points, or 0 when there are fewer than two.
func meanPairwiseDistance(points [][]float64) float64 {
	if len(points) < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			sum += math.Sqrt(squaredDistance(points[i], points[j]))
			pairs++
		}
	}
	return sum / float64(pairs)
}

func squaredDistance(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
