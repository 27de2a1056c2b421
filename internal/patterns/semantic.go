package patterns

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
)

const (
	// DefaultMaxClusters caps k for the note clustering.
	DefaultMaxClusters = 3

	// DefaultSeed makes clustering reproducible across runs.
	DefaultSeed = 42
)

// Embedder turns note texts into fixed-size vectors, one per input, in order.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// SemanticOption configures a SemanticDetector.
type SemanticOption func(*SemanticDetector)

// WithMaxClusters sets the upper bound for k. Values below 1 are ignored.
func WithMaxClusters(k int) SemanticOption {
	return func(d *SemanticDetector) {
		if k >= 1 {
			d.maxClusters = k
		}
	}
}

// WithSeed sets the k-means random seed.
func WithSeed(seed int64) SemanticOption {
	return func(d *SemanticDetector) {
		d.seed = seed
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) SemanticOption {
	return func(d *SemanticDetector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// SemanticDetector clusters notes by meaning and reports the dominant mood
// of each cluster.
type SemanticDetector struct {
	embedder    Embedder
	maxClusters int
	seed        int64
	logger      *zap.Logger
}

// NewSemanticDetector creates a detector that embeds notes with embedder.
func NewSemanticDetector(embedder Embedder, opts ...SemanticOption) (*SemanticDetector, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	d := &SemanticDetector{
		embedder:    embedder,
		maxClusters: DefaultMaxClusters,
		seed:        DefaultSeed,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Detect returns one pattern per non-empty cluster, ordered by cluster id.
// When no entry has a note it returns nothing and the embedder is not called.
// Entries without a note take part in clustering with an empty text.
func (d *SemanticDetector) Detect(ctx context.Context, entries []mood.Entry) ([]Pattern, error) {
	if !mood.AnyNotes(entries) {
		d.logger.Debug("no notes to cluster", zap.Int("entries", len(entries)))
		return nil, nil
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Note()
	}

	vectors, err := d.embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	k := d.maxClusters
	if k > len(entries) {
		k = len(entries)
	}
	labels := kmeans(vectors, k, d.seed)

	clusters := groupByCluster(labels)
	out := make([]Pattern, 0, len(clusters))
	for id, members := range clusters {
		out = append(out, d.clusterPattern(id, members, entries, vectors))
	}

	d.logger.Debug("clustered notes",
		zap.Int("entries", len(entries)),
		zap.Int("k", k),
		zap.Int("clusters", len(clusters)),
	)
	return out, nil
}

func (d *SemanticDetector) embed(ctx context.Context, texts []string) ([][]float64, error) {
	raw, err := d.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d notes", ErrEmbedding, len(raw), len(texts))
	}

	dim := len(raw[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrEmbedding)
	}
	vectors := make([][]float64, len(raw))
	for i, v := range raw {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrEmbedding, i, len(v), dim)
		}
		vectors[i] = make([]float64, dim)
		for j, x := range v {
			vectors[i][j] = float64(x)
		}
	}
	return vectors, nil
}

// groupByCluster returns member indexes per cluster id. Labels are dense
// (0..k-1) after relabeling, so the slice index is the cluster id.
func groupByCluster(labels []int) [][]int {
	var clusters [][]int
	for i, l := range labels {
		for len(clusters) <= l {
			clusters = append(clusters, nil)
		}
		clusters[l] = append(clusters[l], i)
	}
	return clusters
}

func (d *SemanticDetector) clusterPattern(id int, members []int, entries []mood.Entry, vectors [][]float64) Pattern {
	memberVectors := make([][]float64, len(members))
	memberEntries := make([]mood.Entry, len(members))
	for i, idx := range members {
		memberVectors[i] = vectors[idx]
		memberEntries[i] = entries[idx]
	}

	cohesion := meanPairwiseDistance(memberVectors)

	evidence := make([]Evidence, len(memberEntries))
	for i, e := range memberEntries {
		cluster := id
		notes := e.Note()
		evidence[i] = Evidence{
			Date:    e.Date,
			Mood:    e.Mood,
			Notes:   &notes,
			Cluster: &cluster,
		}
	}

	return Pattern{
		Description: fmt.Sprintf("Cluster %d shows frequent '%s' moods", id, dominantMood(memberEntries)),
		Evidence:    evidence,
		Confidence:  Confidence([]float64{cohesion}, len(members)),
		Kind:        KindSemantic,
	}
}

// dominantMood returns the most frequent normalized label; ties go to the
// label seen first.
func dominantMood(entries []mood.Entry) string {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		label := mood.Normalize(e.Mood)
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	best := ""
	bestCount := 0
	for _, label := range order {
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best
}
