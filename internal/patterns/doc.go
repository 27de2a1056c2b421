// Package patterns detects recurring behavior in a mood log.
//
// Two detectors run independently over the same scored entries:
//
//   - TemporalDetector groups entries by weekday and reports a weekday whose
//     mean score deviates from the overall mean (a dip or a peak).
//   - SemanticDetector embeds the free-text notes, clusters them with k-means
//     and reports the dominant mood of each cluster.
//
// Both score their findings with Confidence, which blends cluster cohesion
// with the amount of supporting evidence into a value in [0, 1].
package patterns
