package scoring

import "math"

// HitStats is the snapshot of trie-node statistics a score is computed
// from. It intentionally has no dependency on the trie package's internal
// node type, so scoring stays a leaf package.
type HitStats struct {
	Weight           float64
	Frequency        int
	Depth            int
	DocumentRefCount int
	LastAccessedMs   int64
}

// Score computes the per-hit score for an exact/prefix match at a node with
// the given stats, within a corpus of totalDocuments, for a matched term of
// length len(term), as of nowMs (spec §4.3).
func Score(stats HitStats, totalDocuments int, term string, nowMs int64) float64 {
	df := stats.DocumentRefCount
	f := stats.Frequency
	d := stats.Depth

	if totalDocuments == 0 || df == 0 {
		return stats.Weight
	}

	tfIdf := (float64(f) / maxf(1, float64(totalDocuments))) * math.Log(float64(totalDocuments)/maxf(1, float64(df)))
	recency := recencyDecay(nowMs, stats.LastAccessedMs)
	nodeScore := stats.Weight * float64(f) * recency / float64(d+1)
	positionBoost := 1.0 / float64(d+1)
	lengthNorm := 1.0 / math.Sqrt(maxf(1, float64(len([]rune(term)))))

	return nodeScore * tfIdf * positionBoost * lengthNorm
}

// FuzzyMultiplier scales a base score down by the edit distance of a fuzzy
// match (spec §4.3: exp(-max(0.001, editDistance))).
func FuzzyMultiplier(editDistance int) float64 {
	return math.Exp(-math.Max(0.001, float64(editDistance)))
}

func recencyDecay(nowMs, lastAccessedMs int64) float64 {
	x := float64(nowMs-lastAccessedMs) / 86_400_000.0
	if x < 0 {
		x = 0
	}
	return math.Exp(-x)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
