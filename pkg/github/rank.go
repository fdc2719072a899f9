package github

import "math"

// Rank places a user on a percentile scale derived from their activity.
type Rank struct {
	// Level is one of S+, S, A+, A, A-, B+, B, B-, C+ or C.
	Level string

	// Percentile is the share of users ranked above, 0 to 100.
	Percentile int

	// Score is the weighted activity score in [0, 1].
	Score float64
}

// RankInput holds the counts a rank is computed from.
type RankInput struct {
	Commits   int
	PRs       int
	Issues    int
	Reviews   int
	Stars     int
	Followers int
}

type rankWeight struct {
	weight float64
	median float64
}

var (
	commitsWeight   = rankWeight{weight: 0.25, median: 1000}
	prsWeight       = rankWeight{weight: 0.25, median: 100}
	issuesWeight    = rankWeight{weight: 0.1, median: 50}
	reviewsWeight   = rankWeight{weight: 0.1, median: 50}
	starsWeight     = rankWeight{weight: 0.2, median: 500}
	followersWeight = rankWeight{weight: 0.1, median: 100}
)

var levels = []struct {
	maxPercentile float64
	level         string
}{
	{1, "S+"},
	{5, "S"},
	{12.5, "A+"},
	{25, "A"},
	{37.5, "A-"},
	{50, "B+"},
	{62.5, "B"},
	{75, "B-"},
	{87.5, "C+"},
}

// normalize maps a count onto [0, 1] on a log scale where median maps to 1.
func normalize(value int, median float64) float64 {
	if value <= 0 {
		return 0
	}
	return math.Min(1, math.Log10(float64(value)+1)/math.Log10(median+1))
}

func (w rankWeight) apply(value int) float64 {
	return normalize(value, w.median) * w.weight
}

// CalculateRank computes the rank for a set of activity counts.
func CalculateRank(in RankInput) Rank {
	score := commitsWeight.apply(in.Commits) +
		prsWeight.apply(in.PRs) +
		issuesWeight.apply(in.Issues) +
		reviewsWeight.apply(in.Reviews) +
		starsWeight.apply(in.Stars) +
		followersWeight.apply(in.Followers)

	percentile := int(math.Floor((1-score)*100 + 0.5))

	level := "C"
	for _, l := range levels {
		if float64(percentile) <= l.maxPercentile {
			level = l.level
			break
		}
	}

	return Rank{Level: level, Percentile: percentile, Score: score}
}
