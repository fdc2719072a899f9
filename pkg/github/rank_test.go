package github

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		median   float64
		expected float64
	}{
		{"zero", 0, 100, 0},
		{"negative", -5, 100, 0},
		{"at median", 100, 100, 1},
		{"above median capped", 10000, 100, 1},
		{"below median", 9, 99, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.value, tt.median)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("normalize(%d, %v) = %v, want %v", tt.value, tt.median, got, tt.expected)
			}
		})
	}
}

func TestCalculateRank(t *testing.T) {
	tests := []struct {
		name       string
		input      RankInput
		level      string
		percentile int
	}{
		{
			name:       "no activity",
			input:      RankInput{},
			level:      "C",
			percentile: 100,
		},
		{
			name:       "everything at median",
			input:      RankInput{Commits: 1000, PRs: 100, Issues: 50, Reviews: 50, Stars: 500, Followers: 100},
			level:      "S+",
			percentile: 0,
		},
		{
			name:       "commits and prs only",
			input:      RankInput{Commits: 1000, PRs: 100},
			level:      "B+",
			percentile: 50,
		},
		{
			name:       "stars only",
			input:      RankInput{Stars: 5000},
			level:      "C+",
			percentile: 80,
		},
		{
			name:       "missing followers",
			input:      RankInput{Commits: 1000, PRs: 100, Issues: 50, Reviews: 50, Stars: 500},
			level:      "A+",
			percentile: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank := CalculateRank(tt.input)
			if rank.Level != tt.level {
				t.Errorf("Level = %q, want %q", rank.Level, tt.level)
			}
			if rank.Percentile != tt.percentile {
				t.Errorf("Percentile = %d, want %d", rank.Percentile, tt.percentile)
			}
			if rank.Score < 0 || rank.Score > 1.0000001 {
				t.Errorf("Score = %v, want within [0, 1]", rank.Score)
			}
		})
	}
}

func TestCalculateRank_LevelBoundaries(t *testing.T) {
	tests := []struct {
		percentile int
		level      string
	}{
		{1, "S+"}, {2, "S"}, {5, "S"}, {6, "A+"}, {12, "A+"}, {13, "A"},
		{25, "A"}, {26, "A-"}, {37, "A-"}, {38, "B+"}, {50, "B+"}, {51, "B"},
		{62, "B"}, {63, "B-"}, {75, "B-"}, {76, "C+"}, {87, "C+"}, {88, "C"},
	}

	for _, tt := range tests {
		level := "C"
		for _, l := range levels {
			if float64(tt.percentile) <= l.maxPercentile {
				level = l.level
				break
			}
		}
		if level != tt.level {
			t.Errorf("percentile %d -> %q, want %q", tt.percentile, level, tt.level)
		}
	}
}
