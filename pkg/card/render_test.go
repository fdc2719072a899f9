package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paveg/devcard/pkg/github"
)

func sampleStats() *github.UserStats {
	return &github.UserStats{
		Name:          "The Octocat",
		Username:      "octocat",
		TotalStars:    1500,
		TotalCommits:  320,
		TotalPRs:      42,
		TotalIssues:   7,
		TotalReviews:  11,
		ContributedTo: 5,
		Rank:          github.Rank{Level: "A", Percentile: 25, Score: 0.25},
	}
}

func TestRenderStats(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{})

		assert.True(t, strings.HasPrefix(svg, `<svg width="495" height="195"`))
		assert.True(t, strings.HasSuffix(svg, "</svg>"))
		assert.Contains(t, svg, "The Octocat&apos;s GitHub Stats")
		assert.Contains(t, svg, "Total Stars")
		assert.Contains(t, svg, ">1.5k<")
		assert.Contains(t, svg, "Top 25%")
		assert.Contains(t, svg, ">A<")
		assert.Contains(t, svg, `stroke-opacity="0.5"`)
		assert.NotContains(t, svg, "Code Reviews")
	})

	t.Run("hide and show rows", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{
			Hide: []string{"stars"},
			Show: []string{"reviews"},
		})
		assert.NotContains(t, svg, "Total Stars")
		assert.Contains(t, svg, "Code Reviews")
	})

	t.Run("hide rank", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{HideRank: boolPtr(true)})
		assert.NotContains(t, svg, "Top 25%")
		assert.NotContains(t, svg, "<circle")
	})

	t.Run("percentile rank icon", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{RankIcon: RankIconPercentile})
		assert.Contains(t, svg, ">25%<")
	})

	t.Run("custom title is escaped", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{CustomTitle: "<b>me</b>"})
		assert.Contains(t, svg, "&lt;b&gt;me&lt;/b&gt;")
		assert.NotContains(t, svg, "<b>")
	})

	t.Run("hide border and title", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{CommonOptions: CommonOptions{
			HideBorder: boolPtr(true),
			HideTitle:  boolPtr(true),
		}})
		assert.NotContains(t, svg, `stroke-opacity="0.5"`)
		assert.NotContains(t, svg, "GitHub Stats")
	})

	t.Run("theme and ring color", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{
			CommonOptions: CommonOptions{Theme: "dark"},
			RingColor:     "00ff00",
		})
		assert.Contains(t, svg, `fill="#22272e"`)
		assert.Contains(t, svg, `stroke="#00ff00"`)
	})

	t.Run("japanese", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{CommonOptions: CommonOptions{Locale: "ja"}})
		assert.Contains(t, svg, "The OctocatのGitHub統計")
		assert.Contains(t, svg, "1.5千")
		assert.Contains(t, svg, "上位 25%")
	})

	t.Run("icons", func(t *testing.T) {
		svg := RenderStats(sampleStats(), StatsOptions{ShowIcons: boolPtr(true)})
		assert.Contains(t, svg, statIcons["commits"])
	})
}

func sampleLanguages() []github.Language {
	return []github.Language{
		{Name: "Go", Color: "#00ADD8", Size: 600, Percentage: 60},
		{Name: "TypeScript", Color: "#3178c6", Size: 300, Percentage: 30},
		{Name: "C++", Size: 100, Percentage: 10},
	}
}

func TestRenderLanguages(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		svg := RenderLanguages(sampleLanguages(), LanguagesOptions{})

		assert.True(t, strings.HasPrefix(svg, `<svg width="300" height="195"`))
		assert.Contains(t, svg, "Most Used Languages")
		assert.Contains(t, svg, "60.0%")
		assert.Contains(t, svg, `fill="#f34b7d"`)
		assert.Contains(t, svg, `rx="2.5"`)
	})

	t.Run("hide progress", func(t *testing.T) {
		svg := RenderLanguages(sampleLanguages(), LanguagesOptions{HideProgress: boolPtr(true)})
		assert.NotContains(t, svg, `rx="2.5"`)
		assert.Contains(t, svg, "TypeScript")
	})

	t.Run("compact", func(t *testing.T) {
		svg := RenderLanguages(sampleLanguages(), LanguagesOptions{Layout: LayoutCompact})
		assert.Contains(t, svg, `mask="url(#bar-mask)"`)
		assert.Contains(t, svg, "Go 60.0%")
	})

	t.Run("limit", func(t *testing.T) {
		langs := make([]github.Language, 0, 10)
		for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
			langs = append(langs, github.Language{Name: "lang" + name, Percentage: 10})
		}

		normal := RenderLanguages(langs, LanguagesOptions{LangsCount: 10})
		assert.Contains(t, normal, "langE")
		assert.NotContains(t, normal, "langF")

		compact := RenderLanguages(langs, LanguagesOptions{Layout: LayoutCompact, LangsCount: 10})
		assert.Contains(t, compact, "langH")
		assert.NotContains(t, compact, "langI")

		two := RenderLanguages(langs, LanguagesOptions{LangsCount: 2})
		assert.NotContains(t, two, "langC")
	})

	t.Run("empty", func(t *testing.T) {
		svg := RenderLanguages(nil, LanguagesOptions{})
		assert.Contains(t, svg, "No language data available")
	})
}

func sampleRepo() *github.Repo {
	return &github.Repo{
		Name:            "hello-world",
		NameWithOwner:   "octocat/hello-world",
		Description:     "My first repository on GitHub & more",
		PrimaryLanguage: &github.Language{Name: "Go", Color: "#00ADD8"},
		Stars:           2500,
		Forks:           12,
	}
}

func TestRenderRepo(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		svg := RenderRepo(sampleRepo(), RepoOptions{})

		assert.True(t, strings.HasPrefix(svg, `<svg width="400" height="195"`))
		assert.Contains(t, svg, ">hello-world<")
		assert.Contains(t, svg, "GitHub &amp; more")
		assert.Contains(t, svg, ">2.5k<")
		assert.Contains(t, svg, ">12<")
		assert.Contains(t, svg, `fill="#00ADD8"`)
		assert.NotContains(t, svg, "Archived")
	})

	t.Run("show owner", func(t *testing.T) {
		svg := RenderRepo(sampleRepo(), RepoOptions{ShowOwner: boolPtr(true)})
		assert.Contains(t, svg, ">octocat/hello-world<")
	})

	t.Run("archived without description", func(t *testing.T) {
		repo := sampleRepo()
		repo.Description = ""
		repo.IsArchived = true
		repo.PrimaryLanguage = nil

		svg := RenderRepo(repo, RepoOptions{})
		assert.Contains(t, svg, "No description provided")
		assert.Contains(t, svg, "Archived")
		assert.NotContains(t, svg, "<circle")
	})

	t.Run("description lines", func(t *testing.T) {
		repo := sampleRepo()
		repo.Description = strings.Repeat("word ", 200)

		all := RenderRepo(repo, RepoOptions{})
		one := RenderRepo(repo, RepoOptions{DescriptionLinesCount: intPtr(1)})
		clamped := RenderRepo(repo, RepoOptions{DescriptionLinesCount: intPtr(10)})

		assert.Equal(t, 4, strings.Count(all, `opacity="0.8"`))
		assert.Equal(t, 1, strings.Count(one, `opacity="0.8"`))
		assert.Equal(t, 4, strings.Count(clamped, `opacity="0.8"`))
	})
}

func boolPtr(b bool) *bool { return &b }
