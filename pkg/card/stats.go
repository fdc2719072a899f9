package card

import (
	"fmt"
	"math"
	"strings"

	"github.com/paveg/devcard/pkg/github"
)

const (
	statsWidth  = 495
	cardPadding = 20
	titleY      = 35
)

var statIcons = map[string]string{
	"stars":    "M8 .25a.75.75 0 0 1 .673.418l1.882 3.815 4.21.612a.75.75 0 0 1 .416 1.279l-3.046 2.97.719 4.192a.75.75 0 0 1-1.088.791L8 12.347l-3.766 1.98a.75.75 0 0 1-1.088-.79l.72-4.194L.818 6.374a.75.75 0 0 1 .416-1.28l4.21-.611L7.327.668A.75.75 0 0 1 8 .25Z",
	"commits":  "M1.643 3.143.427 1.927A.25.25 0 0 1 .604 1.5h2.792a.25.25 0 0 1 .177.427l-1.216 1.216a.25.25 0 0 1-.354 0Zm6.354 1.854a3.5 3.5 0 1 0 0 6.006v1.078a.75.75 0 0 0 1.5 0v-1.078c1.503-.273 2.648-1.577 2.648-3.003 0-1.426-1.145-2.73-2.648-3.003V3.919a.75.75 0 0 0-1.5 0v1.078ZM8 6.5a2 2 0 1 0 0 4 2 2 0 0 0 0-4Z",
	"prs":      "M1.5 3.25a2.25 2.25 0 1 1 3 2.122v5.256a2.251 2.251 0 1 1-1.5 0V5.372A2.25 2.25 0 0 1 1.5 3.25Zm5.677-.177L9.573.677A.25.25 0 0 1 10 .854V2.5h1A2.5 2.5 0 0 1 13.5 5v5.628a2.251 2.251 0 1 1-1.5 0V5a1 1 0 0 0-1-1h-1v1.646a.25.25 0 0 1-.427.177L7.177 3.427a.25.25 0 0 1 0-.354ZM3.75 2.5a.75.75 0 1 0 0 1.5.75.75 0 0 0 0-1.5Zm0 9.5a.75.75 0 1 0 0 1.5.75.75 0 0 0 0-1.5Zm8.25.75a.75.75 0 1 0 1.5 0 .75.75 0 0 0-1.5 0Z",
	"issues":   "M8 9.5a1.5 1.5 0 1 0 0-3 1.5 1.5 0 0 0 0 3Z M8 0a8 8 0 1 1 0 16A8 8 0 0 1 8 0ZM1.5 8a6.5 6.5 0 1 0 13 0 6.5 6.5 0 0 0-13 0Z",
	"contribs": "M2 2.5A2.5 2.5 0 0 1 4.5 0h8.75a.75.75 0 0 1 .75.75v12.5a.75.75 0 0 1-.75.75h-2.5a.75.75 0 0 1 0-1.5h1.75v-2h-8a1 1 0 0 0-.714 1.7.75.75 0 1 1-1.072 1.05A2.495 2.495 0 0 1 2 11.5Zm10.5-1h-8a1 1 0 0 0-1 1v6.708A2.486 2.486 0 0 1 4.5 9h8ZM5 12.25a.25.25 0 0 1 .25-.25h3.5a.25.25 0 0 1 .25.25v3.25a.25.25 0 0 1-.4.2l-1.45-1.087a.249.249 0 0 0-.3 0L5.4 15.7a.25.25 0 0 1-.4-.2Z",
	"reviews":  "M1.75 1h12.5c.966 0 1.75.784 1.75 1.75v8.5A1.75 1.75 0 0 1 14.25 13H8.061l-2.574 2.573A1.458 1.458 0 0 1 3 14.543V13H1.75A1.75 1.75 0 0 1 0 11.25v-8.5C0 1.784.784 1 1.75 1ZM1.5 2.75v8.5c0 .138.112.25.25.25h2a.75.75 0 0 1 .75.75v2.19l2.72-2.72a.749.749 0 0 1 .53-.22h6.5a.25.25 0 0 0 .25-.25v-8.5a.25.25 0 0 0-.25-.25H1.75a.25.25 0 0 0-.25.25Zm5.28 1.72a.75.75 0 0 1 0 1.06L5.31 7l1.47 1.47a.751.751 0 0 1-1.06 1.06l-2-2a.75.75 0 0 1 0-1.06l2-2a.75.75 0 0 1 1.06 0Zm2.44 0a.75.75 0 0 1 1.06 0l2 2a.75.75 0 0 1 0 1.06l-2 2a.751.751 0 0 1-1.06-1.06L10.69 7 9.22 5.53a.75.75 0 0 1 0-1.06Z",
}

const githubMark = "M8 0c4.42 0 8 3.58 8 8a8.013 8.013 0 0 1-5.45 7.59c-.4.08-.55-.17-.55-.38 0-.27.01-1.13.01-2.2 0-.75-.25-1.23-.54-1.48 1.78-.2 3.65-.88 3.65-3.95 0-.88-.31-1.59-.82-2.15.08-.2.36-1.02-.08-2.12 0 0-.67-.22-2.2.82-.64-.18-1.32-.27-2-.27-.68 0-1.36.09-2 .27-1.53-1.03-2.2-.82-2.2-.82-.44 1.1-.16 1.92-.08 2.12-.51.56-.82 1.28-.82 2.15 0 3.06 1.86 3.75 3.64 3.95-.23.2-.44.55-.51 1.07-.46.21-1.61.55-2.33-.66-.15-.24-.6-.83-1.23-.82-.67.01-.27.38.01.53.34.19.73.9.82 1.13.16.45.68 1.31 2.69.94 0 .67.01 1.3.01 1.49 0 .21-.15.45-.55.38A7.995 7.995 0 0 1 0 8c0-4.42 3.58-8 8-8Z"

type statRow struct {
	key   string
	label string
	value int
}

func statRows(stats *github.UserStats, opts StatsOptions, tr translation) []statRow {
	all := []statRow{
		{"stars", tr.totalStars, stats.TotalStars},
		{"commits", tr.totalCommits, stats.TotalCommits},
		{"prs", tr.totalPRs, stats.TotalPRs},
		{"issues", tr.totalIssues, stats.TotalIssues},
		{"contribs", tr.contributedTo, stats.ContributedTo},
	}
	if contains(opts.Show, "reviews") {
		all = append(all, statRow{"reviews", tr.codeReviews, stats.TotalReviews})
	}

	rows := all[:0]
	for _, row := range all {
		if !contains(opts.Hide, row.key) {
			rows = append(rows, row)
		}
	}
	return rows
}

// RenderStats renders the GitHub stats card.
func RenderStats(stats *github.UserStats, opts StatsOptions) string {
	c := opts.colors()
	locale := ParseLocale(opts.Locale)
	tr := locale.strings()
	fonts := locale.fontSizes()
	family := locale.fontFamily()

	width := opts.width(statsWidth)
	height := CardHeight
	showIcons := boolValue(opts.ShowIcons, false)
	hideRank := boolValue(opts.HideRank, false)
	hideTitle := boolValue(opts.HideTitle, false)

	contentStart := 55
	if hideTitle {
		contentStart = 25
	}
	contentEnd := height - 20

	rows := statRows(stats, opts, tr)
	lineHeight := (contentEnd - contentStart) / max(len(rows), 1)

	statsRight := width - 115
	if hideRank {
		statsRight = width - cardPadding*2
	}
	iconOffset := 0
	if showIcons {
		iconOffset = 22
	}

	var b strings.Builder
	frame(&b, width, height, c, boolValue(opts.HideBorder, false))

	if !hideTitle {
		text := opts.CustomTitle
		if text == "" {
			text = tr.statsTitle(stats.Name)
		}
		title(&b, cardPadding, titleY, text, c, locale)
	}

	for i, row := range rows {
		y := contentStart + i*lineHeight + 12
		if showIcons {
			fmt.Fprintf(&b, `  <svg x="%d" y="%d" width="16" height="16" viewBox="0 0 16 16" fill="#%s"><path d="%s"/></svg>`+"\n",
				cardPadding, y-12, c.IconColor, statIcons[row.key])
		}
		fmt.Fprintf(&b, `  <text x="%d" y="%d" fill="#%s" font-size="%d" font-family="%s" opacity="0.8">%s</text>`+"\n",
			cardPadding+iconOffset, y, c.TextColor, fonts.label, family, EscapeXML(row.label))
		fmt.Fprintf(&b, `  <text x="%d" y="%d" fill="#%s" font-size="%d" font-family="%s" font-weight="600" text-anchor="end">%s</text>`+"\n",
			statsRight, y, c.TitleColor, fonts.value, family, FormatNumber(row.value, locale))
	}

	if !hideRank {
		rankRing(&b, stats.Rank, opts, c, locale, width, height)
	}

	b.WriteString("</svg>")
	return b.String()
}

func rankRing(b *strings.Builder, rank github.Rank, opts StatsOptions, c Theme, locale Locale, width, height int) {
	const radius = 35.0
	circumference := 2 * math.Pi * radius
	progress := float64(100-rank.Percentile) / 100 * circumference
	ring := ParseColor(opts.RingColor, c.TitleColor)
	family := locale.fontFamily()

	fmt.Fprintf(b, `  <g transform="translate(%d, %s)">`+"\n", width-55, num(float64(height)/2+5))
	fmt.Fprintf(b, `    <circle cx="0" cy="0" r="%s" fill="none" stroke="#%s" stroke-width="4" opacity="0.3" />`+"\n",
		num(radius), c.BorderColor)
	fmt.Fprintf(b, `    <circle cx="0" cy="0" r="%s" fill="none" stroke="#%s" stroke-width="4" stroke-dasharray="%s" stroke-dashoffset="%s" transform="rotate(-90)" stroke-linecap="round" />`+"\n",
		num(radius), ring, num(circumference), num(circumference-progress))

	switch opts.RankIcon {
	case RankIconGitHub:
		fmt.Fprintf(b, `    <svg x="-13" y="-13" width="26" height="26" viewBox="0 0 16 16" fill="#%s"><path d="%s"/></svg>`+"\n",
			c.TitleColor, githubMark)
	case RankIconPercentile:
		fmt.Fprintf(b, `    <text x="0" y="6" fill="#%s" font-size="16" font-family="%s" font-weight="700" text-anchor="middle">%d%%</text>`+"\n",
			c.TitleColor, family, rank.Percentile)
	default:
		fmt.Fprintf(b, `    <text x="0" y="6" fill="#%s" font-size="20" font-family="%s" font-weight="700" text-anchor="middle">%s</text>`+"\n",
			c.TitleColor, family, EscapeXML(rank.Level))
	}

	fmt.Fprintf(b, `    <text x="0" y="-46" fill="#%s" font-size="%d" font-family="%s" text-anchor="middle" opacity="0.7">%s %d%%</text>`+"\n",
		c.TextColor, locale.fontSizes().small, family, EscapeXML(locale.strings().top), rank.Percentile)
	b.WriteString("  </g>\n")
}
