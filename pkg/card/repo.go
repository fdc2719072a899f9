package card

import (
	"fmt"
	"strings"

	"github.com/paveg/devcard/pkg/github"
)

const (
	repoWidth           = 400
	repoPadding         = 15
	maxDescriptionLines = 4
	descriptionFontSize = 12
)

const (
	repoIcon = "M2 2.5A2.5 2.5 0 0 1 4.5 0h8.75a.75.75 0 0 1 .75.75v12.5a.75.75 0 0 1-.75.75h-2.5a.75.75 0 0 1 0-1.5h1.75v-2h-8a1 1 0 0 0-.714 1.7.75.75 0 1 1-1.072 1.05A2.495 2.495 0 0 1 2 11.5Zm10.5-1h-8a1 1 0 0 0-1 1v6.708A2.486 2.486 0 0 1 4.5 9h8ZM5 12.25a.25.25 0 0 1 .25-.25h3.5a.25.25 0 0 1 .25.25v3.25a.25.25 0 0 1-.4.2l-1.45-1.087a.249.249 0 0 0-.3 0L5.4 15.7a.25.25 0 0 1-.4-.2Z"
	forkIcon = "M5 3.25a.75.75 0 1 1-1.5 0 .75.75 0 0 1 1.5 0Zm0 2.122a2.25 2.25 0 1 0-1.5 0v.878A2.25 2.25 0 0 0 5.75 8.5h1.5v2.128a2.251 2.251 0 1 0 1.5 0V8.5h1.5a2.25 2.25 0 0 0 2.25-2.25v-.878a2.25 2.25 0 1 0-1.5 0v.878a.75.75 0 0 1-.75.75h-4.5a.75.75 0 0 1-.75-.75v-.878Zm6.5-.75a.75.75 0 1 1 0-1.5.75.75 0 0 1 0 1.5Zm-3 8.75a.75.75 0 1 1-1.5 0 .75.75 0 0 1 1.5 0Z"
)

func descriptionLines(n *int) int {
	if n == nil {
		return maxDescriptionLines
	}
	return min(max(*n, 1), maxDescriptionLines)
}

// RenderRepo renders the pinned repository card.
func RenderRepo(repo *github.Repo, opts RepoOptions) string {
	c := opts.colors()
	locale := ParseLocale(opts.Locale)
	tr := locale.strings()
	fonts := locale.fontSizes()
	family := locale.fontFamily()

	width := opts.width(repoWidth)
	height := CardHeight

	name := repo.Name
	if boolValue(opts.ShowOwner, false) {
		name = repo.NameWithOwner
	}
	description := repo.Description
	if description == "" {
		description = tr.noDescription
	}

	lines := WrapText(description, float64(width-repoPadding*2-20), descriptionFontSize)
	if n := descriptionLines(opts.DescriptionLinesCount); len(lines) > n {
		lines = lines[:n]
	}

	var b strings.Builder
	frame(&b, width, height, c, boolValue(opts.HideBorder, false))

	descStart := 52
	if boolValue(opts.HideTitle, false) {
		descStart = 25
	} else {
		fmt.Fprintf(&b, `  <g transform="translate(%d, 18)">`+"\n", repoPadding)
		fmt.Fprintf(&b, `    <svg width="16" height="16" viewBox="0 0 16 16" fill="#%s"><path d="%s"/></svg>`+"\n", c.IconColor, repoIcon)
		fmt.Fprintf(&b, `    <text x="22" y="13" fill="#%s" font-size="%d" font-family="%s" font-weight="600">%s</text>`+"\n",
			c.TitleColor, fonts.value, family, EscapeXML(name))
		b.WriteString("  </g>\n")
	}

	if repo.IsArchived {
		fmt.Fprintf(&b, `  <rect x="%d" y="12" width="60" height="18" fill="#%s" opacity="0.15" rx="9" />`+"\n", width-75, c.TextColor)
		fmt.Fprintf(&b, `  <text x="%d" y="24" fill="#%s" font-size="10" font-family="%s" text-anchor="middle">%s</text>`+"\n",
			width-45, c.TextColor, family, EscapeXML(tr.archived))
	}

	for i, line := range lines {
		fmt.Fprintf(&b, `  <text x="%d" y="%d" fill="#%s" font-size="%d" font-family="%s" opacity="0.8">%s</text>`+"\n",
			repoPadding, descStart+i*18, c.TextColor, fonts.small, family, EscapeXML(line))
	}

	statsY := height - 25
	statsX := repoPadding
	if lang := repo.PrimaryLanguage; lang != nil {
		fmt.Fprintf(&b, `  <circle cx="%d" cy="%d" r="5" fill="%s" />`+"\n",
			statsX+5, statsY, EscapeXML(languageColor(lang.Name, lang.Color)))
		fmt.Fprintf(&b, `  <text x="%d" y="%d" fill="#%s" font-size="%d" font-family="%s">%s</text>`+"\n",
			statsX+15, statsY+4, c.TextColor, fonts.small, family, EscapeXML(lang.Name))
		statsX += 100
	}

	for _, stat := range []struct {
		icon  string
		value int
	}{{statIcons["stars"], repo.Stars}, {forkIcon, repo.Forks}} {
		fmt.Fprintf(&b, `  <g transform="translate(%d, %d)">`+"\n", statsX, statsY-7)
		fmt.Fprintf(&b, `    <svg width="14" height="14" viewBox="0 0 16 16" fill="#%s"><path d="%s"/></svg>`+"\n", c.IconColor, stat.icon)
		fmt.Fprintf(&b, `    <text x="18" y="11" fill="#%s" font-size="%d" font-family="%s">%s</text>`+"\n",
			c.TextColor, fonts.small, family, FormatNumber(stat.value, locale))
		b.WriteString("  </g>\n")
		statsX += 55
	}

	b.WriteString("</svg>")
	return b.String()
}
