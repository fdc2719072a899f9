package card

import (
	"fmt"
	"strings"

	"github.com/paveg/devcard/pkg/github"
)

const (
	languagesWidth    = 300
	maxNormalLangs    = 5
	maxCompactLangs   = 8
	compactBarHeight  = 8
	compactLegendY    = 72
	compactLegendStep = 24
)

// RenderLanguages renders the top languages card. Languages are expected in
// display order; at most five are drawn, or eight in the compact layout.
// Donut and pie layouts currently draw the normal layout.
func RenderLanguages(langs []github.Language, opts LanguagesOptions) string {
	c := opts.colors()
	locale := ParseLocale(opts.Locale)
	tr := locale.strings()
	width := opts.width(languagesWidth)

	limit := maxNormalLangs
	if opts.Layout == LayoutCompact {
		limit = maxCompactLangs
	}
	if opts.LangsCount > 0 && opts.LangsCount < limit {
		limit = opts.LangsCount
	}
	if len(langs) > limit {
		langs = langs[:limit]
	}

	text := opts.CustomTitle
	if text == "" {
		text = tr.languagesTitle
	}

	var b strings.Builder
	frame(&b, width, CardHeight, c, boolValue(opts.HideBorder, false))

	switch {
	case len(langs) == 0:
		renderEmptyLanguages(&b, text, width, c, opts, locale)
	case opts.Layout == LayoutCompact:
		renderCompactLanguages(&b, langs, text, width, c, opts, locale)
	default:
		renderNormalLanguages(&b, langs, text, width, c, opts, locale)
	}

	b.WriteString("</svg>")
	return b.String()
}

func renderNormalLanguages(b *strings.Builder, langs []github.Language, text string, width int, c Theme, opts LanguagesOptions, locale Locale) {
	fonts := locale.fontSizes()
	family := locale.fontFamily()
	hideProgress := boolValue(opts.HideProgress, false)

	contentStart := 55
	if boolValue(opts.HideTitle, false) {
		contentStart = 25
	} else {
		title(b, cardPadding, titleY, text, c, locale)
	}
	itemHeight := (CardHeight - 20 - contentStart) / max(len(langs), 1)
	barWidth := float64(width - cardPadding*2)

	for i, lang := range langs {
		color := languageColor(lang.Name, lang.Color)
		fmt.Fprintf(b, `  <g transform="translate(%d, %d)">`+"\n", cardPadding, contentStart+i*itemHeight)
		fmt.Fprintf(b, `    <circle cx="6" cy="8" r="5" fill="%s" />`+"\n", EscapeXML(color))
		fmt.Fprintf(b, `    <text x="18" y="12" fill="#%s" font-size="%d" font-family="%s">%s</text>`+"\n",
			c.TextColor, fonts.small, family, EscapeXML(lang.Name))
		fmt.Fprintf(b, `    <text x="%s" y="12" fill="#%s" font-size="%d" font-family="%s" font-weight="600" text-anchor="end">%.1f%%</text>`+"\n",
			num(barWidth), c.TitleColor, fonts.small, family, lang.Percentage)
		if !hideProgress {
			fmt.Fprintf(b, `    <rect x="0" y="16" width="%s" height="5" fill="#%s" opacity="0.2" rx="2.5" />`+"\n",
				num(barWidth), c.BorderColor)
			fmt.Fprintf(b, `    <rect x="0" y="16" width="%s" height="5" fill="%s" rx="2.5" />`+"\n",
				num(lang.Percentage/100*barWidth), EscapeXML(color))
		}
		b.WriteString("  </g>\n")
	}
}

func renderCompactLanguages(b *strings.Builder, langs []github.Language, text string, width int, c Theme, opts LanguagesOptions, locale Locale) {
	fonts := locale.fontSizes()
	family := locale.fontFamily()
	barWidth := float64(width - cardPadding*2)

	barY, legendY := 52, compactLegendY
	if boolValue(opts.HideTitle, false) {
		barY, legendY = 25, compactLegendY-27
	} else {
		title(b, cardPadding, titleY, text, c, locale)
	}

	b.WriteString("  <defs>\n")
	fmt.Fprintf(b, `    <mask id="bar-mask"><rect x="0" y="0" width="%s" height="%d" fill="white" rx="%d" /></mask>`+"\n",
		num(barWidth), compactBarHeight, compactBarHeight/2)
	b.WriteString("  </defs>\n")

	fmt.Fprintf(b, `  <g transform="translate(%d, %d)">`+"\n", cardPadding, barY)
	fmt.Fprintf(b, `    <rect x="0" y="0" width="%s" height="%d" fill="#%s" opacity="0.2" rx="%d" />`+"\n",
		num(barWidth), compactBarHeight, c.BorderColor, compactBarHeight/2)
	b.WriteString(`    <g mask="url(#bar-mask)">` + "\n")
	x := 0.0
	for _, lang := range langs {
		segment := lang.Percentage / 100 * barWidth
		fmt.Fprintf(b, `      <rect x="%s" y="0" width="%s" height="%d" fill="%s" />`+"\n",
			num(x), num(segment), compactBarHeight, EscapeXML(languageColor(lang.Name, lang.Color)))
		x += segment
	}
	b.WriteString("    </g>\n  </g>\n")

	colWidth := barWidth / 2
	for i, lang := range langs {
		col, row := i%2, i/2
		fmt.Fprintf(b, `  <g transform="translate(%s, %d)">`+"\n",
			num(float64(cardPadding)+float64(col)*colWidth), legendY+row*compactLegendStep)
		fmt.Fprintf(b, `    <rect x="0" y="0" width="10" height="10" fill="%s" rx="2" />`+"\n",
			EscapeXML(languageColor(lang.Name, lang.Color)))
		fmt.Fprintf(b, `    <text x="14" y="9" fill="#%s" font-size="%d" font-family="%s">%s %.1f%%</text>`+"\n",
			c.TextColor, fonts.small, family, EscapeXML(lang.Name), lang.Percentage)
		b.WriteString("  </g>\n")
	}
}

func renderEmptyLanguages(b *strings.Builder, text string, width int, c Theme, opts LanguagesOptions, locale Locale) {
	if !boolValue(opts.HideTitle, false) {
		title(b, 15, 28, text, c, locale)
	}
	fmt.Fprintf(b, `  <text x="%s" y="%s" fill="#%s" font-size="%d" font-family="%s" text-anchor="middle" opacity="0.6">%s</text>`+"\n",
		num(float64(width)/2), num(float64(CardHeight)/2+10), c.TextColor, locale.fontSizes().normal, locale.fontFamily(),
		EscapeXML(locale.strings().noLanguageData))
}
