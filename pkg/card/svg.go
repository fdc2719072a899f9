package card

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CardHeight is shared by all cards so they line up side by side.
const CardHeight = 195

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes text for use in SVG text content and attributes.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

func measureText(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * 0.7
}

// WrapText breaks s into lines no wider than maxWidth at fontSize. A single
// word wider than a line is truncated with an ellipsis.
func WrapText(s string, maxWidth, fontSize float64) []string {
	var lines []string
	current := ""

	for _, word := range strings.Split(s, " ") {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measureText(candidate, fontSize) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		keep := int(math.Floor(maxWidth/(fontSize*0.6))) - 3
		runes := []rune(word)
		if keep < 0 {
			keep = 0
		}
		if keep > len(runes) {
			keep = len(runes)
		}
		lines = append(lines, string(runes[:keep])+"...")
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

var languageColors = map[string]string{
	"JavaScript": "#f1e05a",
	"TypeScript": "#3178c6",
	"Python":     "#3572A5",
	"Java":       "#b07219",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
	"Ruby":       "#701516",
	"PHP":        "#4F5D95",
	"C++":        "#f34b7d",
	"C":          "#555555",
	"C#":         "#239120",
	"Swift":      "#F05138",
	"Kotlin":     "#A97BFF",
	"Dart":       "#00B4AB",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"SCSS":       "#c6538c",
	"Shell":      "#89e051",
	"Vue":        "#41b883",
	"Svelte":     "#ff3e00",
}

func languageColor(name, color string) string {
	if color != "" {
		return color
	}
	if c, ok := languageColors[name]; ok {
		return c
	}
	return "#858585"
}

// num formats a coordinate without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// frame writes the opening svg element, background and border.
func frame(b *strings.Builder, width, height int, c Theme, hideBorder bool) {
	fmt.Fprintf(b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height, width, height)
	fmt.Fprintf(b, `  <rect width="%d" height="%d" fill="#%s" rx="12" />`+"\n", width, height, c.BgColor)
	if !hideBorder {
		fmt.Fprintf(b, `  <rect x="0.5" y="0.5" width="%d" height="%d" fill="none" stroke="#%s" stroke-opacity="0.5" rx="12" />`+"\n",
			width-1, height-1, c.BorderColor)
	}
}

func title(b *strings.Builder, x, y int, text string, c Theme, l Locale) {
	fmt.Fprintf(b, `  <text x="%d" y="%d" fill="#%s" font-size="%d" font-family="%s" font-weight="600">%s</text>`+"\n",
		x, y, c.TitleColor, l.fontSizes().title, l.fontFamily(), EscapeXML(text))
}
