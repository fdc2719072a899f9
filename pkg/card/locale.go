package card

import (
	"strconv"
	"strings"
)

// Locale selects card strings, fonts and number formatting.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleJA Locale = "ja"
)

// ParseLocale returns the locale for a query value. Unsupported values are en.
func ParseLocale(v string) Locale {
	if Locale(v) == LocaleJA {
		return LocaleJA
	}
	return LocaleEN
}

type translation struct {
	statsTitle    func(name string) string
	totalStars    string
	totalCommits  string
	totalPRs      string
	totalIssues   string
	contributedTo string
	codeReviews   string
	top           string

	languagesTitle string
	noLanguageData string
	noDescription  string
	archived       string
}

var translations = map[Locale]translation{
	LocaleEN: {
		statsTitle:     func(name string) string { return name + "'s GitHub Stats" },
		totalStars:     "Total Stars",
		totalCommits:   "Total Commits",
		totalPRs:       "Total PRs",
		totalIssues:    "Total Issues",
		contributedTo:  "Contributed to",
		codeReviews:    "Code Reviews",
		top:            "Top",
		languagesTitle: "Most Used Languages",
		noLanguageData: "No language data available",
		noDescription:  "No description provided",
		archived:       "Archived",
	},
	LocaleJA: {
		statsTitle:     func(name string) string { return name + "のGitHub統計" },
		totalStars:     "獲得スター数",
		totalCommits:   "総コミット数",
		totalPRs:       "プルリクエスト数",
		totalIssues:    "イシュー数",
		contributedTo:  "コントリビュート数",
		codeReviews:    "コードレビュー数",
		top:            "上位",
		languagesTitle: "最も使用されている言語",
		noLanguageData: "言語データがありません",
		noDescription:  "説明はありません",
		archived:       "アーカイブ済み",
	},
}

func (l Locale) strings() translation {
	if t, ok := translations[l]; ok {
		return t
	}
	return translations[LocaleEN]
}

type fontSizes struct {
	title, label, value, small, normal int
}

func (l Locale) fontFamily() string {
	if l == LocaleJA {
		return "Hiragino Kaku Gothic Pro, Yu Gothic UI, Meiryo UI, Meiryo, Noto Sans JP, -apple-system, BlinkMacSystemFont, Segoe UI, Helvetica, Arial, sans-serif"
	}
	return "-apple-system, BlinkMacSystemFont, Segoe UI, Noto Sans, Helvetica, Arial, sans-serif"
}

func (l Locale) fontSizes() fontSizes {
	if l == LocaleJA {
		return fontSizes{title: 16, label: 13, value: 15, small: 11, normal: 13}
	}
	return fontSizes{title: 18, label: 14, value: 16, small: 12, normal: 14}
}

// FormatNumber abbreviates large counts: 1500 is "1.5k" in English and
// "1.5千" in Japanese.
func FormatNumber(n int, l Locale) string {
	switch {
	case n >= 1_000_000:
		v := trimZeroDecimal(strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64))
		if l == LocaleJA {
			return v + "百万"
		}
		return v + "M"
	case n >= 1000:
		v := trimZeroDecimal(strconv.FormatFloat(float64(n)/1000, 'f', 1, 64))
		if l == LocaleJA {
			return v + "千"
		}
		return v + "k"
	default:
		return strconv.Itoa(n)
	}
}

func trimZeroDecimal(s string) string {
	return strings.TrimSuffix(s, ".0")
}
