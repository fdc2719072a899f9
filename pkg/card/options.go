// Package card parses card options from query strings and renders the stats,
// top languages and repository cards as SVG.
//
// Rendering is pure: the same data and options always produce the same bytes,
// which is what lets the API cache rendered cards by query.
package card

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseBool accepts exactly "true" and "false". Anything else is unset.
func ParseBool(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	default:
		return nil
	}
}

// ParseInt parses the leading base-10 integer of v, so "8px" is 8.
// Input without leading digits is unset.
func ParseInt(v string) *int {
	v = strings.TrimSpace(v)
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return nil
	}
	return &n
}

// ParseList splits a comma-separated list, trimming entries and dropping
// empty ones.
func ParseList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func boolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// CommonOptions are accepted by every card.
type CommonOptions struct {
	TitleColor  string
	TextColor   string
	IconColor   string
	BorderColor string
	BgColor     string

	HideBorder        *bool
	HideTitle         *bool
	DisableAnimations *bool

	Theme  string
	Locale string

	CardWidth *int
}

// ParseCommonOptions reads the shared options from a query.
func ParseCommonOptions(q url.Values) CommonOptions {
	return CommonOptions{
		TitleColor:        q.Get("title_color"),
		TextColor:         q.Get("text_color"),
		IconColor:         q.Get("icon_color"),
		BorderColor:       q.Get("border_color"),
		BgColor:           q.Get("bg_color"),
		HideBorder:        ParseBool(q.Get("hide_border")),
		HideTitle:         ParseBool(q.Get("hide_title")),
		DisableAnimations: ParseBool(q.Get("disable_animations")),
		Theme:             q.Get("theme"),
		Locale:            q.Get("locale"),
		CardWidth:         ParseInt(q.Get("card_width")),
	}
}

func (o CommonOptions) width(def int) int {
	if o.CardWidth == nil || *o.CardWidth <= 0 {
		return def
	}
	return *o.CardWidth
}

// RankIcon selects what the stats card shows inside the rank ring.
type RankIcon string

const (
	RankIconDefault    RankIcon = "default"
	RankIconGitHub     RankIcon = "github"
	RankIconPercentile RankIcon = "percentile"
)

// StatsOptions configure the stats card.
type StatsOptions struct {
	CommonOptions

	// Hide removes rows by key: stars, commits, prs, issues, contribs.
	Hide []string

	// Show adds optional rows by key: reviews.
	Show []string

	ShowIcons         *bool
	HideRank          *bool
	IncludeAllCommits *bool

	RankIcon    RankIcon
	RingColor   string
	CustomTitle string
}

// ParseStatsOptions reads stats card options from a query.
func ParseStatsOptions(q url.Values) StatsOptions {
	return StatsOptions{
		CommonOptions:     ParseCommonOptions(q),
		Hide:              ParseList(q.Get("hide")),
		Show:              ParseList(q.Get("show")),
		ShowIcons:         ParseBool(q.Get("show_icons")),
		HideRank:          ParseBool(q.Get("hide_rank")),
		IncludeAllCommits: ParseBool(q.Get("include_all_commits")),
		RankIcon:          RankIcon(q.Get("rank_icon")),
		RingColor:         q.Get("ring_color"),
		CustomTitle:       q.Get("custom_title"),
	}
}

// Layout is the languages card arrangement.
type Layout string

const (
	LayoutNormal        Layout = "normal"
	LayoutCompact       Layout = "compact"
	LayoutDonut         Layout = "donut"
	LayoutDonutVertical Layout = "donut-vertical"
	LayoutPie           Layout = "pie"
)

// ParseLayout maps a query value to a Layout. Unknown values are normal.
func ParseLayout(v string) Layout {
	switch l := Layout(v); l {
	case LayoutCompact, LayoutDonut, LayoutDonutVertical, LayoutPie:
		return l
	default:
		return LayoutNormal
	}
}

// LanguagesOptions configure the top languages card.
type LanguagesOptions struct {
	CommonOptions

	// Hide removes languages by exact name after fetching.
	Hide []string

	// ExcludeRepo skips repositories by name when aggregating.
	ExcludeRepo []string

	Layout     Layout
	LangsCount int

	HideProgress *bool

	// SizeWeight and CountWeight are accepted for URL compatibility and
	// do not change the ranking.
	SizeWeight  *int
	CountWeight *int

	CustomTitle string
}

// DefaultLangsCount applies when langs_count is absent or invalid.
const DefaultLangsCount = 5

// ParseLanguagesOptions reads languages card options from a query.
func ParseLanguagesOptions(q url.Values) LanguagesOptions {
	langsCount := DefaultLangsCount
	if n := ParseInt(q.Get("langs_count")); n != nil {
		langsCount = *n
	}
	return LanguagesOptions{
		CommonOptions: ParseCommonOptions(q),
		Hide:          ParseList(q.Get("hide")),
		ExcludeRepo:   ParseList(q.Get("exclude_repo")),
		Layout:        ParseLayout(q.Get("layout")),
		LangsCount:    langsCount,
		HideProgress:  ParseBool(q.Get("hide_progress")),
		SizeWeight:    ParseInt(q.Get("size_weight")),
		CountWeight:   ParseInt(q.Get("count_weight")),
		CustomTitle:   q.Get("custom_title"),
	}
}

// RepoOptions configure the pinned repository card.
type RepoOptions struct {
	CommonOptions

	ShowOwner             *bool
	DescriptionLinesCount *int
}

// ParseRepoOptions reads repository card options from a query.
func ParseRepoOptions(q url.Values) RepoOptions {
	return RepoOptions{
		CommonOptions:         ParseCommonOptions(q),
		ShowOwner:             ParseBool(q.Get("show_owner")),
		DescriptionLinesCount: ParseInt(q.Get("description_lines_count")),
	}
}
