package card

import "regexp"

// Theme is a named color palette. Colors are hex without the leading '#'.
type Theme struct {
	TitleColor  string
	TextColor   string
	IconColor   string
	BorderColor string
	BgColor     string
}

// DefaultTheme is used when no theme or an unknown theme is requested.
const DefaultTheme = "default"

var themes = map[string]Theme{
	"default":          {"2f80ed", "434d58", "4c71f2", "e4e2e2", "fffefe"},
	"dark":             {"fff", "adbac7", "79c0ff", "444c56", "22272e"},
	"radical":          {"fe428e", "a9fef7", "f8d847", "e4e2e2", "141321"},
	"tokyonight":       {"70a5fd", "a9b1d6", "bb9af7", "2a2e3f", "1a1b27"},
	"dracula":          {"ff79c6", "f8f8f2", "bd93f9", "6272a4", "282a36"},
	"github_dark":      {"f0f6fc", "c9d1d9", "58a6ff", "30363d", "0d1117"},
	"github_light":     {"1f2328", "656d76", "1a7f37", "d1d9e0", "ffffff"},
	"gruvbox":          {"fabd2f", "ebdbb2", "fe8019", "504945", "282828"},
	"nord":             {"81a1c1", "d8dee9", "88c0d0", "4c566a", "2e3440"},
	"catppuccin_mocha": {"cba6f7", "cdd6f4", "f5c2e7", "6c7086", "1e1e2e"},
	"catppuccin_latte": {"8839ef", "4c4f69", "ea76cb", "bcc0cc", "eff1f5"},
	"onedark":          {"e4bf7a", "abb2bf", "8eb573", "5c6370", "282c34"},
	"cobalt":           {"e683d9", "75eeb2", "0480ef", "75eeb2", "193549"},
	"synthwave":        {"e2e9ec", "e5289e", "ef8539", "e2e9ec", "2b213a"},
	"transparent":      {"006AFF", "417E87", "00AEFF", "0000", "0000"},
	"md3_light":        {"6750A4", "1D1B20", "6750A4", "79747E", "FEF7FF"},
	"md3_dark":         {"D0BCFF", "E6E1E5", "D0BCFF", "938F99", "141218"},
	"zinc":             {"fafafa", "d4d4d8", "fafafa", "3f3f46", "18181b"},
	"slate":            {"1e293b", "475569", "1e293b", "cbd5e1", "f8fafc"},
}

// GetTheme returns the named theme, or the default theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[DefaultTheme]
}

// ThemeNames lists the available themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	return names
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{3,8}$`)

// ParseColor returns color without a leading '#' if it is 3 to 8 hex
// digits, else def.
func ParseColor(color, def string) string {
	if color == "" {
		return def
	}
	if len(color) > 0 && color[0] == '#' {
		color = color[1:]
	}
	if hexColor.MatchString(color) {
		return color
	}
	return def
}

// colors resolves the explicit color options against the selected theme.
func (o CommonOptions) colors() Theme {
	theme := GetTheme(o.Theme)
	return Theme{
		TitleColor:  ParseColor(o.TitleColor, theme.TitleColor),
		TextColor:   ParseColor(o.TextColor, theme.TextColor),
		IconColor:   ParseColor(o.IconColor, theme.IconColor),
		BorderColor: ParseColor(o.BorderColor, theme.BorderColor),
		BgColor:     ParseColor(o.BgColor, theme.BgColor),
	}
}
