package github

import (
	"context"
	"math"
	"sort"

	"github.com/shurcooL/githubv4"
)

const (
	// DefaultLangsCount is how many languages are kept when none is requested.
	DefaultLangsCount = 5

	// DefaultLanguageColor is used for languages GitHub has no color for.
	DefaultLanguageColor = "#858585"
)

// Language is one entry of a top languages result.
type Language struct {
	Name  string
	Color string

	// Size is the byte count summed over the user's repositories.
	Size int

	// Percentage is the share of the returned languages' total size,
	// rounded to one decimal.
	Percentage float64
}

type topLanguagesQuery struct {
	User *struct {
		Repositories struct {
			Nodes []struct {
				Name      string
				Languages struct {
					Edges []struct {
						Size int
						Node struct {
							Name  string
							Color *string
						}
					}
				} `graphql:"languages(first: 10, orderBy: {direction: DESC, field: SIZE})"`
			}
		} `graphql:"repositories(first: $first, ownerAffiliations: OWNER, isFork: false, orderBy: {direction: DESC, field: STARGAZERS})"`
	} `graphql:"user(login: $login)"`
}

// FetchTopLanguages aggregates language sizes over the user's non-fork
// repositories, skipping repositories named in excludeRepos, and returns the
// langsCount largest in descending order of size.
func (c *Client) FetchTopLanguages(ctx context.Context, username string, excludeRepos []string, langsCount int) ([]Language, error) {
	if langsCount <= 0 {
		langsCount = DefaultLangsCount
	}

	var q topLanguagesQuery
	variables := map[string]any{
		"login": githubv4.String(username),
		"first": githubv4.Int(100),
	}

	if err := c.Query(ctx, &q, variables, "top_languages"); err != nil {
		return nil, err
	}
	if q.User == nil {
		return nil, &NotFoundError{Kind: "User", Name: username}
	}

	excluded := make(map[string]bool, len(excludeRepos))
	for _, name := range excludeRepos {
		excluded[name] = true
	}

	// Keep first-seen order so equal sizes sort deterministically.
	var order []string
	byName := make(map[string]*Language)
	for _, repo := range q.User.Repositories.Nodes {
		if excluded[repo.Name] {
			continue
		}
		for _, edge := range repo.Languages.Edges {
			lang, ok := byName[edge.Node.Name]
			if !ok {
				color := DefaultLanguageColor
				if edge.Node.Color != nil && *edge.Node.Color != "" {
					color = *edge.Node.Color
				}
				lang = &Language{Name: edge.Node.Name, Color: color}
				byName[edge.Node.Name] = lang
				order = append(order, edge.Node.Name)
			}
			lang.Size += edge.Size
		}
	}

	langs := make([]Language, 0, len(order))
	for _, name := range order {
		langs = append(langs, *byName[name])
	}
	sort.SliceStable(langs, func(i, j int) bool {
		return langs[i].Size > langs[j].Size
	})
	if len(langs) > langsCount {
		langs = langs[:langsCount]
	}

	total := 0
	for _, lang := range langs {
		total += lang.Size
	}
	for i := range langs {
		if total > 0 {
			langs[i].Percentage = math.Floor(float64(langs[i].Size)/float64(total)*1000+0.5) / 10
		}
	}

	return langs, nil
}
