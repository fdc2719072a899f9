package github

import (
	"context"

	"github.com/shurcooL/githubv4"
)

// Repo is the data shown on a pinned repository card.
type Repo struct {
	Name          string
	NameWithOwner string
	Description   string

	// PrimaryLanguage is nil when GitHub detected no language.
	PrimaryLanguage *Language

	Stars      int
	Forks      int
	IsArchived bool
	IsFork     bool
	IsTemplate bool
}

type repoQuery struct {
	Repository *struct {
		Name            string
		NameWithOwner   string
		Description     *string
		PrimaryLanguage *struct {
			Name  string
			Color *string
		}
		StargazerCount int
		ForkCount      int
		IsArchived     bool
		IsFork         bool
		IsTemplate     bool
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FetchRepo fetches a single repository. A missing owner or repository is a
// NotFoundError.
func (c *Client) FetchRepo(ctx context.Context, owner, name string) (*Repo, error) {
	var q repoQuery
	variables := map[string]any{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}

	if err := c.Query(ctx, &q, variables, "repo_info"); err != nil {
		return nil, err
	}

	r := q.Repository
	if r == nil {
		return nil, &NotFoundError{Kind: "Repository", Name: owner + "/" + name}
	}

	repo := &Repo{
		Name:          r.Name,
		NameWithOwner: r.NameWithOwner,
		Stars:         r.StargazerCount,
		Forks:         r.ForkCount,
		IsArchived:    r.IsArchived,
		IsFork:        r.IsFork,
		IsTemplate:    r.IsTemplate,
	}
	if r.Description != nil {
		repo.Description = *r.Description
	}
	if r.PrimaryLanguage != nil {
		repo.PrimaryLanguage = &Language{Name: r.PrimaryLanguage.Name, Color: DefaultLanguageColor}
		if r.PrimaryLanguage.Color != nil && *r.PrimaryLanguage.Color != "" {
			repo.PrimaryLanguage.Color = *r.PrimaryLanguage.Color
		}
	}

	return repo, nil
}
