package github

import (
	"context"

	"github.com/shurcooL/githubv4"
)

// UserStats is the aggregated activity shown on the stats card.
type UserStats struct {
	// Name is the display name, or the login when none is set.
	Name     string
	Username string

	TotalStars    int
	TotalForks    int
	TotalCommits  int
	TotalPRs      int
	TotalIssues   int
	TotalReviews  int
	ContributedTo int
	Followers     int

	Rank Rank
}

type totalCount struct {
	TotalCount int
}

type userStatsQuery struct {
	User *struct {
		Login     string
		Name      *string
		AvatarURL string `graphql:"avatarUrl"`

		ContributionsCollection struct {
			TotalCommitContributions            int
			RestrictedContributionsCount        int
			TotalPullRequestContributions       int
			TotalPullRequestReviewContributions int
			TotalIssueContributions             int
		}

		RepositoriesContributedTo totalCount `graphql:"repositoriesContributedTo(first: 1, contributionTypes: [COMMIT, ISSUE, PULL_REQUEST, REPOSITORY])"`
		PullRequests              totalCount `graphql:"pullRequests(first: 1)"`
		Issues                    totalCount `graphql:"issues(first: 1)"`
		Followers                 totalCount

		Repositories struct {
			TotalCount int
			Nodes      []struct {
				StargazerCount int
				ForkCount      int
			}
		} `graphql:"repositories(first: 100, ownerAffiliations: OWNER, orderBy: {direction: DESC, field: STARGAZERS})"`
	} `graphql:"user(login: $login)"`
}

// FetchUserStats fetches and aggregates the stats card data for username.
// Private contributions are counted as commits only when includeAllCommits
// is set.
func (c *Client) FetchUserStats(ctx context.Context, username string, includeAllCommits bool) (*UserStats, error) {
	var q userStatsQuery
	variables := map[string]any{
		"login": githubv4.String(username),
	}

	if err := c.Query(ctx, &q, variables, "user_stats"); err != nil {
		return nil, err
	}

	user := q.User
	if user == nil {
		return nil, &NotFoundError{Kind: "User", Name: username}
	}

	stats := &UserStats{
		Name:          user.Login,
		Username:      user.Login,
		TotalCommits:  user.ContributionsCollection.TotalCommitContributions,
		TotalPRs:      user.PullRequests.TotalCount,
		TotalIssues:   user.Issues.TotalCount,
		TotalReviews:  user.ContributionsCollection.TotalPullRequestReviewContributions,
		ContributedTo: user.RepositoriesContributedTo.TotalCount,
		Followers:     user.Followers.TotalCount,
	}
	if user.Name != nil && *user.Name != "" {
		stats.Name = *user.Name
	}
	if includeAllCommits {
		stats.TotalCommits += user.ContributionsCollection.RestrictedContributionsCount
	}
	for _, repo := range user.Repositories.Nodes {
		stats.TotalStars += repo.StargazerCount
		stats.TotalForks += repo.ForkCount
	}

	stats.Rank = CalculateRank(RankInput{
		Commits:   stats.TotalCommits,
		PRs:       stats.TotalPRs,
		Issues:    stats.TotalIssues,
		Reviews:   stats.TotalReviews,
		Stars:     stats.TotalStars,
		Followers: stats.Followers,
	})

	return stats, nil
}
