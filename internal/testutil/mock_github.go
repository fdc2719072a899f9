// Package testutil provides a stub GitHub GraphQL server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// Operations the stub recognises, named like the client's metric labels.
const (
	OpUserStats    = "user_stats"
	OpTopLanguages = "top_languages"
	OpRepo         = "repo_info"
)

// MockResponse defines the stub's answer to one operation.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// Request is a GraphQL request received by the stub.
type Request struct {
	Query     string
	Variables map[string]any
	Header    http.Header
}

// MockGitHub is a configurable stub of the GitHub GraphQL endpoint.
type MockGitHub struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse
	counts    map[string]int
	last      map[string]Request
}

// NewMockGitHub starts a stub server. Unconfigured operations answer with a
// null user or repository.
func NewMockGitHub() *MockGitHub {
	mock := &MockGitHub{
		responses: make(map[string]MockResponse),
		counts:    make(map[string]int),
		last:      make(map[string]Request),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.serve))
	return mock
}

// URL returns the GraphQL endpoint URL.
func (m *MockGitHub) URL() string {
	return m.server.URL + "/graphql"
}

// Close shuts down the stub server.
func (m *MockGitHub) Close() {
	m.server.Close()
}

// SetResponse configures the answer for an operation.
func (m *MockGitHub) SetResponse(op string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[op] = resp
}

// RequestCount returns how many requests an operation received.
func (m *MockGitHub) RequestCount(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[op]
}

// TotalRequests returns the number of requests across all operations.
func (m *MockGitHub) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.counts {
		total += n
	}
	return total
}

// LastRequest returns the most recent request for an operation.
func (m *MockGitHub) LastRequest(op string) (Request, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.last[op]
	return req, ok
}

func operationOf(query string) string {
	switch {
	case strings.Contains(query, "repository("):
		return OpRepo
	case strings.Contains(query, "languages("):
		return OpTopLanguages
	default:
		return OpUserStats
	}
}

func (m *MockGitHub) serve(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	op := operationOf(body.Query)

	m.mu.Lock()
	m.counts[op]++
	m.last[op] = Request{Query: body.Query, Variables: body.Variables, Header: r.Header.Clone()}
	resp, ok := m.responses[op]
	m.mu.Unlock()

	if !ok {
		resp = NewNullUserResponse()
		if op == OpRepo {
			resp = NewNullRepositoryResponse()
		}
	}
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewSuccessResponse wraps data in a GraphQL success envelope with a healthy
// rate limit.
func NewSuccessResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data":` + data + `}`,
		Headers: map[string]string{
			"X-RateLimit-Remaining": "4999",
			"X-RateLimit-Reset":     "1700003600",
		},
	}
}

// NewGraphQLErrorResponse creates a 200 response carrying a GraphQL error.
func NewGraphQLErrorResponse(errType, message string) MockResponse {
	body, _ := json.Marshal(map[string]any{
		"data":   nil,
		"errors": []map[string]string{{"type": errType, "message": message}},
	})
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
		Headers: map[string]string{
			"X-RateLimit-Remaining": "4998",
			"X-RateLimit-Reset":     "1700003600",
		},
	}
}

// NewStatusResponse creates a non-2xx response.
func NewStatusResponse(status int) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"message":%q}`, http.StatusText(status)),
	}
}

// UserFixture describes a user for NewUserStatsResponse.
type UserFixture struct {
	Login             string
	Name              string
	Commits           int
	RestrictedCommits int
	PRs               int
	Issues            int
	Reviews           int
	ContributedTo     int
	Followers         int
	RepoStars         []int
	RepoForks         []int
}

// NewUserStatsResponse creates a user stats response for u.
func NewUserStatsResponse(u UserFixture) MockResponse {
	nodes := make([]map[string]int, 0, len(u.RepoStars))
	for i, stars := range u.RepoStars {
		forks := 0
		if i < len(u.RepoForks) {
			forks = u.RepoForks[i]
		}
		nodes = append(nodes, map[string]int{"stargazerCount": stars, "forkCount": forks})
	}

	var name any
	if u.Name != "" {
		name = u.Name
	}

	user := map[string]any{
		"login":     u.Login,
		"name":      name,
		"avatarUrl": "https://avatars.githubusercontent.com/u/1",
		"contributionsCollection": map[string]int{
			"totalCommitContributions":            u.Commits,
			"restrictedContributionsCount":        u.RestrictedCommits,
			"totalPullRequestContributions":       u.PRs,
			"totalPullRequestReviewContributions": u.Reviews,
			"totalIssueContributions":             u.Issues,
		},
		"repositoriesContributedTo": map[string]int{"totalCount": u.ContributedTo},
		"pullRequests":              map[string]int{"totalCount": u.PRs},
		"issues":                    map[string]int{"totalCount": u.Issues},
		"followers":                 map[string]int{"totalCount": u.Followers},
		"repositories": map[string]any{
			"totalCount": len(nodes),
			"nodes":      nodes,
		},
	}
	data, _ := json.Marshal(map[string]any{"user": user})
	return NewSuccessResponse(string(data))
}

// LanguageFixture is one language edge of a repository.
type LanguageFixture struct {
	Name  string
	Color string
	Size  int
}

// RepoLanguages describes one repository for NewTopLanguagesResponse.
type RepoLanguages struct {
	Name      string
	Languages []LanguageFixture
}

// NewTopLanguagesResponse creates a top languages response.
func NewTopLanguagesResponse(repos ...RepoLanguages) MockResponse {
	nodes := make([]map[string]any, 0, len(repos))
	for _, repo := range repos {
		edges := make([]map[string]any, 0, len(repo.Languages))
		for _, lang := range repo.Languages {
			var color any
			if lang.Color != "" {
				color = lang.Color
			}
			edges = append(edges, map[string]any{
				"size": lang.Size,
				"node": map[string]any{"name": lang.Name, "color": color},
			})
		}
		nodes = append(nodes, map[string]any{
			"name":      repo.Name,
			"languages": map[string]any{"edges": edges},
		})
	}
	data, _ := json.Marshal(map[string]any{
		"user": map[string]any{"repositories": map[string]any{"nodes": nodes}},
	})
	return NewSuccessResponse(string(data))
}

// RepoFixture describes a repository for NewRepoResponse.
type RepoFixture struct {
	Owner         string
	Name          string
	Description   string
	Language      string
	LanguageColor string
	Stars         int
	Forks         int
	Archived      bool
	Template      bool
}

// NewRepoResponse creates a repository response.
func NewRepoResponse(r RepoFixture) MockResponse {
	var description, language any
	if r.Description != "" {
		description = r.Description
	}
	if r.Language != "" {
		language = map[string]any{"name": r.Language, "color": r.LanguageColor}
	}
	data, _ := json.Marshal(map[string]any{
		"repository": map[string]any{
			"name":            r.Name,
			"nameWithOwner":   r.Owner + "/" + r.Name,
			"description":     description,
			"primaryLanguage": language,
			"stargazerCount":  r.Stars,
			"forkCount":       r.Forks,
			"isArchived":      r.Archived,
			"isFork":          false,
			"isTemplate":      r.Template,
		},
	})
	return NewSuccessResponse(string(data))
}

// NewNullUserResponse answers a user query with a null user.
func NewNullUserResponse() MockResponse {
	return NewSuccessResponse(`{"user":null}`)
}

// NewNullRepositoryResponse answers a repository query with a null repository.
func NewNullRepositoryResponse() MockResponse {
	return NewSuccessResponse(`{"repository":null}`)
}
