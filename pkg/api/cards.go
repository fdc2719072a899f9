package api

import (
	"context"
	"net/http"

	"github.com/paveg/devcard/pkg/cache"
	"github.com/paveg/devcard/pkg/card"
	"github.com/paveg/devcard/pkg/github"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	username := q.Get("username")
	if username == "" {
		respondText(w, "Missing username parameter", http.StatusBadRequest)
		return
	}
	opts := card.ParseStatsOptions(q)
	includeAllCommits := opts.IncludeAllCommits != nil && *opts.IncludeAllCommits

	s.serveCard(w, r, cache.TypeStats, func(ctx context.Context) (string, error) {
		stats, err := s.github.FetchUserStats(ctx, username, includeAllCommits)
		if err != nil {
			return "", err
		}
		return card.RenderStats(stats, opts), nil
	})
}

func (s *Server) handleTopLanguages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	username := q.Get("username")
	if username == "" {
		respondText(w, "Missing username parameter", http.StatusBadRequest)
		return
	}
	opts := card.ParseLanguagesOptions(q)

	s.serveCard(w, r, cache.TypeLanguages, func(ctx context.Context) (string, error) {
		langs, err := s.github.FetchTopLanguages(ctx, username, opts.ExcludeRepo, opts.LangsCount)
		if err != nil {
			return "", err
		}
		return card.RenderLanguages(hideLanguages(langs, opts.Hide), opts), nil
	})
}

// hideLanguages drops languages whose name is in hide. Percentages are not
// recomputed.
func hideLanguages(langs []github.Language, hide []string) []github.Language {
	if len(hide) == 0 {
		return langs
	}
	hidden := make(map[string]struct{}, len(hide))
	for _, name := range hide {
		hidden[name] = struct{}{}
	}
	out := make([]github.Language, 0, len(langs))
	for _, lang := range langs {
		if _, ok := hidden[lang.Name]; !ok {
			out = append(out, lang)
		}
	}
	return out
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	username, repo := q.Get("username"), q.Get("repo")
	if username == "" || repo == "" {
		respondText(w, "Missing username or repo parameter", http.StatusBadRequest)
		return
	}
	opts := card.ParseRepoOptions(q)

	s.serveCard(w, r, cache.TypeRepo, func(ctx context.Context) (string, error) {
		data, err := s.github.FetchRepo(ctx, username, repo)
		if err != nil {
			return "", err
		}
		return card.RenderRepo(data, opts), nil
	})
}
