package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmendes/gitmark/internal/apperror"
	"github.com/jmendes/gitmark/internal/github"
)

// GitHubHandler proxies the public repo listing of a GitHub user. The route
// is unauthenticated: it reads public data and touches no per-user state.
type GitHubHandler struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubHandler creates a GitHubHandler.
func NewGitHubHandler(client *github.Client, logger *slog.Logger) *GitHubHandler {
	return &GitHubHandler{client: client, logger: logger}
}

// HandleListRepos returns the public repositories of a GitHub user.
//
// HTTP: GET /github/{username}/repos
// 200 {"repos": [...]}; 404 if GitHub doesn't know the username; 502 if
// GitHub answered anything else unexpected — that failure is upstream's,
// not ours, and the body says no more than that.
func (h *GitHubHandler) HandleListRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	repos, err := h.client.ListUserRepos(r.Context(), username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "GitHub user not found",
			})
			return
		}
		h.logger.Error("GitHub repos fetch failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "bad_gateway",
			Message: "Failed to fetch repositories from GitHub",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string][]github.Repo{"repos": repos})
}
