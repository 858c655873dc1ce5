// Package github is a read-only client for the one GitHub endpoint this
// application consumes: the public repository listing of a user. The calls
// are unauthenticated — no token, no OAuth, just the public REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jmendes/gitmark/internal/apperror"
)

// DefaultBaseURL is the public GitHub REST API.
// Tests point the client at an httptest server instead.
const DefaultBaseURL = "https://api.github.com"

// perPage caps the listing at 30 repos, matching GitHub's default page size.
const perPage = 30

// Repo is the portion of a GitHub repository object we care about. GitHub
// returns a much larger document — we only unmarshal the fields the
// favorites flow snapshots.
//
// GitHub API docs: https://docs.github.com/en/rest/repos/repos#list-repositories-for-a-user
type Repo struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	HTMLURL     string  `json:"html_url"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	StarsCount  int     `json:"stargazers_count"`
}

// Client calls the GitHub API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL. Pass DefaultBaseURL in
// production. The timeout is the client's only defence against a hung
// upstream — the request has no retry or backoff.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ListUserRepos fetches the public repositories of a GitHub user.
//
// STATUS TRANSLATION:
//   - 404 from GitHub means the username doesn't exist → apperror.ErrNotFound,
//     which the handler surfaces as 404 "user not found"
//   - any other non-2xx is an upstream failure we can't say anything useful
//     about → a plain error, surfaced as 502
func (c *Client) ListUserRepos(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=%d",
		c.baseURL, url.PathEscape(username), perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("github: building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: calling repos API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NotFound("GitHub user", username)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github: repos API returned status %d", resp.StatusCode)
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("github: decoding repos response: %w", err)
	}

	return repos, nil
}
