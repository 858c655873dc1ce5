package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmendes/gitmark/internal/apperror"
)

func TestListUserRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("per_page") != "30" {
			t.Errorf("per_page = %q, want 30", r.URL.Query().Get("per_page"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "hello", "html_url": "https://github.com/octocat/hello",
			 "description": "demo", "language": "Go", "stargazers_count": 7},
			{"id": 2, "name": "empty", "html_url": "https://github.com/octocat/empty",
			 "description": null, "language": null, "stargazers_count": 0}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	repos, err := client.ListUserRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("ListUserRepos() error = %v", err)
	}

	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}
	if repos[0].ID != 1 || repos[0].Name != "hello" || repos[0].StarsCount != 7 {
		t.Errorf("repos[0] = %+v", repos[0])
	}
	if repos[0].Description == nil || *repos[0].Description != "demo" {
		t.Errorf("repos[0].Description = %v, want %q", repos[0].Description, "demo")
	}
	// null description/language stay nil.
	if repos[1].Description != nil || repos[1].Language != nil {
		t.Errorf("repos[1] nullable fields = %+v, want nil", repos[1])
	}
}

func TestListUserRepos_UnknownUserIs404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ListUserRepos(context.Background(), "no-such-user")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("ListUserRepos() error = %v, want ErrNotFound", err)
	}
}

func TestListUserRepos_UpstreamFailureIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ListUserRepos(context.Background(), "octocat")
	if err == nil {
		t.Fatal("ListUserRepos() should fail for a non-2xx upstream response")
	}
	// Anything that isn't 404 is a generic failure, not NotFound.
	if errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ListUserRepos() error = %v, should not be ErrNotFound", err)
	}
}
