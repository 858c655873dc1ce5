package model

import "time"

// Favorite is a repository a user has saved. RepoName, RepoURL, Description,
// Language and StarsCount are a snapshot taken at save time — they are never
// re-synced with GitHub, so a renamed or re-starred repo keeps the values it
// had when it was favorited.
//
// WHY *string FOR Description AND Language?
// Both columns are nullable: GitHub repos can have no description and no
// detected language. A nil pointer round-trips as JSON null, which is what
// the frontend expects — an empty string would be a different statement
// ("there is a description, and it's empty").
//
// The pair (UserID, RepoID) is UNIQUE in the store: a user cannot favorite
// the same repo twice, but two users can favorite the same repo.
type Favorite struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"user_id"     db:"user_id"`
	RepoID      int64     `json:"repo_id"     db:"repo_id"` // GitHub's numeric repo ID
	RepoName    string    `json:"repo_name"   db:"repo_name"`
	RepoURL     string    `json:"repo_url"    db:"repo_url"`
	Description *string   `json:"description" db:"description"`
	Language    *string   `json:"language"    db:"language"`
	StarsCount  int       `json:"stars_count" db:"stars_count"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}
