// Package repository defines the persistence interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// services only ever see these interfaces, which is what makes them testable
// with in-memory fakes.
package repository

import (
	"context"

	"github.com/jmendes/gitmark/internal/model"
)

type UserRepository interface {
	// Create inserts a new user. The email must already be normalized.
	// Returns apperror.ErrConflict if the email is taken — the UNIQUE
	// constraint, not any pre-check, is the authoritative signal.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail returns apperror.ErrNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type FavoriteRepository interface {
	// Create inserts a new favorite. Returns apperror.ErrConflict if the
	// user already favorited the same repo (UNIQUE on user_id, repo_id).
	Create(ctx context.Context, fav *model.Favorite) error
	ListByUser(ctx context.Context, userID string) ([]model.Favorite, error)
	// Delete removes the favorite matching BOTH id and userID. A favorite
	// that exists but belongs to someone else is indistinguishable from one
	// that doesn't exist: apperror.ErrNotFound either way.
	Delete(ctx context.Context, id, userID string) error
}
