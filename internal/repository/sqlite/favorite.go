package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/jmendes/gitmark/internal/apperror"
	"github.com/jmendes/gitmark/internal/model"
	"github.com/jmendes/gitmark/internal/repository"
)

// Compile-time check that *FavoriteRepo implements repository.FavoriteRepository.
var _ repository.FavoriteRepository = (*FavoriteRepo)(nil)

// FavoriteRepo is the favorites view of the database. It shares the
// connection pool with the other repositories.
type FavoriteRepo struct {
	db *DB
}

// Favorites returns the favorite repository backed by this database.
func (db *DB) Favorites() *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Create inserts a new favorite, generating its ID and CreatedAt.
//
// There is deliberately no "does this favorite already exist" query before
// the INSERT — that would be a check-then-act race under concurrent adds of
// the same repo. The UNIQUE(user_id, repo_id) constraint decides, and a
// violation surfaces as apperror.ErrConflict.
func (r *FavoriteRepo) Create(ctx context.Context, fav *model.Favorite) error {
	fav.ID = xid.New().String()
	fav.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO favorites (id, user_id, repo_id, repo_name, repo_url, description, language, stars_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fav.ID,
		fav.UserID,
		fav.RepoID,
		fav.RepoName,
		fav.RepoURL,
		fav.Description,
		fav.Language,
		fav.StarsCount,
		fav.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Repo already in favorites")
		}
		return fmt.Errorf("sqlite: creating favorite: %w", err)
	}

	return nil
}

// ListByUser returns all favorites belonging to userID, newest first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, user_id, repo_id, repo_name, repo_url, description, language, stars_count, created_at
		 FROM favorites
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites: %w", err)
	}
	// rows holds a pool connection until closed — leaking it would
	// eventually exhaust the pool.
	defer rows.Close()

	favorites := []model.Favorite{}

	for rows.Next() {
		var f model.Favorite
		var description, language sql.NullString
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.RepoID, &f.RepoName, &f.RepoURL,
			&description, &language, &f.StarsCount, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		if description.Valid {
			f.Description = &description.String
		}
		if language.Valid {
			f.Language = &language.String
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating favorites: %w", err)
	}

	return favorites, nil
}

// Delete removes the favorite matching both id AND userID. The conjunction
// is the ownership boundary: someone else's favorite and a nonexistent one
// both affect zero rows and both come back as apperror.ErrNotFound.
func (r *FavoriteRepo) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting favorite %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("favorite", id)
	}

	return nil
}
