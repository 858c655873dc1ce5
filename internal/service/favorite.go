package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmendes/gitmark/internal/apperror"
	"github.com/jmendes/gitmark/internal/model"
	"github.com/jmendes/gitmark/internal/repository"
)

// FavoriteService handles a user's saved repositories.
//
// OWNERSHIP BOUNDARY:
// Every method takes userID as an explicit parameter, and the handlers pass
// it exclusively from the identity the auth middleware verified — never from
// a request body or URL. Nothing in this service or below it trusts a
// client-supplied user ID.
type FavoriteService struct {
	repo   repository.FavoriteRepository
	logger *slog.Logger
}

// NewFavoriteService creates a FavoriteService.
func NewFavoriteService(repo repository.FavoriteRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		repo:   repo,
		logger: logger,
	}
}

// AddFavoriteInput carries the repo snapshot the client wants to save.
// RepoID, RepoName and RepoURL are required; Description and Language
// default to null and StarsCount to 0 when absent.
type AddFavoriteInput struct {
	RepoID      int64
	RepoName    string
	RepoURL     string
	Description *string
	Language    *string
	StarsCount  int
}

// List returns all favorites belonging to userID.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]model.Favorite, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list favorites",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing favorites: %w", err)
	}

	return favorites, nil
}

// Add saves a repo to userID's favorites and returns the persisted row,
// including the generated ID and CreatedAt.
//
// Missing required fields fail validation before any store access, naming
// every missing field at once. Duplicate (userID, repoID) pairs come back as
// Conflict from the store's uniqueness constraint — Add does no existence
// pre-check, so concurrent adds of the same repo can't race (see the
// repository for why).
func (s *FavoriteService) Add(ctx context.Context, userID string, input AddFavoriteInput) (*model.Favorite, error) {
	var missing []string
	if input.RepoID == 0 {
		missing = append(missing, "repo_id")
	}
	if strings.TrimSpace(input.RepoName) == "" {
		missing = append(missing, "repo_name")
	}
	if strings.TrimSpace(input.RepoURL) == "" {
		missing = append(missing, "repo_url")
	}
	if len(missing) > 0 {
		return nil, apperror.ValidationFailed(missing[0],
			"Missing required fields: "+strings.Join(missing, ", "))
	}

	fav := &model.Favorite{
		UserID:      userID,
		RepoID:      input.RepoID,
		RepoName:    input.RepoName,
		RepoURL:     input.RepoURL,
		Description: input.Description,
		Language:    input.Language,
		StarsCount:  input.StarsCount,
	}

	if err := s.repo.Create(ctx, fav); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to add favorite",
			slog.String("userID", userID),
			slog.Int64("repoID", input.RepoID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("adding favorite: %w", err)
	}

	s.logger.Info("favorite added",
		slog.String("id", fav.ID),
		slog.String("userID", userID),
		slog.Int64("repoID", fav.RepoID),
	)

	return fav, nil
}

// Remove deletes the favorite with the given id, scoped to userID. A
// favorite owned by someone else is reported as NotFound, exactly like a
// favorite that never existed.
func (s *FavoriteService) Remove(ctx context.Context, userID, favoriteID string) error {
	favoriteID = strings.TrimSpace(favoriteID)
	if favoriteID == "" {
		return apperror.ValidationFailed("id", "Favorite repo ID is required")
	}

	if err := s.repo.Delete(ctx, favoriteID, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to remove favorite",
			slog.String("id", favoriteID),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("removing favorite: %w", err)
	}

	s.logger.Info("favorite removed",
		slog.String("id", favoriteID),
		slog.String("userID", userID),
	)
	return nil
}
