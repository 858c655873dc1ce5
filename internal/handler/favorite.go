package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmendes/gitmark/internal/auth"
	"github.com/jmendes/gitmark/internal/model"
	"github.com/jmendes/gitmark/internal/service"
)

// FavoriteHandler manages the authenticated /me/favorites routes.
//
// Every handler here reads the caller's identity from the request context,
// where auth.RequireAuth put it after verifying the token. The user ID is
// never taken from the body or the URL — that's the ownership boundary, and
// it's what makes "delete someone else's favorite" impossible rather than
// merely forbidden.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

// addFavoriteRequest is the body of POST /me/favorites: the snapshot of the
// repo the client wants to save. Pointer fields distinguish "absent" from
// "empty" and become NULL columns.
type addFavoriteRequest struct {
	RepoID      int64   `json:"repo_id"`
	RepoName    string  `json:"repo_name"`
	RepoURL     string  `json:"repo_url"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	StarsCount  int     `json:"stars_count"`
}

// HandleList returns all of the caller's favorites.
//
// HTTP: GET /me/favorites
// 200 {"favorites": [...]} — empty array (not null) when there are none.
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "No token provided"})
		return
	}

	favorites, err := h.favorites.List(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Favorite{"favorites": favorites})
}

// HandleAdd saves a repo to the caller's favorites.
//
// HTTP: POST /me/favorites
// 201 {"favorite": {...}} with the generated id and created_at;
// 400 naming missing fields, 409 if the repo is already favorited.
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "No token provided"})
		return
	}

	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid favorite JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	favorite, err := h.favorites.Add(r.Context(), identity.UserID, service.AddFavoriteInput{
		RepoID:      req.RepoID,
		RepoName:    req.RepoName,
		RepoURL:     req.RepoURL,
		Description: req.Description,
		Language:    req.Language,
		StarsCount:  req.StarsCount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Favorite{"favorite": favorite})
}

// HandleRemove deletes one of the caller's favorites by its ID.
//
// HTTP: DELETE /me/favorites/{id}
// 200 {"message": ...}; 404 if the id doesn't exist — or exists but belongs
// to another user, which must look the same from outside.
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "No token provided"})
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.favorites.Remove(r.Context(), identity.UserID, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Favorite repo removed"})
}
