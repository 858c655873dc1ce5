package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jmendes/gitmark/internal/model"
	"github.com/jmendes/gitmark/internal/service"
)

// AuthHandler exposes registration and login. Both routes are public — the
// bearer-token middleware never runs in front of them.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// credentialsRequest is the body of both /auth/register and /auth/login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the success body of both auth endpoints: a message, the
// public user fields, and the session token. The client stores the token
// and presents it as "Authorization: Bearer <token>" from then on.
type authResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
	Token   string           `json:"token"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /auth/register
// Body: {"email": "...", "password": "..."}
// 201 on success; 400 for validation failures, 409 if the email is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	result, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		User:    result.User.Public(),
		Token:   result.Token,
	})
}

// HandleLogin verifies credentials and issues a session token.
//
// HTTP: POST /auth/login
// Body: {"email": "...", "password": "..."}
// 200 on success; 401 "Invalid credentials" for unknown email OR wrong
// password — the two are indistinguishable on purpose.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    result.User.Public(),
		Token:   result.Token,
	})
}
