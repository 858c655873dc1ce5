// Package service contains the business logic layer.
//
// The layering is the usual one:
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service         → normalizes, validates, enforces rules
//	Repository (DB) → single-statement parameterized queries
//
// Services accept primitives and return domain errors (apperror), never HTTP
// types — the handlers own the translation to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jmendes/gitmark/internal/apperror"
	"github.com/jmendes/gitmark/internal/auth"
	"github.com/jmendes/gitmark/internal/model"
	"github.com/jmendes/gitmark/internal/repository"
)

// MinPasswordLength is the floor for registration passwords. The rest of the
// policy (must contain upper, lower, digit) lives in validatePassword.
const MinPasswordLength = 8

// AuthService handles registration and login.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → read/write user records
//   - tokens    *auth.TokenService        → mint session JWTs
//   - passwords *auth.PasswordService     → bcrypt hashing
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		validate:  validator.New(),
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued token, so the handler
// can build the response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and issues a session token.
//
// Order within the request is fixed: normalize → validate → hash → insert →
// mint token. The token is minted only after the INSERT committed — there is
// never a token backed by no row.
//
// The GetByEmail pre-check gives the common duplicate a friendly early 409,
// but it is only an optimization: two concurrent registrations of the same
// address can both pass it, and then the users.email UNIQUE constraint
// decides. The repository translates that violation to the same Conflict,
// so correctness never depends on the check.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "All fields are required")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, apperror.ValidationFailed("email", "Invalid email format")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	// Existence pre-check (optimization only — see above).
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email already in use")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		s.logger.Error("failed to check existing email", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: checking existing email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the race with a concurrent registration.
			return nil, err
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a session token.
//
// USER-EXISTENCE ORACLE PREVENTION:
// "No such user" and "wrong password" both return the identical
// Unauthorized("Invalid credentials"). If the two cases were
// distinguishable, an attacker could enumerate which emails have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "All fields are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		s.logger.Error("failed to look up user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// normalizeEmail applies the canonical form used at both registration and
// login: trim whitespace, lower-case. Applying it consistently on both paths
// is what makes "  User@Example.COM " and "user@example.com" the same account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword enforces the registration password policy: at least
// MinPasswordLength characters, with at least one uppercase letter, one
// lowercase letter, and one digit. The checks are separate so the error
// names what is actually missing.
func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return apperror.ValidationFailed("password",
			"Password must contain uppercase, lowercase, and number")
	}

	return nil
}
