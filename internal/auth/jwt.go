// Package auth provides JWT session tokens, password hashing, and the
// bearer-token middleware protecting the /me routes.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client POSTs email/password to /auth/register or /auth/login
// 2. Server verifies credentials and issues a signed JWT
// 3. Client sends "Authorization: Bearer <token>" on protected requests
// 4. Middleware validates the signature and expiry, and puts the identity
//    in the request context — no session table, no store lookup
//
// WHY JWT?
// The token is stateless: everything the server needs (userID, email, expiry)
// is inside the signed payload. The HMAC signature means nobody without the
// server secret can forge or alter a token. The flip side is that there is no
// revocation — "logout" is the client discarding its token, and a stolen token
// stays valid until it expires. That trade-off is deliberate; do not bolt a
// revocation list onto this without changing the trust model on purpose.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the session lifetime. Expiry is the only invalidation
// mechanism, so this is also the maximum blast radius of a leaked token.
const tokenTTL = 24 * time.Hour

const issuer = "gitmark"

// Identity is the verified subject of a session token: who is calling.
// Downstream handlers must derive ownership exclusively from this — never
// from a user_id in a request body or URL.
type Identity struct {
	UserID string
	Email  string
}

// TokenService signs and verifies session tokens. It holds the HMAC secret;
// the same secret is used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The user ID rides in the registered "sub"
// (Subject) claim; the email is a private claim so the gate can hand
// handlers a complete identity without a database read.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-server deployment; switch to RS256 if tokens
// ever need to be verified by a service that must not hold the secret.
func (s *TokenService) Generate(userID, email string) (string, error) {
	return s.generate(userID, email, tokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID, email string, d time.Duration) (string, error) {
	return s.generate(userID, email, d)
}

func (s *TokenService) generate(userID, email string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the identity it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired, and an expiry is present at all
//   - Issuer matches (rejects tokens minted by other apps sharing a secret)
//   - Algorithm is HS256
//
// The jwt.WithValidMethods option matters: without it an attacker could send
// a token claiming a different algorithm ("none", or RSA with the public key
// as HMAC secret) and some parsers would accept it.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: token has no subject")
	}

	return Identity{UserID: c.Subject, Email: c.Email}, nil
}
