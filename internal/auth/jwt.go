// Package auth implements the authentication primitives: bcrypt password
// hashing, JWT issuance/verification, and the request middleware that
// attaches an authenticated identity to the request context.
//
// The token flow is stateless: a login issues an HMAC-SHA256 signed token
// whose subject claim is the username, and every subsequent request verifies
// the signature and expiry without any server-side session state. All
// instances sharing the signing key can verify each other's tokens. There is
// no revocation path — a token is valid until it expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is the "iss" claim stamped on every token and required on
// verification, so tokens minted by unrelated apps sharing a secret by
// accident are still rejected.
const tokenIssuer = "voip-user-api"

// DefaultTokenLifetime is how long issued tokens remain valid unless
// configured otherwise.
const DefaultTokenLifetime = 24 * time.Hour

// Verification failure kinds. These are internal signals for the middleware
// and its logs — they are never surfaced to the client, which only ever
// observes the request being treated as unauthenticated.
var (
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrTokenSignature = errors.New("auth: token signature invalid")
	ErrTokenMalformed = errors.New("auth: token malformed")
)

// TokenService issues and verifies signed bearer tokens.
//
// It holds the symmetric HMAC key used for both operations; every server
// instance must be configured with the same key.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A non-positive lifetime selects DefaultTokenLifetime.
// The secret must be at least 16 characters; use 32+ bytes of randomness in
// production (e.g. `openssl rand -hex 32`).
func NewTokenService(secret string, lifetime time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenService{secret: []byte(secret), lifetime: lifetime}, nil
}

// claims is the JWT payload. The registered "sub" claim carries the username
// the token was issued for.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a token for the given subject (username).
// The payload carries the subject, issued-at, and an expiry of
// now + configured lifetime, signed with HMAC-SHA256.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithLifetime(subject, s.lifetime)
}

// IssueWithLifetime creates a token with an explicit lifetime. Used by tests
// to mint already-expired tokens.
func (s *TokenService) IssueWithLifetime(subject string, lifetime time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses a compact token, checks its signature against the configured
// key, and checks its expiry and issuer. On success it returns the embedded
// subject (username).
//
// Failures are classified as ErrTokenExpired, ErrTokenSignature, or
// ErrTokenMalformed (everything structurally wrong: not a JWT, missing
// subject, wrong issuer, unexpected algorithm). Restricting the accepted
// methods to HS256 closes the algorithm-confusion hole where a token signed
// with "none" slips through.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		default:
			return "", fmt.Errorf("%w: %s", ErrTokenMalformed, err)
		}
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", ErrTokenMalformed
	}

	if c.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}

	return c.Subject, nil
}
