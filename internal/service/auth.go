// Package service contains the business logic layer, sitting between the
// HTTP handlers and the repository:
//
//	handler (HTTP) → service (rules) → repository (storage)
//
// Services accept plain values and return domain errors from apperror; they
// know nothing about status codes, routers, or SQL.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/voip-user-api/internal/apperror"
	"github.com/sakif/voip-user-api/internal/auth"
	"github.com/sakif/voip-user-api/internal/repository"
)

// AuthService verifies submitted credentials and issues bearer tokens.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with its dependencies. Wired once in
// server.New; nothing looks these up ambiently.
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
		logger:    logger,
	}
}

// compile-time check: the auth middleware resolves subjects through us.
var _ auth.IdentityResolver = (*AuthService)(nil)

// LoginResult bundles the authenticated identity with its issued token.
type LoginResult struct {
	Identity auth.Identity
	Token    string
}

// Login verifies the username/password pair and, on success, issues a token
// whose subject is the username.
//
// An unknown username and a wrong password both return the same
// apperror.ErrInvalidCredentials: the response must not let a caller probe
// which usernames exist. The log records which case actually occurred.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Info("login failed: unknown username", slog.String("username", username))
		return nil, apperror.InvalidCredentials()
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		s.logger.Info("login failed: password mismatch", slog.String("username", username))
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", username, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &LoginResult{
		Identity: auth.Identity{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
		},
		Token: token,
	}, nil
}

// ResolveSubject turns a verified token subject back into a live identity.
// Called by the auth middleware on every tokened request; an account deleted
// after its token was issued fails resolution, and the middleware treats the
// request as unauthenticated.
func (s *AuthService) ResolveSubject(ctx context.Context, username string) (*auth.Identity, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: resolving subject %s: %w", username, err)
	}

	return &auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}
