package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/voip-user-api/internal/apperror"
	"github.com/sakif/voip-user-api/internal/auth"
	"github.com/sakif/voip-user-api/internal/model"
	"github.com/sakif/voip-user-api/internal/repository"
	"github.com/sakif/voip-user-api/internal/validate"
)

// UserService handles the user-account CRUD operations and enforces the
// validation contract in front of every mutation:
//
//	phase 1: field-format rules (internal/validate), all violations collected
//	phase 2: business rules — reserved extensions, uniqueness — only after
//	         phase 1 passes
//
// The uniqueness checks here are a fast path for friendly errors; the store's
// UNIQUE constraints are the real enforcement point, and a constraint
// violation at write time comes back as the same conflict error.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

// CreateInput carries the fields of a create request.
type CreateInput struct {
	Username  string
	Password  string
	Name      string
	Extension string
}

// UpdateInput carries the mutable fields of an update request.
type UpdateInput struct {
	Name      string
	Extension string
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/user: listing users: %w", err)
	}
	return users, nil
}

// GetByID returns the account with the given id.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user %s: %w", id, err)
	}
	return user, nil
}

// GetByExtension returns the account holding the given extension.
func (s *UserService) GetByExtension(ctx context.Context, extension string) (*model.User, error) {
	user, err := s.repo.GetByExtension(ctx, extension)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user by extension %s: %w", extension, err)
	}
	return user, nil
}

// IsExtensionAvailable reports whether the extension could be assigned to a
// new account. Reserved extensions are never available, no matter whether
// anyone currently holds them.
func (s *UserService) IsExtensionAvailable(ctx context.Context, extension string) (bool, error) {
	if validate.IsReserved(extension) {
		return false, nil
	}

	taken, err := s.repo.ExistsByExtension(ctx, extension)
	if err != nil {
		return false, fmt.Errorf("service/user: checking extension %s: %w", extension, err)
	}
	return !taken, nil
}

// Create validates and persists a new account.
//
// Either every check passes and the row is written, or nothing is written —
// there is no partial persistence. The returned account carries the
// store-assigned id and timestamps, never the plaintext password.
func (s *UserService) Create(ctx context.Context, in CreateInput) (*model.User, error) {
	// Phase 1: field formats, aggregated.
	if violations := validate.Create(in.Username, in.Password, in.Name, in.Extension); len(violations) > 0 {
		s.logger.Warn("user create rejected", slog.Any("violations", violations))
		return nil, apperror.ValidationFailed(violations)
	}

	// Phase 2: business rules. The reserved check repeats independently of
	// the pattern pass above so the invariant does not hinge on phase 1's
	// rule ordering.
	if validate.IsReserved(in.Extension) {
		return nil, apperror.Conflict(fmt.Sprintf("extension %s is reserved and cannot be used", in.Extension))
	}

	if taken, err := s.repo.ExistsByUsername(ctx, in.Username); err != nil {
		return nil, fmt.Errorf("service/user: checking username %s: %w", in.Username, err)
	} else if taken {
		return nil, apperror.Conflict("username already in use")
	}

	if taken, err := s.repo.ExistsByExtension(ctx, in.Extension); err != nil {
		return nil, fmt.Errorf("service/user: checking extension %s: %w", in.Extension, err)
	} else if taken {
		return nil, apperror.Conflict("extension already in use")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Extension:    in.Extension,
	}

	// The UNIQUE constraints settle any race with a concurrent create; a
	// violation here is the same conflict the pre-checks would have caught.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: creating user (extension=%s): %w", in.Extension, err)
	}

	s.logger.Info("user created",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
		slog.String("extension", user.Extension),
	)

	return user, nil
}

// Update validates and persists changes to an existing account's name and
// extension. If the extension is unchanged its uniqueness is not re-checked;
// a changed extension must not collide with another account's.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*model.User, error) {
	if violations := validate.Update(in.Name, in.Extension); len(violations) > 0 {
		s.logger.Warn("user update rejected", slog.String("userID", id), slog.Any("violations", violations))
		return nil, apperror.ValidationFailed(violations)
	}

	if validate.IsReserved(in.Extension) {
		return nil, apperror.Conflict(fmt.Sprintf("extension %s is reserved and cannot be used", in.Extension))
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user %s for update: %w", id, err)
	}

	if in.Extension != existing.Extension {
		if taken, err := s.repo.ExistsByExtension(ctx, in.Extension); err != nil {
			return nil, fmt.Errorf("service/user: checking extension %s: %w", in.Extension, err)
		} else if taken {
			return nil, apperror.Conflict("extension already in use")
		}
	}

	existing.Name = strings.TrimSpace(in.Name)
	existing.Extension = in.Extension

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("service/user: updating user %s: %w", id, err)
	}

	s.logger.Info("user updated",
		slog.String("userID", existing.ID),
		slog.String("extension", existing.Extension),
	)

	return existing, nil
}

// Delete removes the account with the given id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/user: deleting user %s: %w", id, err)
	}

	s.logger.Info("user deleted", slog.String("userID", id))
	return nil
}
