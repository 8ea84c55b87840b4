// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite); tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/voip-user-api/internal/model"
)

// UserRepository stores user accounts.
//
// Implementations assign the ID and timestamps on Create and enforce the
// uniqueness of username and extension at write time — a concurrent create
// can pass the service layer's pre-check and still be rejected here, so
// Create and Update report such violations as apperror.ErrConflict.
// Lookups that find nothing report apperror.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByExtension(ctx context.Context, extension string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByExtension(ctx context.Context, extension string) (bool, error)
}
