package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/user-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

// AccountRepository defines the interface for account-related database operations.
// Add and Update commit immediately and surface constraint violations as ErrConflict.
type AccountRepository interface {
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*entity.Account, error)
	FindByID(ctx context.Context, id int64) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
	// ExistsByUsername ignores the account with excludeID; pass 0 to check all.
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Add(ctx context.Context, a *entity.Account) error
	Update(ctx context.Context, a *entity.Account) error
	RoleName(ctx context.Context, roleID int64) (string, error)
}
