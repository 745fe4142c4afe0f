// Package user defines the persistence contract for user records.
package user

import (
	"context"

	"github.com/fintrackr/fintrackr/pkg/domain/user"
	"github.com/fintrackr/fintrackr/pkg/dto"
	"github.com/google/uuid"
)

// Repository persists user accounts. Lookup misses return
// domain.ErrNotFound; unique violations on create or update return
// domain.ErrConflict.
type Repository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	// GetByEmailOrPending matches either the active or the pending
	// address, used by the email verification flow.
	GetByEmailOrPending(ctx context.Context, email string) (*user.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*user.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, patch *dto.UserPatch) error
}
