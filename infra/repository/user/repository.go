package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	domainuser "github.com/fintrackr/fintrackr/pkg/domain/user"
	"github.com/fintrackr/fintrackr/pkg/dto"
	"github.com/fintrackr/fintrackr/pkg/repository/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a gorm-backed user repository.
func New(db *gorm.DB) user.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *domainuser.User) error {
	model := mapEntityToModel(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already exists", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*domainuser.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *repository) GetByEmailOrPending(ctx context.Context, email string) (*domainuser.User, error) {
	return r.first(ctx, "email = ? OR pending_email = ?", email, email)
}

func (r *repository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domainuser.User, error) {
	if refreshToken == "" {
		return nil, domain.ErrNotFound
	}
	return r.first(ctx, "refresh_token = ?", refreshToken)
}

func (r *repository) first(ctx context.Context, query string, args ...any) (*domainuser.User, error) {
	var model User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToEntity(&model), nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, patch *dto.UserPatch) error {
	updates := make(map[string]any)

	if patch.Username != nil {
		updates["username"] = *patch.Username
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Password != nil {
		updates["password"] = *patch.Password
	}
	if patch.PreferredCurrency != nil {
		updates["preferred_currency"] = string(*patch.PreferredCurrency)
	}
	if patch.IsVerified != nil {
		updates["is_verified"] = *patch.IsVerified
	}
	if patch.PendingEmail != nil {
		updates["pending_email"] = *patch.PendingEmail
	}
	if patch.VerificationToken != nil {
		updates["verification_token"] = *patch.VerificationToken
	}
	if patch.VerificationTokenExpiry != nil {
		updates["verification_token_expiry"] = nullableTime(*patch.VerificationTokenExpiry)
	}
	if patch.ResetToken != nil {
		updates["reset_token"] = *patch.ResetToken
	}
	if patch.ResetTokenExpiry != nil {
		updates["reset_token_expiry"] = nullableTime(*patch.ResetTokenExpiry)
	}
	if patch.RefreshToken != nil {
		updates["refresh_token"] = *patch.RefreshToken
	}

	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return fmt.Errorf("%w: email already in use", domain.ErrConflict)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// nullableTime maps the zero time to NULL so clearing an expiry via a
// patch actually clears the column.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapEntityToModel(u *domainuser.User) *User {
	return &User{
		ID:                      u.ID,
		Username:                u.Username,
		Email:                   u.Email,
		Password:                u.Password,
		PreferredCurrency:       string(u.PreferredCurrency),
		IsVerified:              u.IsVerified,
		PendingEmail:            u.PendingEmail,
		VerificationToken:       u.VerificationToken,
		VerificationTokenExpiry: nullableTime(u.VerificationTokenExpiry),
		ResetToken:              u.ResetToken,
		ResetTokenExpiry:        nullableTime(u.ResetTokenExpiry),
		RefreshToken:            u.RefreshToken,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

func mapModelToEntity(m *User) *domainuser.User {
	u := &domainuser.User{
		ID:                m.ID,
		Username:          m.Username,
		Email:             m.Email,
		Password:          m.Password,
		PreferredCurrency: currency.Code(m.PreferredCurrency),
		IsVerified:        m.IsVerified,
		PendingEmail:      m.PendingEmail,
		VerificationToken: m.VerificationToken,
		ResetToken:        m.ResetToken,
		RefreshToken:      m.RefreshToken,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.VerificationTokenExpiry != nil {
		u.VerificationTokenExpiry = *m.VerificationTokenExpiry
	}
	if m.ResetTokenExpiry != nil {
		u.ResetTokenExpiry = *m.ResetTokenExpiry
	}
	return u
}

var _ user.Repository = (*repository)(nil)
