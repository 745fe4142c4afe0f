// Package dto carries data between services and repositories without
// exposing persistence models.
package dto

import (
	"time"

	"github.com/fintrackr/fintrackr/pkg/currency"
)

// UserPatch enumerates the updatable user fields. Each field applies
// only when non-nil, which keeps partial updates explicit instead of
// building column lists at runtime. Setting a token field to an empty
// string clears it.
type UserPatch struct {
	Username                *string
	Email                   *string
	Password                *string // already hashed
	PreferredCurrency       *currency.Code
	IsVerified              *bool
	PendingEmail            *string
	VerificationToken       *string
	VerificationTokenExpiry *time.Time
	ResetToken              *string
	ResetTokenExpiry        *time.Time
	RefreshToken            *string
}

// IsEmpty reports whether the patch carries no changes.
func (p *UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil &&
		p.PreferredCurrency == nil && p.IsVerified == nil &&
		p.PendingEmail == nil && p.VerificationToken == nil &&
		p.VerificationTokenExpiry == nil && p.ResetToken == nil &&
		p.ResetTokenExpiry == nil && p.RefreshToken == nil
}
