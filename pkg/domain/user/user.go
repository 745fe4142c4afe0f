// Package user defines the user entity and its construction rules.
package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	"github.com/google/uuid"
)

// User represents a registered account. Users start unverified; tokens
// are cleared after use or expiry.
type User struct {
	ID                uuid.UUID
	Username          string
	Email             string
	Password          string // bcrypt hash
	PreferredCurrency currency.Code
	IsVerified        bool

	// PendingEmail holds a new address awaiting verification; it
	// replaces Email once the verification token is redeemed.
	PendingEmail string

	VerificationToken       string
	VerificationTokenExpiry time.Time
	ResetToken              string
	ResetTokenExpiry        time.Time
	RefreshToken            string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an unverified user with an already-hashed password. The
// preferred currency defaults to USD when empty.
func New(username, email, hashedPassword string, preferred currency.Code) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if hashedPassword == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if preferred == "" {
		preferred = currency.USD
	}
	if !currency.IsSupported(preferred) {
		return nil, fmt.Errorf("%w: preferred currency must be one of: %s",
			domain.ErrValidation, currency.SupportedList())
	}
	now := time.Now().UTC()
	return &User{
		ID:                uuid.New(),
		Username:          username,
		Email:             email,
		Password:          hashedPassword,
		PreferredCurrency: preferred,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}
