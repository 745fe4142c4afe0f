// Package user implements account registration, profile management and
// preferred currency changes.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	domainuser "github.com/fintrackr/fintrackr/pkg/domain/user"
	"github.com/fintrackr/fintrackr/pkg/dto"
	"github.com/fintrackr/fintrackr/pkg/mailer"
	userrepo "github.com/fintrackr/fintrackr/pkg/repository/user"
	"github.com/fintrackr/fintrackr/pkg/service/auth"
	"github.com/fintrackr/fintrackr/pkg/token"
	"github.com/google/uuid"
)

// Service implements user account operations.
type Service struct {
	users     userrepo.Repository
	mail      mailer.Mailer
	migrator  *PreferenceMigrator
	clientURL string
	logger    *slog.Logger
}

// New creates a user service. The migrator re-normalizes stored
// transactions after a preferred currency change.
func New(users userrepo.Repository, mail mailer.Mailer, migrator *PreferenceMigrator, clientURL string, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		mail:      mail,
		migrator:  migrator,
		clientURL: clientURL,
		logger:    logger,
	}
}

// RegisterInput carries the signup fields. PreferredCurrency is
// optional and defaults to USD.
type RegisterInput struct {
	Username          string
	Email             string
	Password          string
	PreferredCurrency string
}

// Register creates an unverified account and emails a verification
// link. A taken email address reports a conflict.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domainuser.User, error) {
	log := s.logger.With("context", "Register", "email", input.Email)

	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	preferred, ok := currency.Parse(input.PreferredCurrency)
	if input.PreferredCurrency != "" && !ok {
		return nil, fmt.Errorf("%w: preferred currency must be one of: %s",
			domain.ErrValidation, currency.SupportedList())
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	u, err := domainuser.New(input.Username, input.Email, hashed, preferred)
	if err != nil {
		return nil, err
	}
	u.VerificationToken, err = token.New(token.DefaultLength)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, u); err != nil {
		log.Warn("Registration failed", "error", err)
		return nil, err
	}

	link := s.verificationLink(u.Email, u.VerificationToken)
	if err := s.mail.Send(ctx, mailer.VerificationMessage(u.Email, link)); err != nil {
		// The account exists; the user can request a resend.
		log.Error("Cannot send verification email", "user_id", u.ID, "error", err)
	}

	log.Info("User registered", "user_id", u.ID)
	return u, nil
}

// Profile is the subset of account fields exposed to the client.
type Profile struct {
	Username          string
	Email             string
	PreferredCurrency currency.Code
}

// GetProfile returns the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Username:          u.Username,
		Email:             u.Email,
		PreferredCurrency: u.PreferredCurrency,
	}, nil
}

// UpdateProfileInput carries optional profile changes; empty fields are
// left untouched.
type UpdateProfileInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfile applies profile changes. A new email address is staged
// as pending and must be verified before it becomes active; until then
// logins keep using the old address. Returns the pending address when
// an email change was staged.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (pendingEmail string, err error) {
	log := s.logger.With("context", "UpdateProfile", "user_id", userID)

	current, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	patch := &dto.UserPatch{}
	if input.Username != "" && input.Username != current.Username {
		patch.Username = &input.Username
	}
	if input.Password != "" {
		hashed, err := auth.HashPassword(input.Password)
		if err != nil {
			return "", err
		}
		patch.Password = &hashed
	}

	var verificationToken string
	if input.Email != "" && input.Email != current.Email {
		taken, err := s.users.ExistsByEmail(ctx, input.Email, userID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: email already in use", domain.ErrConflict)
		}
		verificationToken, err = token.New(token.DefaultLength)
		if err != nil {
			return "", err
		}
		unverified := false
		patch.PendingEmail = &input.Email
		patch.VerificationToken = &verificationToken
		patch.IsVerified = &unverified
		pendingEmail = input.Email
	}

	if patch.IsEmpty() {
		return "", fmt.Errorf("%w: no valid updates provided", domain.ErrValidation)
	}
	if err := s.users.Update(ctx, userID, patch); err != nil {
		return "", err
	}

	if pendingEmail != "" {
		link := s.verificationLink(pendingEmail, verificationToken)
		if err := s.mail.Send(ctx, mailer.VerificationMessage(pendingEmail, link)); err != nil {
			log.Error("Cannot send verification email", "error", err)
		}
	}

	log.Info("Profile updated", "pending_email", pendingEmail != "")
	return pendingEmail, nil
}

// UpdatePreferredCurrency switches the user's preferred currency, then
// re-normalizes every stored transaction into the new currency. The
// preference is persisted before migration starts so a partial
// migration never leaves the account on the old currency.
func (s *Service) UpdatePreferredCurrency(ctx context.Context, userID uuid.UUID, raw string) (*MigrationReport, error) {
	log := s.logger.With("context", "UpdatePreferredCurrency", "user_id", userID)

	preferred, ok := currency.Parse(raw)
	if !ok {
		return nil, fmt.Errorf("%w: invalid currency, must be one of: %s",
			domain.ErrValidation, currency.SupportedList())
	}

	if err := s.users.Update(ctx, userID, &dto.UserPatch{PreferredCurrency: &preferred}); err != nil {
		return nil, err
	}

	report, err := s.migrator.Migrate(ctx, userID, preferred)
	if err != nil {
		return nil, err
	}
	log.Info("Preferred currency updated",
		"currency", preferred, "migrated", report.Migrated, "skipped", report.Skipped)
	return report, nil
}

func (s *Service) verificationLink(email, verificationToken string) string {
	return fmt.Sprintf("%s/verify-email?token=%s&email=%s",
		s.clientURL, verificationToken, url.QueryEscape(email))
}
