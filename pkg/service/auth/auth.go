// Package auth implements credential checks, token issuance and the
// email verification and password reset flows.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fintrackr/fintrackr/pkg/config"
	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	"github.com/fintrackr/fintrackr/pkg/dto"
	"github.com/fintrackr/fintrackr/pkg/mailer"
	userrepo "github.com/fintrackr/fintrackr/pkg/repository/user"
	"github.com/fintrackr/fintrackr/pkg/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// dummyHash keeps password comparison time constant when the account
// does not exist.
const dummyHash = "$2a$14$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

const resetTokenTTL = time.Hour

// Service implements authentication operations.
type Service struct {
	users     userrepo.Repository
	mail      mailer.Mailer
	cfg       *config.Jwt
	clientURL string
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an auth service. clientURL is the frontend origin used to
// build verification and reset links.
func New(users userrepo.Repository, mail mailer.Mailer, cfg *config.Jwt, clientURL string, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		mail:      mail,
		cfg:       cfg,
		clientURL: clientURL,
		logger:    logger,
		now:       time.Now,
	}
}

// LoginResult carries the issued tokens plus the profile fields the
// client renders immediately after login.
type LoginResult struct {
	AccessToken       string
	RefreshToken      string
	Username          string
	Email             string
	PreferredCurrency currency.Code
}

// Login checks credentials and issues an access and refresh token pair.
// Unknown accounts and wrong passwords are indistinguishable to the
// caller; unverified accounts are rejected explicitly.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := s.logger.With("context", "Login", "email", email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Burn a hash comparison so a miss takes as long as a mismatch.
		_ = CheckPasswordHash(password, dummyHash)
		log.Warn("Login failed, unknown account")
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if !u.IsVerified {
		log.Warn("Login rejected, email not verified", "user_id", u.ID)
		return nil, fmt.Errorf("%w: email not verified", domain.ErrUnauthorized)
	}
	if !CheckPasswordHash(password, u.Password) {
		log.Warn("Login failed, wrong password", "user_id", u.ID)
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	accessToken, err := s.generateAccessToken(u.ID, u.Username, u.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u.ID, &dto.UserPatch{RefreshToken: &refreshToken}); err != nil {
		return nil, err
	}

	log.Info("Login successful", "user_id", u.ID)
	return &LoginResult{
		AccessToken:       accessToken,
		RefreshToken:      refreshToken,
		Username:          u.Username,
		Email:             u.Email,
		PreferredCurrency: u.PreferredCurrency,
	}, nil
}

// Refresh exchanges a stored refresh token for a new access token. The
// token must both match a user row and carry a valid signature naming
// that same user.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	log := s.logger.With("context", "Refresh")

	u, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Warn("Refresh failed, token not on record")
		return "", fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
	}

	parsed, err := jwt.Parse(refreshToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.RefreshSecret), nil
	})
	if err != nil || !parsed.Valid {
		log.Warn("Refresh failed, token invalid or expired", "user_id", u.ID, "error", err)
		return "", fmt.Errorf("%w: invalid or expired refresh token", domain.ErrUnauthorized)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] != u.ID.String() {
		log.Warn("Refresh failed, subject mismatch", "user_id", u.ID)
		return "", fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
	}

	accessToken, err := s.generateAccessToken(u.ID, u.Username, u.Email)
	if err != nil {
		return "", err
	}
	log.Info("Access token refreshed", "user_id", u.ID)
	return accessToken, nil
}

// Logout discards the user's stored refresh token.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	empty := ""
	if err := s.users.Update(ctx, userID, &dto.UserPatch{RefreshToken: &empty}); err != nil {
		return err
	}
	s.logger.Info("Logged out", "user_id", userID)
	return nil
}

// VerifyEmail redeems a verification token. A pending address, if any,
// becomes the active one. Tokens without a recorded expiry never
// expire; already verified accounts with no pending change are
// rejected.
func (s *Service) VerifyEmail(ctx context.Context, email, verificationToken string) error {
	log := s.logger.With("context", "VerifyEmail", "email", email)

	if email == "" || verificationToken == "" {
		return fmt.Errorf("%w: email and token are required", domain.ErrValidation)
	}

	u, err := s.users.GetByEmailOrPending(ctx, email)
	if err != nil {
		return err
	}
	if u.IsVerified && u.PendingEmail == "" {
		return fmt.Errorf("%w: email already verified", domain.ErrValidation)
	}
	if u.VerificationToken == "" || u.VerificationToken != verificationToken {
		log.Warn("Email verification failed, token mismatch", "user_id", u.ID)
		return fmt.Errorf("%w: invalid or expired verification token", domain.ErrValidation)
	}
	if !u.VerificationTokenExpiry.IsZero() && s.now().After(u.VerificationTokenExpiry) {
		log.Warn("Email verification failed, token expired", "user_id", u.ID)
		return fmt.Errorf("%w: invalid or expired verification token", domain.ErrValidation)
	}

	verified := true
	clearToken := ""
	var clearExpiry time.Time
	patch := &dto.UserPatch{
		IsVerified:              &verified,
		VerificationToken:       &clearToken,
		VerificationTokenExpiry: &clearExpiry,
	}
	if u.PendingEmail != "" {
		patch.Email = &u.PendingEmail
		clearPending := ""
		patch.PendingEmail = &clearPending
	}
	if err := s.users.Update(ctx, u.ID, patch); err != nil {
		return err
	}
	log.Info("Email verified", "user_id", u.ID)
	return nil
}

// ResendVerification issues a fresh verification token and emails the
// link again. Works for both unverified accounts and pending email
// changes.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	log := s.logger.With("context", "ResendVerification", "email", email)

	u, err := s.users.GetByEmailOrPending(ctx, email)
	if err != nil {
		return err
	}
	if u.IsVerified && u.PendingEmail == "" {
		return fmt.Errorf("%w: email already verified", domain.ErrValidation)
	}

	verificationToken, err := token.New(token.DefaultLength)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, u.ID, &dto.UserPatch{VerificationToken: &verificationToken}); err != nil {
		return err
	}

	link := s.verificationLink(email, verificationToken)
	if err := s.mail.Send(ctx, mailer.VerificationMessage(email, link)); err != nil {
		log.Error("Cannot send verification email", "user_id", u.ID, "error", err)
		return err
	}
	log.Info("Verification email resent", "user_id", u.ID)
	return nil
}

// ForgotPassword issues a reset token valid for one hour and emails the
// reset link.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	log := s.logger.With("context", "ForgotPassword", "email", email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	resetToken, err := token.New(token.DefaultLength)
	if err != nil {
		return err
	}
	expiry := s.now().Add(resetTokenTTL)
	patch := &dto.UserPatch{ResetToken: &resetToken, ResetTokenExpiry: &expiry}
	if err := s.users.Update(ctx, u.ID, patch); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.clientURL, resetToken, url.QueryEscape(email))
	if err := s.mail.Send(ctx, mailer.PasswordResetMessage(email, u.Username, link)); err != nil {
		log.Error("Cannot send reset email", "user_id", u.ID, "error", err)
		return err
	}
	log.Info("Password reset email sent", "user_id", u.ID)
	return nil
}

// ResetPassword redeems a reset token and replaces the password. The
// token is single use.
func (s *Service) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	log := s.logger.With("context", "ResetPassword", "email", email)

	if email == "" || resetToken == "" || newPassword == "" {
		return fmt.Errorf("%w: email, token and new password are required", domain.ErrValidation)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.ResetToken == "" || u.ResetToken != resetToken || s.now().After(u.ResetTokenExpiry) {
		log.Warn("Password reset failed, token invalid or expired", "user_id", u.ID)
		return fmt.Errorf("%w: invalid or expired reset token", domain.ErrValidation)
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	clearToken := ""
	var clearExpiry time.Time
	patch := &dto.UserPatch{
		Password:         &hashed,
		ResetToken:       &clearToken,
		ResetTokenExpiry: &clearExpiry,
	}
	if err := s.users.Update(ctx, u.ID, patch); err != nil {
		return err
	}
	log.Info("Password reset", "user_id", u.ID)
	return nil
}

func (s *Service) generateAccessToken(id uuid.UUID, username, email string) (string, error) {
	t := jwt.New(jwt.SigningMethodHS256)
	claims := t.Claims.(jwt.MapClaims)
	claims["user_id"] = id.String()
	claims["username"] = username
	claims["email"] = email
	claims["exp"] = s.now().Add(s.cfg.Expiry).Unix()
	return t.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) generateRefreshToken(id uuid.UUID) (string, error) {
	t := jwt.New(jwt.SigningMethodHS256)
	claims := t.Claims.(jwt.MapClaims)
	claims["user_id"] = id.String()
	claims["exp"] = s.now().Add(s.cfg.RefreshExpiry).Unix()
	return t.SignedString([]byte(s.cfg.RefreshSecret))
}

func (s *Service) verificationLink(email, verificationToken string) string {
	return fmt.Sprintf("%s/verify-email?token=%s&email=%s",
		s.clientURL, verificationToken, url.QueryEscape(email))
}
