// Package auth exposes the authentication endpoints: registration,
// login, token refresh and the email verification and password reset
// flows.
package auth

import (
	"errors"

	"github.com/fintrackr/fintrackr/pkg/config"
	"github.com/fintrackr/fintrackr/pkg/domain"
	authsvc "github.com/fintrackr/fintrackr/pkg/service/auth"
	usersvc "github.com/fintrackr/fintrackr/pkg/service/user"
	"github.com/fintrackr/fintrackr/webapi/common"
	"github.com/fintrackr/fintrackr/webapi/middleware"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the auth endpoints. Logout is the only protected
// one.
func Routes(app *fiber.App, authSvc *authsvc.Service, userSvc *usersvc.Service, cfg *config.App) {
	app.Post("/auth/register", Register(userSvc))
	app.Post("/auth/login", Login(authSvc))
	app.Post("/auth/refresh", Refresh(authSvc))
	app.Get("/auth/verify-email", VerifyEmail(authSvc))
	app.Post("/auth/resend-verification", ResendVerification(authSvc))
	app.Post("/auth/forgot-password", ForgotPassword(authSvc))
	app.Post("/auth/reset-password", ResetPassword(authSvc))
	app.Post("/auth/logout", middleware.JwtProtected(cfg.Jwt), Logout(authSvc))
}

// Register creates an unverified account and sends a verification email.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Signup fields"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /auth/register [post]
func Register(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Register(c.Context(), usersvc.RegisterInput{
			Username:          input.Username,
			Email:             input.Email,
			Password:          input.Password,
			PreferredCurrency: input.PreferredCurrency,
		})
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return common.ProblemDetailsJSON(c, "Email already exists", err)
			}
			return common.ProblemDetailsJSON(c, "Failed to register user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated,
			"User registered. Please verify your email.", fiber.Map{
				"username":           u.Username,
				"email":              u.Email,
				"preferred_currency": u.PreferredCurrency,
			})
	}
}

// Login authenticates with email and password and returns a token pair.
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		result, err := authSvc.Login(c.Context(), input.Email, input.Password)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return common.ProblemDetailsJSON(c, "Invalid credentials", err)
			}
			return common.ProblemDetailsJSON(c, "Failed to login", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", fiber.Map{
			"token":              result.AccessToken,
			"refreshToken":       result.RefreshToken,
			"username":           result.Username,
			"email":              result.Email,
			"preferred_currency": result.PreferredCurrency,
		})
	}
}

// Refresh exchanges a refresh token for a new access token.
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshInput true "Refresh token"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /auth/refresh [post]
func Refresh(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RefreshInput](c)
		if input == nil {
			return err
		}
		token, err := authSvc.Refresh(c.Context(), input.RefreshToken)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid refresh token", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Token refreshed", fiber.Map{
			"token": token,
		})
	}
}

// VerifyEmail redeems a verification token sent by email.
// @Summary Verify email address
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Param email query string true "Address being verified"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /auth/verify-email [get]
func VerifyEmail(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Query("email")
		token := c.Query("token")
		if err := authSvc.VerifyEmail(c.Context(), email, token); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to verify email", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Email verified successfully", nil)
	}
}

// ResendVerification sends a fresh verification link.
// @Summary Resend verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailInput true "Account email"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /auth/resend-verification [post]
func ResendVerification(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[EmailInput](c)
		if input == nil {
			return err
		}
		if err := authSvc.ResendVerification(c.Context(), input.Email); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to resend verification email", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Verification email resent successfully", nil)
	}
}

// ForgotPassword emails a password reset link valid for one hour.
// @Summary Request password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailInput true "Account email"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /auth/forgot-password [post]
func ForgotPassword(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[EmailInput](c)
		if input == nil {
			return err
		}
		if err := authSvc.ForgotPassword(c.Context(), input.Email); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to send password reset email", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Password reset email sent successfully", nil)
	}
}

// ResetPassword redeems a reset token and sets a new password.
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordInput true "Reset token and new password"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /auth/reset-password [post]
func ResetPassword(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ResetPasswordInput](c)
		if input == nil {
			return err
		}
		if err := authSvc.ResetPassword(c.Context(), input.Email, input.Token, input.NewPassword); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to reset password", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Password reset successfully", nil)
	}
}

// Logout discards the caller's refresh token.
// @Summary Log out
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /auth/logout [post]
func Logout(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid token", fiber.StatusUnauthorized)
		}
		if err := authSvc.Logout(c.Context(), userID); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to log out", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Logged out successfully", nil)
	}
}
