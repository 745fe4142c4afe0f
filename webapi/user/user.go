// Package user exposes the profile and preferred currency endpoints.
package user

import (
	"github.com/fintrackr/fintrackr/pkg/config"
	usersvc "github.com/fintrackr/fintrackr/pkg/service/user"
	"github.com/fintrackr/fintrackr/webapi/common"
	"github.com/fintrackr/fintrackr/webapi/middleware"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the user endpoints; all require authentication.
func Routes(app *fiber.App, userSvc *usersvc.Service, cfg *config.App) {
	app.Get("/user/profile", middleware.JwtProtected(cfg.Jwt), GetProfile(userSvc))
	app.Put("/user/profile", middleware.JwtProtected(cfg.Jwt), UpdateProfile(userSvc))
	app.Put("/user/currency", middleware.JwtProtected(cfg.Jwt), UpdateCurrency(userSvc))
}

// GetProfile returns the caller's profile.
// @Summary Get profile
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /user/profile [get]
func GetProfile(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid token", fiber.StatusUnauthorized)
		}
		profile, err := userSvc.GetProfile(c.Context(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch profile", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Profile fetched", fiber.Map{
			"username":           profile.Username,
			"email":              profile.Email,
			"preferred_currency": profile.PreferredCurrency,
		})
	}
}

// UpdateProfile changes username, password or email. A changed email is
// staged as pending until verified.
// @Summary Update profile
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body UpdateProfileInput true "Profile changes"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /user/profile [put]
func UpdateProfile(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid token", fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[UpdateProfileInput](c)
		if input == nil {
			return err
		}
		pendingEmail, err := userSvc.UpdateProfile(c.Context(), userID, usersvc.UpdateProfileInput{
			Username: input.Username,
			Email:    input.Email,
			Password: input.Password,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update profile", err)
		}
		message := "Profile updated successfully"
		if pendingEmail != "" {
			message = "Verification email sent to new email"
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, message, fiber.Map{
			"pending_email": pendingEmail,
		})
	}
}

// UpdateCurrency switches the preferred currency and re-normalizes all
// stored transactions.
// @Summary Update preferred currency
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body UpdateCurrencyInput true "New preferred currency"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /user/currency [put]
func UpdateCurrency(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid token", fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[UpdateCurrencyInput](c)
		if input == nil {
			return err
		}
		report, err := userSvc.UpdatePreferredCurrency(c.Context(), userID, input.PreferredCurrency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update preferred currency", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Preferred currency updated successfully", fiber.Map{
			"preferred_currency": input.PreferredCurrency,
			"migrated":           report.Migrated,
			"skipped":            report.Skipped,
		})
	}
}
