// Package middleware provides the JWT guard for protected routes.
package middleware

import (
	"strings"

	"github.com/fintrackr/fintrackr/pkg/config"
	"github.com/fintrackr/fintrackr/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JwtProtected rejects requests without a valid bearer token. The
// validated token is stored in c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.Contains(err.Error(), "missing or malformed") {
		return common.ProblemDetailsJSON(c, "Bad Request", nil, "Missing or malformed JWT", fiber.StatusBadRequest)
	}
	return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid or expired JWT", fiber.StatusUnauthorized)
}

// UserID extracts the authenticated user's id from the validated token.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return id, nil
}
