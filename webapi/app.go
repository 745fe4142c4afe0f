// Package webapi assembles the HTTP application: middleware, routes and
// the error handler.
package webapi

import (
	"github.com/fintrackr/fintrackr/pkg/config"
	authsvc "github.com/fintrackr/fintrackr/pkg/service/auth"
	txsvc "github.com/fintrackr/fintrackr/pkg/service/transaction"
	usersvc "github.com/fintrackr/fintrackr/pkg/service/user"
	"github.com/fintrackr/fintrackr/webapi/auth"
	"github.com/fintrackr/fintrackr/webapi/common"
	"github.com/fintrackr/fintrackr/webapi/transaction"
	"github.com/fintrackr/fintrackr/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp wires the services into a fiber application.
func NewApp(
	authSvc *authsvc.Service,
	userSvc *usersvc.Service,
	txSvc *txsvc.Service,
	cfg *config.App,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "fintrackr",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", nil, err.Error(), status)
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests", nil, "Rate limit exceeded", fiber.StatusTooManyRequests)
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("FinTrackr API is running")
	})

	auth.Routes(app, authSvc, userSvc, cfg)
	user.Routes(app, userSvc, cfg)
	transaction.Routes(app, txSvc, cfg)

	return app
}
