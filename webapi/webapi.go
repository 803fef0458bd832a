// Package webapi assembles the HTTP surface. Handlers live in sub-packages
// by domain: auth, user, card, transaction, and the peripheral resources.
package webapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hazemdiab/ebanking/pkg/app"
	authweb "github.com/hazemdiab/ebanking/webapi/auth"
	cardweb "github.com/hazemdiab/ebanking/webapi/card"
	"github.com/hazemdiab/ebanking/webapi/common"
	"github.com/hazemdiab/ebanking/webapi/resource"
	txweb "github.com/hazemdiab/ebanking/webapi/transaction"
	userweb "github.com/hazemdiab/ebanking/webapi/user"
)

// SetupApp builds the fiber application around the service graph.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "ebanking",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(common.Response{Success: false, Error: e.Message})
			}
			return common.ErrorResponseJSON(c, err, a.Config.Development())
		},
	})

	// X-Forwarded-For first so the limiter keys on the real client behind a
	// proxy.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if i := strings.Index(forwardedFor, ","); i != -1 {
					return strings.TrimSpace(forwardedFor[:i])
				}
				return strings.TrimSpace(forwardedFor)
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(common.Response{
				Success: false,
				Error:   "rate limit exceeded",
			})
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "ok", nil)
	})

	logr := a.Deps.Logger
	authweb.Routes(fiberApp, a.UserService, a.AuthService, a.VerificationService, a.Deps.Uow, a.Config, logr)
	userweb.Routes(fiberApp, a.UserService, a.Deps.Uow, a.Config, logr)
	cardweb.Routes(fiberApp, a.CardService, a.Deps.Uow, a.Config, logr)
	txweb.Routes(fiberApp, a.TransactionService, a.Deps.Uow, a.Config, logr)
	if a.Deps.DB != nil {
		resource.Register(fiberApp, a.Deps.DB, a.Deps.Uow, a.Config, logr)
	}

	return fiberApp
}
