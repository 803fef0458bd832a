// Package middleware holds the fiber middleware guarding protected routes.
package middleware

import (
	"errors"
	"log/slog"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/repository"
	"github.com/hazemdiab/ebanking/webapi/common"
)

// Locals keys set by the middleware.
const (
	LocalsToken  = "token"
	LocalsUserID = "user_id"
	LocalsUser   = "user"
)

// Protected validates the bearer token and stashes the parsed token in
// c.Locals. Missing, expired and otherwise invalid tokens each get their
// own message.
func Protected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ContextKey: LocalsToken,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			msg := "invalid token"
			switch {
			case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
				msg = "missing or malformed token"
			case errors.Is(err, jwt.ErrTokenExpired):
				msg = "token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(common.Response{
				Success: false,
				Error:   msg,
			})
		},
	})
}

// LoadUser resolves the token's user_id claim to a stored user and puts both
// on c.Locals. A token whose user no longer exists is rejected, so deleted
// accounts cannot keep using old sessions. Refresh tokens are not accepted
// on protected routes.
func LoadUser(uow repository.UnitOfWork, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals(LocalsToken).(*jwt.Token)
		if !ok {
			return common.ErrorResponseJSON(c, domain.ErrUnauthorized, false)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return common.ErrorResponseJSON(c, domain.ErrUnauthorized, false)
		}
		if typ, _ := claims["type"].(string); typ == "refresh" {
			return common.ErrorResponseJSON(c, domain.ErrUnauthorized, false)
		}
		raw, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(raw)
		if err != nil {
			return common.ErrorResponseJSON(c, domain.ErrUnauthorized, false)
		}

		user, err := uow.UserRepository().Get(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return common.ErrorResponseJSON(c, domain.ErrNotFound, false)
			}
			logger.Error("user load failed", "user_id", userID, "error", err)
			return common.ErrorResponseJSON(c, err, false)
		}

		c.Locals(LocalsUserID, userID)
		c.Locals(LocalsUser, user)
		return c.Next()
	}
}

// UserID reads the authenticated user's id from c.Locals.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalsUserID).(uuid.UUID)
	return id
}
