// Package auth exposes the authentication endpoints: signup, login, token
// refresh, logout, OTP delivery and verification, and the current-user view.
package auth

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/middleware"
	"github.com/hazemdiab/ebanking/pkg/repository"
	authsvc "github.com/hazemdiab/ebanking/pkg/service/auth"
	usersvc "github.com/hazemdiab/ebanking/pkg/service/user"
	verificationsvc "github.com/hazemdiab/ebanking/pkg/service/verification"
	"github.com/hazemdiab/ebanking/webapi/common"
)

// RegisterRequest is the signup payload. Username is optional; when absent
// it is derived from the email local part.
type RegisterRequest struct {
	Username  string `json:"username" validate:"omitempty,min=3,max=30"`
	Phone     string `json:"phone" validate:"required,e164"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"max=60"`
	LastName  string `json:"lastName" validate:"max=60"`
}

// LoginRequest authenticates by username, email or phone.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// OTPRequest selects the channel a code is sent on or checked against.
type OTPRequest struct {
	Channel string `json:"channel" validate:"required,oneof=email phone"`
	Code    string `json:"code"`
}

type sessionResponse struct {
	User   *dto.UserRead `json:"user"`
	Tokens any           `json:"tokens"`
}

// Routes registers the /api/auth endpoints.
func Routes(
	app *fiber.App,
	userSvc *usersvc.Service,
	authSvc *authsvc.Service,
	verificationSvc *verificationsvc.Service,
	uow repository.UnitOfWork,
	cfg *config.App,
	logger *slog.Logger,
) {
	exposeDetail := cfg.Development()
	g := app.Group("/api/auth")

	g.Post("/register", Register(userSvc, authSvc, exposeDetail))
	g.Post("/login", Login(authSvc, exposeDetail))
	g.Post("/refresh-token", Refresh(authSvc, exposeDetail))

	protect := middleware.Protected(cfg.Jwt)
	load := middleware.LoadUser(uow, logger)
	g.Post("/send-otp", protect, load, SendOTP(verificationSvc, exposeDetail))
	g.Post("/verify-otp", protect, load, VerifyOTP(verificationSvc, exposeDetail))
	g.Get("/me", protect, load, Me(exposeDetail))
	g.Post("/logout", protect, load, Logout(authSvc, exposeDetail))
}

// Register creates the account and logs it straight in, so signup responds
// with a usable session.
func Register(userSvc *usersvc.Service, authSvc *authsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		user, err := userSvc.Register(c.UserContext(), usersvc.RegisterInput{
			Username:  input.Username,
			Phone:     input.Phone,
			Email:     input.Email,
			Password:  input.Password,
			FirstName: input.FirstName,
			LastName:  input.LastName,
		})
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		tokens, err := authSvc.IssueTokens(user)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "account created",
			sessionResponse{User: user, Tokens: tokens})
	}
}

// Login checks credentials and returns a token pair.
func Login(authSvc *authsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		user, tokens, err := authSvc.Login(c.UserContext(), input.Identifier, input.Password)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "logged in",
			sessionResponse{User: user, Tokens: tokens})
	}
}

// Refresh exchanges a refresh token for a fresh pair.
func Refresh(authSvc *authsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RefreshRequest](c)
		if input == nil {
			return err
		}
		user, tokens, err := authSvc.Refresh(c.UserContext(), input.RefreshToken)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "session refreshed",
			sessionResponse{User: user, Tokens: tokens})
	}
}

// SendOTP issues a verification code on the requested channel.
func SendOTP(verificationSvc *verificationsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[OTPRequest](c)
		if input == nil {
			return err
		}
		userID := middleware.UserID(c)
		if err := verificationSvc.Issue(c.UserContext(), userID, domain.Channel(input.Channel)); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "verification code sent", nil)
	}
}

// VerifyOTP checks the submitted code and marks the channel verified.
func VerifyOTP(verificationSvc *verificationsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[OTPRequest](c)
		if input == nil {
			return err
		}
		if input.Code == "" {
			return common.ErrorResponseJSON(c, domain.ErrValidation, exposeDetail)
		}
		userID := middleware.UserID(c)
		if err := verificationSvc.Verify(c.UserContext(), userID, domain.Channel(input.Channel), input.Code); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "verified", nil)
	}
}

// Me returns the authenticated user with the derived profile completion.
func Me(exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(middleware.LocalsUser).(*dto.UserRead)
		if !ok {
			return common.ErrorResponseJSON(c, domain.ErrUnauthorized, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", fiber.Map{
			"user":              user,
			"profileCompletion": user.Completion(),
		})
	}
}

// Logout clears the stored session token.
func Logout(authSvc *authsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authSvc.Logout(c.UserContext(), middleware.UserID(c)); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "logged out", nil)
	}
}
