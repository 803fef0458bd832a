// Package user exposes the profile management endpoints.
package user

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/middleware"
	"github.com/hazemdiab/ebanking/pkg/repository"
	usersvc "github.com/hazemdiab/ebanking/pkg/service/user"
	"github.com/hazemdiab/ebanking/webapi/common"
)

// ProfileRequest fills the personal information block.
type ProfileRequest struct {
	FirstName          string     `json:"firstName" validate:"required,max=60"`
	LastName           string     `json:"lastName" validate:"required,max=60"`
	DateOfBirth        *time.Time `json:"dateOfBirth"`
	ProfilePicture     string     `json:"profilePicture"`
	CountryOfResidence string     `json:"countryOfResidence" validate:"max=60"`
}

// AddressRequest fills the address block.
type AddressRequest struct {
	Country       string `json:"country" validate:"required,max=60"`
	StreetAddress string `json:"streetAddress" validate:"required,max=120"`
	AddressLine2  string `json:"addressLine2" validate:"max=120"`
	City          string `json:"city" validate:"required,max=60"`
	PostalCode    string `json:"postalCode" validate:"required,max=20"`
	State         string `json:"state" validate:"max=60"`
}

// KYCRequest records the submitted identity documents.
type KYCRequest struct {
	DocumentType   string     `json:"documentType" validate:"required,oneof=passport driving_license national_id_card"`
	DocumentNumber string     `json:"documentNumber" validate:"required,max=60"`
	IssuingCity    string     `json:"issuingCity" validate:"max=60"`
	Nationality    string     `json:"nationality" validate:"max=60"`
	ExpiryDate     *time.Time `json:"expiryDate"`
	PassportPhoto  string     `json:"passportPhoto"`
	FrontPhoto     string     `json:"frontPhoto"`
	BackPhoto      string     `json:"backPhoto"`
}

// PreferencesRequest toggles the notification channels.
type PreferencesRequest struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// PasswordRequest carries a password change.
type PasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// CountryRequest updates the residence country on its own.
type CountryRequest struct {
	CountryOfResidence string `json:"countryOfResidence" validate:"required,max=60"`
}

// Routes registers the /api/user endpoints. Everything requires a session.
func Routes(app *fiber.App, userSvc *usersvc.Service, uow repository.UnitOfWork, cfg *config.App, logger *slog.Logger) {
	exposeDetail := cfg.Development()
	g := app.Group("/api/user", middleware.Protected(cfg.Jwt), middleware.LoadUser(uow, logger))

	g.Get("/", Get(userSvc, exposeDetail))
	g.Put("/profile", CompleteProfile(userSvc, exposeDetail))
	g.Put("/address", CompleteAddress(userSvc, exposeDetail))
	g.Put("/kyc", CompleteKYC(userSvc, exposeDetail))
	g.Put("/country", SetCountry(userSvc, exposeDetail))
	g.Put("/notification-preferences", SetPreferences(userSvc, exposeDetail))
	g.Put("/password", ChangePassword(userSvc, exposeDetail))
	g.Delete("/", Delete(userSvc, exposeDetail))
}

// Get returns the authenticated user's record.
func Get(userSvc *usersvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := userSvc.Get(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", fiber.Map{
			"user":              user,
			"profileCompletion": user.Completion(),
		})
	}
}

// CompleteProfile stores the personal information block.
func CompleteProfile(userSvc *usersvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ProfileRequest](c)
		if input == nil {
			return err
		}
		user, err := userSvc.CompleteProfile(c.UserContext(), middleware.UserID(c), dto.PersonalInfo{
			FirstName:          input.FirstName,
			LastName:           input.LastName,
			DateOfBirth:        input.DateOfBirth,
			ProfilePicture:     input.ProfilePicture,
			CountryOfResidence: input.CountryOfResidence,
		})
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "profile updated", user)
	}
}

// CompleteAddress stores the address block.
func CompleteAddress(userSvc *usersvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[AddressRequest](c)
		if input == nil {
			return err
		}
		user, err := userSvc.CompleteAddress(c.UserContext(), middleware.UserID(c), dto.Address{
			Country:       input.Country,
			StreetAddress: input.StreetAddress,
			AddressLine2:  input.AddressLine2,
			City:          input.City,
			PostalCode:    input.PostalCode,
			State:         input.State,
		})
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "address updated", user)
	}
}

// CompleteKYC stores the identity documents.
func CompleteKYC(userSvc *usersvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[KYCRequest](c)
		if input == nil {
			return err
		}
		user, err := userSvc.CompleteKYC(c.UserContext(), middleware.UserID(c), dto.KYC{
			DocumentType:   input.DocumentType,
			DocumentNumber: input.DocumentNumber,
			IssuingCity:    input.IssuingCity,
			Nationality:    input.Nationality,
			ExpiryDate:     input.ExpiryDate,
			PassportPhoto:  input.PassportPhoto,
			FrontPhoto:     input.FrontPhoto,
			BackPhoto:      input.BackPhoto,
		})
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "identity documents submitted", user)
	}
}

// SetCountry updates the residence country without touching the rest of the
// profile.
func SetCountry(userSvc *usersvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CountryRequest](c)
		if input == nil {
			return err
		}
		user, err := userSvc.SetCountryOfResidence(c.UserContext(), middleware.UserID(c), input.CountryOfResidence)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "country updated", user)
	}
}

// SetPreferences stores the notification channel toggles.
func SetPreferences(userSvc *usersvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[PreferencesRequest](c)
		if input == nil {
			return err
		}
		user, err := userSvc.SetNotificationPreferences(c.UserContext(), middleware.UserID(c), dto.NotificationPreferences{
			SMS:   input.SMS,
			Email: input.Email,
			Push:  input.Push,
		})
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "preferences updated", user)
	}
}

// ChangePassword replaces the stored password hash.
func ChangePassword(userSvc *usersvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[PasswordRequest](c)
		if input == nil {
			return err
		}
		if err := userSvc.ChangePassword(c.UserContext(), middleware.UserID(c), input.Password); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "password changed", nil)
	}
}

// Delete removes the authenticated user's account.
func Delete(userSvc *usersvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := userSvc.Delete(c.UserContext(), middleware.UserID(c)); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "account deleted", nil)
	}
}
