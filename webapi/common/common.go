// Package common holds the response envelope, error translation and request
// binding shared by every handler package.
package common

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hazemdiab/ebanking/pkg/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Response is the envelope wrapping every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessResponseJSON writes a success envelope with the given payload.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

// ErrorResponseJSON writes a failure envelope. Internal errors are reported
// as a generic message unless exposeDetail is set.
func ErrorResponseJSON(c *fiber.Ctx, err error, exposeDetail bool) error {
	status := ErrorToStatusCode(err)
	detail := err.Error()
	if status == fiber.StatusInternalServerError && !exposeDetail {
		detail = "internal server error"
	}
	return c.Status(status).JSON(Response{Success: false, Error: detail})
}

// ErrorToStatusCode maps domain errors onto HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNoPendingCode),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeMismatch),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrCardFrozen),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body into T and validates it. On
// failure the error response is already written; callers check the pointer.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fmt.Errorf("%w: invalid request body", domain.ErrValidation), false)
	}
	if err := validate.Struct(&input); err != nil {
		return nil, ErrorResponseJSON(c, fmt.Errorf("%w: %s", domain.ErrValidation, err), false)
	}
	return &input, nil
}
