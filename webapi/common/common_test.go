package common_test

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/webapi/common"
)

func TestErrorToStatusCode(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrValidation, fiber.StatusBadRequest},
		{domain.ErrNoPendingCode, fiber.StatusBadRequest},
		{domain.ErrCodeExpired, fiber.StatusBadRequest},
		{domain.ErrCodeMismatch, fiber.StatusBadRequest},
		{domain.ErrInsufficientBalance, fiber.StatusBadRequest},
		{domain.ErrCardFrozen, fiber.StatusBadRequest},
		{domain.ErrInvalidState, fiber.StatusBadRequest},
		{domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{domain.ErrNotFound, fiber.StatusNotFound},
		{domain.ErrAlreadyExists, fiber.StatusBadRequest},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, common.ErrorToStatusCode(tc.err), tc.err)
	}
}

func TestWrappedErrorsKeepTheirStatus(t *testing.T) {
	t.Parallel()
	wrapped := errors.Join(domain.ErrValidation, errors.New("amount must be positive"))
	assert.Equal(t, fiber.StatusBadRequest, common.ErrorToStatusCode(wrapped))
}
