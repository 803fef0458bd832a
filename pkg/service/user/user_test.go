package user_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazemdiab/ebanking/internal/fixtures"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/service/user"
	"github.com/hazemdiab/ebanking/pkg/utils"
)

func newService(uow *fixtures.MemoryUoW) *user.Service {
	return user.New(uow, slog.Default())
}

func registerInput() user.RegisterInput {
	return user.RegisterInput{
		Username:  "jdoe",
		Phone:     "+15550001111",
		Email:     "jdoe@example.com",
		Password:  "Sup3rSecret!",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)

	got, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.Equal(t, "jdoe", got.Username)
	assert.Equal(t, "Jane Doe", got.FullName())
	assert.False(t, got.EmailVerified)

	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "Sup3rSecret!", got.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("Sup3rSecret!", got.PasswordHash))
}

func TestRegisterDerivesUsernameFromEmail(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)

	in := registerInput()
	in.Username = ""
	got, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", got.Username)
}

func TestRegisterPasswordPolicy(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)

	for _, password := range []string{"short1A!", "alllowercase1!", "ALLUPPERCASE1!", "NoDigitsHere!", "NoSpecial123"} {
		in := registerInput()
		in.Password = password
		_, err := svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation, password)
	}
}

func TestRegisterConflictNamesField(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Username = "other"
	dup.Phone = "+15550002222"
	_, err = svc.Register(ctx, dup)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "email")

	dup = registerInput()
	dup.Username = "other"
	dup.Email = "other@example.com"
	_, err = svc.Register(ctx, dup)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "phone")

	dup = registerInput()
	dup.Email = "other@example.com"
	dup.Phone = "+15550002222"
	_, err = svc.Register(ctx, dup)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "username")
}

func TestProfileCompletionStages(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	ctx := context.Background()

	in := registerInput()
	in.FirstName = ""
	in.LastName = ""
	registered, err := svc.Register(ctx, in)
	require.NoError(t, err)

	completion := registered.Completion()
	assert.False(t, completion.PersonalInformation)
	assert.False(t, completion.AddressInformation)
	assert.False(t, completion.IdentityVerification)

	got, err := svc.CompleteProfile(ctx, registered.ID, dto.PersonalInfo{
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.True(t, got.Completion().PersonalInformation)

	got, err = svc.CompleteAddress(ctx, registered.ID, dto.Address{
		Country:       "US",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		PostalCode:    "12345",
	})
	require.NoError(t, err)
	assert.True(t, got.Completion().AddressInformation)

	got, err = svc.CompleteKYC(ctx, registered.ID, dto.KYC{
		DocumentType:   string(domain.DocumentPassport),
		DocumentNumber: "P1234567",
	})
	require.NoError(t, err)
	assert.True(t, got.Completion().IdentityVerification)
}

func TestSetCountryOfResidenceKeepsProfile(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	got, err := svc.SetCountryOfResidence(ctx, registered.ID, "PT")
	require.NoError(t, err)
	assert.Equal(t, "PT", got.PersonalInfo.CountryOfResidence)
	assert.Equal(t, "Jane", got.PersonalInfo.FirstName)
	assert.Equal(t, "Doe", got.PersonalInfo.LastName)
}

func TestSetNotificationPreferences(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	got, err := svc.SetNotificationPreferences(ctx, registered.ID, dto.NotificationPreferences{
		Email: true,
		Push:  true,
	})
	require.NoError(t, err)
	assert.True(t, got.NotificationPreferences.Email)
	assert.True(t, got.NotificationPreferences.Push)
	assert.False(t, got.NotificationPreferences.SMS)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, registered.ID, "weak"), domain.ErrValidation)
	require.NoError(t, svc.ChangePassword(ctx, registered.ID, "N3wSecret!"))

	stored, err := svc.Get(ctx, registered.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("N3wSecret!", stored.PasswordHash))
}

func TestDelete(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, registered.ID))
	_, err = svc.Get(ctx, registered.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
