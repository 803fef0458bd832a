package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazemdiab/ebanking/internal/fixtures"
	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/service/auth"
	"github.com/hazemdiab/ebanking/pkg/utils"
)

var testJwt = config.Jwt{
	Secret:        "test-secret",
	Expiry:        24 * time.Hour,
	RefreshExpiry: 7 * 24 * time.Hour,
}

func seedUser(t *testing.T, uow *fixtures.MemoryUoW, password string) dto.UserRead {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := dto.UserRead{
		ID:           uuid.New(),
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		Phone:        "+15550001111",
		PasswordHash: hash,
	}
	uow.SeedUser(user)
	return user
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(testJwt.Secret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestLoginByEachIdentifier(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	for _, identifier := range []string{user.Username, user.Email, user.Phone} {
		got, tokens, err := svc.Login(context.Background(), identifier, "Sup3rSecret!")
		require.NoError(t, err, identifier)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	}
}

func TestLoginPersistsToken(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	_, tokens, err := svc.Login(context.Background(), user.Email, "Sup3rSecret!")
	require.NoError(t, err)

	stored, err := uow.UserRepository().Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Token)
	assert.Equal(t, tokens.AccessToken, *stored.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	_, _, err := svc.Login(context.Background(), user.Email, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownIdentifier(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	// Same error for unknown users as for wrong passwords.
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "Sup3rSecret!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAccessTokenClaims(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	_, tokens, err := svc.Login(context.Background(), user.Email, "Sup3rSecret!")
	require.NoError(t, err)

	claims := parseClaims(t, tokens.AccessToken)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	_, hasType := claims["type"]
	assert.False(t, hasType)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(testJwt.Expiry), exp.Time, time.Minute)
}

func TestRefreshTokenClaims(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	_, tokens, err := svc.Login(context.Background(), user.Email, "Sup3rSecret!")
	require.NoError(t, err)

	claims := parseClaims(t, tokens.RefreshToken)
	assert.Equal(t, "refresh", claims["type"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(testJwt.RefreshExpiry), exp.Time, time.Minute)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	_, tokens, err := svc.Login(context.Background(), user.Email, "Sup3rSecret!")
	require.NoError(t, err)

	got, fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	_, tokens, err := svc.Login(context.Background(), user.Email, "Sup3rSecret!")
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := auth.New(uow, testJwt, slog.Default())

	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshForDeletedUser(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	_, tokens, err := svc.Login(context.Background(), user.Email, "Sup3rSecret!")
	require.NoError(t, err)

	require.NoError(t, uow.UserRepository().Delete(context.Background(), user.ID))

	_, _, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogoutClearsToken(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(t, uow, "Sup3rSecret!")
	svc := auth.New(uow, testJwt, slog.Default())

	_, _, err := svc.Login(context.Background(), user.Email, "Sup3rSecret!")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), user.ID))

	stored, err := uow.UserRepository().Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Token)
}
