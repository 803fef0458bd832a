package middleware_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazemdiab/ebanking/internal/fixtures"
	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/middleware"
)

var testJwt = config.Jwt{Secret: "test-secret", Expiry: time.Hour}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func accessClaims(userID uuid.UUID, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     exp.Unix(),
	}
}

func newApp(uow *fixtures.MemoryUoW) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		middleware.Protected(testJwt),
		middleware.LoadUser(uow, slog.Default()),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"userId": middleware.UserID(c).String()})
		})
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestMissingToken(t *testing.T) {
	t.Parallel()
	app := newApp(fixtures.NewMemoryUoW())

	resp, body := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "missing or malformed token")
}

func TestInvalidSignature(t *testing.T) {
	t.Parallel()
	app := newApp(fixtures.NewMemoryUoW())
	token := signToken(t, "wrong-secret", accessClaims(uuid.New(), time.Now().Add(time.Hour)))

	resp, body := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "invalid token")
}

func TestExpiredToken(t *testing.T) {
	t.Parallel()
	app := newApp(fixtures.NewMemoryUoW())
	token := signToken(t, testJwt.Secret, accessClaims(uuid.New(), time.Now().Add(-time.Hour)))

	resp, body := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "token expired")
	assert.NotContains(t, string(body), "invalid")
}

func TestValidTokenLoadsUser(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := dto.UserRead{ID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com"}
	uow.SeedUser(user)
	app := newApp(uow)
	token := signToken(t, testJwt.Secret, accessClaims(user.ID, time.Now().Add(time.Hour)))

	resp, body := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, user.ID.String(), payload["userId"])
}

func TestTokenForDeletedUser(t *testing.T) {
	t.Parallel()
	app := newApp(fixtures.NewMemoryUoW())
	token := signToken(t, testJwt.Secret, accessClaims(uuid.New(), time.Now().Add(time.Hour)))

	resp, _ := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRefreshTokenRejectedOnProtectedRoute(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := dto.UserRead{ID: uuid.New(), Username: "jdoe"}
	uow.SeedUser(user)
	app := newApp(uow)

	claims := accessClaims(user.ID, time.Now().Add(time.Hour))
	claims["type"] = "refresh"
	token := signToken(t, testJwt.Secret, claims)

	resp, _ := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBadUserIDClaim(t *testing.T) {
	t.Parallel()
	app := newApp(fixtures.NewMemoryUoW())
	token := signToken(t, testJwt.Secret, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	resp, _ := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
