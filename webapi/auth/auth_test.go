package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infranotifier "github.com/hazemdiab/ebanking/infra/notifier"
	"github.com/hazemdiab/ebanking/internal/fixtures"
	"github.com/hazemdiab/ebanking/pkg/app"
	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/webapi"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func testConfig() *config.App {
	return &config.App{
		Env: "development",
		Jwt: config.Jwt{
			Secret:        "test-secret",
			Expiry:        24 * time.Hour,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
		RateLimit: config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}
}

func newTestApp(uow *fixtures.MemoryUoW) *fiber.App {
	logger := slog.Default()
	deps := &app.Deps{
		Uow:      uow,
		Notifier: infranotifier.NewLog(logger),
		Logger:   logger,
	}
	return webapi.SetupApp(app.New(deps, testConfig()))
}

func doJSON(t *testing.T, fa *fiber.App, method, path, token string, payload any) (*http.Response, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := fa.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

func registerPayload() fiber.Map {
	return fiber.Map{
		"username":  "jdoe",
		"phone":     "+15550001111",
		"email":     "jdoe@example.com",
		"password":  "Sup3rSecret!",
		"firstName": "Jane",
		"lastName":  "Doe",
	}
}

type sessionData struct {
	User struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Email    string    `json:"email"`
	} `json:"user"`
	Tokens struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	} `json:"tokens"`
}

func TestRegisterLoginVerifyFlow(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	fa := newTestApp(uow)

	// Signup responds with a usable session.
	resp, env := doJSON(t, fa, http.MethodPost, "/api/auth/register", "", registerPayload())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	require.True(t, env.Success)

	var registered sessionData
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "jdoe", registered.User.Username)
	require.NotEmpty(t, registered.Tokens.Token)

	// Login with the email identifier.
	resp, env = doJSON(t, fa, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"identifier": "jdoe@example.com",
		"password":   "Sup3rSecret!",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	var session sessionData
	require.NoError(t, json.Unmarshal(env.Data, &session))
	token := session.Tokens.Token
	require.NotEmpty(t, token)
	userID := session.User.ID

	// Request a code, read it from the store, verify it.
	resp, env = doJSON(t, fa, http.MethodPost, "/api/auth/send-otp", token, fiber.Map{"channel": "email"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	pending, err := uow.VerificationRepository().Get(context.Background(), userID, domain.ChannelEmail)
	require.NoError(t, err)

	resp, env = doJSON(t, fa, http.MethodPost, "/api/auth/verify-otp", token, fiber.Map{
		"channel": "email",
		"code":    pending.Code,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	// The verified flag shows up on /me.
	resp, env = doJSON(t, fa, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	var me struct {
		User struct {
			EmailVerified bool `json:"emailVerified"`
		} `json:"user"`
		ProfileCompletion struct {
			PersonalInformation bool `json:"personalInformation"`
		} `json:"profileCompletion"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.True(t, me.User.EmailVerified)
	assert.True(t, me.ProfileCompletion.PersonalInformation)

	// The code was consumed; a second attempt has nothing to check.
	resp, env = doJSON(t, fa, http.MethodPost, "/api/auth/verify-otp", token, fiber.Map{
		"channel": "email",
		"code":    pending.Code,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	fa := newTestApp(uow)

	resp, _ := doJSON(t, fa, http.MethodPost, "/api/auth/register", "", registerPayload())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	dup := registerPayload()
	dup["username"] = "other"
	dup["phone"] = "+15550002222"
	resp, env := doJSON(t, fa, http.MethodPost, "/api/auth/register", "", dup)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Error, "email")
}

func TestRegisterWithoutUsername(t *testing.T) {
	t.Parallel()
	fa := newTestApp(fixtures.NewMemoryUoW())

	resp, env := doJSON(t, fa, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"phone":    "+15550003333",
		"email":    "sam.lee@example.com",
		"password": "Abcd1234!",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)

	var registered sessionData
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "sam.lee", registered.User.Username)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	fa := newTestApp(fixtures.NewMemoryUoW())

	payload := registerPayload()
	payload["email"] = "not-an-email"
	resp, env := doJSON(t, fa, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	fa := newTestApp(uow)

	resp, _ := doJSON(t, fa, http.MethodPost, "/api/auth/register", "", registerPayload())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, fa, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"identifier": "jdoe@example.com",
		"password":   "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestRefreshTokenFlow(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	fa := newTestApp(uow)

	_, env := doJSON(t, fa, http.MethodPost, "/api/auth/register", "", registerPayload())
	var registered sessionData
	require.NoError(t, json.Unmarshal(env.Data, &registered))

	resp, env := doJSON(t, fa, http.MethodPost, "/api/auth/refresh-token", "", fiber.Map{
		"refreshToken": registered.Tokens.RefreshToken,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	var refreshed sessionData
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	assert.NotEmpty(t, refreshed.Tokens.Token)

	// An access token is not accepted for refresh.
	resp, _ = doJSON(t, fa, http.MethodPost, "/api/auth/refresh-token", "", fiber.Map{
		"refreshToken": refreshed.Tokens.Token,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	fa := newTestApp(uow)

	_, env := doJSON(t, fa, http.MethodPost, "/api/auth/register", "", registerPayload())
	var registered sessionData
	require.NoError(t, json.Unmarshal(env.Data, &registered))

	resp, _ := doJSON(t, fa, http.MethodPost, "/api/auth/logout", registered.Tokens.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, err := uow.UserRepository().Get(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Token)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()
	fa := newTestApp(fixtures.NewMemoryUoW())

	resp, env := doJSON(t, fa, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
}
