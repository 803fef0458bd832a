// Package auth implements credential checks and session token issuance.
// Sessions are stateless HS256 JWTs: a 24 hour access token plus a 7 day
// refresh token carrying a "type":"refresh" claim.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/repository"
	"github.com/hazemdiab/ebanking/pkg/utils"
)

// dummyHash keeps password verification constant time when the identifier
// does not resolve to a user.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0q1U0p0FNeiuQGoWmCVZ1aP9mWe"

// Tokens is an issued session pair.
type Tokens struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Service authenticates users and manages session tokens.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates an auth service.
func New(uow repository.UnitOfWork, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login verifies the identifier (username, email or phone) and password and
// returns a fresh token pair. The access token is also persisted on the user
// row so /me style reads can show the active session.
func (s *Service) Login(ctx context.Context, identifier, password string) (*dto.UserRead, *Tokens, error) {
	log := s.logger.With("handler", "Login")

	user, err := s.uow.UserRepository().GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a bcrypt comparison so missing users cost the same as
			// wrong passwords.
			utils.CheckPasswordHash(password, dummyHash)
			return nil, nil, domain.ErrInvalidCredentials
		}
		log.Error("user lookup failed", "error", err)
		return nil, nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.IssueTokens(user)
	if err != nil {
		log.Error("token issue failed", "error", err)
		return nil, nil, err
	}
	if err := s.uow.UserRepository().SetToken(ctx, user.ID, &tokens.AccessToken); err != nil {
		log.Error("token persist failed", "error", err)
		return nil, nil, err
	}
	user.Token = &tokens.AccessToken

	log.Info("user logged in", "user_id", user.ID)
	return user, tokens, nil
}

// Refresh validates a refresh token and issues a new pair. Only the token
// signature and type claim are checked; refresh tokens are not persisted, so
// logout does not revoke them.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*dto.UserRead, *Tokens, error) {
	log := s.logger.With("handler", "Refresh")

	claims, err := s.parse(refreshToken)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return nil, nil, fmt.Errorf("%w: not a refresh token", domain.ErrUnauthorized)
	}
	userID, err := UserIDFromClaims(claims)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}

	user, err := s.uow.UserRepository().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		log.Error("user lookup failed", "error", err)
		return nil, nil, err
	}

	tokens, err := s.IssueTokens(user)
	if err != nil {
		log.Error("token issue failed", "error", err)
		return nil, nil, err
	}
	if err := s.uow.UserRepository().SetToken(ctx, user.ID, &tokens.AccessToken); err != nil {
		log.Error("token persist failed", "error", err)
		return nil, nil, err
	}
	user.Token = &tokens.AccessToken

	log.Info("session refreshed", "user_id", user.ID)
	return user, tokens, nil
}

// Logout clears the persisted token. Already-issued JWTs stay valid until
// expiry since nothing server side tracks them.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	log := s.logger.With("handler", "Logout", "user_id", userID)
	if err := s.uow.UserRepository().SetToken(ctx, userID, nil); err != nil {
		log.Error("token clear failed", "error", err)
		return err
	}
	log.Info("user logged out")
	return nil
}

// IssueTokens signs a new access and refresh token pair for the user.
func (s *Service) IssueTokens(user *dto.UserRead) (*Tokens, error) {
	now := time.Now()
	access, err := s.sign(jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.Expiry).Unix(),
	})
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(jwt.MapClaims{
		"user_id": user.ID.String(),
		"type":    "refresh",
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.RefreshExpiry).Unix(),
	})
	if err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *Service) parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// UserIDFromClaims extracts the user_id claim as a UUID.
func UserIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, _ := claims["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad user_id claim", domain.ErrUnauthorized)
	}
	return id, nil
}
