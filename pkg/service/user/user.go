// Package user implements account registration and profile management.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/repository"
	"github.com/hazemdiab/ebanking/pkg/utils"
)

// Service manages user accounts and profiles.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// RegisterInput carries the fields accepted at signup. Username may be
// empty; it then falls back to the email local part.
type RegisterInput struct {
	Username  string
	Phone     string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new account. Username, email and phone must each be
// unique; a conflict reports which field collided.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*dto.UserRead, error) {
	if in.Username == "" {
		in.Username, _, _ = strings.Cut(in.Email, "@")
	}
	log := s.logger.With("handler", "Register", "username", in.Username)

	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		log.Error("password hash failed", "error", err)
		return nil, err
	}

	create := &dto.UserCreate{
		ID:           uuid.New(),
		Username:     in.Username,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		PersonalInfo: dto.PersonalInfo{FirstName: in.FirstName, LastName: in.LastName},
	}
	if err := s.uow.UserRepository().Create(ctx, create); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s already in use", domain.ErrAlreadyExists, s.conflictField(ctx, in))
		}
		log.Error("user create failed", "error", err)
		return nil, err
	}

	user, err := s.uow.UserRepository().Get(ctx, create.ID)
	if err != nil {
		log.Error("user readback failed", "error", err)
		return nil, err
	}
	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// conflictField names the unique column behind a duplicate key error so the
// client can highlight the right input.
func (s *Service) conflictField(ctx context.Context, in RegisterInput) string {
	repo := s.uow.UserRepository()
	if _, err := repo.GetByEmail(ctx, in.Email); err == nil {
		return "email"
	}
	if _, err := repo.GetByPhone(ctx, in.Phone); err == nil {
		return "phone"
	}
	return "username"
}

// Get returns the user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	return s.uow.UserRepository().Get(ctx, id)
}

// Update applies a partial update and returns the fresh record.
func (s *Service) Update(ctx context.Context, id uuid.UUID, update *dto.UserUpdate) (*dto.UserRead, error) {
	log := s.logger.With("handler", "Update", "user_id", id)
	if err := s.uow.UserRepository().Update(ctx, id, update); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error("user update failed", "error", err)
		}
		return nil, err
	}
	return s.uow.UserRepository().Get(ctx, id)
}

// ChangePassword validates the new password against the policy and stores
// its hash.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, password string) error {
	log := s.logger.With("handler", "ChangePassword", "user_id", id)
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Error("password hash failed", "error", err)
		return err
	}
	return s.uow.UserRepository().Update(ctx, id, &dto.UserUpdate{PasswordHash: &hash})
}

// CompleteProfile fills in the personal information block.
func (s *Service) CompleteProfile(ctx context.Context, id uuid.UUID, info dto.PersonalInfo) (*dto.UserRead, error) {
	return s.Update(ctx, id, &dto.UserUpdate{PersonalInfo: &info})
}

// CompleteAddress fills in the address block.
func (s *Service) CompleteAddress(ctx context.Context, id uuid.UUID, addr dto.Address) (*dto.UserRead, error) {
	return s.Update(ctx, id, &dto.UserUpdate{Address: &addr})
}

// CompleteKYC records the submitted identity documents.
func (s *Service) CompleteKYC(ctx context.Context, id uuid.UUID, kyc dto.KYC) (*dto.UserRead, error) {
	return s.Update(ctx, id, &dto.UserUpdate{KYC: &kyc})
}

// SetCountryOfResidence updates the residence country while keeping the rest
// of the personal information block intact.
func (s *Service) SetCountryOfResidence(ctx context.Context, id uuid.UUID, country string) (*dto.UserRead, error) {
	user, err := s.uow.UserRepository().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	info := user.PersonalInfo
	info.CountryOfResidence = country
	return s.Update(ctx, id, &dto.UserUpdate{PersonalInfo: &info})
}

// SetNotificationPreferences toggles the delivery channels.
func (s *Service) SetNotificationPreferences(ctx context.Context, id uuid.UUID, prefs dto.NotificationPreferences) (*dto.UserRead, error) {
	return s.Update(ctx, id, &dto.UserUpdate{NotificationPreferences: &prefs})
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With("handler", "Delete", "user_id", id)
	if err := s.uow.UserRepository().Delete(ctx, id); err != nil {
		log.Error("user delete failed", "error", err)
		return err
	}
	log.Info("user deleted")
	return nil
}

// validatePassword enforces the signup password policy: at least 8
// characters with an upper case letter, a lower case letter, a digit and a
// special character.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return fmt.Errorf("%w: password needs an upper case letter, a lower case letter, a digit and a special character", domain.ErrValidation)
	}
	return nil
}
