// Package verification implements the one-time code engine behind email and
// phone verification. Codes live in the verifications table, one pending code
// per user and channel, and expire ten minutes after issue.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/notifier"
	"github.com/hazemdiab/ebanking/pkg/repository"
	"github.com/hazemdiab/ebanking/pkg/utils"
)

// CodeTTL is how long an issued code stays valid.
const CodeTTL = 10 * time.Minute

// CodeLength is the number of digits in an issued code.
const CodeLength = 6

// Service issues and verifies one-time codes.
type Service struct {
	uow      repository.UnitOfWork
	notifier notifier.Notifier
	logger   *slog.Logger
}

// New creates a verification service.
func New(uow repository.UnitOfWork, n notifier.Notifier, logger *slog.Logger) *Service {
	return &Service{uow: uow, notifier: n, logger: logger}
}

// Issue generates a fresh code for the user on the given channel, replacing
// any pending code, and sends it through the notifier. Reissuing always
// invalidates the previous code.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID, channel domain.Channel) error {
	log := s.logger.With("handler", "Issue", "user_id", userID, "channel", channel)

	if !channel.Valid() {
		return fmt.Errorf("%w: unknown channel %q", domain.ErrValidation, channel)
	}

	user, err := s.uow.UserRepository().Get(ctx, userID)
	if err != nil {
		log.Error("user lookup failed", "error", err)
		return err
	}

	code := utils.GenerateOTP(CodeLength)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.VerificationRepository()
		if err := repo.DeleteForChannel(ctx, userID, channel); err != nil {
			return err
		}
		return repo.Create(ctx, &dto.VerificationCreate{
			ID:        uuid.New(),
			UserID:    userID,
			Channel:   channel,
			Code:      code,
			ExpiresAt: time.Now().Add(CodeTTL),
		})
	})
	if err != nil {
		log.Error("code issue failed", "error", err)
		return err
	}

	dest := user.Email
	if channel == domain.ChannelPhone {
		dest = user.Phone
	}
	msg := notifier.Message{
		Destination: dest,
		Subject:     "Your verification code",
		Body:        fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(CodeTTL.Minutes())),
	}
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Send(sendCtx, msg); err != nil {
			log.Error("code delivery failed", "error", err)
		}
	}()

	log.Info("verification code issued")
	return nil
}

// Verify checks a submitted code. On success the code is consumed and the
// channel is marked verified on the user; a code can never succeed twice.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, channel domain.Channel, code string) error {
	log := s.logger.With("handler", "Verify", "user_id", userID, "channel", channel)

	if !channel.Valid() {
		return fmt.Errorf("%w: unknown channel %q", domain.ErrValidation, channel)
	}

	pending, err := s.uow.VerificationRepository().Get(ctx, userID, channel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoPendingCode
		}
		log.Error("pending code lookup failed", "error", err)
		return err
	}
	if pending.Expired(time.Now()) {
		// Expired codes are swept here rather than by a background job. The
		// sweep happens outside the transaction below so the rejection does
		// not roll it back.
		if err := s.uow.VerificationRepository().DeleteForChannel(ctx, userID, channel); err != nil {
			log.Error("expired code sweep failed", "error", err)
		}
		return domain.ErrCodeExpired
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		consumed, err := uow.VerificationRepository().ConsumeCode(ctx, userID, channel, code)
		if err != nil {
			log.Error("code consume failed", "error", err)
			return err
		}
		if !consumed {
			return domain.ErrCodeMismatch
		}
		return uow.UserRepository().SetChannelVerified(ctx, userID, channel)
	})
	if err != nil {
		return err
	}
	log.Info("channel verified")
	return nil
}
