// Package card implements card issuance and management. A user holds at most
// one default card; every write that sets the default flag clears it on the
// user's other cards inside the same transaction.
package card

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/infra/cache"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/repository"
	"github.com/hazemdiab/ebanking/pkg/utils"
)

// expiryYears is how far in the future issued cards expire.
const expiryYears = 4

// Service manages cards.
type Service struct {
	uow    repository.UnitOfWork
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates a card service.
func New(uow repository.UnitOfWork, c *cache.Cache, logger *slog.Logger) *Service {
	return &Service{uow: uow, cache: c, logger: logger}
}

// CreateInput carries the client-supplied fields for a new card. Number, CVV
// and expiry are generated server side.
type CreateInput struct {
	CardType  domain.CardType
	CardName  string
	Currency  string
	IsDefault bool
	Limits    dto.CardLimits
}

// Create issues a new card for the user. The first card a user creates
// becomes the default automatically.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*dto.CardRead, error) {
	log := s.logger.With("handler", "Create", "user_id", userID)

	if !in.CardType.Valid() {
		return nil, fmt.Errorf("%w: unknown card type %q", domain.ErrValidation, in.CardType)
	}
	currency := in.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	id := uuid.New()
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.CardRepository()
		existing, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		isDefault := in.IsDefault || len(existing) == 0
		create := &dto.CardCreate{
			ID:         id,
			UserID:     userID,
			CardType:   in.CardType,
			CardNumber: utils.GenerateCardNumber(),
			ExpiryDate: time.Now().AddDate(expiryYears, 0, 0),
			CVV:        utils.GenerateCVV(),
			Currency:   currency,
			CardName:   in.CardName,
			IsDefault:  isDefault,
			Limits:     in.Limits,
		}
		if err := repo.Create(ctx, create); err != nil {
			return err
		}
		if isDefault {
			return repo.UnsetDefaultExcept(ctx, userID, id)
		}
		return nil
	})
	if err != nil {
		log.Error("card create failed", "error", err)
		return nil, err
	}

	s.invalidate(ctx, userID)
	log.Info("card created", "card_id", id)
	return s.uow.CardRepository().Get(ctx, id)
}

// Get returns the user's card by id.
func (s *Service) Get(ctx context.Context, userID, cardID uuid.UUID) (*dto.CardRead, error) {
	return s.uow.CardRepository().GetForUser(ctx, cardID, userID)
}

// List returns all of the user's cards, cached per user.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*dto.CardRead, error) {
	key := listKey(userID)
	var cached []*dto.CardRead
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}
	cards, err := s.uow.CardRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, cards)
	return cards, nil
}

// Update edits the card's name, limits, frozen state, status or default
// flag. Promoting a card to default demotes the rest atomically.
func (s *Service) Update(ctx context.Context, userID, cardID uuid.UUID, update *dto.CardUpdate) (*dto.CardRead, error) {
	log := s.logger.With("handler", "Update", "user_id", userID, "card_id", cardID)

	if update.CardStatus != nil && !update.CardStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown card status %q", domain.ErrValidation, *update.CardStatus)
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.CardRepository()
		if _, err := repo.GetForUser(ctx, cardID, userID); err != nil {
			return err
		}
		if err := repo.Update(ctx, cardID, update); err != nil {
			return err
		}
		if update.IsDefault != nil && *update.IsDefault {
			return repo.UnsetDefaultExcept(ctx, userID, cardID)
		}
		return nil
	})
	if err != nil {
		log.Error("card update failed", "error", err)
		return nil, err
	}

	s.invalidate(ctx, userID)
	return s.uow.CardRepository().Get(ctx, cardID)
}

// Freeze blocks the card from the ledger write path.
func (s *Service) Freeze(ctx context.Context, userID, cardID uuid.UUID) (*dto.CardRead, error) {
	frozen := true
	return s.Update(ctx, userID, cardID, &dto.CardUpdate{IsFrozen: &frozen})
}

// Unfreeze lifts the freeze.
func (s *Service) Unfreeze(ctx context.Context, userID, cardID uuid.UUID) (*dto.CardRead, error) {
	frozen := false
	return s.Update(ctx, userID, cardID, &dto.CardUpdate{IsFrozen: &frozen})
}

// Delete removes the card.
func (s *Service) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	log := s.logger.With("handler", "Delete", "user_id", userID, "card_id", cardID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.CardRepository()
		if _, err := repo.GetForUser(ctx, cardID, userID); err != nil {
			return err
		}
		return repo.Delete(ctx, cardID)
	})
	if err != nil {
		log.Error("card delete failed", "error", err)
		return err
	}
	s.invalidate(ctx, userID)
	log.Info("card deleted")
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	_ = s.cache.Delete(ctx, listKey(userID))
}

func listKey(userID uuid.UUID) string {
	return "cards:" + userID.String()
}
