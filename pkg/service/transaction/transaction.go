// Package transaction implements the ledger write path and transaction
// queries. Creating a card-bound transaction adjusts the card balance and
// stamps the resulting balance onto the entry inside one database
// transaction, so the ledger and the card never drift apart.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/infra/cache"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/repository"
	"github.com/hazemdiab/ebanking/pkg/utils"
)

// Service manages ledger entries.
type Service struct {
	uow    repository.UnitOfWork
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates a transaction service.
func New(uow repository.UnitOfWork, c *cache.Cache, logger *slog.Logger) *Service {
	return &Service{uow: uow, cache: c, logger: logger}
}

// CreateInput carries the client-supplied fields for a new ledger entry.
// Status is not part of it: every transaction starts out pending.
type CreateInput struct {
	CardID      *uuid.UUID
	Type        domain.TransactionType
	Amount      float64
	Currency    string
	Description string
	FromAccount string
	ToAccount   string
	Fees        float64
	Category    domain.TransactionCategory
	Location    string
	Metadata    map[string]string
}

// Create records a new transaction in pending state. When a card is bound,
// credits raise and debits lower its balance atomically with the insert; a
// withdrawal or payment the balance cannot cover fails with
// ErrInsufficientBalance and writes nothing.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*dto.TransactionRead, error) {
	log := s.logger.With("handler", "Create", "user_id", userID, "type", in.Type)

	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrValidation, in.Type)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if in.Fees < 0 {
		return nil, fmt.Errorf("%w: fees cannot be negative", domain.ErrValidation)
	}
	category := in.Category
	if category == "" {
		category = domain.CategoryOther
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}
	currency := in.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	description := in.Description
	if description == "" {
		name := string(in.Type)
		description = strings.ToUpper(name[:1]) + name[1:] + " transaction"
	}

	id := uuid.New()
	create := &dto.TransactionCreate{
		ID:          id,
		UserID:      userID,
		CardID:      in.CardID,
		Type:        in.Type,
		Amount:      in.Amount,
		Currency:    currency,
		Status:      domain.StatusPending,
		Description: description,
		Reference:   utils.GenerateReference(),
		FromAccount: in.FromAccount,
		ToAccount:   in.ToAccount,
		Fees:        in.Fees,
		Category:    category,
		Location:    in.Location,
		Metadata:    in.Metadata,
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo := uow.TransactionRepository()
		if in.CardID == nil {
			return txRepo.Create(ctx, create)
		}

		cardRepo := uow.CardRepository()
		card, err := cardRepo.GetForUser(ctx, *in.CardID, userID)
		if err != nil {
			return err
		}
		if card.IsFrozen {
			return domain.ErrCardFrozen
		}
		if err := txRepo.Create(ctx, create); err != nil {
			return err
		}

		delta := balanceDelta(in.Type, in.Amount)
		balance := card.Balance
		if delta != 0 {
			balance, err = cardRepo.AdjustBalance(ctx, card.ID, delta, in.Type.RequiresFunds())
			if err != nil {
				return err
			}
		}
		return txRepo.SetBalanceAfter(ctx, id, balance)
	})
	if err != nil {
		log.Error("transaction create failed", "error", err)
		return nil, err
	}

	s.invalidate(ctx, userID)
	log.Info("transaction recorded", "transaction_id", id)
	return s.uow.TransactionRepository().GetForUser(ctx, id, userID)
}

// balanceDelta maps a transaction onto its card balance effect. Fees are
// recorded on the entry but never applied to the balance. Transfers net to
// zero.
func balanceDelta(t domain.TransactionType, amount float64) float64 {
	switch {
	case t.IsCredit():
		return amount
	case t.IsDebit():
		return -amount
	}
	return 0
}

// Get returns the user's transaction by id.
func (s *Service) Get(ctx context.Context, userID, txID uuid.UUID) (*dto.TransactionRead, error) {
	return s.uow.TransactionRepository().GetForUser(ctx, txID, userID)
}

// List returns one page of the user's transactions plus paging metadata.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter *dto.TransactionFilter) ([]*dto.TransactionRead, *dto.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	type page struct {
		Items      []*dto.TransactionRead `json:"items"`
		Pagination dto.Pagination         `json:"pagination"`
	}
	key := pageKey(userID, filter)
	var cached page
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached.Items, &cached.Pagination, nil
	}

	items, total, err := s.uow.TransactionRepository().List(ctx, userID, *filter)
	if err != nil {
		return nil, nil, err
	}
	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	p := dto.Pagination{
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: filter.Page < totalPages,
		HasPrevPage: filter.Page > 1,
	}

	_ = s.cache.Set(ctx, key, page{Items: items, Pagination: p})
	return items, &p, nil
}

// Update edits the status, description or category of an entry. Balance
// effects are never replayed on update.
func (s *Service) Update(ctx context.Context, userID, txID uuid.UUID, update *dto.TransactionUpdate) (*dto.TransactionRead, error) {
	log := s.logger.With("handler", "Update", "user_id", userID, "transaction_id", txID)

	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *update.Status)
	}
	if update.Category != nil && !update.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *update.Category)
	}

	repo := s.uow.TransactionRepository()
	if _, err := repo.GetForUser(ctx, txID, userID); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, txID, update); err != nil {
		log.Error("transaction update failed", "error", err)
		return nil, err
	}

	s.invalidate(ctx, userID)
	return repo.GetForUser(ctx, txID, userID)
}

// Delete removes an entry. Only pending and failed transactions may go;
// anything settled stays on the ledger.
func (s *Service) Delete(ctx context.Context, userID, txID uuid.UUID) error {
	log := s.logger.With("handler", "Delete", "user_id", userID, "transaction_id", txID)

	repo := s.uow.TransactionRepository()
	tx, err := repo.GetForUser(ctx, txID, userID)
	if err != nil {
		return err
	}
	if !tx.Status.Deletable() {
		return fmt.Errorf("%w: only pending or failed transactions can be deleted", domain.ErrInvalidState)
	}
	if err := repo.Delete(ctx, txID); err != nil {
		log.Error("transaction delete failed", "error", err)
		return err
	}

	s.invalidate(ctx, userID)
	log.Info("transaction deleted")
	return nil
}

// Stats aggregates the user's transactions by status and by type, optionally
// bounded to a date range.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*dto.TransactionStats, error) {
	return s.uow.TransactionRepository().Stats(ctx, userID, start, end)
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	_ = s.cache.DeletePrefix(ctx, "transactions:"+userID.String()+":")
}

func pageKey(userID uuid.UUID, f *dto.TransactionFilter) string {
	status, typ, category := "", "", ""
	if f.Status != nil {
		status = string(*f.Status)
	}
	if f.Type != nil {
		typ = string(*f.Type)
	}
	if f.Category != nil {
		category = string(*f.Category)
	}
	start, end := "", ""
	if f.StartDate != nil {
		start = f.StartDate.Format("2006-01-02")
	}
	if f.EndDate != nil {
		end = f.EndDate.Format("2006-01-02")
	}
	return fmt.Sprintf("transactions:%s:%s|%s|%s|%s|%s|%s|%t|%d|%d",
		userID, status, typ, category, start, end, f.SortBy, f.SortDesc, f.Page, f.Limit)
}
