package card

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/repository"
)

type repo struct {
	db *gorm.DB
}

// New returns a gorm-backed card repository.
func New(db *gorm.DB) repository.CardRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, create *dto.CardCreate) error {
	c := &Card{
		ID:           create.ID,
		UserID:       create.UserID,
		CardType:     string(create.CardType),
		CardNumber:   create.CardNumber,
		ExpiryDate:   create.ExpiryDate,
		CVV:          create.CVV,
		Balance:      create.Balance,
		CardStatus:   string(domain.CardStatusActive),
		Currency:     create.Currency,
		CardName:     create.CardName,
		IsDefault:    create.IsDefault,
		DailyLimit:   create.Limits.DailyLimit,
		MonthlyLimit: create.Limits.MonthlyLimit,
	}
	return mapError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*dto.CardRead, error) {
	var c Card
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return mapModelToDTO(&c), nil
}

func (r *repo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*dto.CardRead, error) {
	var c Card
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, mapError(err)
	}
	return mapModelToDTO(&c), nil
}

func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CardRead, error) {
	var cards []Card
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cards).Error
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]*dto.CardRead, 0, len(cards))
	for i := range cards {
		out = append(out, mapModelToDTO(&cards[i]))
	}
	return out, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cu *dto.CardUpdate) error {
	updates := make(map[string]any)
	if cu.CardName != nil {
		updates["card_name"] = *cu.CardName
	}
	if cu.IsFrozen != nil {
		updates["is_frozen"] = *cu.IsFrozen
	}
	if cu.IsDefault != nil {
		updates["is_default"] = *cu.IsDefault
	}
	if cu.CardStatus != nil {
		updates["card_status"] = string(*cu.CardStatus)
	}
	if cu.Limits != nil {
		updates["daily_limit"] = cu.Limits.DailyLimit
		updates["monthly_limit"] = cu.Limits.MonthlyLimit
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Card{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) UnsetDefaultExcept(ctx context.Context, userID, exceptID uuid.UUID) error {
	return mapError(r.db.WithContext(ctx).Model(&Card{}).
		Where("user_id = ? AND id <> ?", userID, exceptID).
		Update("is_default", false).Error)
}

// AdjustBalance issues a single store-side increment so concurrent ledger
// writes against the same card serialize on the row instead of racing a
// read-modify-write. Guarded debits carry a balance check in the WHERE
// clause; a guarded update touching no row means the funds were not there.
func (r *repo) AdjustBalance(ctx context.Context, id uuid.UUID, delta float64, requireFunds bool) (float64, error) {
	guarded := requireFunds && delta < 0
	tx := r.db.WithContext(ctx).Model(&Card{}).Where("id = ?", id)
	if guarded {
		tx = tx.Where("balance >= ?", -delta)
	}
	res := tx.Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		if guarded {
			return 0, domain.ErrInsufficientBalance
		}
		return 0, domain.ErrNotFound
	}
	var balance float64
	err := r.db.WithContext(ctx).Model(&Card{}).
		Where("id = ?", id).
		Pluck("balance", &balance).Error
	if err != nil {
		return 0, mapError(err)
	}
	return balance, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	return mapError(r.db.WithContext(ctx).Delete(&Card{}, "id = ?", id).Error)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		switch {
		case errors.Is(cur, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(cur, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		}
	}
	return err
}

func mapModelToDTO(c *Card) *dto.CardRead {
	return &dto.CardRead{
		ID:         c.ID,
		UserID:     c.UserID,
		CardType:   domain.CardType(c.CardType),
		CardNumber: c.CardNumber,
		ExpiryDate: c.ExpiryDate,
		Balance:    c.Balance,
		IsFrozen:   c.IsFrozen,
		CardStatus: domain.CardStatus(c.CardStatus),
		Currency:   c.Currency,
		CardName:   c.CardName,
		IsDefault:  c.IsDefault,
		Limits: dto.CardLimits{
			DailyLimit:   c.DailyLimit,
			MonthlyLimit: c.MonthlyLimit,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
