package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/repository"
)

// sortColumns whitelists caller-chosen sort fields.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"amount":    "amount",
	"type":      "type",
	"status":    "status",
	"category":  "category",
}

type repo struct {
	db *gorm.DB
}

// New returns a gorm-backed transaction repository.
func New(db *gorm.DB) repository.TransactionRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, create *dto.TransactionCreate) error {
	t := &Transaction{
		ID:          create.ID,
		UserID:      create.UserID,
		CardID:      create.CardID,
		Type:        string(create.Type),
		Amount:      create.Amount,
		Currency:    create.Currency,
		Status:      string(create.Status),
		Description: create.Description,
		Reference:   create.Reference,
		FromAccount: create.FromAccount,
		ToAccount:   create.ToAccount,
		Fees:        create.Fees,
		Category:    string(create.Category),
		Location:    create.Location,
	}
	if len(create.Metadata) > 0 {
		raw, err := json.Marshal(create.Metadata)
		if err != nil {
			return err
		}
		t.Metadata = string(raw)
	}
	return mapError(r.db.WithContext(ctx).Create(t).Error)
}

func (r *repo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*dto.TransactionRead, error) {
	var t Transaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, mapError(err)
	}
	return mapModelToDTO(&t), nil
}

func (r *repo) List(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*dto.TransactionRead, int64, error) {
	q := r.db.WithContext(ctx).Model(&Transaction{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		q = q.Where("type = ?", string(*filter.Type))
	}
	if filter.Category != nil {
		q = q.Where("category = ?", string(*filter.Category))
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var rows []Transaction
	err := q.Order(column + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, mapError(err)
	}
	out := make([]*dto.TransactionRead, 0, len(rows))
	for i := range rows {
		out = append(out, mapModelToDTO(&rows[i]))
	}
	return out, total, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, tu *dto.TransactionUpdate) error {
	updates := make(map[string]any)
	if tu.Status != nil {
		updates["status"] = string(*tu.Status)
	}
	if tu.Description != nil {
		updates["description"] = *tu.Description
	}
	if tu.Category != nil {
		updates["category"] = string(*tu.Category)
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Transaction{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) SetBalanceAfter(ctx context.Context, id uuid.UUID, balance float64) error {
	return mapError(r.db.WithContext(ctx).Model(&Transaction{}).
		Where("id = ?", id).
		Update("balance_after", balance).Error)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	return mapError(r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id).Error)
}

func (r *repo) Stats(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*dto.TransactionStats, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&Transaction{}).Where("user_id = ?", userID)
		if start != nil {
			q = q.Where("created_at >= ?", *start)
		}
		if end != nil {
			q = q.Where("created_at <= ?", *end)
		}
		return q
	}

	type row struct {
		Key         string
		Count       int64
		TotalAmount float64
	}

	group := func(column string) ([]dto.StatBucket, error) {
		var rows []row
		err := base().
			Select(column + " AS key, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return nil, mapError(err)
		}
		buckets := make([]dto.StatBucket, 0, len(rows))
		for _, b := range rows {
			buckets = append(buckets, dto.StatBucket{Key: b.Key, Count: b.Count, TotalAmount: b.TotalAmount})
		}
		return buckets, nil
	}

	byStatus, err := group("status")
	if err != nil {
		return nil, err
	}
	byType, err := group("type")
	if err != nil {
		return nil, err
	}
	return &dto.TransactionStats{ByStatus: byStatus, ByType: byType}, nil
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

func mapModelToDTO(t *Transaction) *dto.TransactionRead {
	read := &dto.TransactionRead{
		ID:           t.ID,
		UserID:       t.UserID,
		CardID:       t.CardID,
		Type:         domain.TransactionType(t.Type),
		Amount:       t.Amount,
		Currency:     t.Currency,
		Status:       domain.TransactionStatus(t.Status),
		Description:  t.Description,
		Reference:    t.Reference,
		FromAccount:  t.FromAccount,
		ToAccount:    t.ToAccount,
		BalanceAfter: t.BalanceAfter,
		Fees:         t.Fees,
		Category:     domain.TransactionCategory(t.Category),
		Location:     t.Location,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.Metadata != "" {
		_ = json.Unmarshal([]byte(t.Metadata), &read.Metadata)
	}
	return read
}
