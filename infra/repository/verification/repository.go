package verification

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

// New returns a gorm-backed verification repository.
func New(db *gorm.DB) repository.VerificationRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, create *dto.VerificationCreate) error {
	v := &Verification{
		ID:        create.ID,
		UserID:    create.UserID,
		Channel:   string(create.Channel),
		Code:      create.Code,
		ExpiresAt: create.ExpiresAt,
	}
	return mapError(r.db.WithContext(ctx).Create(v).Error)
}

func (r *repo) Get(ctx context.Context, userID uuid.UUID, channel domain.Channel) (*dto.VerificationRead, error) {
	var v Verification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND channel = ?", userID, string(channel)).
		First(&v).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &dto.VerificationRead{
		ID:        v.ID,
		UserID:    v.UserID,
		Channel:   domain.Channel(v.Channel),
		Code:      v.Code,
		ExpiresAt: v.ExpiresAt,
		CreatedAt: v.CreatedAt,
	}, nil
}

func (r *repo) DeleteForChannel(ctx context.Context, userID uuid.UUID, channel domain.Channel) error {
	return mapError(r.db.WithContext(ctx).
		Where("user_id = ? AND channel = ?", userID, string(channel)).
		Delete(&Verification{}).Error)
}

// ConsumeCode is the atomic compare-and-delete: the DELETE matches on the
// code itself, so of two racing verifies only one sees a row removed.
func (r *repo) ConsumeCode(ctx context.Context, userID uuid.UUID, channel domain.Channel, code string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND channel = ? AND code = ?", userID, string(channel), code).
		Delete(&Verification{})
	if res.Error != nil {
		return false, mapError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	return mapError(r.db.WithContext(ctx).Delete(&Verification{}, "id = ?", id).Error)
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
