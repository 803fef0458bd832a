package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/repository"
)

// GenericRepo is the gorm implementation of repository.Generic, used by the
// peripheral resources whose handlers are plain store pass-throughs.
type GenericRepo[T any] struct {
	db *gorm.DB
}

// NewGeneric creates a generic repository for the entity type T.
func NewGeneric[T any](db *gorm.DB) repository.Generic[T] {
	return &GenericRepo[T]{db: db}
}

func (r *GenericRepo[T]) Create(ctx context.Context, entity *T) error {
	return mapGenericError(r.db.WithContext(ctx).Create(entity).Error)
}

func (r *GenericRepo[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, mapGenericError(err)
	}
	return &entity, nil
}

func (r *GenericRepo[T]) Update(ctx context.Context, entity *T) error {
	return mapGenericError(r.db.WithContext(ctx).Save(entity).Error)
}

func (r *GenericRepo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var entity T
	res := r.db.WithContext(ctx).Delete(&entity, "id = ?", id)
	if res.Error != nil {
		return mapGenericError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GenericRepo[T]) List(ctx context.Context) ([]*T, error) {
	var entities []*T
	if err := r.db.WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, mapGenericError(err)
	}
	return entities, nil
}

func (r *GenericRepo[T]) FindBy(ctx context.Context, query any, args ...any) ([]*T, error) {
	var entities []*T
	if err := r.db.WithContext(ctx).Where(query, args...).Find(&entities).Error; err != nil {
		return nil, mapGenericError(err)
	}
	return entities, nil
}

func (r *GenericRepo[T]) FindOneBy(ctx context.Context, query any, args ...any) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where(query, args...).First(&entity).Error; err != nil {
		return nil, mapGenericError(err)
	}
	return &entity, nil
}

func mapGenericError(err error) error {
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
