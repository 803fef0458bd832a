package repository

import (
	"context"

	"github.com/google/uuid"
)

// Generic provides type-safe CRUD for the peripheral resources whose
// handlers are plain pass-throughs to the store.
type Generic[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context) ([]*T, error)
	FindBy(ctx context.Context, query any, args ...any) ([]*T, error)
	FindOneBy(ctx context.Context, query any, args ...any) (*T, error)
}
