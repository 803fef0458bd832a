// Package repository defines the storage contracts the services depend on.
// Concrete implementations live under infra/repository; tests use the fakes
// in internal/fixtures.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
)

// UserRepository persists account-holder records. OTP/session meta fields
// are mutated only through the dedicated setters, never via Update.
type UserRepository interface {
	Create(ctx context.Context, create *dto.UserCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)
	GetByEmail(ctx context.Context, email string) (*dto.UserRead, error)
	GetByPhone(ctx context.Context, phone string) (*dto.UserRead, error)
	// GetByIdentifier matches either the email or the phone field.
	GetByIdentifier(ctx context.Context, identifier string) (*dto.UserRead, error)
	Update(ctx context.Context, id uuid.UUID, update *dto.UserUpdate) error
	// SetToken stores or clears (nil) the persisted session token.
	SetToken(ctx context.Context, id uuid.UUID, token *string) error
	// SetChannelVerified flips the verified flag for the given channel.
	SetChannelVerified(ctx context.Context, id uuid.UUID, channel domain.Channel) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VerificationRepository is the keyed OTP store: at most one live record per
// (user, channel), enforced by DeleteForChannel before Create.
type VerificationRepository interface {
	Create(ctx context.Context, create *dto.VerificationCreate) error
	Get(ctx context.Context, userID uuid.UUID, channel domain.Channel) (*dto.VerificationRead, error)
	DeleteForChannel(ctx context.Context, userID uuid.UUID, channel domain.Channel) error
	// ConsumeCode atomically deletes the record matching (user, channel,
	// code) and reports whether a row was removed. A concurrent second
	// consumer observes false.
	ConsumeCode(ctx context.Context, userID uuid.UUID, channel domain.Channel, code string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CardRepository persists cards. Balance is mutated only via AdjustBalance.
type CardRepository interface {
	Create(ctx context.Context, create *dto.CardCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.CardRead, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*dto.CardRead, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CardRead, error)
	Update(ctx context.Context, id uuid.UUID, update *dto.CardUpdate) error
	// UnsetDefaultExcept clears the default flag on every card of the user
	// other than the given one.
	UnsetDefaultExcept(ctx context.Context, userID, exceptID uuid.UUID) error
	// AdjustBalance applies delta as a single store-side increment and
	// returns the post-mutation balance. With requireFunds set, a negative
	// delta the balance cannot cover fails with
	// domain.ErrInsufficientBalance instead of overdrawing.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta float64, requireFunds bool) (float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository persists ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, create *dto.TransactionCreate) error
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*dto.TransactionRead, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*dto.TransactionRead, int64, error)
	Update(ctx context.Context, id uuid.UUID, update *dto.TransactionUpdate) error
	// SetBalanceAfter stamps the post-mutation card balance on the entry.
	SetBalanceAfter(ctx context.Context, id uuid.UUID, balance float64) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*dto.TransactionStats, error)
}

// UnitOfWork provides a transaction boundary plus repository access bound to
// that transaction, so multi-entity writes commit or roll back together.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork passed
	// to fn hands out repositories bound to that transaction; returning an
	// error rolls everything back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	UserRepository() UserRepository
	VerificationRepository() VerificationRepository
	CardRepository() CardRepository
	TransactionRepository() TransactionRepository
}
