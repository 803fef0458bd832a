package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/domain"
)

// TransactionCreate is the data needed to persist a new ledger entry.
type TransactionCreate struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CardID      *uuid.UUID
	Type        domain.TransactionType
	Amount      float64
	Currency    string
	Status      domain.TransactionStatus
	Description string
	Reference   string
	FromAccount string
	ToAccount   string
	Fees        float64
	Category    domain.TransactionCategory
	Location    string
	Metadata    map[string]string
}

// TransactionUpdate holds the post-creation mutable fields. Nil fields are
// left untouched.
type TransactionUpdate struct {
	Status      *domain.TransactionStatus
	Description *string
	Category    *domain.TransactionCategory
}

// TransactionRead is the stored view of a ledger entry.
type TransactionRead struct {
	ID           uuid.UUID                  `json:"id"`
	UserID       uuid.UUID                  `json:"userId"`
	CardID       *uuid.UUID                 `json:"cardId,omitempty"`
	Type         domain.TransactionType    `json:"type"`
	Amount       float64                    `json:"amount"`
	Currency     string                     `json:"currency"`
	Status       domain.TransactionStatus  `json:"status"`
	Description  string                     `json:"description,omitempty"`
	Reference    string                     `json:"reference"`
	FromAccount  string                     `json:"fromAccount,omitempty"`
	ToAccount    string                     `json:"toAccount,omitempty"`
	BalanceAfter *float64                   `json:"balanceAfter,omitempty"`
	Fees         float64                    `json:"fees"`
	Category     domain.TransactionCategory `json:"category"`
	Location     string                     `json:"location,omitempty"`
	Metadata     map[string]string          `json:"metadata,omitempty"`
	CreatedAt    time.Time                  `json:"createdAt"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Status    *domain.TransactionStatus
	Type      *domain.TransactionType
	Category  *domain.TransactionCategory
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string
	SortDesc  bool
	Page      int
	Limit     int
}

// Pagination describes the window returned by a listing.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// StatBucket is one aggregation row of the transaction statistics.
type StatBucket struct {
	Key         string  `json:"key"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// TransactionStats groups counts and sums by status and by type.
type TransactionStats struct {
	ByStatus []StatBucket `json:"statusStats"`
	ByType   []StatBucket `json:"typeStats"`
}
