package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/domain"
)

// CardLimits holds the per-card spending caps.
type CardLimits struct {
	DailyLimit   float64 `json:"dailyLimit"`
	MonthlyLimit float64 `json:"monthlyLimit"`
}

// CardCreate is the data needed to persist a new card.
type CardCreate struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CardType   domain.CardType
	CardNumber string
	ExpiryDate time.Time
	CVV        string
	Balance    float64
	Currency   string
	CardName   string
	IsDefault  bool
	Limits     CardLimits
}

// CardUpdate holds the client-mutable card fields. Nil fields are left
// untouched. Balance is not part of the update; it is mutated only through
// the ledger write path.
type CardUpdate struct {
	CardName   *string
	IsFrozen   *bool
	IsDefault  *bool
	CardStatus *domain.CardStatus
	Limits     *CardLimits
}

// CardRead is the stored view of a card.
type CardRead struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"userId"`
	CardType   domain.CardType   `json:"cardType"`
	CardNumber string            `json:"-"`
	ExpiryDate time.Time         `json:"expiryDate"`
	Balance    float64           `json:"balance"`
	IsFrozen   bool              `json:"isFrozen"`
	CardStatus domain.CardStatus `json:"cardStatus"`
	Currency   string            `json:"currency"`
	CardName   string            `json:"cardName"`
	IsDefault  bool              `json:"isDefault"`
	Limits     CardLimits        `json:"limits"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// MaskedNumber renders the card number with all but the last four digits
// hidden, the only form ever returned to clients.
func (c *CardRead) MaskedNumber() string {
	if len(c.CardNumber) < 4 {
		return "****"
	}
	return "**** **** **** " + c.CardNumber[len(c.CardNumber)-4:]
}

// LastFour returns the trailing digits used in transaction summaries.
func (c *CardRead) LastFour() string {
	if len(c.CardNumber) < 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}
