package card

import (
	"time"

	"github.com/google/uuid"
)

// Card is the database record for a payment card. Balance is written only
// by the ledger write path.
type Card struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CardType     string    `gorm:"size:10;not null"`
	CardNumber   string    `gorm:"uniqueIndex;not null;size:20"`
	ExpiryDate   time.Time `gorm:"not null"`
	CVV          string    `gorm:"size:4;not null"`
	Balance      float64   `gorm:"not null;default:0"`
	IsFrozen     bool      `gorm:"not null;default:false"`
	CardStatus   string    `gorm:"size:10;not null;default:active"`
	Currency     string    `gorm:"size:3;not null;default:USD"`
	CardName     string    `gorm:"size:100"`
	IsDefault    bool      `gorm:"not null;default:false"`
	DailyLimit   float64   `gorm:"not null;default:1000"`
	MonthlyLimit float64   `gorm:"not null;default:10000"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the Card model.
func (Card) TableName() string {
	return "cards"
}
