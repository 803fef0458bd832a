package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is the database record for a ledger entry.
type Transaction struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	CardID       *uuid.UUID `gorm:"type:uuid;index"`
	Type         string     `gorm:"size:12;not null"`
	Amount       float64    `gorm:"not null"`
	Currency     string     `gorm:"size:3;not null;default:USD"`
	Status       string     `gorm:"size:12;not null;default:pending"`
	Description  string     `gorm:"size:500"`
	Reference    string     `gorm:"uniqueIndex;size:64"`
	FromAccount  string     `gorm:"size:64"`
	ToAccount    string     `gorm:"size:64"`
	BalanceAfter *float64
	Fees         float64   `gorm:"not null;default:0"`
	Category     string    `gorm:"size:20;not null;default:other"`
	Location     string    `gorm:"size:255"`
	Metadata     string    `gorm:"type:jsonb"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
