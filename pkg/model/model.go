// Package model holds the peripheral resource records that are served as
// plain store pass-throughs: banks, bank transfers, crypto wallets and
// transactions, referrals, notifications, and achievements.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Bank is a directory entry for an external bank.
type Bank struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" validate:"required"`
	FullName  string    `gorm:"size:255;not null" json:"fullName" validate:"required"`
	Country   string    `gorm:"size:100;not null" json:"country" validate:"required"`
	SwiftCode string    `gorm:"uniqueIndex;size:11;not null" json:"swiftCode" validate:"required"`
	LogoURL   string    `gorm:"size:255" json:"logoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Bank) TableName() string { return "banks" }

// BankTransfer is an outbound transfer to an external bank account.
type BankTransfer struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                 uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	BankID                 uuid.UUID `gorm:"type:uuid;not null" json:"bankId" validate:"required"`
	Amount                 float64   `gorm:"not null" json:"amount" validate:"required,gt=0"`
	Currency               string    `gorm:"size:3;not null" json:"currency" validate:"required,len=3"`
	RecipientName          string    `gorm:"size:255;not null" json:"recipientName" validate:"required"`
	RecipientAccountNumber string    `gorm:"size:64;not null" json:"recipientAccountNumber" validate:"required"`
	Status                 string    `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func (BankTransfer) TableName() string { return "bank_transfers" }

// CryptoWallet holds a user's balance for one coin.
type CryptoWallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	CoinType  string    `gorm:"size:20;not null" json:"coinType" validate:"required"`
	Balance   float64   `gorm:"not null;default:0" json:"balance"`
	Address   string    `gorm:"uniqueIndex;size:128;not null" json:"address" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CryptoWallet) TableName() string { return "crypto_wallets" }

// CryptoTransaction is a movement on a crypto wallet.
type CryptoTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID  uuid.UUID `gorm:"type:uuid;not null;index" json:"walletId" validate:"required"`
	Type      string    `gorm:"size:20;not null" json:"type" validate:"required"`
	Amount    float64   `gorm:"not null" json:"amount" validate:"required,gt=0"`
	CoinType  string    `gorm:"size:20;not null" json:"coinType" validate:"required"`
	Status    string    `gorm:"size:20;not null" json:"status" validate:"required"`
	TxHash    string    `gorm:"uniqueIndex;size:128" json:"txHash,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CryptoTransaction) TableName() string { return "crypto_transactions" }

// Referral links a referred user to their referrer. ReferredID is unique: a
// user can be referred at most once.
type Referral struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReferrerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"referrerId"`
	ReferredID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"referredId" validate:"required"`
	ReferralCode string    `gorm:"size:20;not null" json:"referralCode" validate:"required"`
	RewardAmount float64   `gorm:"not null;default:0" json:"rewardAmount"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Referral) TableName() string { return "referrals" }

// Notification is an in-app message for a user.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Title     string    `gorm:"size:255;not null" json:"title" validate:"required"`
	Body      string    `gorm:"size:1000" json:"body"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Notification) TableName() string { return "notifications" }

// Achievement is a badge earned by a user.
type Achievement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Type        string    `gorm:"size:50;not null" json:"type" validate:"required"`
	Title       string    `gorm:"size:255;not null" json:"title" validate:"required"`
	Description string    `gorm:"size:500" json:"description"`
	EarnedAt    time.Time `json:"earnedAt"`
}

func (Achievement) TableName() string { return "achievements" }
