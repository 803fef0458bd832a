package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/domain"
)

// VerificationCreate is a new one-time code bound to a user and channel.
type VerificationCreate struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Channel   domain.Channel
	Code      string
	ExpiresAt time.Time
}

// VerificationRead is the stored view of an outstanding code.
type VerificationRead struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"userId"`
	Channel   domain.Channel `json:"channel"`
	Code      string         `json:"-"`
	ExpiresAt time.Time      `json:"expiresAt"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Expired reports whether the code's window has elapsed at the given instant.
func (v *VerificationRead) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
