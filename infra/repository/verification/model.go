package verification

import (
	"time"

	"github.com/google/uuid"
)

// Verification is one outstanding one-time code. The unique index on
// (user_id, channel) backs the at-most-one-live-record invariant.
type Verification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verifications_user_channel"`
	Channel   string    `gorm:"size:10;not null;uniqueIndex:idx_verifications_user_channel"`
	Code      string    `gorm:"size:10;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for the Verification model.
func (Verification) TableName() string {
	return "verifications"
}
