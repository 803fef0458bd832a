package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the database record for an account holder. The embedded meta
// columns (token, verified flags) are mutated only by the auth and
// verification services.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null;size:50"`
	Phone        string    `gorm:"uniqueIndex;not null;size:20"`
	Email        string    `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string    `gorm:"not null"`

	FirstName          string `gorm:"size:100"`
	LastName           string `gorm:"size:100"`
	DateOfBirth        *time.Time
	ProfilePicture     string `gorm:"size:255"`
	CountryOfResidence string `gorm:"size:100"`

	Country       string `gorm:"size:100"`
	StreetAddress string `gorm:"size:255"`
	AddressLine2  string `gorm:"size:255"`
	City          string `gorm:"size:100"`
	PostalCode    string `gorm:"size:20"`
	State         string `gorm:"size:100"`

	KYCDocumentType   string `gorm:"size:30"`
	KYCDocumentNumber string `gorm:"size:100"`
	KYCIssuingCity    string `gorm:"size:100"`
	KYCNationality    string `gorm:"size:100"`
	KYCExpiryDate     *time.Time
	KYCPassportPhoto  string `gorm:"size:255"`
	KYCFrontPhoto     string `gorm:"size:255"`
	KYCBackPhoto      string `gorm:"size:255"`

	EmailVerified bool    `gorm:"not null;default:false"`
	PhoneVerified bool    `gorm:"not null;default:false"`
	Token         *string `gorm:"size:512"`

	NotifySMS   bool `gorm:"not null;default:false"`
	NotifyEmail bool `gorm:"not null;default:false"`
	NotifyPush  bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
