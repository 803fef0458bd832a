package dto

import (
	"time"

	"github.com/google/uuid"
)

// PersonalInfo holds the profile sub-record of a user.
type PersonalInfo struct {
	FirstName          string     `json:"firstName,omitempty"`
	LastName           string     `json:"lastName,omitempty"`
	DateOfBirth        *time.Time `json:"dateOfBirth,omitempty"`
	ProfilePicture     string     `json:"profilePicture,omitempty"`
	CountryOfResidence string     `json:"countryOfResidence,omitempty"`
}

// Address holds the address sub-record of a user.
type Address struct {
	Country       string `json:"country,omitempty"`
	StreetAddress string `json:"streetAddress,omitempty"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	State         string `json:"state,omitempty"`
}

// KYC holds the identity-verification sub-record of a user.
type KYC struct {
	DocumentType   string     `json:"documentType,omitempty"`
	DocumentNumber string     `json:"documentNumber,omitempty"`
	IssuingCity    string     `json:"issuingCity,omitempty"`
	Nationality    string     `json:"nationality,omitempty"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	PassportPhoto  string     `json:"passportPhoto,omitempty"`
	FrontPhoto     string     `json:"frontPhoto,omitempty"`
	BackPhoto      string     `json:"backPhoto,omitempty"`
}

// NotificationPreferences holds per-channel opt-in flags.
type NotificationPreferences struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// UserCreate represents the data needed to register a new user.
type UserCreate struct {
	ID           uuid.UUID
	Username     string
	Phone        string
	Email        string
	PasswordHash string
	PersonalInfo PersonalInfo
}

// UserUpdate represents the mutable portions of a user record. Nil fields
// are left untouched.
type UserUpdate struct {
	Username                *string
	Email                   *string
	PasswordHash            *string
	PersonalInfo            *PersonalInfo
	Address                 *Address
	KYC                     *KYC
	NotificationPreferences *NotificationPreferences
}

// UserRead is the read-optimized view of a user.
type UserRead struct {
	ID                      uuid.UUID               `json:"id"`
	Username                string                  `json:"username"`
	Phone                   string                  `json:"phone"`
	Email                   string                  `json:"email"`
	PasswordHash            string                  `json:"-"`
	PersonalInfo            PersonalInfo            `json:"personalInfo"`
	Address                 Address                 `json:"address"`
	KYC                     KYC                     `json:"kyc"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
	EmailVerified           bool                    `json:"emailVerified"`
	PhoneVerified           bool                    `json:"phoneVerified"`
	Token                   *string                 `json:"-"`
	CreatedAt               time.Time               `json:"createdAt"`
	UpdatedAt               time.Time               `json:"updatedAt"`
}

// FullName renders the display name, falling back to the username.
func (u *UserRead) FullName() string {
	name := u.PersonalInfo.FirstName
	if u.PersonalInfo.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.PersonalInfo.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// ProfileCompletion reports which onboarding stages have been finished.
type ProfileCompletion struct {
	PersonalInformation  bool `json:"personalInformation"`
	AddressInformation   bool `json:"addressInformation"`
	IdentityVerification bool `json:"identityVerification"`
}

// Completion derives the profile-completion flags from the stored record.
func (u *UserRead) Completion() ProfileCompletion {
	return ProfileCompletion{
		PersonalInformation:  u.PersonalInfo.FirstName != "" && u.PersonalInfo.LastName != "",
		AddressInformation:   u.Address.Country != "" && u.Address.City != "",
		IdentityVerification: u.KYC.DocumentType != "" && u.KYC.DocumentNumber != "",
	}
}
