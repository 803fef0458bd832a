package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/repository"
)

type repo struct {
	db *gorm.DB
}

// New returns a gorm-backed user repository.
func New(db *gorm.DB) repository.UserRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, create *dto.UserCreate) error {
	u := &User{
		ID:           create.ID,
		Username:     create.Username,
		Phone:        create.Phone,
		Email:        create.Email,
		PasswordHash: create.PasswordHash,
		FirstName:    create.PersonalInfo.FirstName,
		LastName:     create.PersonalInfo.LastName,
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *repo) GetByPhone(ctx context.Context, phone string) (*dto.UserRead, error) {
	return r.getBy(ctx, "phone = ?", phone)
}

func (r *repo) GetByIdentifier(ctx context.Context, identifier string) (*dto.UserRead, error) {
	return r.getBy(ctx, "username = ? OR email = ? OR phone = ?", identifier, identifier, identifier)
}

func (r *repo) getBy(ctx context.Context, query string, args ...any) (*dto.UserRead, error) {
	var u User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return mapModelToDTO(&u), nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, uu *dto.UserUpdate) error {
	updates := make(map[string]any)
	if uu.Username != nil {
		updates["username"] = *uu.Username
	}
	if uu.Email != nil {
		updates["email"] = *uu.Email
	}
	if uu.PasswordHash != nil {
		updates["password_hash"] = *uu.PasswordHash
	}
	if pi := uu.PersonalInfo; pi != nil {
		updates["first_name"] = pi.FirstName
		updates["last_name"] = pi.LastName
		updates["date_of_birth"] = pi.DateOfBirth
		updates["country_of_residence"] = pi.CountryOfResidence
		if pi.ProfilePicture != "" {
			updates["profile_picture"] = pi.ProfilePicture
		}
	}
	if a := uu.Address; a != nil {
		updates["country"] = a.Country
		updates["street_address"] = a.StreetAddress
		updates["address_line2"] = a.AddressLine2
		updates["city"] = a.City
		updates["postal_code"] = a.PostalCode
		updates["state"] = a.State
	}
	if k := uu.KYC; k != nil {
		updates["kyc_document_type"] = k.DocumentType
		updates["kyc_document_number"] = k.DocumentNumber
		updates["kyc_issuing_city"] = k.IssuingCity
		updates["kyc_nationality"] = k.Nationality
		updates["kyc_expiry_date"] = k.ExpiryDate
		updates["kyc_passport_photo"] = k.PassportPhoto
		updates["kyc_front_photo"] = k.FrontPhoto
		updates["kyc_back_photo"] = k.BackPhoto
	}
	if np := uu.NotificationPreferences; np != nil {
		updates["notify_sms"] = np.SMS
		updates["notify_email"] = np.Email
		updates["notify_push"] = np.Push
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) SetToken(ctx context.Context, id uuid.UUID, token *string) error {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("token", token)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) SetChannelVerified(ctx context.Context, id uuid.UUID, channel domain.Channel) error {
	column := "email_verified"
	if channel == domain.ChannelPhone {
		column = "phone_verified"
	}
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update(column, true)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	return mapError(r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		switch {
		case errors.Is(cur, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(cur, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		}
	}
	return err
}

func mapModelToDTO(u *User) *dto.UserRead {
	return &dto.UserRead{
		ID:           u.ID,
		Username:     u.Username,
		Phone:        u.Phone,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		PersonalInfo: dto.PersonalInfo{
			FirstName:          u.FirstName,
			LastName:           u.LastName,
			DateOfBirth:        u.DateOfBirth,
			ProfilePicture:     u.ProfilePicture,
			CountryOfResidence: u.CountryOfResidence,
		},
		Address: dto.Address{
			Country:       u.Country,
			StreetAddress: u.StreetAddress,
			AddressLine2:  u.AddressLine2,
			City:          u.City,
			PostalCode:    u.PostalCode,
			State:         u.State,
		},
		KYC: dto.KYC{
			DocumentType:   u.KYCDocumentType,
			DocumentNumber: u.KYCDocumentNumber,
			IssuingCity:    u.KYCIssuingCity,
			Nationality:    u.KYCNationality,
			ExpiryDate:     u.KYCExpiryDate,
			PassportPhoto:  u.KYCPassportPhoto,
			FrontPhoto:     u.KYCFrontPhoto,
			BackPhoto:      u.KYCBackPhoto,
		},
		NotificationPreferences: dto.NotificationPreferences{
			SMS:   u.NotifySMS,
			Email: u.NotifyEmail,
			Push:  u.NotifyPush,
		},
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		Token:         u.Token,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
