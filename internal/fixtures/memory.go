// Package fixtures holds the in-memory unit of work the service tests run
// against. Do snapshots the store and restores it when the callback fails,
// matching the rollback the real store provides.
package fixtures

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/repository"
)

type store struct {
	users         map[uuid.UUID]dto.UserRead
	verifications map[uuid.UUID]dto.VerificationRead
	cards         map[uuid.UUID]dto.CardRead
	transactions  map[uuid.UUID]dto.TransactionRead
}

func newStore() *store {
	return &store{
		users:         make(map[uuid.UUID]dto.UserRead),
		verifications: make(map[uuid.UUID]dto.VerificationRead),
		cards:         make(map[uuid.UUID]dto.CardRead),
		transactions:  make(map[uuid.UUID]dto.TransactionRead),
	}
}

func (s *store) clone() *store {
	c := newStore()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.verifications {
		c.verifications[k] = v
	}
	for k, v := range s.cards {
		c.cards[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	return c
}

// MemoryUoW is an in-memory repository.UnitOfWork.
type MemoryUoW struct {
	mu sync.Mutex
	s  *store
}

// NewMemoryUoW creates an empty in-memory store.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{s: newStore()}
}

// Do runs fn and restores the pre-call state when it errors.
func (u *MemoryUoW) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.mu.Lock()
	snapshot := u.s.clone()
	u.mu.Unlock()
	if err := fn(u); err != nil {
		u.mu.Lock()
		u.s = snapshot
		u.mu.Unlock()
		return err
	}
	return nil
}

func (u *MemoryUoW) UserRepository() repository.UserRepository { return &userRepo{u} }
func (u *MemoryUoW) VerificationRepository() repository.VerificationRepository {
	return &verificationRepo{u}
}
func (u *MemoryUoW) CardRepository() repository.CardRepository { return &cardRepo{u} }
func (u *MemoryUoW) TransactionRepository() repository.TransactionRepository {
	return &txRepo{u}
}

// SeedUser inserts a user directly, bypassing registration.
func (u *MemoryUoW) SeedUser(user dto.UserRead) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.s.users[user.ID] = user
}

// SeedCard inserts a card directly.
func (u *MemoryUoW) SeedCard(card dto.CardRead) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.s.cards[card.ID] = card
}

// SeedTransaction inserts a ledger entry directly.
func (u *MemoryUoW) SeedTransaction(tx dto.TransactionRead) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.s.transactions[tx.ID] = tx
}

type userRepo struct{ u *MemoryUoW }

func (r *userRepo) Create(_ context.Context, create *dto.UserCreate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, existing := range r.u.s.users {
		if existing.Username == create.Username ||
			existing.Email == create.Email ||
			existing.Phone == create.Phone {
			return domain.ErrAlreadyExists
		}
	}
	now := time.Now()
	r.u.s.users[create.ID] = dto.UserRead{
		ID:           create.ID,
		Username:     create.Username,
		Phone:        create.Phone,
		Email:        create.Email,
		PasswordHash: create.PasswordHash,
		PersonalInfo: create.PersonalInfo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return nil
}

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (*dto.UserRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	user, ok := r.u.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*dto.UserRead, error) {
	return r.find(func(u dto.UserRead) bool { return u.Email == email })
}

func (r *userRepo) GetByPhone(_ context.Context, phone string) (*dto.UserRead, error) {
	return r.find(func(u dto.UserRead) bool { return u.Phone == phone })
}

func (r *userRepo) GetByIdentifier(_ context.Context, identifier string) (*dto.UserRead, error) {
	return r.find(func(u dto.UserRead) bool {
		return u.Username == identifier || u.Email == identifier || u.Phone == identifier
	})
}

func (r *userRepo) find(match func(dto.UserRead) bool) (*dto.UserRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, user := range r.u.s.users {
		if match(user) {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, id uuid.UUID, update *dto.UserUpdate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	user, ok := r.u.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.PersonalInfo != nil {
		user.PersonalInfo = *update.PersonalInfo
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.KYC != nil {
		user.KYC = *update.KYC
	}
	if update.NotificationPreferences != nil {
		user.NotificationPreferences = *update.NotificationPreferences
	}
	user.UpdatedAt = time.Now()
	r.u.s.users[id] = user
	return nil
}

func (r *userRepo) SetToken(_ context.Context, id uuid.UUID, token *string) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	user, ok := r.u.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.Token = token
	r.u.s.users[id] = user
	return nil
}

func (r *userRepo) SetChannelVerified(_ context.Context, id uuid.UUID, channel domain.Channel) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	user, ok := r.u.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if channel == domain.ChannelPhone {
		user.PhoneVerified = true
	} else {
		user.EmailVerified = true
	}
	r.u.s.users[id] = user
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if _, ok := r.u.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.u.s.users, id)
	return nil
}

type verificationRepo struct{ u *MemoryUoW }

func (r *verificationRepo) Create(_ context.Context, create *dto.VerificationCreate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, v := range r.u.s.verifications {
		if v.UserID == create.UserID && v.Channel == create.Channel {
			return domain.ErrAlreadyExists
		}
	}
	r.u.s.verifications[create.ID] = dto.VerificationRead{
		ID:        create.ID,
		UserID:    create.UserID,
		Channel:   create.Channel,
		Code:      create.Code,
		ExpiresAt: create.ExpiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *verificationRepo) Get(_ context.Context, userID uuid.UUID, channel domain.Channel) (*dto.VerificationRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, v := range r.u.s.verifications {
		if v.UserID == userID && v.Channel == channel {
			out := v
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *verificationRepo) DeleteForChannel(_ context.Context, userID uuid.UUID, channel domain.Channel) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for id, v := range r.u.s.verifications {
		if v.UserID == userID && v.Channel == channel {
			delete(r.u.s.verifications, id)
		}
	}
	return nil
}

func (r *verificationRepo) ConsumeCode(_ context.Context, userID uuid.UUID, channel domain.Channel, code string) (bool, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for id, v := range r.u.s.verifications {
		if v.UserID == userID && v.Channel == channel && v.Code == code {
			delete(r.u.s.verifications, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *verificationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if _, ok := r.u.s.verifications[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.u.s.verifications, id)
	return nil
}

type cardRepo struct{ u *MemoryUoW }

func (r *cardRepo) Create(_ context.Context, create *dto.CardCreate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	now := time.Now()
	r.u.s.cards[create.ID] = dto.CardRead{
		ID:         create.ID,
		UserID:     create.UserID,
		CardType:   create.CardType,
		CardNumber: create.CardNumber,
		ExpiryDate: create.ExpiryDate,
		Balance:    create.Balance,
		CardStatus: domain.CardStatusActive,
		Currency:   create.Currency,
		CardName:   create.CardName,
		IsDefault:  create.IsDefault,
		Limits:     create.Limits,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (r *cardRepo) Get(_ context.Context, id uuid.UUID) (*dto.CardRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	card, ok := r.u.s.cards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &card, nil
}

func (r *cardRepo) GetForUser(_ context.Context, id, userID uuid.UUID) (*dto.CardRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	card, ok := r.u.s.cards[id]
	if !ok || card.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &card, nil
}

func (r *cardRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*dto.CardRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	var out []*dto.CardRead
	for _, card := range r.u.s.cards {
		if card.UserID == userID {
			c := card
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *cardRepo) Update(_ context.Context, id uuid.UUID, update *dto.CardUpdate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	card, ok := r.u.s.cards[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.CardName != nil {
		card.CardName = *update.CardName
	}
	if update.IsFrozen != nil {
		card.IsFrozen = *update.IsFrozen
	}
	if update.IsDefault != nil {
		card.IsDefault = *update.IsDefault
	}
	if update.CardStatus != nil {
		card.CardStatus = *update.CardStatus
	}
	if update.Limits != nil {
		card.Limits = *update.Limits
	}
	card.UpdatedAt = time.Now()
	r.u.s.cards[id] = card
	return nil
}

func (r *cardRepo) UnsetDefaultExcept(_ context.Context, userID, exceptID uuid.UUID) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for id, card := range r.u.s.cards {
		if card.UserID == userID && id != exceptID && card.IsDefault {
			card.IsDefault = false
			r.u.s.cards[id] = card
		}
	}
	return nil
}

func (r *cardRepo) AdjustBalance(_ context.Context, id uuid.UUID, delta float64, requireFunds bool) (float64, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	card, ok := r.u.s.cards[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if requireFunds && delta < 0 && card.Balance < -delta {
		return 0, domain.ErrInsufficientBalance
	}
	card.Balance += delta
	r.u.s.cards[id] = card
	return card.Balance, nil
}

func (r *cardRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if _, ok := r.u.s.cards[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.u.s.cards, id)
	return nil
}

type txRepo struct{ u *MemoryUoW }

func (r *txRepo) Create(_ context.Context, create *dto.TransactionCreate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	now := time.Now()
	r.u.s.transactions[create.ID] = dto.TransactionRead{
		ID:          create.ID,
		UserID:      create.UserID,
		CardID:      create.CardID,
		Type:        create.Type,
		Amount:      create.Amount,
		Currency:    create.Currency,
		Status:      create.Status,
		Description: create.Description,
		Reference:   create.Reference,
		FromAccount: create.FromAccount,
		ToAccount:   create.ToAccount,
		Fees:        create.Fees,
		Category:    create.Category,
		Location:    create.Location,
		Metadata:    create.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (r *txRepo) GetForUser(_ context.Context, id, userID uuid.UUID) (*dto.TransactionRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	tx, ok := r.u.s.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &tx, nil
}

func (r *txRepo) List(_ context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*dto.TransactionRead, int64, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	var matched []*dto.TransactionRead
	for _, tx := range r.u.s.transactions {
		if tx.UserID != userID {
			continue
		}
		if filter.Status != nil && tx.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.Category != nil && tx.Category != *filter.Category {
			continue
		}
		if filter.StartDate != nil && tx.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && tx.CreatedAt.After(*filter.EndDate) {
			continue
		}
		t := tx
		matched = append(matched, &t)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch filter.SortBy {
		case "amount":
			less = a.Amount < b.Amount
		case "type":
			less = strings.Compare(string(a.Type), string(b.Type)) < 0
		case "status":
			less = strings.Compare(string(a.Status), string(b.Status)) < 0
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if filter.SortDesc {
			return !less
		}
		return less
	})
	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *txRepo) Update(_ context.Context, id uuid.UUID, update *dto.TransactionUpdate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	tx, ok := r.u.s.transactions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Status != nil {
		tx.Status = *update.Status
	}
	if update.Description != nil {
		tx.Description = *update.Description
	}
	if update.Category != nil {
		tx.Category = *update.Category
	}
	tx.UpdatedAt = time.Now()
	r.u.s.transactions[id] = tx
	return nil
}

func (r *txRepo) SetBalanceAfter(_ context.Context, id uuid.UUID, balance float64) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	tx, ok := r.u.s.transactions[id]
	if !ok {
		return domain.ErrNotFound
	}
	tx.BalanceAfter = &balance
	r.u.s.transactions[id] = tx
	return nil
}

func (r *txRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if _, ok := r.u.s.transactions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.u.s.transactions, id)
	return nil
}

func (r *txRepo) Stats(_ context.Context, userID uuid.UUID, start, end *time.Time) (*dto.TransactionStats, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	byStatus := make(map[string]*dto.StatBucket)
	byType := make(map[string]*dto.StatBucket)
	for _, tx := range r.u.s.transactions {
		if tx.UserID != userID {
			continue
		}
		if start != nil && tx.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && tx.CreatedAt.After(*end) {
			continue
		}
		bump(byStatus, string(tx.Status), tx.Amount)
		bump(byType, string(tx.Type), tx.Amount)
	}
	return &dto.TransactionStats{
		ByStatus: collect(byStatus),
		ByType:   collect(byType),
	}, nil
}

func bump(buckets map[string]*dto.StatBucket, key string, amount float64) {
	b, ok := buckets[key]
	if !ok {
		b = &dto.StatBucket{Key: key}
		buckets[key] = b
	}
	b.Count++
	b.TotalAmount += amount
}

func collect(buckets map[string]*dto.StatBucket) []dto.StatBucket {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]dto.StatBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out
}
