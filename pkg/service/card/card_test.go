package card_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazemdiab/ebanking/internal/fixtures"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/service/card"
)

func newService(uow *fixtures.MemoryUoW) *card.Service {
	return card.New(uow, nil, slog.Default())
}

func debitInput() card.CreateInput {
	return card.CreateInput{CardType: domain.CardTypeDebit, CardName: "Everyday"}
}

func assertSingleDefault(t *testing.T, uow *fixtures.MemoryUoW, userID, wantDefault uuid.UUID) {
	t.Helper()
	cards, err := uow.CardRepository().ListByUser(context.Background(), userID)
	require.NoError(t, err)
	for _, c := range cards {
		assert.Equal(t, c.ID == wantDefault, c.IsDefault, c.ID)
	}
}

func TestCreateGeneratesCardDetails(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	userID := uuid.New()

	got, err := svc.Create(context.Background(), userID, debitInput())
	require.NoError(t, err)
	assert.Len(t, got.CardNumber, 16)
	assert.Equal(t, domain.DefaultCurrency, got.Currency)
	assert.Equal(t, domain.CardStatusActive, got.CardStatus)
	assert.Zero(t, got.Balance)
	assert.WithinDuration(t, time.Now().AddDate(4, 0, 0), got.ExpiryDate, time.Minute)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)

	_, err := svc.Create(context.Background(), uuid.New(), card.CreateInput{CardType: "amex"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFirstCardBecomesDefault(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	userID := uuid.New()

	got, err := svc.Create(context.Background(), userID, debitInput())
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestNewDefaultDemotesPrevious(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.Create(ctx, userID, debitInput())
	require.NoError(t, err)
	require.True(t, first.IsDefault)

	second, err := svc.Create(ctx, userID, card.CreateInput{
		CardType:  domain.CardTypeCredit,
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)
	assertSingleDefault(t, uow, userID, second.ID)
}

func TestSecondCardWithoutFlagIsNotDefault(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.Create(ctx, userID, debitInput())
	require.NoError(t, err)

	second, err := svc.Create(ctx, userID, card.CreateInput{CardType: domain.CardTypeVirtual})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assertSingleDefault(t, uow, userID, first.ID)
}

func TestUpdatePromotesDefault(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, debitInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, card.CreateInput{CardType: domain.CardTypeCredit})
	require.NoError(t, err)
	require.False(t, second.IsDefault)

	makeDefault := true
	got, err := svc.Update(ctx, userID, second.ID, &dto.CardUpdate{IsDefault: &makeDefault})
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
	assertSingleDefault(t, uow, userID, second.ID)
}

func TestDefaultsAreScopedPerUser(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	aliceCard, err := svc.Create(ctx, alice, debitInput())
	require.NoError(t, err)
	bobCard, err := svc.Create(ctx, bob, debitInput())
	require.NoError(t, err)

	assert.True(t, aliceCard.IsDefault)
	assert.True(t, bobCard.IsDefault)
}

func TestFreezeAndUnfreeze(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, debitInput())
	require.NoError(t, err)

	frozen, err := svc.Freeze(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.True(t, frozen.IsFrozen)

	thawed, err := svc.Unfreeze(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.False(t, thawed.IsFrozen)
}

func TestUpdateRejectsForeignCard(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	ctx := context.Background()

	owner := uuid.New()
	created, err := svc.Create(ctx, owner, debitInput())
	require.NoError(t, err)

	name := "stolen"
	_, err = svc.Update(ctx, uuid.New(), created.ID, &dto.CardUpdate{CardName: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, debitInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, created.ID))
	_, err = svc.Get(ctx, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaskedNumber(t *testing.T) {
	t.Parallel()
	c := dto.CardRead{CardNumber: "4111111111111234"}
	assert.Equal(t, "**** **** **** 1234", c.MaskedNumber())
	assert.Equal(t, "1234", c.LastFour())
}
