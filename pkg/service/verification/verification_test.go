package verification_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazemdiab/ebanking/internal/fixtures"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/notifier"
	"github.com/hazemdiab/ebanking/pkg/service/verification"
)

// recorder captures sent messages so tests can wait for delivery.
type recorder struct {
	mu   sync.Mutex
	sent []notifier.Message
	ch   chan notifier.Message
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan notifier.Message, 8)}
}

func (r *recorder) Send(_ context.Context, msg notifier.Message) error {
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	r.ch <- msg
	return nil
}

func (r *recorder) wait(t *testing.T) notifier.Message {
	t.Helper()
	select {
	case msg := <-r.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no notification delivered")
		return notifier.Message{}
	}
}

func seedUser(uow *fixtures.MemoryUoW) dto.UserRead {
	user := dto.UserRead{
		ID:       uuid.New(),
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Phone:    "+15550001111",
	}
	uow.SeedUser(user)
	return user
}

func newService(uow *fixtures.MemoryUoW, n notifier.Notifier) *verification.Service {
	return verification.New(uow, n, slog.Default())
}

func issuedCode(t *testing.T, uow *fixtures.MemoryUoW, userID uuid.UUID, channel domain.Channel) string {
	t.Helper()
	pending, err := uow.VerificationRepository().Get(context.Background(), userID, channel)
	require.NoError(t, err)
	return pending.Code
}

func TestIssueDeliversCode(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	rec := newRecorder()
	svc := newService(uow, rec)

	require.NoError(t, svc.Issue(context.Background(), user.ID, domain.ChannelEmail))

	msg := rec.wait(t)
	assert.Equal(t, user.Email, msg.Destination)
	assert.Contains(t, msg.Body, issuedCode(t, uow, user.ID, domain.ChannelEmail))
}

func TestIssueOnPhoneChannelTargetsPhone(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	rec := newRecorder()
	svc := newService(uow, rec)

	require.NoError(t, svc.Issue(context.Background(), user.ID, domain.ChannelPhone))

	msg := rec.wait(t)
	assert.Equal(t, user.Phone, msg.Destination)
}

func TestReissueInvalidatesPreviousCode(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	svc := newService(uow, newRecorder())
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, user.ID, domain.ChannelEmail))
	first := issuedCode(t, uow, user.ID, domain.ChannelEmail)

	require.NoError(t, svc.Issue(ctx, user.ID, domain.ChannelEmail))
	second := issuedCode(t, uow, user.ID, domain.ChannelEmail)

	err := svc.Verify(ctx, user.ID, domain.ChannelEmail, first)
	if first != second {
		assert.ErrorIs(t, err, domain.ErrCodeMismatch)
	}
	assert.NoError(t, svc.Verify(ctx, user.ID, domain.ChannelEmail, second))
}

func TestIssueUnknownUser(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := newService(uow, newRecorder())

	err := svc.Issue(context.Background(), uuid.New(), domain.ChannelEmail)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIssueRejectsUnknownChannel(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	svc := newService(uow, newRecorder())

	err := svc.Issue(context.Background(), user.ID, domain.Channel("carrier-pigeon"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVerifyMarksChannelVerified(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	svc := newService(uow, newRecorder())
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, user.ID, domain.ChannelEmail))
	code := issuedCode(t, uow, user.ID, domain.ChannelEmail)

	require.NoError(t, svc.Verify(ctx, user.ID, domain.ChannelEmail, code))

	stored, err := uow.UserRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.False(t, stored.PhoneVerified)
}

func TestVerifyCodeIsSingleUse(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	svc := newService(uow, newRecorder())
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, user.ID, domain.ChannelEmail))
	code := issuedCode(t, uow, user.ID, domain.ChannelEmail)

	require.NoError(t, svc.Verify(ctx, user.ID, domain.ChannelEmail, code))
	err := svc.Verify(ctx, user.ID, domain.ChannelEmail, code)
	assert.ErrorIs(t, err, domain.ErrNoPendingCode)
}

func TestVerifyWrongCode(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	svc := newService(uow, newRecorder())
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, user.ID, domain.ChannelEmail))

	err := svc.Verify(ctx, user.ID, domain.ChannelEmail, "000000")
	if err == nil {
		t.Skip("generated code collided with the guessed value")
	}
	assert.ErrorIs(t, err, domain.ErrCodeMismatch)

	// The pending code survives a failed attempt.
	_, err = uow.VerificationRepository().Get(ctx, user.ID, domain.ChannelEmail)
	assert.NoError(t, err)
}

func TestVerifyExpiredCode(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	svc := newService(uow, newRecorder())
	ctx := context.Background()

	require.NoError(t, uow.VerificationRepository().Create(ctx, &dto.VerificationCreate{
		ID:        uuid.New(),
		UserID:    user.ID,
		Channel:   domain.ChannelEmail,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	err := svc.Verify(ctx, user.ID, domain.ChannelEmail, "123456")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)

	// Expired codes are swept on the failed attempt.
	err = svc.Verify(ctx, user.ID, domain.ChannelEmail, "123456")
	assert.ErrorIs(t, err, domain.ErrNoPendingCode)
}

func TestVerifyWithoutPendingCode(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	svc := newService(uow, newRecorder())

	err := svc.Verify(context.Background(), user.ID, domain.ChannelEmail, "123456")
	assert.ErrorIs(t, err, domain.ErrNoPendingCode)
}

func TestChannelsAreIndependent(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	user := seedUser(uow)
	svc := newService(uow, newRecorder())
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, user.ID, domain.ChannelEmail))
	require.NoError(t, svc.Issue(ctx, user.ID, domain.ChannelPhone))

	emailCode := issuedCode(t, uow, user.ID, domain.ChannelEmail)
	require.NoError(t, svc.Verify(ctx, user.ID, domain.ChannelEmail, emailCode))

	// The phone code is untouched by the email verification.
	phoneCode := issuedCode(t, uow, user.ID, domain.ChannelPhone)
	require.NoError(t, svc.Verify(ctx, user.ID, domain.ChannelPhone, phoneCode))
}
