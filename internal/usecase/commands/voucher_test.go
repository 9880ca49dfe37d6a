//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"clinicore/internal/domain/promotion"
	"clinicore/internal/domain/voucher"
	reqdto "clinicore/internal/handler/dto/request"
	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/clock"
	"clinicore/internal/pkg/config"
	"clinicore/internal/pkg/qrsign"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) Create(ctx context.Context, v *voucher.Voucher) (int64, error) {
	args := m.Called(ctx, v)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoucherRepository) FindByUserAndPromotion(ctx context.Context, userID, promotionID int64) (*voucher.Voucher, error) {
	args := m.Called(ctx, userID, promotionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func matchVoucher(userID, promotionID int64, claimedAt time.Time) any {
	return mock.MatchedBy(func(v *voucher.Voucher) bool {
		return v.UserID() == userID && v.PromotionID() == promotionID && v.ClaimedAt().Equal(claimedAt)
	})
}

type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) Create(ctx context.Context, p *promotion.Promotion) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPromotionRepository) SetActive(ctx context.Context, id int64, isActive bool) error {
	args := m.Called(ctx, id, isActive)
	return args.Error(0)
}

func (m *MockPromotionRepository) FindByID(ctx context.Context, id int64) (*PromotionSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PromotionSnapshot), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	args := m.Called(ctx, tx, kind, topic, payload, runAt)
	return args.Error(0)
}

type claimTestFixture struct {
	voucherRepo      *MockVoucherRepository
	promotionRepo    *MockPromotionRepository
	notificationRepo *MockNotificationRepository
	signer           *qrsign.Signer
	clock            *clock.MockClock
	commands         VoucherCommands
}

func newClaimTestFixture(t *testing.T, now time.Time) *claimTestFixture {
	t.Helper()

	f := &claimTestFixture{
		voucherRepo:      new(MockVoucherRepository),
		promotionRepo:    new(MockPromotionRepository),
		notificationRepo: new(MockNotificationRepository),
		signer:           qrsign.NewSigner("test-qr-secret"),
		clock:            clock.NewMockClock(now),
	}
	f.commands = NewVoucherCommands(
		f.voucherRepo,
		f.promotionRepo,
		f.notificationRepo,
		f.signer,
		nil,
		f.clock,
		config.QRConfig{
			Secret:          "test-qr-secret",
			FreshnessWindow: 90 * time.Second,
			ClockSkew:       5 * time.Second,
		},
	)
	return f
}

func (f *claimTestFixture) signedRequest(promotionID, issuedAt, nonce int64) reqdto.ClaimVoucherRequest {
	return reqdto.ClaimVoucherRequest{
		PromotionID: promotionID,
		Signature:   f.signer.Sign(promotionID, issuedAt, nonce),
		IssuedAt:    issuedAt,
		Nonce:       nonce,
	}
}

func claimablePromotion(now time.Time) *PromotionSnapshot {
	from := now.Add(-24 * time.Hour)
	to := now.Add(24 * time.Hour)
	return &PromotionSnapshot{
		ID:          10,
		Title:       "Annual checkup discount",
		Description: "20% off",
		IsActive:    true,
		ValidFrom:   &from,
		ValidTo:     &to,
		CreatedAt:   from,
		UpdatedAt:   from,
	}
}

func TestVoucherCommands_Claim(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	const userID = int64(7)

	t.Run("success: grants voucher and enqueues notification", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix()-30, 555)

		f.promotionRepo.On("FindByID", mock.Anything, int64(10)).
			Return(claimablePromotion(now), nil).Once()
		f.voucherRepo.On("Create", mock.Anything, matchVoucher(userID, 10, now)).
			Return(int64(99), nil).Once()
		f.notificationRepo.On("CreateJob", mock.Anything, mock.Anything, "email", "voucher_claimed", mock.Anything, now).
			Return(nil).Once()

		result, err := f.commands.Claim(context.Background(), userID, req)
		require.NoError(t, err)

		assert.True(t, result.Granted)
		assert.Equal(t, int64(99), result.VoucherID)
		assert.Equal(t, int64(10), result.PromotionID)
		assert.Equal(t, "voucher granted", result.Message)
		assert.Equal(t, now, result.ClaimedAt)

		f.voucherRepo.AssertExpectations(t)
		f.notificationRepo.AssertExpectations(t)
	})

	t.Run("success: notification failure does not revoke the grant", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix(), 555)

		f.promotionRepo.On("FindByID", mock.Anything, int64(10)).
			Return(claimablePromotion(now), nil).Once()
		f.voucherRepo.On("Create", mock.Anything, matchVoucher(userID, 10, now)).
			Return(int64(99), nil).Once()
		f.notificationRepo.On("CreateJob", mock.Anything, mock.Anything, "email", "voucher_claimed", mock.Anything, now).
			Return(assert.AnError).Once()

		result, err := f.commands.Claim(context.Background(), userID, req)
		require.NoError(t, err)
		assert.True(t, result.Granted)
	})

	t.Run("replay: duplicate claim returns original voucher without error", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix(), 555)
		claimedAt := now.Add(-time.Hour)

		f.promotionRepo.On("FindByID", mock.Anything, int64(10)).
			Return(claimablePromotion(now), nil).Once()
		f.voucherRepo.On("Create", mock.Anything, matchVoucher(userID, 10, now)).
			Return(int64(0), infra.WrapRepoErr("voucher exists", assert.AnError, infra.KindDuplicateKey)).Once()
		f.voucherRepo.On("FindByUserAndPromotion", mock.Anything, userID, int64(10)).
			Return(voucher.ReconstructVoucher(42, userID, 10, claimedAt, nil), nil).Once()

		result, err := f.commands.Claim(context.Background(), userID, req)
		require.NoError(t, err)

		assert.False(t, result.Granted)
		assert.Equal(t, int64(42), result.VoucherID)
		assert.Equal(t, "already claimed", result.Message)
		assert.Equal(t, claimedAt, result.ClaimedAt)

		f.notificationRepo.AssertNotCalled(t, "CreateJob")
	})

	t.Run("error: malformed payload", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := reqdto.ClaimVoucherRequest{PromotionID: 0, Signature: "sig", IssuedAt: now.Unix(), Nonce: 1}

		_, err := f.commands.Claim(context.Background(), userID, req)
		assert.ErrorIs(t, err, ErrInvalidClaimPayload)
		f.promotionRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("error: forged signature", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix(), 555)
		req.Signature = qrsign.NewSigner("wrong-secret").Sign(10, now.Unix(), 555)

		_, err := f.commands.Claim(context.Background(), userID, req)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		f.promotionRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("error: signature valid but payload fields swapped", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix(), 555)
		req.PromotionID = 11

		_, err := f.commands.Claim(context.Background(), userID, req)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("error: stale code", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix()-91, 555)

		_, err := f.commands.Claim(context.Background(), userID, req)
		assert.ErrorIs(t, err, ErrClaimExpired)
		f.promotionRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("edge: code aged exactly the freshness window still passes", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix()-90, 555)

		f.promotionRepo.On("FindByID", mock.Anything, int64(10)).
			Return(claimablePromotion(now), nil).Once()
		f.voucherRepo.On("Create", mock.Anything, matchVoucher(userID, 10, now)).
			Return(int64(99), nil).Once()
		f.notificationRepo.On("CreateJob", mock.Anything, mock.Anything, "email", "voucher_claimed", mock.Anything, now).
			Return(nil).Once()

		result, err := f.commands.Claim(context.Background(), userID, req)
		require.NoError(t, err)
		assert.True(t, result.Granted)
	})

	t.Run("error: promotion does not exist", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix(), 555)

		f.promotionRepo.On("FindByID", mock.Anything, int64(10)).
			Return(nil, infra.WrapRepoErr("promotion not found", assert.AnError, infra.KindNotFound)).Once()

		_, err := f.commands.Claim(context.Background(), userID, req)
		assert.ErrorIs(t, err, ErrPromotionUnavailable)
		f.voucherRepo.AssertNotCalled(t, "Create")
	})

	t.Run("error: inactive promotion", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix(), 555)

		snap := claimablePromotion(now)
		snap.IsActive = false
		f.promotionRepo.On("FindByID", mock.Anything, int64(10)).Return(snap, nil).Once()

		_, err := f.commands.Claim(context.Background(), userID, req)
		assert.ErrorIs(t, err, ErrPromotionUnavailable)
		f.voucherRepo.AssertNotCalled(t, "Create")
	})

	t.Run("error: promotion past its validity window", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix(), 555)

		snap := claimablePromotion(now)
		expired := now.Add(-time.Hour)
		snap.ValidTo = &expired
		f.promotionRepo.On("FindByID", mock.Anything, int64(10)).Return(snap, nil).Once()

		_, err := f.commands.Claim(context.Background(), userID, req)
		assert.ErrorIs(t, err, ErrPromotionUnavailable)
	})

	t.Run("error: unexpected repository failure surfaces as database error", func(t *testing.T) {
		f := newClaimTestFixture(t, now)
		req := f.signedRequest(10, now.Unix(), 555)

		f.promotionRepo.On("FindByID", mock.Anything, int64(10)).
			Return(claimablePromotion(now), nil).Once()
		f.voucherRepo.On("Create", mock.Anything, matchVoucher(userID, 10, now)).
			Return(int64(0), infra.WrapRepoErr("insert failed", assert.AnError)).Once()

		_, err := f.commands.Claim(context.Background(), userID, req)
		assert.ErrorIs(t, err, ErrDatabaseOperationFailed)
	})
}
