package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"clinicore/internal/domain/promotion"
	"clinicore/internal/domain/voucher"
	reqdto "clinicore/internal/handler/dto/request"
	"clinicore/internal/infra"
	"clinicore/internal/infra/db"
	"clinicore/internal/pkg/clock"
	"clinicore/internal/pkg/config"
	"clinicore/internal/pkg/errs"
	"clinicore/internal/pkg/qrsign"
)

var (
	ErrInvalidClaimPayload  = errs.New("invalid claim payload")
	ErrInvalidSignature     = errs.New("claim signature mismatch")
	ErrClaimExpired         = errs.New("claim code expired")
	ErrPromotionUnavailable = errs.New("promotion unavailable")
)

// ClaimResult carries both claim outcomes. A repeated scan of an already
// claimed promotion is a normal outcome, not an error: Granted is false and
// the original voucher is returned.
type ClaimResult struct {
	VoucherID   int64
	PromotionID int64
	Granted     bool
	Message     string
	ClaimedAt   time.Time
}

type VoucherRepository interface {
	// Create relies on the (user_id, promotion_id) uniqueness guarantee and
	// reports a second claim as KindDuplicateKey.
	Create(ctx context.Context, v *voucher.Voucher) (int64, error)
	FindByUserAndPromotion(ctx context.Context, userID, promotionID int64) (*voucher.Voucher, error)
}

type VoucherCommands interface {
	Claim(ctx context.Context, userID int64, req reqdto.ClaimVoucherRequest) (*ClaimResult, error)
}

type voucherCommandsImpl struct {
	voucherRepo      VoucherRepository
	promotionRepo    PromotionRepository
	notificationRepo NotificationRepository
	signer           *qrsign.Signer
	db               db.DBTX
	clock            clock.Clock
	qrConfig         config.QRConfig
}

func NewVoucherCommands(
	voucherRepo VoucherRepository,
	promotionRepo PromotionRepository,
	notificationRepo NotificationRepository,
	signer *qrsign.Signer,
	db db.DBTX,
	clock clock.Clock,
	qrConfig config.QRConfig,
) VoucherCommands {
	return &voucherCommandsImpl{
		voucherRepo:      voucherRepo,
		promotionRepo:    promotionRepo,
		notificationRepo: notificationRepo,
		signer:           signer,
		db:               db,
		clock:            clock,
		qrConfig:         qrConfig,
	}
}

// Claim verifies a scanned QR payload and grants a voucher. Checks run
// cheapest-first: shape, signature, freshness, promotion state, then the
// uniqueness-guarded insert.
func (v *voucherCommandsImpl) Claim(ctx context.Context, userID int64, req reqdto.ClaimVoucherRequest) (*ClaimResult, error) {
	payload, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidClaimPayload)
	}

	if !v.signer.Verify(payload.PromotionID(), payload.IssuedAt(), payload.Nonce(), payload.Signature()) {
		slog.Warn("claim rejected: signature mismatch",
			"user_id", userID,
			"promotion_id", payload.PromotionID(),
		)
		return nil, ErrInvalidSignature
	}

	now := v.clock.Now()
	if err := payload.ValidateFreshness(now, v.qrConfig.FreshnessWindow, v.qrConfig.ClockSkew); err != nil {
		return nil, errs.Mark(err, ErrClaimExpired)
	}

	promotionEntity, err := v.validateAndGetPromotion(ctx, payload.PromotionID(), now)
	if err != nil {
		return nil, err
	}

	voucherID, err := v.voucherRepo.Create(ctx, voucher.NewVoucher(userID, promotionEntity.ID(), now))
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return v.replayExistingClaim(ctx, userID, promotionEntity.ID())
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Notification is best-effort; the voucher is already granted.
	if notificationErr := v.createClaimNotification(ctx, userID, voucherID, promotionEntity.ID(), now); notificationErr != nil {
		slog.Warn("failed to enqueue claim notification",
			"voucher_id", voucherID,
			"error", notificationErr.Error(),
		)
	}

	return &ClaimResult{
		VoucherID:   voucherID,
		PromotionID: promotionEntity.ID(),
		Granted:     true,
		Message:     "voucher granted",
		ClaimedAt:   now,
	}, nil
}

func (v *voucherCommandsImpl) validateAndGetPromotion(ctx context.Context, promotionID int64, now time.Time) (*promotion.Promotion, error) {
	snap, err := v.promotionRepo.FindByID(ctx, promotionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPromotionUnavailable
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	title, err := promotion.NewTitle(snap.Title)
	if err != nil {
		return nil, errs.Mark(err, ErrPromotionUnavailable)
	}

	promotionEntity := promotion.ReconstructPromotion(
		snap.ID,
		title,
		snap.Description,
		snap.IsActive,
		snap.ValidFrom,
		snap.ValidTo,
		snap.CreatedAt,
		snap.UpdatedAt,
	)

	if err := promotionEntity.ValidateClaimable(now); err != nil {
		return nil, errs.Mark(err, ErrPromotionUnavailable)
	}
	return promotionEntity, nil
}

func (v *voucherCommandsImpl) replayExistingClaim(ctx context.Context, userID, promotionID int64) (*ClaimResult, error) {
	existing, err := v.voucherRepo.FindByUserAndPromotion(ctx, userID, promotionID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &ClaimResult{
		VoucherID:   existing.ID(),
		PromotionID: existing.PromotionID(),
		Granted:     false,
		Message:     "already claimed",
		ClaimedAt:   existing.ClaimedAt(),
	}, nil
}

func (v *voucherCommandsImpl) createClaimNotification(ctx context.Context, userID, voucherID, promotionID int64, now time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"voucher_id":   voucherID,
		"user_id":      userID,
		"promotion_id": promotionID,
		"type":         "voucher_claimed",
	})
	if err != nil {
		return err
	}

	return v.notificationRepo.CreateJob(ctx, v.db, "email", "voucher_claimed", payload, now)
}
