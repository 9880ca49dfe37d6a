package commands

import (
	"context"

	"clinicore/internal/domain/promotion"
	reqdto "clinicore/internal/handler/dto/request"
	"clinicore/internal/infra"
	"clinicore/internal/pkg/clock"
	"clinicore/internal/pkg/config"
	"clinicore/internal/pkg/errs"
	"clinicore/internal/pkg/qrsign"
	"clinicore/internal/usecase/queries"
)

var (
	ErrPromotionNotFound  = errs.New("promotion not found")
	ErrInvalidPromotion   = errs.New("invalid promotion")
	ErrCodeIssuanceFailed = errs.New("code issuance failed")
)

// IssuedCode is a freshly signed QR payload for one promotion. ExpiresAt is
// informational for the display side; the server re-checks freshness on claim.
type IssuedCode struct {
	PromotionID int64
	IssuedAt    int64
	Nonce       int64
	Signature   string
	ExpiresAt   int64
}

type PromotionRepository interface {
	Create(ctx context.Context, p *promotion.Promotion) (int64, error)
	SetActive(ctx context.Context, id int64, isActive bool) error
	FindByID(ctx context.Context, id int64) (*PromotionSnapshot, error)
}

type PromotionCommands interface {
	Create(ctx context.Context, req reqdto.CreatePromotionRequest) (*queries.PromotionView, error)
	SetActive(ctx context.Context, id int64, isActive bool) error
	IssueCode(ctx context.Context, id int64) (*IssuedCode, error)
}

type promotionCommandsImpl struct {
	promotionRepo    PromotionRepository
	promotionQueries queries.PromotionQueries
	signer           *qrsign.Signer
	clock            clock.Clock
	qrConfig         config.QRConfig
}

func NewPromotionCommands(
	promotionRepo PromotionRepository,
	promotionQueries queries.PromotionQueries,
	signer *qrsign.Signer,
	clock clock.Clock,
	qrConfig config.QRConfig,
) PromotionCommands {
	return &promotionCommandsImpl{
		promotionRepo:    promotionRepo,
		promotionQueries: promotionQueries,
		signer:           signer,
		clock:            clock,
		qrConfig:         qrConfig,
	}
}

func (p *promotionCommandsImpl) Create(ctx context.Context, req reqdto.CreatePromotionRequest) (*queries.PromotionView, error) {
	promotionEntity, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPromotion)
	}

	id, err := p.promotionRepo.Create(ctx, promotionEntity)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view, err := p.promotionQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (p *promotionCommandsImpl) SetActive(ctx context.Context, id int64, isActive bool) error {
	if err := p.promotionRepo.SetActive(ctx, id, isActive); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrPromotionNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

// IssueCode signs a QR payload for an active promotion. A rotating display
// calls this on an interval so captured codes age out quickly.
func (p *promotionCommandsImpl) IssueCode(ctx context.Context, id int64) (*IssuedCode, error) {
	snap, err := p.promotionRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	title, err := promotion.NewTitle(snap.Title)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPromotion)
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

	now := p.clock.Now()
	if err := promotionEntity.ValidateClaimable(now); err != nil {
		return nil, errs.Mark(err, ErrPromotionUnavailable)
	}

	nonce, err := qrsign.NewNonce()
	if err != nil {
		return nil, errs.Mark(err, ErrCodeIssuanceFailed)
	}

	issuedAt := now.Unix()
	return &IssuedCode{
		PromotionID: snap.ID,
		IssuedAt:    issuedAt,
		Nonce:       nonce,
		Signature:   p.signer.Sign(snap.ID, issuedAt, nonce),
		ExpiresAt:   issuedAt + int64(p.qrConfig.FreshnessWindow.Seconds()),
	}, nil
}
