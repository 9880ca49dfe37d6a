package request

import (
	"time"

	"clinicore/internal/domain/promotion"
)

type CreatePromotionRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	ValidFrom   *time.Time `json:"valid_from,omitempty"`
	ValidTo     *time.Time `json:"valid_to,omitempty"`
}

func (r *CreatePromotionRequest) ToDomain() (*promotion.Promotion, error) {
	return promotion.NewPromotion(r.Title, r.Description, r.ValidFrom, r.ValidTo)
}

type SetPromotionActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ClaimVoucherRequest is the decoded content of a scanned promotion QR code.
type ClaimVoucherRequest struct {
	PromotionID int64  `json:"promotion_id" binding:"required"`
	Signature   string `json:"signature" binding:"required"`
	IssuedAt    int64  `json:"issued_at" binding:"required"`
	Nonce       int64  `json:"nonce" binding:"required"`
}

func (r *ClaimVoucherRequest) ToDomain() (promotion.ClaimPayload, error) {
	return promotion.NewClaimPayload(r.PromotionID, r.Signature, r.IssuedAt, r.Nonce)
}
