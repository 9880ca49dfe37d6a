//go:build unit || e2e

package builder

import (
	"time"

	reqdto "clinicore/internal/handler/dto/request"
	"clinicore/internal/usecase/commands"
	"clinicore/internal/usecase/queries"
)

type PromotionBuilder struct {
	ID          int64
	Title       string
	Description string
	IsActive    bool
	ValidFrom   *time.Time
	ValidTo     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewPromotionBuilder() *PromotionBuilder {
	now := time.Now()
	from := now.Add(-24 * time.Hour)
	to := now.Add(30 * 24 * time.Hour)
	return &PromotionBuilder{
		ID:          1,
		Title:       "Annual checkup discount",
		Description: "20% off a full health checkup",
		IsActive:    true,
		ValidFrom:   &from,
		ValidTo:     &to,
		CreatedAt:   from,
		UpdatedAt:   from,
	}
}

func (b *PromotionBuilder) WithID(id int64) *PromotionBuilder {
	b.ID = id
	return b
}

func (b *PromotionBuilder) AsInactive() *PromotionBuilder {
	b.IsActive = false
	return b
}

func (b *PromotionBuilder) BuildCreateRequestDTO() reqdto.CreatePromotionRequest {
	return reqdto.CreatePromotionRequest{
		Title:       b.Title,
		Description: b.Description,
		ValidFrom:   b.ValidFrom,
		ValidTo:     b.ValidTo,
	}
}

func (b *PromotionBuilder) BuildView() *queries.PromotionView {
	return &queries.PromotionView{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		IsActive:    b.IsActive,
		ValidFrom:   b.ValidFrom,
		ValidTo:     b.ValidTo,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (b *PromotionBuilder) BuildSnapshot() *commands.PromotionSnapshot {
	return &commands.PromotionSnapshot{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		IsActive:    b.IsActive,
		ValidFrom:   b.ValidFrom,
		ValidTo:     b.ValidTo,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type ClaimBuilder struct {
	PromotionID int64
	Signature   string
	IssuedAt    int64
	Nonce       int64
}

func NewClaimBuilder() *ClaimBuilder {
	return &ClaimBuilder{
		PromotionID: 1,
		Signature:   "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		IssuedAt:    time.Now().Unix(),
		Nonce:       424242,
	}
}

func (b *ClaimBuilder) BuildRequestDTO() reqdto.ClaimVoucherRequest {
	return reqdto.ClaimVoucherRequest{
		PromotionID: b.PromotionID,
		Signature:   b.Signature,
		IssuedAt:    b.IssuedAt,
		Nonce:       b.Nonce,
	}
}
