package response

import (
	"time"

	"github.com/jinzhu/copier"

	"clinicore/internal/usecase/commands"
	"clinicore/internal/usecase/queries"
)

type PromotionResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	ValidFrom   *time.Time `json:"valid_from,omitempty"`
	ValidTo     *time.Time `json:"valid_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type VoucherResponse struct {
	ID             int64      `json:"id"`
	PromotionID    int64      `json:"promotion_id"`
	PromotionTitle string     `json:"promotion_title"`
	ClaimedAt      time.Time  `json:"claimed_at"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
}

// IssuedCodeResponse is rendered as a QR code by the display client.
type IssuedCodeResponse struct {
	PromotionID int64  `json:"promotion_id"`
	IssuedAt    int64  `json:"issued_at"`
	Nonce       int64  `json:"nonce"`
	Signature   string `json:"signature"`
	ExpiresAt   int64  `json:"expires_at"`
}

type ClaimResponse struct {
	VoucherID   int64     `json:"voucher_id"`
	PromotionID int64     `json:"promotion_id"`
	Granted     bool      `json:"granted"`
	Message     string    `json:"message"`
	ClaimedAt   time.Time `json:"claimed_at"`
}

func FromPromotionView(view *queries.PromotionView) *PromotionResponse {
	var resp PromotionResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromVoucherView(view *queries.VoucherView) *VoucherResponse {
	var resp VoucherResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromIssuedCode(code *commands.IssuedCode) *IssuedCodeResponse {
	var resp IssuedCodeResponse
	_ = copier.Copy(&resp, code)
	return &resp
}

func FromClaimResult(result *commands.ClaimResult) *ClaimResponse {
	var resp ClaimResponse
	_ = copier.Copy(&resp, result)
	return &resp
}
