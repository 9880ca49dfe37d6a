package voucher

import (
	"errors"
	"time"
)

var ErrAlreadyUsed = errors.New("voucher already used")

// Voucher grants one user the right to redeem one promotion once. The
// (userID, promotionID) pair is unique; the claim flow relies on the
// persistence layer enforcing that.
type Voucher struct {
	id          int64
	userID      int64
	promotionID int64
	claimedAt   time.Time
	usedAt      *time.Time
}

func NewVoucher(userID, promotionID int64, claimedAt time.Time) *Voucher {
	return &Voucher{
		userID:      userID,
		promotionID: promotionID,
		claimedAt:   claimedAt,
	}
}

func ReconstructVoucher(id, userID, promotionID int64, claimedAt time.Time, usedAt *time.Time) *Voucher {
	return &Voucher{
		id:          id,
		userID:      userID,
		promotionID: promotionID,
		claimedAt:   claimedAt,
		usedAt:      usedAt,
	}
}

func (v *Voucher) IsUsed() bool {
	return v.usedAt != nil
}

// MarkUsed belongs to the redemption flow; the claim flow never calls it.
func (v *Voucher) MarkUsed(t time.Time) error {
	if v.usedAt != nil {
		return ErrAlreadyUsed
	}
	v.usedAt = &t
	return nil
}

func (v *Voucher) ID() int64            { return v.id }
func (v *Voucher) UserID() int64        { return v.userID }
func (v *Voucher) PromotionID() int64   { return v.promotionID }
func (v *Voucher) ClaimedAt() time.Time { return v.claimedAt }
func (v *Voucher) UsedAt() *time.Time   { return v.usedAt }
