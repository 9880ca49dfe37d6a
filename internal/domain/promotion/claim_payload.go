package promotion

import (
	"errors"
	"time"
)

var (
	ErrMalformedPayload = errors.New("malformed claim payload")
	ErrPayloadExpired   = errors.New("claim payload outside freshness window")
)

// ClaimPayload is the scanned content of a promotion QR code. It is ephemeral:
// validated, never persisted.
type ClaimPayload struct {
	promotionID int64
	signature   string
	issuedAt    int64 // unix seconds
	nonce       int64
}

func NewClaimPayload(promotionID int64, signature string, issuedAt, nonce int64) (ClaimPayload, error) {
	if promotionID <= 0 || issuedAt <= 0 || nonce <= 0 {
		return ClaimPayload{}, ErrMalformedPayload
	}
	if signature == "" {
		return ClaimPayload{}, ErrMalformedPayload
	}

	return ClaimPayload{
		promotionID: promotionID,
		signature:   signature,
		issuedAt:    issuedAt,
		nonce:       nonce,
	}, nil
}

// ValidateFreshness bounds the replay window of a captured code. Both window
// bounds are inclusive: a payload aged exactly `window` is still accepted.
// Codes issued in the future beyond `skew` are rejected as well.
func (p ClaimPayload) ValidateFreshness(now time.Time, window, skew time.Duration) error {
	age := now.Unix() - p.issuedAt

	if age < 0 && -age > int64(skew.Seconds()) {
		return ErrPayloadExpired
	}
	if age > int64(window.Seconds()) {
		return ErrPayloadExpired
	}
	return nil
}

func (p ClaimPayload) PromotionID() int64 { return p.promotionID }
func (p ClaimPayload) Signature() string  { return p.signature }
func (p ClaimPayload) IssuedAt() int64    { return p.issuedAt }
func (p ClaimPayload) Nonce() int64       { return p.nonce }
