package qrsign

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Signer authenticates promotion QR payloads. The same secret is shared with
// the display-generation side, so a scanned payload can only originate from a
// holder of the secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign computes an HMAC-SHA256 tag over (promotionID, issuedAt, nonce).
// issuedAt is a unix timestamp in seconds.
func (s *Signer) Sign(promotionID, issuedAt, nonce int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d.%d.%d", promotionID, issuedAt, nonce)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the expected tag and compares in constant time.
func (s *Signer) Verify(promotionID, issuedAt, nonce int64, signature string) bool {
	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d.%d.%d", promotionID, issuedAt, nonce)
	return hmac.Equal(mac.Sum(nil), supplied)
}

// NewNonce returns a random non-negative nonce for freshly issued codes.
// Rotating displays issue overlapping codes for the same promotion; the nonce
// keeps their signatures distinct.
func NewNonce() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF), nil
}
